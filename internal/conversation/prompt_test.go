package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ninjas3242/truck-bot/internal/inventory"
	"github.com/ninjas3242/truck-bot/internal/language"
	"github.com/ninjas3242/truck-bot/internal/search"
)

func TestSystemPromptSegments(t *testing.T) {
	b := PromptBuilder{
		Company:       "Stephex Horse Trucks",
		SalesContacts: "Tom Kerkhofs +32 478 44 76 63",
		Showroom:      "Bolloostraat 70, 1790 Affligem, Belgium",
	}

	system := strings.Join(b.System(language.Spanish, "### Truck\nDetails", true), "\n")
	assert.Contains(t, system, "Stephex Horse Trucks")
	assert.Contains(t, system, "KNOWLEDGE:")
	assert.Contains(t, system, "BOOKING_COMPLETE:")
	assert.Contains(t, system, "Responde en español")

	general := strings.Join(b.System(language.English, "", false), "\n")
	assert.NotContains(t, general, "BOOKING_COMPLETE:")
	assert.NotContains(t, general, "KNOWLEDGE:")
}

func TestRenderKnowledge(t *testing.T) {
	results := []search.Result{
		{
			Kind: search.KindTruck,
			Record: inventory.Record{
				Title:     "STX 2 HORSE FORD TRANSIT",
				Condition: inventory.ConditionUsed,
				Capacity:  "2 horses",
				Year:      2024,
				Mileage:   "91,000 km",
				Features:  []string{"Pop-out", "Leather seats"},
				ImageURL:  "https://example.com/ford.jpg",
			},
		},
		{Kind: search.KindContact, Title: "Contact Information", Content: "Phone: +32 52 35 91 31"},
	}

	out := RenderKnowledge(results)
	assert.Contains(t, out, "### STX 2 HORSE FORD TRANSIT")
	assert.Contains(t, out, "Year: 2024")
	assert.Contains(t, out, "Mileage: 91,000 km")
	assert.Contains(t, out, "Features: Pop-out, Leather seats")
	assert.Contains(t, out, "Image: https://example.com/ford.jpg")
	assert.Contains(t, out, "### Contact Information")
}

func TestPostprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"sentinel stripped",
			"Booked!\nBOOKING_COMPLETE: 2-horse|tomorrow 2pm|a@b.com\nSee you.",
			"Booked!\nSee you.",
		},
		{
			"bold unwrapped",
			"The **STX 2 HORSE** is available.",
			"The STX 2 HORSE is available.",
		},
		{
			"literal newline markers",
			`First line.\nSecond line.`,
			"First line.\nSecond line.",
		},
		{
			"image marker becomes inline reference",
			"Have a look: Image: https://example.com/ford.jpg",
			"Have a look: ![truck photo](https://example.com/ford.jpg)",
		},
		{
			"plain text untouched",
			"Nothing to clean here.",
			"Nothing to clean here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Postprocess(tt.in))
		})
	}
}
