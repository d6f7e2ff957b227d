package conversation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ninjas3242/truck-bot/internal/booking"
	"github.com/ninjas3242/truck-bot/internal/inventory"
	"github.com/ninjas3242/truck-bot/internal/language"
	"github.com/ninjas3242/truck-bot/internal/search"
)

// PromptBuilder assembles the system prompt from company facts, retrieved
// knowledge, and per-language instructions.
type PromptBuilder struct {
	Company       string
	SalesContacts string
	Showroom      string
}

// System returns the system prompt segments for one turn. bookingMode adds
// the appointment-gathering instructions and the completion sentinel
// contract.
func (b PromptBuilder) System(lang language.Tag, knowledge string, bookingMode bool) []string {
	persona := fmt.Sprintf(
		"You are the sales assistant for %s, a builder of luxury horse trucks. "+
			"Be warm and concise. Only state facts found in the knowledge section below; "+
			"if the answer is not there, say so and offer the sales team: %s. "+
			"Never invent prices, stock, or specifications.",
		b.Company, b.SalesContacts)

	segments := []string{persona}

	if strings.TrimSpace(knowledge) != "" {
		segments = append(segments, "KNOWLEDGE:\n"+knowledge)
	}

	if bookingMode {
		segments = append(segments, fmt.Sprintf(
			"The customer wants to visit the showroom at %s. Collect, one question at a time: "+
				"the truck type of interest, a date and time, and an email address. "+
				"Once you have all three, confirm the visit and append a final line in exactly this form:\n"+
				"%s <truck type>|<date and time>|<email>",
			b.Showroom, booking.CompletionMarker))
	}

	segments = append(segments, language.Instruction(lang))
	return segments
}

// RenderKnowledge flattens ranked search results into the prompt's knowledge
// section. Truck listings include the fields a buyer asks about; text hits
// pass through as titled blocks.
func RenderKnowledge(results []search.Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch r.Kind {
		case search.KindTruck:
			renderTruck(&sb, r.Record)
		default:
			sb.WriteString("### ")
			sb.WriteString(r.Title)
			sb.WriteString("\n")
			sb.WriteString(r.Content)
		}
	}
	return sb.String()
}

func renderTruck(sb *strings.Builder, rec inventory.Record) {
	fmt.Fprintf(sb, "### %s\n", rec.Title)
	fmt.Fprintf(sb, "Condition: %s\n", rec.Condition)
	if rec.Capacity != "" {
		fmt.Fprintf(sb, "Capacity: %s\n", rec.Capacity)
	}
	if rec.Year > 0 {
		fmt.Fprintf(sb, "Year: %d\n", rec.Year)
	}
	if rec.Mileage != "" {
		fmt.Fprintf(sb, "Mileage: %s\n", rec.Mileage)
	}
	if len(rec.Features) > 0 {
		fmt.Fprintf(sb, "Features: %s\n", strings.Join(rec.Features, ", "))
	}
	if rec.ImageURL != "" {
		fmt.Fprintf(sb, "Image: %s\n", rec.ImageURL)
	}
	if rec.DetailURL != "" {
		fmt.Fprintf(sb, "Details: %s\n", rec.DetailURL)
	}
}

var imageMarkerRE = regexp.MustCompile(`Image:\s*(\S+)`)

// Postprocess cleans model output for delivery: the completion sentinel is
// stripped, markdown bold markers are unwrapped, literal \n markers become
// real line breaks, and "Image: <url>" markers become inline image
// references. Anything it cannot improve passes through unchanged.
func Postprocess(text string) string {
	text = booking.StripSentinel(text)
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = imageMarkerRE.ReplaceAllString(text, "![truck photo]($1)")
	return strings.TrimSpace(text)
}
