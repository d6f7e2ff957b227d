package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjas3242/truck-bot/internal/inventory"
)

func fixedClock() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func testIndex(t *testing.T) *inventory.Index {
	t.Helper()
	idx, err := inventory.Load("../inventory/testdata", nil)
	require.NoError(t, err)
	return idx
}

func testScorer(t *testing.T) *Scorer {
	return NewScorer(testIndex(t), nil, WithClock(fixedClock))
}

func TestSearchContactDominance(t *testing.T) {
	results := testScorer(t).Search("what's your phone number", 8)
	require.NotEmpty(t, results)
	assert.Equal(t, KindContact, results[0].Kind)
	assert.Equal(t, contactScore, results[0].Score)
	for _, r := range results[1:] {
		assert.Less(t, r.Score, results[0].Score)
	}
}

func TestSearchUKDealer(t *testing.T) {
	results := testScorer(t).Search("do you have a dealer in the UK", 8)
	require.NotEmpty(t, results)

	var found bool
	for _, r := range results {
		if r.Kind == KindDealer && r.Title == "UK Dealer Information" {
			found = true
			assert.Contains(t, r.Content, "STX-UK")
		}
	}
	assert.True(t, found, "UK dealer block should be returned")
}

func TestSearchConditionBonus(t *testing.T) {
	// "used 2 horse" must rank the used 2-horse Ford above any new truck
	// with the same token overlap.
	results := testScorer(t).Search("used 2 horse truck", 8)
	require.NotEmpty(t, results)
	assert.Equal(t, "STX 2 HORSE FORD TRANSIT", results[0].Title)
	assert.Equal(t, inventory.ConditionUsed, results[0].Record.Condition)
}

func TestSearchAgeFilter(t *testing.T) {
	// Fixed clock: 2025. "5 years old" excludes the 2018 Volvo (7 years).
	results := testScorer(t).Search("used trucks 5 years old", 8)
	for _, r := range results {
		if r.Kind != KindTruck || r.Record.Year == 0 {
			continue
		}
		assert.LessOrEqual(t, 2025-r.Record.Year, 5, "truck %s too old", r.Title)
	}
}

func TestSearchRecentUsedFilter(t *testing.T) {
	// "second hand ... year" without an explicit N keeps only Used trucks
	// from the two most recent model years (2024-2025 at the fixed clock).
	results := testScorer(t).Search("second hand trucks from recent years", 8)
	for _, r := range results {
		if r.Kind != KindTruck {
			continue
		}
		assert.Equal(t, inventory.ConditionUsed, r.Record.Condition)
		assert.GreaterOrEqual(t, r.Record.Year, 2024)
	}
}

func TestSearchFallbackGuarantee(t *testing.T) {
	// No token overlaps any title, but the query clearly wants trucks.
	results := testScorer(t).Search("show me trucks", 8)
	require.NotEmpty(t, results)

	truckCount := 0
	for _, r := range results {
		if r.Kind == KindTruck {
			truckCount++
			assert.GreaterOrEqual(t, r.Score, fallbackScore)
		}
	}
	assert.NotZero(t, truckCount, "truck-intent query must return trucks")
}

func TestSearchIdempotent(t *testing.T) {
	s := testScorer(t)
	first := s.Search("2 horse truck", 8)
	second := s.Search("2 horse truck", 8)
	assert.Equal(t, first, second)
}

func TestSearchStableDescendingOrder(t *testing.T) {
	results := testScorer(t).Search("horse truck", 8)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchTruncation(t *testing.T) {
	results := testScorer(t).Search("horse truck", 2)
	assert.LessOrEqual(t, len(results), 2)
}

func TestSearchSnippetPass(t *testing.T) {
	// Neither a truck token, a truck-intent keyword, nor a contact keyword:
	// falls through to the free-text snippet pass.
	results := testScorer(t).Search("founded brands delivered", 8)
	require.NotEmpty(t, results)
	assert.Equal(t, KindSnippet, results[0].Kind)
}

func TestSearchZeroMax(t *testing.T) {
	assert.Nil(t, testScorer(t).Search("trucks", 0))
}
