package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ninjas3242/truck-bot/internal/inventory"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

const (
	// contactScore outranks any truck hit for company/contact queries.
	contactScore = 100
	// dealerScore ranks dealer-network blocks for contact-type queries.
	dealerScore = 8
	// dealerDirectScore applies when a query names a dealer country we can
	// answer precisely.
	dealerDirectScore = 10
	// conditionBonus favors records matching a detected new/used intent over
	// same-overlap records of the other condition.
	conditionBonus = 3
	// fallbackScore is the floor for trucks returned only because the query
	// clearly wanted trucks.
	fallbackScore = 1
)

var ageRequirementRE = regexp.MustCompile(`(\d+)\s*years?\s*old`)

// Scorer ranks inventory records and knowledge snippets against free-text
// queries. It holds an immutable index snapshot, so a Scorer is safe for
// concurrent use.
type Scorer struct {
	index        *inventory.Index
	recencyYears int
	now          func() time.Time
	logger       *logging.Logger
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithRecencyYears sets how many recent model years the coarse "recent used"
// filter keeps. The exact cutoff is a product approximation, hence
// configurable.
func WithRecencyYears(years int) Option {
	return func(s *Scorer) {
		if years > 0 {
			s.recencyYears = years
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// NewScorer builds a Scorer over an index snapshot.
func NewScorer(index *inventory.Index, logger *logging.Logger, opts ...Option) *Scorer {
	if index == nil {
		panic("search: index cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Scorer{
		index:        index,
		recencyYears: 2,
		now:          time.Now,
		logger:       logger.WithComponent("search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns up to maxResults results ordered by score descending.
// Ties keep discovery order. Searching twice over the same snapshot yields
// identical results.
func (s *Scorer) Search(query string, maxResults int) []Result {
	if maxResults <= 0 {
		return nil
	}

	normalized := normalizeQuery(query)
	tokens := strings.Fields(normalized)
	currentYear := s.now().Year()

	var results []Result

	if hasToken(tokens, contactKeywords) {
		results = append(results, s.dealerResults(normalized, tokens)...)
		if contact := s.index.ContactText(); contact != "" {
			results = append(results, Result{
				Score:   contactScore,
				Kind:    KindContact,
				Title:   "Company Information",
				Content: contact,
			})
		}
	} else if contact := s.index.ContactText(); contact != "" {
		// Regular pass: contact block competes on token overlap only.
		if score := overlapScore(tokens, strings.ToLower(contact)); score > 0 {
			results = append(results, Result{
				Score:   score,
				Kind:    KindContact,
				Title:   "Contact Information",
				Content: contact,
			})
		}
	}

	trucks := s.truckResults(normalized, tokens, currentYear)
	results = append(results, trucks...)

	// Show-something guarantee: a query that plainly wants trucks never
	// returns an empty truck list while inventory exists.
	if len(trucks) == 0 && containsAny(normalized, truckIntentKeywords) {
		for _, rec := range s.index.AllTrucks() {
			results = append(results, truckResult(rec, fallbackScore))
		}
	}

	// Secondary best-effort pass over free-text snippets.
	if len(results) == 0 {
		for _, snippet := range s.index.Snippets() {
			if score := overlapScore(tokens, strings.ToLower(snippet)); score > 0 {
				results = append(results, Result{
					Score:   score,
					Kind:    KindSnippet,
					Title:   "Knowledge Base",
					Content: snippet,
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// truckResults scores every listing against the query, applying the age and
// condition filters.
func (s *Scorer) truckResults(normalized string, tokens []string, currentYear int) []Result {
	detected := detectCondition(normalized)

	ageLimit := 0
	if m := ageRequirementRE.FindStringSubmatch(normalized); m != nil {
		ageLimit, _ = strconv.Atoi(m[1])
	}
	recentUsed := ageLimit == 0 &&
		(strings.Contains(normalized, "second") || strings.Contains(normalized, "used")) &&
		(strings.Contains(normalized, "year") || strings.Contains(normalized, "old"))

	truckIntent := containsAny(normalized, truckIntentKeywords)

	var results []Result
	for _, rec := range s.index.AllTrucks() {
		if ageLimit > 0 && rec.Year > 0 && currentYear-rec.Year > ageLimit {
			continue
		}
		if recentUsed {
			if rec.Condition != inventory.ConditionUsed {
				continue
			}
			if rec.Year == 0 || currentYear-rec.Year >= s.recencyYears {
				continue
			}
		}

		haystack := strings.ToLower(rec.Title + " " + rec.Capacity)
		score := overlapScore(tokens, haystack)
		if detected != "" && rec.Condition == detected {
			score += conditionBonus
		}

		if score == 0 && !truckIntent && len(tokens) > 0 {
			continue
		}
		if score == 0 {
			score = fallbackScore
		}
		results = append(results, truckResult(rec, score))
	}
	return results
}

// dealerResults matches dealer-network blocks for contact-type queries.
func (s *Scorer) dealerResults(normalized string, tokens []string) []Result {
	var results []Result
	for _, brand := range []string{"STX", "AKX", "KETTERER"} {
		dealer, ok := s.index.Dealer(brand)
		if !ok {
			continue
		}
		lower := strings.ToLower(dealer.Text)
		if hasToken(tokens, map[string]struct{}{"uk": {}}) && strings.Contains(dealer.Text, "STX-UK") {
			results = append(results, Result{
				Score:   dealerDirectScore,
				Kind:    KindDealer,
				Title:   "UK Dealer Information",
				Content: dealer.Text,
			})
			continue
		}
		if overlapScore(tokens, lower) > 0 {
			results = append(results, Result{
				Score:   dealerScore,
				Kind:    KindDealer,
				Title:   brand + " Dealer Network",
				Content: clip(dealer.Text, 500),
			})
		}
	}
	return results
}

// normalizeQuery lowercases the query and ORs synonym tokens into the match
// set. The caller's literal query is never changed.
func normalizeQuery(query string) string {
	normalized := strings.ToLower(query)
	if containsAny(normalized, usedSynonyms) {
		normalized += " used second-hand"
	}
	return normalized
}

// detectCondition infers whether the query asks for new or used stock.
func detectCondition(normalized string) inventory.Condition {
	if containsAny(normalized, usedSynonyms) {
		return inventory.ConditionUsed
	}
	if containsAny(normalized, newSynonyms) || strings.HasPrefix(normalized, "new ") {
		return inventory.ConditionNew
	}
	return ""
}

// overlapScore counts query tokens that appear in the haystack.
func overlapScore(tokens []string, haystack string) int {
	score := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			score++
		}
	}
	return score
}

func truckResult(rec inventory.Record, score int) Result {
	return Result{
		Score:  score,
		Kind:   KindTruck,
		Title:  rec.Title,
		Record: rec,
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
