package search

import "strings"

// The keyword tables below encode ranking policy as data. They mirror the
// product rules: company questions outrank inventory noise, and queries that
// plainly want trucks should never come back empty.

// usedSynonyms are normalized into the match set when any of them appears in
// a query. The literal query text shown back to the user is never mutated.
var usedSynonyms = []string{"used", "2nd hand", "second hand", "second-hand", "pre-owned"}

// newSynonyms detect an explicit new-truck intent.
var newSynonyms = []string{"brand new", "latest", " new"}

// contactKeywords route a query to company/dealer content with a dominant
// score. Matched against whole tokens: "uk" must not fire inside "truck".
var contactKeywords = map[string]struct{}{
	"contact": {}, "phone": {}, "email": {}, "address": {}, "office": {},
	"location": {}, "where": {}, "dealer": {}, "dealers": {}, "uk": {},
	"germany": {}, "france": {}, "netherlands": {}, "belgium": {},
	"manufacture": {}, "built": {}, "experience": {}, "employees": {},
	"company": {}, "about": {}, "history": {},
}

// truckIntentKeywords mark a query as wanting truck listings even when no
// token overlaps any title.
var truckIntentKeywords = []string{"truck", "suggest", "list", "available", "horsebox"}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// hasToken reports whether any query token is in the keyword set. Trailing
// punctuation on tokens is ignored.
func hasToken(tokens []string, keywords map[string]struct{}) bool {
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?;:'\"")
		if _, ok := keywords[tok]; ok {
			return true
		}
	}
	return false
}
