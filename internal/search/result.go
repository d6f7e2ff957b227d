package search

import "github.com/ninjas3242/truck-bot/internal/inventory"

// Kind identifies what a search result carries.
type Kind string

const (
	KindTruck   Kind = "truck"
	KindDealer  Kind = "dealer"
	KindContact Kind = "contact"
	KindSnippet Kind = "snippet"
)

// Result is one ranked knowledge-base hit. Truck results carry the full
// listing; text results carry a title and content block.
type Result struct {
	Score   int
	Kind    Kind
	Title   string
	Content string
	Record  inventory.Record // zero value unless Kind == KindTruck
}
