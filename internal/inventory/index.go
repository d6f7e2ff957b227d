package inventory

// Index is the immutable in-memory snapshot of the knowledge base. It is
// built once by Load and is safe to share across goroutines without locking
// because nothing mutates it afterwards.
type Index struct {
	trucks   []Record
	dealers  map[string]DealerRecord
	contact  string
	snippets []string
}

// AllTrucks returns every listing in discovery order.
func (x *Index) AllTrucks() []Record {
	return x.trucks
}

// Dealer returns the dealer-network block for a brand tag, if loaded.
func (x *Index) Dealer(brand string) (DealerRecord, bool) {
	d, ok := x.dealers[brand]
	return d, ok
}

// Dealers returns all loaded dealer blocks keyed by brand tag.
func (x *Index) Dealers() map[string]DealerRecord {
	return x.dealers
}

// ContactText returns the company contact block, or "" when that source
// failed to load.
func (x *Index) ContactText() string {
	return x.contact
}

// Snippets returns the free-text knowledge blocks used by the secondary
// best-effort search pass.
func (x *Index) Snippets() []string {
	return x.snippets
}
