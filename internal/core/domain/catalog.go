package domain

// CatalogItem holds the sellable stock for one product. Stock never goes below
// zero; decrements are clamped. Only the reconciliation consumer mutates it.
type CatalogItem struct {
	ID      string
	Name    string
	Stock   int
	Version int // optimistic locking
}
