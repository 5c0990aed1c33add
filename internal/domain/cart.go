package domain

// LineItem is one cart line. Display fields and the unit price are
// denormalized from the product variant at add time and never re-synced.
//
// (ProductID, Size) is the line identity: the cart holds at most one
// line per pair.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Size      string  `json:"size"`
	SKU       string  `json:"sku,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	// MaxStock caps the quantity when > 0. Zero means the cart itself
	// does not bound the quantity.
	MaxStock int `json:"maxStock,omitempty"`
}

// Is reports whether the line matches the given identity pair.
func (li LineItem) Is(productID, size string) bool {
	return li.ProductID == productID && li.Size == size
}
