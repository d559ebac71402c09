package models

// CartItem is one cart line. The merge key for adds is
// (Product.ID, Color, Size); two lines never share all three.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
}

// Cart is the full cart state with totals derived from the line items.
// Totals are recomputed on every mutation and never stored independently.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}
