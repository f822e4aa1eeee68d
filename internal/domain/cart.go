package domain

// Cart is the authoritative server-side cart as last fetched from the
// commerce API. The storefront never mutates it locally; every change is a
// remote write followed by a refetch.
type Cart struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	NumItems   int        `json:"num_items"`
}

// CartItem is a single line in the cart. LineID is the upstream identifier of
// the cart line itself; ProductID identifies the catalog product. Quantity
// updates and removals address the line, not the product.
type CartItem struct {
	LineID    string  `json:"line_id"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	ImageURL  string  `json:"image_url,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	Category  string  `json:"category,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// FindItem returns the cart item whose line ID matches, or nil.
func (c *Cart) FindItem(lineID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].LineID == lineID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItemByProduct returns the cart item holding the given product, or nil.
func (c *Cart) FindItemByProduct(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
