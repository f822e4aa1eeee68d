package domain

// Wishlist is the server-side wishlist as last fetched from the commerce API.
// Unlike the cart, wishlist entries are addressed by product ID directly;
// there is no separate line identifier upstream.
type Wishlist struct {
	Count int       `json:"count"`
	Items []Product `json:"items"`
}

// Contains reports whether the wishlist holds the given product.
func (w *Wishlist) Contains(productID string) bool {
	for i := range w.Items {
		if w.Items[i].ID == productID {
			return true
		}
	}
	return false
}
