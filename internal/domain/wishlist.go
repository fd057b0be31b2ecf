package domain

// WishlistEntry references a product; a user has at most one entry per
// product id.
type WishlistEntry struct {
	Product Product `json:"product"`
}

type Wishlist struct {
	Items []WishlistEntry `json:"items"`
}

// Products flattens the wishlist to its product references.
func (w Wishlist) Products() []Product {
	out := make([]Product, 0, len(w.Items))
	for _, e := range w.Items {
		out = append(out, e.Product)
	}
	return out
}

type WishlistRequest struct {
	ProductID int `json:"product_id"`
}
