package domain

// --- Cart Entities ---

// CartItem is a product with a quantity of at least one. A cart holds at
// most one item per product id.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) SubTotal() Price {
	return i.Product.EffectivePrice() * Price(i.Quantity)
}

// Cart is the server snapshot of a cart addressed by its cart code.
type Cart struct {
	ID        ID         `json:"id"`
	CartCode  string     `json:"cart_code"`
	Items     []CartItem `json:"cartitems"`
	CartTotal Price      `json:"cart_total"`
}

// CartTotal sums effective price times quantity.
func CartTotal(items []CartItem) Price {
	var total Price
	for _, item := range items {
		total += item.SubTotal()
	}
	return total
}

// CartCount is the number of units across all items.
func CartCount(items []CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// --- Request Payloads ---

type CartAddRequest struct {
	CartCode  string `json:"cart_code"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartUpdateRequest struct {
	CartCode  string `json:"cart_code"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartRemoveRequest struct {
	CartCode  string `json:"cart_code"`
	ProductID int    `json:"product_id"`
}

type CartClearRequest struct {
	CartCode string `json:"cart_code"`
}
