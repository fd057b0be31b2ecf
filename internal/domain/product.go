package domain

import (
	"net/url"
	"strconv"
)

type Product struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image"`
	Price        Price  `json:"price"`
	Discount     Price  `json:"discount"` // percentage
	SalePrice    Price  `json:"sale_price"`
	Rating       Price  `json:"rating"`
	ReviewsCount int    `json:"reviews_count"`
}

// EffectivePrice is the price a shopper pays for one unit.
func (p Product) EffectivePrice() Price {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

type ProductDetail struct {
	Product
	Stock    int       `json:"stock"`
	Featured bool      `json:"featured"`
	Category *Category `json:"category"`
}

type Category struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Image    string    `json:"image"`
	Products []Product `json:"products,omitempty"`
}

// Product ordering values accepted by the products endpoint.
const (
	OrderingPriceAsc   = "price"
	OrderingPriceDesc  = "-price"
	OrderingNewest     = "-created_at"
	OrderingRatingDesc = "-rating"
)

type ProductFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Ordering string
	Page     int
}

// Query encodes the filter as list-endpoint query parameters, skipping
// zero values.
func (f ProductFilter) Query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}
