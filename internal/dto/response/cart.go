package response

import (
	"github.com/shopspring/decimal"
)

type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type WishlistItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
}

type CartResponse struct {
	Items      []CartItemResponse     `json:"items"`
	Wishlist   []WishlistItemResponse `json:"wishlist"`
	Total      decimal.Decimal        `json:"total"`
	Discount   decimal.Decimal        `json:"discount"`
	FinalTotal decimal.Decimal        `json:"final_total"`
	GuestID    string                 `json:"-"`
}
