package response

import (
	"time"

	"appliance-store/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID              string          `json:"id"`
	CategoryID      string          `json:"category_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"image_url"`
	Price           decimal.Decimal `json:"price"`
	Rating          int             `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountPercent int             `json:"discount_percent"`
	CreatedAt       time.Time       `json:"created_at"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func ProductToResponse(product *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID.String(),
		CategoryID:  product.CategoryID.String(),
		Name:        product.Name,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Price:       product.Price,
		Rating:      product.Rating,
		CreatedAt:   product.CreatedAt,
	}
}
