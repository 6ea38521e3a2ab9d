package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	Base
	CategoryID  uuid.UUID       `db:"category_id"`
	Name        string          `db:"name"`
	Price       decimal.Decimal `db:"price"`
	ImageURL    string          `db:"image_url"`
	Description string          `db:"description"`
	Rating      int             `db:"rating"`
}

// ProductFilter drives the catalog listing query. Zero values mean "no filter".
type ProductFilter struct {
	Query      string
	MinPrice   *int
	MaxPrice   *int
	MinRating  int
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}
