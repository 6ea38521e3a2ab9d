package entity

import (
	"github.com/google/uuid"
)

type WishlistItem struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	ProductID uuid.UUID `db:"product_id"`

	Product *Product `db:"-"`
}
