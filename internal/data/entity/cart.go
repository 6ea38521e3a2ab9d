package entity

import (
	"github.com/google/uuid"
)

type Cart struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
}

type CartItem struct {
	BaseSimple
	CartID    uuid.UUID `db:"cart_id"`
	ProductID uuid.UUID `db:"product_id"`
	Quantity  int       `db:"quantity"`

	// Populated by joins
	Product *Product `db:"-"`
}

// CartAction is an update applied to a single cart line
type CartAction string

const (
	CartActionIncrease     CartAction = "increase"
	CartActionDecrease     CartAction = "decrease"
	CartActionRemove       CartAction = "remove"
	CartActionSaveForLater CartAction = "save_for_later"
)

type WishlistAction string

const (
	WishlistActionRemove     WishlistAction = "remove"
	WishlistActionMoveToCart WishlistAction = "move_to_cart"
)
