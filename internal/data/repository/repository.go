package repository

import (
	"appliance-store/pkg/cache"
	"appliance-store/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	OTP       OTPRepository
	Product   ProductRepository
	Category  CategoryRepository
	Cart      CartRepository
	GuestCart GuestCartRepository
	Wishlist  WishlistRepository
	Address   AddressRepository
	Order     OrderRepository
}

// NewRepository wires the Postgres-backed repositories plus the ones that live
// in the ephemeral cache store (OTP state, guest carts).
func NewRepository(db database.PgxIface, store cache.Store, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		OTP:       NewOTPRepository(store, log),
		Product:   NewProductRepository(db, log),
		Category:  NewCategoryRepository(db, log),
		Cart:      NewCartRepository(db, log),
		GuestCart: NewGuestCartRepository(store, log),
		Wishlist:  NewWishlistRepository(db, log),
		Address:   NewAddressRepository(db, log),
		Order:     NewOrderRepository(db, log),
	}
}
