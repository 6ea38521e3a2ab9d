package wire

import (
	"appliance-store/internal/adaptor"
	"appliance-store/internal/data/repository"
	"appliance-store/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(
	r chi.Router,
	cartHandler *adaptor.CartHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== GUEST OR MEMBER ====================
	// Guests get a cookie-backed cart, members their stored one
	r.With(middleware.OptionalSession(repo.Session, log)).Group(func(r chi.Router) {
		r.Get("/api/cart", cartHandler.GetCart)
		r.Post("/api/cart/items/{productID}", cartHandler.AddItem)
	})

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, log)).Group(func(r chi.Router) {
		r.Post("/api/cart/update", cartHandler.UpdateItem)
		r.Post("/api/wishlist/action", cartHandler.WishlistAction)
	})
}
