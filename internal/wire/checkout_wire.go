package wire

import (
	"appliance-store/internal/adaptor"
	"appliance-store/internal/data/repository"
	"appliance-store/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCheckout(
	r chi.Router,
	checkoutHandler *adaptor.CheckoutHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.With(middleware.AuthSession(repo.Session, log)).Group(func(r chi.Router) {
		r.Get("/api/checkout", checkoutHandler.Summary)
		r.Post("/api/checkout", checkoutHandler.PlaceOrder)
		r.Post("/api/payments/verify", checkoutHandler.VerifyPayment)
	})
}
