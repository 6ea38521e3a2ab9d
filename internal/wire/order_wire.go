package wire

import (
	"appliance-store/internal/adaptor"
	"appliance-store/internal/data/repository"
	"appliance-store/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.With(middleware.AuthSession(repo.Session, log)).Get("/api/orders", orderHandler.ListOrders)

	// ==================== ADMIN ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, log),
		middleware.Admin(repo.User, log),
	).Put("/api/admin/orders/{id}/status", orderHandler.UpdateStatus)
}
