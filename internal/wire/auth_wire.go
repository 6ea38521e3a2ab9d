package wire

import (
	"appliance-store/internal/adaptor"
	"appliance-store/internal/data/repository"
	"appliance-store/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAuth: registration and the two-step login are public, logout needs a session
func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Post("/api/register", authHandler.Register)

	r.Route("/api/login", func(r chi.Router) {
		r.Post("/", authHandler.Login)           // credentials -> OTP mail + pending marker
		r.Post("/verify", authHandler.VerifyOTP) // OTP -> session cookie
	})

	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/logout", authHandler.Logout)
}
