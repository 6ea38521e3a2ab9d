package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"appliance-store/internal/dto/request"
	"appliance-store/internal/usecase"
	"appliance-store/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Order    *OrderHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, service.Cart, config.OTP.TTL(), config.Cart.GuestTTL(), log),
		User:     NewUserHandler(service.User, log),
		Catalog:  NewCatalogHandler(service.Catalog, log),
		Cart:     NewCartHandler(service.Cart, config.Cart.GuestTTL(), log),
		Checkout: NewCheckoutHandler(service.Checkout, log),
		Order:    NewOrderHandler(service.Order, log),
	}
}

// decodeAndValidate reads a JSON body into req and runs the struct tags.
// It writes the 400 itself and reports false when the request is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

// handleServiceError maps service error kinds to HTTP responses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrSessionExpired):
		log.Warn(operation+" failed - login session expired", zap.Error(err))
		utils.ResponseUnauthorized(w, "Session expired. Please login again.")

	case errors.Is(err, usecase.ErrInvalidOrExpiredOTP):
		log.Warn(operation+" failed - invalid OTP", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid or expired OTP", nil)

	case errors.Is(err, usecase.ErrOTPThrottled):
		log.Warn(operation+" failed - throttled", zap.Error(err))
		utils.ResponseTooManyRequests(w, "OTP already sent. Try again later.")

	case errors.Is(err, usecase.ErrAccountInactive):
		log.Warn(operation+" failed - account deactivated", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrEmptyCart):
		utils.ResponseBadRequest(w, "Your cart is empty", nil)

	case errors.Is(err, usecase.ErrInvalidSignature):
		log.Warn(operation+" failed - bad payment signature", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid payment signature", nil)

	case errors.Is(err, usecase.ErrPaymentGateway):
		log.Error(operation+" failed - payment gateway", zap.Error(err))
		utils.ResponseBadGateway(w, "Payment gateway unavailable. Please try again.")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func clientInfo(r *http.Request) request.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return request.ClientInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}

// refreshCookie re-issues cookie name so its lifetime restarts at ttl
func refreshCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	if value != "" {
		utils.SetCookie(w, name, value, ttl)
	}
}
