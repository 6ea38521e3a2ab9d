package adaptor

import (
	"net/http"
	"time"

	"appliance-store/internal/dto/request"
	"appliance-store/internal/usecase"
	"appliance-store/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service  usecase.AuthService
	cart     usecase.CartService
	loginTTL time.Duration
	guestTTL time.Duration
	log      *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, cart usecase.CartService, loginTTL, guestTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		cart:     cart,
		loginTTL: loginTTL,
		guestTTL: guestTTL,
		log:      log,
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Please login.", user)
}

// Login handles POST /api/login (password stage)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Login session links this browser to the pending OTP challenge
	loginSession := utils.CookieValue(r, utils.LoginSessionCookie)
	if loginSession == "" {
		loginSession = utils.GenerateUUID().String()
	}

	challenge, err := h.service.SubmitCredentials(r.Context(), loginSession, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.SetCookie(w, utils.LoginSessionCookie, loginSession, h.loginTTL)
	utils.ResponseSuccess(w, "OTP sent to your email", challenge)
}

// VerifyOTP handles POST /api/login/verify (OTP stage)
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	loginSession := utils.CookieValue(r, utils.LoginSessionCookie)

	auth, err := h.service.VerifyOTP(r.Context(), loginSession, &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "verify OTP")
		return
	}

	utils.ClearCookie(w, utils.LoginSessionCookie)

	// Guest cart follows the user into their account
	if guestID := utils.CookieValue(r, utils.GuestCartCookie); guestID != "" {
		userID, parseErr := utils.ParseUUID(auth.UserID)
		if parseErr == nil {
			if err := h.cart.MergeGuestCart(r.Context(), guestID, userID); err != nil {
				h.log.Warn("Failed to merge guest cart", zap.Error(err), zap.String("user_id", auth.UserID))
				refreshCookie(w, utils.GuestCartCookie, guestID, h.guestTTL)
			} else {
				utils.ClearCookie(w, utils.GuestCartCookie)
			}
		}
	}

	utils.ResponseSuccess(w, "Login successful", auth)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}
