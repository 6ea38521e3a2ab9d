package adaptor

import (
	"net/http"
	"time"

	"appliance-store/internal/dto/request"
	"appliance-store/internal/usecase"
	"appliance-store/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	service  usecase.CartService
	guestTTL time.Duration
	log      *zap.Logger
}

func NewCartHandler(service usecase.CartService, guestTTL time.Duration, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		guestTTL: guestTTL,
		log:      log,
	}
}

// owner resolves who the cart belongs to: the session user when
// OptionalSession attached one, the guest cookie otherwise.
func (h *CartHandler) owner(r *http.Request) usecase.CartOwner {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return usecase.CartOwner{UserID: &userID}
	}
	return usecase.CartOwner{GuestID: utils.CookieValue(r, utils.GuestCartCookie)}
}

// AddItem handles POST /api/cart/items/{productID}
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	guestID, err := h.service.AddItem(r.Context(), h.owner(r), chi.URLParam(r, "productID"))
	if err != nil {
		handleServiceError(w, h.log, err, "add to cart")
		return
	}

	refreshCookie(w, utils.GuestCartCookie, guestID, h.guestTTL)
	utils.ResponseCreated(w, "Added to cart", nil)
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), h.owner(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "Cart retrieved successfully", cart)
}

// UpdateItem handles POST /api/cart/update
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CartUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.UpdateItem(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "update cart")
		return
	}

	utils.ResponseSuccess(w, "Cart updated", nil)
}

// WishlistAction handles POST /api/wishlist/action
func (h *CartHandler) WishlistAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.WishlistActionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.WishlistAction(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "wishlist action")
		return
	}

	utils.ResponseSuccess(w, "Wishlist updated", nil)
}
