package usecase

import (
	"context"
	"fmt"
	"sort"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/internal/dto/response"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartOwner is either a logged-in user or a guest identified by cookie
type CartOwner struct {
	UserID  *uuid.UUID
	GuestID string
}

func (o CartOwner) IsMember() bool { return o.UserID != nil }

type CartService interface {
	// AddItem adds one unit and returns the guest id in use (new one for a
	// first-time guest, empty for members).
	AddItem(ctx context.Context, owner CartOwner, productID string) (string, error)
	GetCart(ctx context.Context, owner CartOwner) (*response.CartResponse, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req *request.CartUpdateRequest) error
	WishlistAction(ctx context.Context, userID uuid.UUID, req *request.WishlistActionRequest) error
	MergeGuestCart(ctx context.Context, guestID string, userID uuid.UUID) error
}

type cartService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewCartService(repo *repository.Repository, config *utils.Config, log *zap.Logger) CartService {
	return &cartService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) findProduct(ctx context.Context, productID string) (*entity.Product, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("product id: %w", ErrValidation)
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product: %w", ErrNotFound)
	}
	return product, nil
}

func (s *cartService) AddItem(ctx context.Context, owner CartOwner, productID string) (string, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	if owner.IsMember() {
		cart, err := s.repo.Cart.GetOrCreate(ctx, *owner.UserID)
		if err != nil {
			return "", fmt.Errorf("get cart: %w", err)
		}
		if err := s.repo.Cart.AddItem(ctx, cart.ID, product.ID, 1); err != nil {
			return "", fmt.Errorf("add to cart: %w", err)
		}
		return "", nil
	}

	guestID := owner.GuestID
	if guestID == "" {
		guestID = utils.GenerateUUID().String()
	}

	items, err := s.repo.GuestCart.Get(ctx, guestID)
	if err != nil {
		return "", fmt.Errorf("get guest cart: %w", err)
	}
	items[product.ID]++

	if err := s.repo.GuestCart.Save(ctx, guestID, items, s.config.Cart.GuestTTL()); err != nil {
		return "", fmt.Errorf("save guest cart: %w", err)
	}

	return guestID, nil
}

func (s *cartService) GetCart(ctx context.Context, owner CartOwner) (*response.CartResponse, error) {
	if !owner.IsMember() {
		return s.guestCart(ctx, owner.GuestID)
	}

	cart, err := s.repo.Cart.GetOrCreate(ctx, *owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	items, err := s.repo.Cart.FindItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	wishlist, err := s.repo.Wishlist.FindByUserID(ctx, *owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	resp := &response.CartResponse{
		Items:    make([]response.CartItemResponse, 0, len(items)),
		Wishlist: make([]response.WishlistItemResponse, 0, len(wishlist)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, cartLine(item.Product, item.Quantity))
	}
	for _, item := range wishlist {
		resp.Wishlist = append(resp.Wishlist, response.WishlistItemResponse{
			ProductID: item.Product.ID.String(),
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			Price:     item.Product.Price,
		})
	}

	s.applyTotals(resp)
	return resp, nil
}

func (s *cartService) guestCart(ctx context.Context, guestID string) (*response.CartResponse, error) {
	resp := &response.CartResponse{
		Items:    []response.CartItemResponse{},
		Wishlist: []response.WishlistItemResponse{},
		GuestID:  guestID,
	}

	quantities, err := s.repo.GuestCart.Get(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("get guest cart: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}

	products, err := s.repo.Product.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get guest cart products: %w", err)
	}

	// Products deleted since they were added are skipped
	for id, qty := range quantities {
		if product, ok := products[id]; ok {
			resp.Items = append(resp.Items, cartLine(product, qty))
		}
	}
	sort.Slice(resp.Items, func(i, j int) bool { return resp.Items[i].Name < resp.Items[j].Name })

	s.applyTotals(resp)
	return resp, nil
}

func cartLine(product *entity.Product, qty int) response.CartItemResponse {
	return response.CartItemResponse{
		ProductID: product.ID.String(),
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Price:     product.Price,
		Quantity:  qty,
		Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// applyTotals: total = sum of subtotals, discount = total x percent, final = total - discount
func (s *cartService) applyTotals(resp *response.CartResponse) {
	total := decimal.Zero
	for _, item := range resp.Items {
		total = total.Add(item.Subtotal)
	}

	rate := decimal.NewFromInt(int64(s.config.Cart.DiscountPercent)).Div(decimal.NewFromInt(100))
	discount := total.Mul(rate).Round(2)

	resp.Total = total
	resp.Discount = discount
	resp.FinalTotal = total.Sub(discount)
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *request.CartUpdateRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return err
	}

	cart, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}

	item, err := s.repo.Cart.FindItem(ctx, cart.ID, product.ID)
	if err != nil {
		return fmt.Errorf("find cart item: %w", err)
	}
	if item == nil {
		// Nothing to update
		return nil
	}

	switch entity.CartAction(req.Action) {
	case entity.CartActionIncrease:
		err = s.repo.Cart.SetQuantity(ctx, cart.ID, product.ID, item.Quantity+1)
	case entity.CartActionDecrease:
		if item.Quantity > 1 {
			err = s.repo.Cart.SetQuantity(ctx, cart.ID, product.ID, item.Quantity-1)
		}
	case entity.CartActionRemove:
		err = s.repo.Cart.RemoveItem(ctx, cart.ID, product.ID)
	case entity.CartActionSaveForLater:
		if err = s.repo.Wishlist.Add(ctx, userID, product.ID); err == nil {
			err = s.repo.Cart.RemoveItem(ctx, cart.ID, product.ID)
		}
	}
	if err != nil {
		return fmt.Errorf("cart %s: %w", req.Action, err)
	}

	s.log.Debug("Cart updated",
		zap.String("user_id", userID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("action", req.Action),
	)
	return nil
}

func (s *cartService) WishlistAction(ctx context.Context, userID uuid.UUID, req *request.WishlistActionRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return err
	}

	if entity.WishlistAction(req.Action) == entity.WishlistActionMoveToCart {
		cart, err := s.repo.Cart.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("get cart: %w", err)
		}

		existing, err := s.repo.Cart.FindItem(ctx, cart.ID, product.ID)
		if err != nil {
			return fmt.Errorf("find cart item: %w", err)
		}
		if existing == nil {
			if err := s.repo.Cart.AddItem(ctx, cart.ID, product.ID, 1); err != nil {
				return fmt.Errorf("move to cart: %w", err)
			}
		}
	}

	if err := s.repo.Wishlist.Remove(ctx, userID, product.ID); err != nil {
		return fmt.Errorf("wishlist %s: %w", req.Action, err)
	}
	return nil
}

func (s *cartService) MergeGuestCart(ctx context.Context, guestID string, userID uuid.UUID) error {
	if guestID == "" {
		return nil
	}

	quantities, err := s.repo.GuestCart.Get(ctx, guestID)
	if err != nil {
		return fmt.Errorf("get guest cart: %w", err)
	}
	if len(quantities) == 0 {
		return nil
	}

	cart, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := s.repo.Product.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get guest cart products: %w", err)
	}

	merged := 0
	for id, qty := range quantities {
		if _, ok := products[id]; !ok {
			continue
		}
		if err := s.repo.Cart.AddItem(ctx, cart.ID, id, qty); err != nil {
			return fmt.Errorf("merge guest item: %w", err)
		}
		merged++
	}

	if err := s.repo.GuestCart.Delete(ctx, guestID); err != nil {
		s.log.Warn("Failed to delete merged guest cart", zap.Error(err))
	}

	s.log.Info("Guest cart merged",
		zap.String("user_id", userID.String()),
		zap.Int("items", merged),
	)
	return nil
}
