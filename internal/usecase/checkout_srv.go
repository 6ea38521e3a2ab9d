package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/internal/dto/response"
	"appliance-store/pkg/cache"
	"appliance-store/pkg/events"
	"appliance-store/pkg/metrics"
	"appliance-store/pkg/payment"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*response.CheckoutSummaryResponse, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.PlaceOrderResponse, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, req *request.PaymentVerifyRequest) error
}

type checkoutService struct {
	repo      *repository.Repository
	cart      CartService
	gateway   payment.Gateway
	publisher events.Publisher
	clock     cache.Clock
	config    *utils.Config
	log       *zap.Logger
}

func NewCheckoutService(
	repo *repository.Repository,
	cart CartService,
	gateway payment.Gateway,
	publisher events.Publisher,
	clock cache.Clock,
	config *utils.Config,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		repo:      repo,
		cart:      cart,
		gateway:   gateway,
		publisher: publisher,
		clock:     clock,
		config:    config,
		log:       log.With(zap.String("service", "checkout")),
	}
}

func (s *checkoutService) Summary(ctx context.Context, userID uuid.UUID) (*response.CheckoutSummaryResponse, error) {
	addresses, err := s.repo.Address.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get saved addresses: %w", err)
	}

	cart, err := s.cart.GetCart(ctx, CartOwner{UserID: &userID})
	if err != nil {
		return nil, err
	}

	resp := &response.CheckoutSummaryResponse{
		Addresses: make([]response.AddressResponse, 0, len(addresses)),
		Cart:      cart,
	}
	for _, address := range addresses {
		resp.Addresses = append(resp.Addresses, response.AddressToResponse(address))
	}

	return resp, nil
}

func (s *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *request.CheckoutRequest) (*response.PlaceOrderResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	deliveryDate, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("delivery date: %w", ErrValidation)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	// 2. Load cart
	cart, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	cartItems, err := s.repo.Cart.FindItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	// 3. Build order + items from the cart
	now := s.clock.Now()
	order := &entity.Order{
		BaseNoDelete:  entity.NewBaseNoDelete(now),
		OrderNumber:   utils.GenerateOrderNumber(now),
		UserID:        userID,
		CustomerName:  req.Name,
		CustomerEmail: user.Email,
		Street:        req.Street,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		DeliveryDate:  deliveryDate,
		DeliveryTime:  req.DeliveryTime,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		PaymentStatus: entity.PaymentStatusUnpaid,
		Status:        entity.OrderStatusPending,
	}

	summary := make([]string, 0, len(cartItems))
	total := decimal.Zero
	for _, item := range cartItems {
		productID := item.ProductID
		order.Items = append(order.Items, &entity.OrderItem{
			BaseSimple: entity.NewBaseSimple(now),
			OrderID:    order.ID,
			ProductID:  &productID,
			Quantity:   item.Quantity,
			Price:      item.Product.Price,
		})
		summary = append(summary, fmt.Sprintf("%s x %d", item.Product.Name, item.Quantity))
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.OrderedItems = strings.Join(summary, ", ")
	order.TotalAmount = total

	resp := &response.PlaceOrderResponse{
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
	}

	// 4. Remote gateway order for online payments, before anything is written
	if order.PaymentMethod != entity.PaymentMethodCOD && s.gateway.Enabled() {
		gatewayOrder, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
			AmountMinor: total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			Currency:    s.config.Payment.Currency,
			Receipt:     order.OrderNumber,
			Notes:       map[string]string{"order_id": order.ID.String()},
		})
		if err != nil {
			s.log.Error("Failed to create gateway order", zap.Error(err), zap.String("order_number", order.OrderNumber))
			return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}

		order.GatewayOrderID = &gatewayOrder.ID
		resp.GatewayOrderID = gatewayOrder.ID
		resp.GatewayKeyID = s.gateway.KeyID()
		resp.AmountMinor = gatewayOrder.Amount
		resp.Currency = gatewayOrder.Currency
	}

	// 5. Persist order, items, clear cart (one tx)
	if err := s.repo.Order.Create(ctx, order, cart.ID); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	if req.SaveAddress {
		address := &entity.SavedAddress{
			BaseSimple:  entity.NewBaseSimple(now),
			UserID:      userID,
			Name:        req.Name,
			Street:      req.Street,
			City:        req.City,
			State:       req.State,
			Pincode:     req.Pincode,
			PhoneNumber: req.PhoneNumber,
		}
		if err := s.repo.Address.Create(ctx, address); err != nil {
			s.log.Warn("Order placed but address not saved", zap.Error(err))
		}
	}

	metrics.OrdersPlacedTotal.WithLabelValues(req.PaymentMethod).Inc()
	s.log.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", req.PaymentMethod),
	)

	publish(ctx, s.publisher, s.log, events.Event{
		Type:       events.TypeOrderPlaced,
		Key:        order.ID.String(),
		OccurredAt: now,
		Payload: map[string]string{
			"order_number":   order.OrderNumber,
			"user_id":        userID.String(),
			"total_amount":   total.StringFixed(2),
			"payment_method": req.PaymentMethod,
		},
	})

	return resp, nil
}

func (s *checkoutService) VerifyPayment(ctx context.Context, userID uuid.UUID, req *request.PaymentVerifyRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fmt.Errorf("order id: %w", ErrValidation)
	}

	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return fmt.Errorf("order: %w", ErrNotFound)
	}

	// The callback must refer to the gateway order we created for this order
	if order.GatewayOrderID == nil || *order.GatewayOrderID != req.GatewayOrderID {
		metrics.PaymentsVerifiedTotal.WithLabelValues("mismatch").Inc()
		return ErrInvalidSignature
	}

	if !s.gateway.VerifySignature(payment.Callback{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	}) {
		s.log.Warn("Payment signature mismatch", zap.String("order_id", order.ID.String()))
		metrics.PaymentsVerifiedTotal.WithLabelValues("invalid").Inc()
		return ErrInvalidSignature
	}

	if order.PaymentStatus == entity.PaymentStatusPaid {
		return nil
	}

	if err := s.repo.Order.MarkPaid(ctx, order.ID, req.PaymentID); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}

	metrics.PaymentsVerifiedTotal.WithLabelValues("ok").Inc()
	s.log.Info("Payment verified", zap.String("order_number", order.OrderNumber))

	publish(ctx, s.publisher, s.log, events.Event{
		Type:       events.TypeOrderPaid,
		Key:        order.ID.String(),
		OccurredAt: s.clock.Now(),
		Payload:    map[string]string{"order_number": order.OrderNumber, "payment_id": req.PaymentID},
	})
	return nil
}

// publish is fire-and-log: a broker outage never fails the request
func publish(ctx context.Context, publisher events.Publisher, log *zap.Logger, event events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event", zap.Error(err), zap.String("type", event.Type))
	}
}
