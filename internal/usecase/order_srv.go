package usecase

import (
	"context"
	"fmt"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/internal/dto/response"
	"appliance-store/pkg/cache"
	"appliance-store/pkg/events"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	ListOrders(ctx context.Context, userID uuid.UUID) ([]response.OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID string, req *request.UpdateOrderStatusRequest) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	publisher events.Publisher
	clock     cache.Clock
	log       *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, publisher events.Publisher, clock cache.Clock, log *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
		clock:     clock,
		log:       log.With(zap.String("service", "order")),
	}
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]response.OrderResponse, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	resp := make([]response.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, response.OrderToResponse(order))
	}
	return resp, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID string, req *request.UpdateOrderStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("order id: %w", ErrValidation)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order: %w", ErrNotFound)
	}

	status := entity.OrderStatus(req.Status)
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	s.log.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(order.Status)),
		zap.String("to", req.Status),
	)

	publish(ctx, s.publisher, s.log, events.Event{
		Type:       events.TypeOrderStatusChanged,
		Key:        order.ID.String(),
		OccurredAt: s.clock.Now(),
		Payload: map[string]string{
			"order_number": order.OrderNumber,
			"from":         string(order.Status),
			"to":           req.Status,
		},
	})
	return nil
}
