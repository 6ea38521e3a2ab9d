package repository

import (
	"context"
	"fmt"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	// Create writes the order and its items and empties cartID in one transaction
	Create(ctx context.Context, order *entity.Order, cartID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order, cartID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	orderQuery := `
		INSERT INTO orders (id, order_number, user_id, customer_name, customer_email,
		                    street, city, state, pincode, delivery_date, delivery_time,
		                    payment_method, payment_status, ordered_items, total_amount,
		                    order_status, gateway_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::time, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = tx.Exec(ctx, orderQuery,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.CustomerName,
		order.CustomerEmail,
		order.Street,
		order.City,
		order.State,
		order.Pincode,
		order.DeliveryDate,
		order.DeliveryTime,
		order.PaymentMethod,
		order.PaymentStatus,
		order.OrderedItems,
		order.TotalAmount,
		order.Status,
		order.GatewayOrderID,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("order_number", order.OrderNumber),
			zap.String("user_id", order.UserID.String()),
		)
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, color, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(itemQuery, item.ID, order.ID, item.ProductID, item.Quantity, item.Price, item.Color, item.Size, item.CreatedAt)
	}
	batch.Queue(`DELETE FROM cart_items WHERE cart_id = $1`, cartID)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("Failed to write order items",
			zap.Error(err),
			zap.String("order_number", order.OrderNumber),
			zap.Int("items", len(order.Items)),
		)
		return fmt.Errorf("create items for order %s: %w", order.OrderNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %s: %w", order.OrderNumber, err)
	}

	r.log.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	return nil
}

const orderColumns = `id, order_number, user_id, customer_name, customer_email, street, city,
	state, pincode, delivery_date, delivery_time::text, payment_method, payment_status,
	ordered_items, total_amount, order_status, gateway_order_id, gateway_payment_id,
	created_at, updated_at`

func scanOrder(row pgx.Row, order *entity.Order) error {
	return row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.Street,
		&order.City,
		&order.State,
		&order.Pincode,
		&order.DeliveryDate,
		&order.DeliveryTime,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.OrderedItems,
		&order.TotalAmount,
		&order.Status,
		&order.GatewayOrderID,
		&order.GatewayPaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order entity.Order
	err := scanOrder(r.db.QueryRow(ctx, query, id), &order)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order", zap.Error(err), zap.String("order_id", id.String()))
		return nil, fmt.Errorf("find order %s: %w", id.String(), err)
	}

	return &order, nil
}

// FindByUserID returns the user's orders newest first, items attached
func (r *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find orders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find orders for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var orders []*entity.Order
	byID := make(map[uuid.UUID]*entity.Order)
	for rows.Next() {
		var order entity.Order
		if err := scanOrder(rows, &order); err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &order)
		byID[order.ID] = &order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	itemQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.color, oi.size, oi.created_at,
		       COALESCE(p.name, ''), COALESCE(p.image_url, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at
	`

	itemRows, err := r.db.Query(ctx, itemQuery, ids)
	if err != nil {
		r.log.Error("Failed to find order items", zap.Error(err))
		return nil, fmt.Errorf("find order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item entity.OrderItem
		err := itemRows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.Color,
			&item.Size,
			&item.CreatedAt,
			&item.ProductName,
			&item.ProductImageURL,
		)
		if err != nil {
			r.log.Error("Failed to scan order item row", zap.Error(err))
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, &item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
	query := `
		UPDATE orders
		SET payment_status = $2, gateway_payment_id = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, entity.PaymentStatusPaid, gatewayPaymentID)
	if err != nil {
		r.log.Error("Failed to mark order paid", zap.Error(err), zap.String("order_id", id.String()))
		return fmt.Errorf("mark order %s paid: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id.String())
	}

	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	query := `UPDATE orders SET order_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update status of order %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id.String())
	}

	return nil
}
