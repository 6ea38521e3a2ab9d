package repository

import (
	"context"
	"fmt"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/database"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	FindItems(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error)
	// AddItem inserts the line or increments its quantity
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	// DO UPDATE (no-op) so RETURNING yields the existing row too
	query := `
		INSERT INTO carts (id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at
	`

	var cart entity.Cart
	err := r.db.QueryRow(ctx, query, utils.GenerateUUID(), userID, time.Now()).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to get or create cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("get or create cart for user %s: %w", userID.String(), err)
	}

	return &cart, nil
}

func (r *cartRepository) FindItems(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at,
		       p.id, p.category_id, p.name, p.price, p.image_url, p.description,
		       p.rating, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		r.log.Error("Failed to find cart items",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
		)
		return nil, fmt.Errorf("find items for cart %s: %w", cartID.String(), err)
	}
	defer rows.Close()

	var items []*entity.CartItem
	for rows.Next() {
		item := entity.CartItem{Product: &entity.Product{}}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.Product.ID,
			&item.Product.CategoryID,
			&item.Product.Name,
			&item.Product.Price,
			&item.Product.ImageURL,
			&item.Product.Description,
			&item.Product.Rating,
			&item.Product.CreatedAt,
			&item.Product.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan cart item row", zap.Error(err))
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}

func (r *cartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`

	var item entity.CartItem
	err := r.db.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return nil, fmt.Errorf("find cart item %s: %w", productID.String(), err)
	}

	return &item, nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.db.Exec(ctx, query, utils.GenerateUUID(), cartID, productID, quantity, time.Now())
	if err != nil {
		r.log.Error("Failed to add cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("add product %s to cart: %w", productID.String(), err)
	}

	return nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2`

	if _, err := r.db.Exec(ctx, query, cartID, productID, quantity); err != nil {
		r.log.Error("Failed to update cart item quantity",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.Int("quantity", quantity),
		)
		return fmt.Errorf("set quantity for product %s: %w", productID.String(), err)
	}

	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	if _, err := r.db.Exec(ctx, query, cartID, productID); err != nil {
		r.log.Error("Failed to remove cart item",
			zap.Error(err),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("remove product %s from cart: %w", productID.String(), err)
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.log.Error("Failed to clear cart", zap.Error(err), zap.String("cart_id", cartID.String()))
		return fmt.Errorf("clear cart %s: %w", cartID.String(), err)
	}
	return nil
}
