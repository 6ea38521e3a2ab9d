package repository

import (
	"context"
	"fmt"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/database"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WishlistRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error)
}

type wishlistRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWishlistRepository(db database.PgxIface, log *zap.Logger) WishlistRepository {
	return &wishlistRepository{
		db:  db,
		log: log.With(zap.String("repository", "wishlist")),
	}
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		INSERT INTO wishlists (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, utils.GenerateUUID(), userID, productID, time.Now()); err != nil {
		r.log.Error("Failed to add wishlist item",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("add product %s to wishlist: %w", productID.String(), err)
	}

	return nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		r.log.Error("Failed to remove wishlist item",
			zap.Error(err),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("remove product %s from wishlist: %w", productID.String(), err)
	}

	return nil
}

func (r *wishlistRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	query := `
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.id, p.category_id, p.name, p.price, p.image_url, p.description,
		       p.rating, p.created_at, p.updated_at
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find wishlist", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find wishlist for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var items []*entity.WishlistItem
	for rows.Next() {
		item := entity.WishlistItem{Product: &entity.Product{}}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
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
			r.log.Error("Failed to scan wishlist row", zap.Error(err))
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	return items, nil
}
