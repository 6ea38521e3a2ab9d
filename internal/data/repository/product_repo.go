package repository

import (
	"appliance-store/internal/data/entity"
	"appliance-store/pkg/database"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)
	FindAll(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	CountAll(ctx context.Context, filter entity.ProductFilter) (int64, error)
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

const productColumns = `id, category_id, name, price, image_url, description, rating, created_at, updated_at`

func scanProduct(row pgx.Row, product *entity.Product) error {
	return row.Scan(
		&product.ID,
		&product.CategoryID,
		&product.Name,
		&product.Price,
		&product.ImageURL,
		&product.Description,
		&product.Rating,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`

	var product entity.Product
	err := scanProduct(r.db.QueryRow(ctx, query, id), &product)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product %s: %w", id.String(), err)
	}

	return &product, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	products := make(map[uuid.UUID]*entity.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) AND deleted_at IS NULL`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find products by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product entity.Product
		if err := scanProduct(rows, &product); err != nil {
			r.log.Error("Failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[product.ID] = &product
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// whereClause appends the filter conditions shared by FindAll and CountAll
func (r *productRepository) whereClause(sb *strings.Builder, filter entity.ProductFilter) []interface{} {
	args := []interface{}{}
	argCount := 1

	if filter.Query != "" {
		sb.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argCount))
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}
	if filter.MinPrice != nil {
		sb.WriteString(fmt.Sprintf(" AND price >= $%d", argCount))
		args = append(args, *filter.MinPrice)
		argCount++
	}
	if filter.MaxPrice != nil {
		sb.WriteString(fmt.Sprintf(" AND price <= $%d", argCount))
		args = append(args, *filter.MaxPrice)
		argCount++
	}
	if filter.MinRating > 0 {
		sb.WriteString(fmt.Sprintf(" AND rating >= $%d", argCount))
		args = append(args, filter.MinRating)
		argCount++
	}
	if filter.CategoryID != nil {
		sb.WriteString(fmt.Sprintf(" AND category_id = $%d", argCount))
		args = append(args, *filter.CategoryID)
	}

	return args
}

func (r *productRepository) FindAll(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`)

	args := r.whereClause(&queryBuilder, filter)
	argCount := len(args) + 1

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find products",
			zap.Error(err),
			zap.String("q", filter.Query),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var product entity.Product
		if err := scanProduct(rows, &product); err != nil {
			r.log.Error("Failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	r.log.Debug("Products found", zap.Int("count", len(products)))
	return products, nil
}

func (r *productRepository) CountAll(ctx context.Context, filter entity.ProductFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`)
	args := r.whereClause(&queryBuilder, filter)

	var total int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&total); err != nil {
		r.log.Error("Failed to count products", zap.Error(err))
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}
