package repository

import (
	"context"
	"fmt"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddressRepository interface {
	Create(ctx context.Context, address *entity.SavedAddress) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SavedAddress, error)
}

type addressRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAddressRepository(db database.PgxIface, log *zap.Logger) AddressRepository {
	return &addressRepository{
		db:  db,
		log: log.With(zap.String("repository", "address")),
	}
}

func (r *addressRepository) Create(ctx context.Context, address *entity.SavedAddress) error {
	query := `
		INSERT INTO saved_addresses (id, user_id, name, street, city, state,
		                             pincode, phone_number, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		address.ID,
		address.UserID,
		address.Name,
		address.Street,
		address.City,
		address.State,
		address.Pincode,
		address.PhoneNumber,
		address.IsDefault,
		address.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to save address",
			zap.Error(err),
			zap.String("user_id", address.UserID.String()),
		)
		return fmt.Errorf("save address for user %s: %w", address.UserID.String(), err)
	}

	return nil
}

func (r *addressRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SavedAddress, error) {
	query := `
		SELECT id, user_id, name, street, city, state, pincode, phone_number,
		       is_default, created_at
		FROM saved_addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find addresses", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find addresses for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var addresses []*entity.SavedAddress
	for rows.Next() {
		var address entity.SavedAddress
		err := rows.Scan(
			&address.ID,
			&address.UserID,
			&address.Name,
			&address.Street,
			&address.City,
			&address.State,
			&address.Pincode,
			&address.PhoneNumber,
			&address.IsDefault,
			&address.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan address row", zap.Error(err))
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, &address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}

	return addresses, nil
}
