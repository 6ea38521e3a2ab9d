package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"appliance-store/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const guestCartKeyPrefix = "cart:guest:"

// GuestCartRepository keeps anonymous carts in the cache as product id -> quantity
type GuestCartRepository interface {
	Get(ctx context.Context, guestID string) (map[uuid.UUID]int, error)
	Save(ctx context.Context, guestID string, items map[uuid.UUID]int, ttl time.Duration) error
	Delete(ctx context.Context, guestID string) error
}

type guestCartRepository struct {
	store cache.Store
	log   *zap.Logger
}

func NewGuestCartRepository(store cache.Store, log *zap.Logger) GuestCartRepository {
	return &guestCartRepository{
		store: store,
		log:   log.With(zap.String("repository", "guest_cart")),
	}
}

func (r *guestCartRepository) Get(ctx context.Context, guestID string) (map[uuid.UUID]int, error) {
	items := make(map[uuid.UUID]int)
	if guestID == "" {
		return items, nil
	}

	raw, err := r.store.Get(ctx, guestCartKeyPrefix+guestID)
	if errors.Is(err, cache.ErrMiss) {
		return items, nil
	}
	if err != nil {
		r.log.Error("Failed to read guest cart", zap.Error(err), zap.String("guest_id", guestID))
		return nil, fmt.Errorf("read guest cart %s: %w", guestID, err)
	}

	var stored map[string]int
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn("Corrupt guest cart, starting empty", zap.Error(err), zap.String("guest_id", guestID))
		return items, nil
	}

	for key, qty := range stored {
		productID, err := uuid.Parse(key)
		if err != nil || qty <= 0 {
			continue
		}
		items[productID] = qty
	}

	return items, nil
}

func (r *guestCartRepository) Save(ctx context.Context, guestID string, items map[uuid.UUID]int, ttl time.Duration) error {
	stored := make(map[string]int, len(items))
	for productID, qty := range items {
		stored[productID.String()] = qty
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}

	if err := r.store.Set(ctx, guestCartKeyPrefix+guestID, string(payload), ttl); err != nil {
		r.log.Error("Failed to save guest cart", zap.Error(err), zap.String("guest_id", guestID))
		return fmt.Errorf("save guest cart %s: %w", guestID, err)
	}
	return nil
}

func (r *guestCartRepository) Delete(ctx context.Context, guestID string) error {
	if err := r.store.Delete(ctx, guestCartKeyPrefix+guestID); err != nil {
		return fmt.Errorf("delete guest cart %s: %w", guestID, err)
	}
	return nil
}
