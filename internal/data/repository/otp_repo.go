package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Key layout in the cache store
const (
	otpKeyPrefix     = "login_otp:"
	otpRateKeyPrefix = "otp_rate:"
	pendingKeyPrefix = "pre_auth:"
)

func otpKey(userID uuid.UUID) string { return otpKeyPrefix + userID.String() }
func otpRateKey(userID uuid.UUID) string { return otpRateKeyPrefix + userID.String() }
func pendingKey(sessionID string) string { return pendingKeyPrefix + sessionID }

type OTPRepository interface {
	Save(ctx context.Context, otp *entity.OTP, ttl time.Duration) error
	Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error

	// AcquireCooldown claims the resend window for userID. False means a
	// marker younger than cooldown already exists.
	AcquireCooldown(ctx context.Context, userID uuid.UUID, now time.Time, cooldown time.Duration) (bool, error)
	ReleaseCooldown(ctx context.Context, userID uuid.UUID) error

	SavePending(ctx context.Context, pending *entity.PendingLogin, ttl time.Duration) error
	FindPending(ctx context.Context, sessionID string) (*entity.PendingLogin, error)
	// CompletePending marks the session's marker as used; it stays readable
	// until ttl so a replayed code is told it was consumed.
	CompletePending(ctx context.Context, pending *entity.PendingLogin, at time.Time, ttl time.Duration) error
}

type otpRepository struct {
	store cache.Store
	log   *zap.Logger
}

func NewOTPRepository(store cache.Store, log *zap.Logger) OTPRepository {
	return &otpRepository{
		store: store,
		log:   log.With(zap.String("repository", "otp")),
	}
}

// Save overwrites any live code for the user, so at most one exists
func (r *otpRepository) Save(ctx context.Context, otp *entity.OTP, ttl time.Duration) error {
	if err := r.store.Set(ctx, otpKey(otp.UserID), otp.Code, ttl); err != nil {
		r.log.Error("Failed to store OTP",
			zap.Error(err),
			zap.String("user_id", otp.UserID.String()),
		)
		return fmt.Errorf("store OTP for user %s: %w", otp.UserID.String(), err)
	}
	return nil
}

// Consume deletes the user's code only if it equals code. Exactly one
// caller can win a given code; a mismatch leaves the stored code in place.
func (r *otpRepository) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	ok, err := r.store.CompareAndDelete(ctx, otpKey(userID), code)
	if err != nil {
		r.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("consume OTP for user %s: %w", userID.String(), err)
	}
	return ok, nil
}

func (r *otpRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.store.Delete(ctx, otpKey(userID)); err != nil {
		r.log.Error("Failed to delete OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("delete OTP for user %s: %w", userID.String(), err)
	}
	return nil
}

func (r *otpRepository) AcquireCooldown(ctx context.Context, userID uuid.UUID, now time.Time, cooldown time.Duration) (bool, error) {
	key := otpRateKey(userID)
	stamp := strconv.FormatInt(now.Unix(), 10)

	ok, err := r.store.SetNX(ctx, key, stamp, cooldown)
	if err != nil {
		r.log.Error("Failed to set OTP rate marker",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("set OTP rate marker for user %s: %w", userID.String(), err)
	}
	if ok {
		return true, nil
	}

	// Marker exists. Only a marker younger than the cooldown blocks; a stale
	// one (clock skew, TTL not yet reaped) is replaced.
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return r.store.SetNX(ctx, key, stamp, cooldown)
	}
	if err != nil {
		return false, fmt.Errorf("read OTP rate marker for user %s: %w", userID.String(), err)
	}

	sentAt, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr == nil && now.Sub(time.Unix(sentAt, 0)) < cooldown {
		return false, nil
	}

	// Swap only the marker we just read; if another request replaced it in
	// the meantime that request owns the window.
	swapped, err := r.store.CompareAndSwap(ctx, key, raw, stamp, cooldown)
	if err != nil {
		return false, fmt.Errorf("reset OTP rate marker for user %s: %w", userID.String(), err)
	}
	if swapped {
		r.log.Warn("Replaced stale OTP rate marker", zap.String("user_id", userID.String()))
	}
	return swapped, nil
}

func (r *otpRepository) ReleaseCooldown(ctx context.Context, userID uuid.UUID) error {
	if err := r.store.Delete(ctx, otpRateKey(userID)); err != nil {
		return fmt.Errorf("release OTP rate marker for user %s: %w", userID.String(), err)
	}
	return nil
}

func (r *otpRepository) SavePending(ctx context.Context, pending *entity.PendingLogin, ttl time.Duration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending login: %w", err)
	}

	if err := r.store.Set(ctx, pendingKey(pending.SessionID), string(payload), ttl); err != nil {
		r.log.Error("Failed to store pending login",
			zap.Error(err),
			zap.String("user_id", pending.UserID.String()),
		)
		return fmt.Errorf("store pending login: %w", err)
	}
	return nil
}

func (r *otpRepository) FindPending(ctx context.Context, sessionID string) (*entity.PendingLogin, error) {
	if sessionID == "" {
		return nil, nil
	}

	raw, err := r.store.Get(ctx, pendingKey(sessionID))
	if errors.Is(err, cache.ErrMiss) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to read pending login", zap.Error(err))
		return nil, fmt.Errorf("read pending login: %w", err)
	}

	var pending entity.PendingLogin
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		r.log.Warn("Corrupt pending login entry, ignoring", zap.Error(err))
		return nil, nil
	}
	return &pending, nil
}

func (r *otpRepository) CompletePending(ctx context.Context, pending *entity.PendingLogin, at time.Time, ttl time.Duration) error {
	completed := *pending
	completed.CompletedAt = &at

	if err := r.SavePending(ctx, &completed, ttl); err != nil {
		return fmt.Errorf("complete pending login: %w", err)
	}
	return nil
}
