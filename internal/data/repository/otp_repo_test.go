package repository

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMemoryOTPRepo() (OTPRepository, *cache.MemoryStore, *cache.ManualClock) {
	clock := cache.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	store := cache.NewMemoryStore(clock)
	return NewOTPRepository(store, zap.NewNop()), store, clock
}

func storedOTP(t *testing.T, store cache.Store, userID uuid.UUID) string {
	t.Helper()
	code, err := store.Get(context.Background(), "login_otp:"+userID.String())
	if errors.Is(err, cache.ErrMiss) {
		return ""
	}
	require.NoError(t, err)
	return code
}

func TestOTPRepository_SaveConsumeDelete(t *testing.T) {
	repo, store, clock := newMemoryOTPRepo()
	ctx := context.Background()
	userID := uuid.New()

	ok, err := repo.Consume(ctx, userID, "482193")
	require.NoError(t, err)
	assert.False(t, ok, "nothing stored yet")

	require.NoError(t, repo.Save(ctx, &entity.OTP{UserID: userID, Code: "482193"}, 300*time.Second))
	require.NoError(t, repo.Save(ctx, &entity.OTP{UserID: userID, Code: "111111"}, 300*time.Second))
	assert.Equal(t, "111111", storedOTP(t, store, userID), "one live code per user")

	ok, err = repo.Consume(ctx, userID, "482193")
	require.NoError(t, err)
	assert.False(t, ok, "overwritten code no longer matches")
	assert.Equal(t, "111111", storedOTP(t, store, userID), "a wrong code keeps the live one")

	ok, err = repo.Consume(ctx, userID, "111111")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, storedOTP(t, store, userID))

	ok, err = repo.Consume(ctx, userID, "111111")
	require.NoError(t, err)
	assert.False(t, ok, "single use")

	require.NoError(t, repo.Save(ctx, &entity.OTP{UserID: userID, Code: "333333"}, 300*time.Second))
	clock.Advance(300 * time.Second)
	ok, err = repo.Consume(ctx, userID, "333333")
	require.NoError(t, err)
	assert.False(t, ok, "expired")

	require.NoError(t, repo.Save(ctx, &entity.OTP{UserID: userID, Code: "222222"}, 300*time.Second))
	require.NoError(t, repo.Delete(ctx, userID))
	assert.Empty(t, storedOTP(t, store, userID))
}

func TestOTPRepository_Cooldown(t *testing.T) {
	repo, store, clock := newMemoryOTPRepo()
	ctx := context.Background()
	userID := uuid.New()

	ok, err := repo.AcquireCooldown(ctx, userID, clock.Now(), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(30 * time.Second)
	ok, err = repo.AcquireCooldown(ctx, userID, clock.Now(), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.ReleaseCooldown(ctx, userID))
	ok, err = repo.AcquireCooldown(ctx, userID, clock.Now(), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// A marker whose timestamp is older than the cooldown no longer blocks
	stale := strconv.FormatInt(clock.Now().Add(-2*time.Minute).Unix(), 10)
	require.NoError(t, store.Set(ctx, "otp_rate:"+userID.String(), stale, time.Hour))
	ok, err = repo.AcquireCooldown(ctx, userID, clock.Now(), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := store.TTL(ctx, "otp_rate:"+userID.String())
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	// The swapped-in marker is fresh, so a second caller racing on the same
	// stale stamp is throttled
	ok, err = repo.AcquireCooldown(ctx, userID, clock.Now(), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPRepository_StaleCooldownReplacedOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := NewOTPRepository(cache.NewRedisStore(rdb, zap.NewNop()), zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()
	now := time.Unix(1_780_000_000, 0)

	key := "otp_rate:" + userID.String()
	require.NoError(t, mr.Set(key, strconv.FormatInt(now.Add(-5*time.Minute).Unix(), 10)))

	ok, err := repo.AcquireCooldown(ctx, userID, now, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL(key))

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(now.Unix(), 10), got)

	ok, err = repo.AcquireCooldown(ctx, userID, now.Add(time.Second), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPRepository_PendingLogin(t *testing.T) {
	repo, store, clock := newMemoryOTPRepo()
	ctx := context.Background()
	userID := uuid.New()

	got, err := repo.FindPending(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	pending := &entity.PendingLogin{SessionID: "sess-1", UserID: userID, Email: "alice@example.com", CreatedAt: clock.Now()}
	require.NoError(t, repo.SavePending(ctx, pending, 300*time.Second))

	got, err = repo.FindPending(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, userID, got.UserID)
	assert.False(t, got.Completed())

	require.NoError(t, repo.CompletePending(ctx, got, clock.Now(), 300*time.Second))
	got, err = repo.FindPending(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Completed())

	require.NoError(t, store.Set(ctx, "pre_auth:sess-2", "{not json", time.Minute))
	got, err = repo.FindPending(ctx, "sess-2")
	require.NoError(t, err)
	assert.Nil(t, got, "corrupt entries read as absent")
}

func TestOTPRepository_OnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := NewOTPRepository(cache.NewRedisStore(rdb, zap.NewNop()), zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, &entity.OTP{UserID: userID, Code: "482193"}, 300*time.Second))
	ok, err := repo.AcquireCooldown(ctx, userID, now, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 300*time.Second, mr.TTL("login_otp:"+userID.String()))
	assert.Equal(t, time.Minute, mr.TTL("otp_rate:"+userID.String()))

	ok, err = repo.AcquireCooldown(ctx, userID, now.Add(10*time.Second), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, userID, "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("login_otp:"+userID.String()), "wrong code leaves the OTP in place")

	ok, err = repo.Consume(ctx, userID, "482193")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("login_otp:"+userID.String()))

	require.NoError(t, repo.Save(ctx, &entity.OTP{UserID: userID, Code: "482193"}, 300*time.Second))
	mr.FastForward(5 * time.Minute)
	ok, err = repo.Consume(ctx, userID, "482193")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuestCartRepository(t *testing.T) {
	clock := cache.NewManualClock(time.Now())
	repo := NewGuestCartRepository(cache.NewMemoryStore(clock), zap.NewNop())
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	items, err := repo.Get(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, repo.Save(ctx, "guest-1", map[uuid.UUID]int{a: 2, b: 1}, time.Hour))
	items, err = repo.Get(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{a: 2, b: 1}, items)

	clock.Advance(time.Hour)
	items, err = repo.Get(ctx, "guest-1")
	require.NoError(t, err)
	assert.Empty(t, items, "expired guest cart")
}
