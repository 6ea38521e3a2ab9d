package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/pkg/cache"
	"appliance-store/pkg/events"
	"appliance-store/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const alicePassword = "wonderland1"

type authFixture struct {
	svc      *authService
	store    cache.Store
	clock    *cache.ManualClock
	users    *mockUserRepo
	sessions *mockSessionRepo
	mail     *captureMailer
	pub      *capturePublisher
	codes    []string
	alice    *entity.User
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{StoreName: "MyStore"},
		Session: utils.SessionConfig{ExpiryHours: 24},
		Email:   utils.EmailConfig{From: "noreply@mystore.test"},
		OTP:     utils.OTPConfig{TTLSeconds: 300, CooldownSeconds: 60, Length: 6},
		Cart:    utils.CartConfig{DiscountPercent: 10, GuestTTLHours: 168, PageSize: 4},
		Payment: utils.PaymentConfig{Currency: "INR"},
	}
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	return newAuthFixtureOn(t, func(clock cache.Clock) cache.Store {
		return cache.NewMemoryStore(clock)
	})
}

func newRedisAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return newAuthFixtureOn(t, func(cache.Clock) cache.Store {
		return cache.NewRedisStore(rdb, zap.NewNop())
	})
}

func newAuthFixtureOn(t *testing.T, newStore func(cache.Clock) cache.Store) *authFixture {
	t.Helper()

	hash, err := utils.HashPassword(alicePassword)
	require.NoError(t, err)

	f := &authFixture{
		clock:    cache.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		users:    &mockUserRepo{},
		sessions: &mockSessionRepo{},
		mail:     &captureMailer{},
		pub:      &capturePublisher{},
		alice: &entity.User{
			Base:         entity.Base{ID: uuid.New()},
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: hash,
			Role:         entity.RoleCustomer,
			IsActive:     true,
		},
	}
	f.store = newStore(f.clock)

	log := zap.NewNop()
	repo := &repository.Repository{
		User:    f.users,
		Session: f.sessions,
		OTP:     repository.NewOTPRepository(f.store, log),
	}

	f.svc = NewAuthService(repo, testConfig(), f.mail, f.pub, f.clock, log).(*authService)
	f.svc.generateOTP = func() (string, error) {
		if len(f.codes) == 0 {
			return "", errors.New("no code queued")
		}
		code := f.codes[0]
		f.codes = f.codes[1:]
		return code, nil
	}

	f.users.On("FindByUsername", mock.Anything, "alice").Return(f.alice, nil).Maybe()
	f.users.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	f.users.On("FindByID", mock.Anything, f.alice.ID).Return(f.alice, nil).Maybe()
	f.sessions.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil).Maybe()

	return f
}

func (f *authFixture) login(t *testing.T, sessionID, next string) error {
	t.Helper()
	_, err := f.svc.SubmitCredentials(context.Background(), sessionID, &request.LoginRequest{
		Username: "alice",
		Password: alicePassword,
		Next:     next,
	})
	return err
}

func (f *authFixture) storedCode(t *testing.T) (string, bool) {
	t.Helper()
	code, err := f.store.Get(context.Background(), "login_otp:"+f.alice.ID.String())
	if errors.Is(err, cache.ErrMiss) {
		return "", false
	}
	require.NoError(t, err)
	return code, true
}

func TestSubmitCredentials_IssuesOTPWithTTLs(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193"}
	ctx := context.Background()

	resp, err := f.svc.SubmitCredentials(ctx, "sess-1", &request.LoginRequest{
		Username: "alice",
		Password: alicePassword,
		Next:     "/checkout/",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "/checkout/", resp.Next)
	assert.Equal(t, 300, resp.ExpiresIn)

	code, ok := f.storedCode(t)
	require.True(t, ok)
	assert.Equal(t, "482193", code)

	otpTTL, err := f.store.TTL(ctx, "login_otp:"+f.alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, otpTTL)

	rateTTL, err := f.store.TTL(ctx, "otp_rate:"+f.alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, rateTTL)

	require.Equal(t, 1, f.mail.count())
	msg := f.mail.sent[0]
	assert.Equal(t, "Your MyStore Login OTP", msg.Subject)
	assert.Equal(t, "Your OTP is 482193. Valid for 5 minutes.", msg.Body)
	assert.Equal(t, "noreply@mystore.test", msg.From)
	assert.Equal(t, []string{"alice@example.com"}, msg.To)

	_, err = f.store.Get(ctx, "pre_auth:sess-1")
	assert.NoError(t, err, "pending marker recorded against the session")
}

func TestSubmitCredentials_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"111111"}
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "nope"},
		{name: "unknown user", username: "mallory", password: alicePassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitCredentials(ctx, "sess-1", &request.LoginRequest{
				Username: tt.username,
				Password: tt.password,
			})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	_, ok := f.storedCode(t)
	assert.False(t, ok)
	assert.Zero(t, f.mail.count())
}

func TestSubmitCredentials_InactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.alice.IsActive = false

	err := f.login(t, "sess-1", "")
	assert.ErrorIs(t, err, ErrAccountInactive)
	assert.Zero(t, f.mail.count())
}

func TestSubmitCredentials_MissingFieldsIsValidation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.SubmitCredentials(context.Background(), "sess-1", &request.LoginRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitCredentials_ThrottledKeepsExistingOTP(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193", "999999", "123456"}

	require.NoError(t, f.login(t, "sess-1", ""))

	f.clock.Advance(59 * time.Second)
	err := f.login(t, "sess-2", "")
	assert.ErrorIs(t, err, ErrOTPThrottled)

	code, ok := f.storedCode(t)
	require.True(t, ok)
	assert.Equal(t, "482193", code, "throttled request must not replace the live code")
	assert.Equal(t, 1, f.mail.count())

	_, err = f.store.Get(context.Background(), "pre_auth:sess-2")
	assert.ErrorIs(t, err, cache.ErrMiss, "throttled request records no pending marker")

	// Cooldown over: a new code replaces the old one
	f.clock.Advance(time.Second)
	require.NoError(t, f.login(t, "sess-2", ""))

	code, _ = f.storedCode(t)
	assert.Equal(t, "999999", code)
	assert.Equal(t, 2, f.mail.count())
}

func TestSubmitCredentials_MailFailureRollsBack(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193", "654321"}
	f.mail.err = errors.New("smtp: connection refused")

	err := f.login(t, "sess-1", "")
	require.Error(t, err)

	_, ok := f.storedCode(t)
	assert.False(t, ok, "unsent code is dropped")

	// The cooldown was released, so a retry goes through immediately
	f.mail.err = nil
	require.NoError(t, f.login(t, "sess-1", ""))
	code, _ := f.storedCode(t)
	assert.Equal(t, "654321", code)
}

func TestVerifyOTP_AliceLogsInOnce(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193"}
	ctx := context.Background()

	require.NoError(t, f.login(t, "sess-1", "/checkout/"))

	f.clock.Advance(4 * time.Minute)
	resp, err := f.svc.VerifyOTP(ctx, "sess-1",
		&request.VerifyOTPRequest{OTP: " 482193 ", Next: "/checkout/"},
		request.ClientInfo{UserAgent: "test-agent", IPAddress: "10.0.0.1"},
	)
	require.NoError(t, err)
	assert.Equal(t, "/checkout/", resp.Redirect)
	assert.Equal(t, f.alice.ID.String(), resp.UserID)
	assert.NotEmpty(t, resp.Token)

	_, ok := f.storedCode(t)
	assert.False(t, ok, "code consumed")
	f.sessions.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, []string{events.TypeUserLoggedIn}, f.pub.types())

	// Replay of the same code
	_, err = f.svc.VerifyOTP(ctx, "sess-1", &request.VerifyOTPRequest{OTP: "482193"}, request.ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)
	f.sessions.AssertNumberOfCalls(t, "Create", 1)
}

func TestVerifyOTP_InterleavedVerifiesCreateOneSession(t *testing.T) {
	fixtures := map[string]func(*testing.T) *authFixture{
		"memory": newAuthFixture,
		"redis":  newRedisAuthFixture,
	}

	for name, newFixture := range fixtures {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.codes = []string{"482193"}
			ctx := context.Background()

			require.NoError(t, f.login(t, "sess-1", ""))
			// Second browser tab waiting on the same code
			require.NoError(t, f.svc.repo.OTP.SavePending(ctx, &entity.PendingLogin{
				SessionID: "sess-2",
				UserID:    f.alice.ID,
				Email:     f.alice.Email,
				CreatedAt: f.clock.Now(),
			}, 300*time.Second))

			// Run the second verify while the first is between checking
			// the code and creating its session
			var nestedErr error
			nested := false
			f.users.ExpectedCalls = nil
			f.users.On("FindByID", mock.Anything, f.alice.ID).
				Run(func(mock.Arguments) {
					if nested {
						return
					}
					nested = true
					_, nestedErr = f.svc.VerifyOTP(ctx, "sess-2", &request.VerifyOTPRequest{OTP: "482193"}, request.ClientInfo{})
				}).
				Return(f.alice, nil)

			_, err := f.svc.VerifyOTP(ctx, "sess-1", &request.VerifyOTPRequest{OTP: "482193"}, request.ClientInfo{})
			require.NoError(t, err)

			assert.True(t, nested)
			assert.ErrorIs(t, nestedErr, ErrInvalidOrExpiredOTP)
			f.sessions.AssertNumberOfCalls(t, "Create", 1)
			assert.Equal(t, []string{events.TypeUserLoggedIn}, f.pub.types())
		})
	}
}

func TestVerifyOTP_WrongCodeLeavesStoredOTP(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193"}
	ctx := context.Background()

	require.NoError(t, f.login(t, "sess-1", ""))

	_, err := f.svc.VerifyOTP(ctx, "sess-1", &request.VerifyOTPRequest{OTP: "000000"}, request.ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)

	code, ok := f.storedCode(t)
	require.True(t, ok)
	assert.Equal(t, "482193", code)

	// The right code still works afterwards
	resp, err := f.svc.VerifyOTP(ctx, "sess-1", &request.VerifyOTPRequest{OTP: "482193"}, request.ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "/", resp.Redirect)
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193"}

	require.NoError(t, f.login(t, "sess-1", ""))
	f.clock.Advance(300 * time.Second)

	_, err := f.svc.VerifyOTP(context.Background(), "sess-1", &request.VerifyOTPRequest{OTP: "482193"}, request.ClientInfo{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOrExpiredOTP) || errors.Is(err, ErrSessionExpired))
	f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerifyOTP_NoPendingMarkerIsSessionExpired(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193"}
	ctx := context.Background()

	require.NoError(t, f.login(t, "sess-1", ""))

	for _, sessionID := range []string{"", "other-session"} {
		for _, code := range []string{"482193", "000000", ""} {
			_, err := f.svc.VerifyOTP(ctx, sessionID, &request.VerifyOTPRequest{OTP: code}, request.ClientInfo{})
			assert.ErrorIs(t, err, ErrSessionExpired, "session %q code %q", sessionID, code)
		}
	}

	code, ok := f.storedCode(t)
	require.True(t, ok)
	assert.Equal(t, "482193", code)
}

func TestVerifyOTP_UnsafeNextFallsBackHome(t *testing.T) {
	f := newAuthFixture(t)
	f.codes = []string{"482193"}

	require.NoError(t, f.login(t, "sess-1", ""))

	resp, err := f.svc.VerifyOTP(context.Background(), "sess-1",
		&request.VerifyOTPRequest{OTP: "482193", Next: "https://evil.example/"},
		request.ClientInfo{},
	)
	require.NoError(t, err)
	assert.Equal(t, "/", resp.Redirect)
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                 "/",
		"/checkout/":       "/checkout/",
		"  /orders ":       "/orders",
		"//evil.example":   "/",
		"/\\evil.example":  "/",
		"https://evil.com": "/",
		"cart":             "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeRedirect(in), "input %q", in)
	}
}

func TestRegister_ConflictAndSuccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(f.alice, nil).Once()
	_, err := f.svc.Register(ctx, &request.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrConflict)

	f.users.On("FindByEmail", mock.Anything, "bob@example.com").Return(nil, nil).Once()
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil).Once()
	user, err := f.svc.Register(ctx, &request.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	token := uuid.New().String()

	f.sessions.On("Revoke", mock.Anything, token).Return(nil).Once()
	require.NoError(t, f.svc.Logout(context.Background(), token))

	err := f.svc.Logout(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrValidation)
	f.sessions.AssertExpectations(t)
}
