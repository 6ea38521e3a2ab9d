package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appliance-store/internal/data/entity"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/dto/request"
	"appliance-store/internal/dto/response"
	"appliance-store/pkg/cache"
	"appliance-store/pkg/events"
	"appliance-store/pkg/mailer"
	"appliance-store/pkg/metrics"
	"appliance-store/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	// SubmitCredentials checks the password and, on success, mails an OTP
	// and ties loginSessionID to the user until the OTP is confirmed.
	SubmitCredentials(ctx context.Context, loginSessionID string, req *request.LoginRequest) (*response.OTPChallengeResponse, error)
	VerifyOTP(ctx context.Context, loginSessionID string, req *request.VerifyOTPRequest, client request.ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo      *repository.Repository // user, session & otp
	config    *utils.Config
	mail      mailer.Sender
	publisher events.Publisher
	clock     cache.Clock
	log       *zap.Logger

	generateOTP func() (string, error)
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Sender,
	publisher events.Publisher,
	clock cache.Clock,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		config:    config,
		mail:      mail,
		publisher: publisher,
		clock:     clock,
		log:       log.With(zap.String("service", "auth")),
		generateOTP: func() (string, error) {
			return utils.GenerateOTP(config.OTP.Length)
		},
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	// 2. Cek email sudah terdaftar
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email: %w", ErrConflict)
	}

	// 3. Cek username sudah dipakai
	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("username: %w", ErrConflict)
	}

	// 4. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := &entity.User{
		Base:         entity.NewBase(now),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create account: %w", err)
	}

	// No session here: the account still has to pass the OTP login
	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) SubmitCredentials(ctx context.Context, loginSessionID string, req *request.LoginRequest) (*response.OTPChallengeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}
	if loginSessionID == "" {
		return nil, fmt.Errorf("missing login session: %w", ErrSessionExpired)
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Unknown user and wrong password look the same to the caller
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("username", req.Username))
		metrics.LoginAttemptsTotal.WithLabelValues("password", "invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.CanLogin() {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		metrics.LoginAttemptsTotal.WithLabelValues("password", "inactive").Inc()
		return nil, ErrAccountInactive
	}

	if err := s.issueOTP(ctx, user); err != nil {
		return nil, err
	}

	pending := &entity.PendingLogin{
		SessionID: loginSessionID,
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.OTP.SavePending(ctx, pending, s.config.OTP.TTL()); err != nil {
		return nil, fmt.Errorf("record pending login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("password", "ok").Inc()
	s.log.Info("OTP issued", zap.String("user_id", user.ID.String()))

	return &response.OTPChallengeResponse{
		Email:     user.Email,
		Next:      SafeRedirect(req.Next),
		ExpiresIn: int(s.config.OTP.TTL().Seconds()),
	}, nil
}

// issueOTP claims the resend window, stores a fresh code and mails it.
// When the window is already claimed the live code is left untouched.
func (s *authService) issueOTP(ctx context.Context, user *entity.User) error {
	acquired, err := s.repo.OTP.AcquireCooldown(ctx, user.ID, s.clock.Now(), s.config.OTP.Cooldown())
	if err != nil {
		return fmt.Errorf("check OTP rate limit: %w", err)
	}
	if !acquired {
		s.log.Warn("OTP requested within cooldown", zap.String("user_id", user.ID.String()))
		metrics.LoginAttemptsTotal.WithLabelValues("password", "throttled").Inc()
		return ErrOTPThrottled
	}

	code, err := s.generateOTP()
	if err != nil {
		s.releaseCooldown(user.ID)
		return fmt.Errorf("generate OTP: %w", err)
	}

	otp := &entity.OTP{UserID: user.ID, Code: code}
	if err := s.repo.OTP.Save(ctx, otp, s.config.OTP.TTL()); err != nil {
		s.releaseCooldown(user.ID)
		return fmt.Errorf("store OTP: %w", err)
	}

	msg := mailer.Message{
		Subject: fmt.Sprintf("Your %s Login OTP", s.config.App.StoreName),
		Body:    fmt.Sprintf("Your OTP is %s. Valid for %d minutes.", code, int(s.config.OTP.TTL().Minutes())),
		From:    s.config.Email.From,
		To:      []string{user.Email},
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send OTP email", zap.Error(err), zap.String("user_id", user.ID.String()))
		// Roll back so the user can retry right away
		if delErr := s.repo.OTP.Delete(ctx, user.ID); delErr != nil {
			s.log.Warn("Failed to drop unsent OTP", zap.Error(delErr))
		}
		s.releaseCooldown(user.ID)
		return fmt.Errorf("send OTP: %w", err)
	}

	return nil
}

func (s *authService) releaseCooldown(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.OTP.ReleaseCooldown(ctx, userID); err != nil {
		s.log.Warn("Failed to release OTP cooldown", zap.Error(err), zap.String("user_id", userID.String()))
	}
}

func (s *authService) VerifyOTP(ctx context.Context, loginSessionID string, req *request.VerifyOTPRequest, client request.ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	// 1. Pending marker decides before the code is even looked at
	pending, err := s.repo.OTP.FindPending(ctx, loginSessionID)
	if err != nil {
		return nil, fmt.Errorf("find pending login: %w", err)
	}
	if pending == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("otp", "session_expired").Inc()
		return nil, ErrSessionExpired
	}
	if pending.Completed() {
		// The code for this session was already used
		metrics.LoginAttemptsTotal.WithLabelValues("otp", "invalid").Inc()
		return nil, ErrInvalidOrExpiredOTP
	}

	// 2. Compare and delete in one step; of two concurrent verifies with the
	// same code only one gets true
	consumed, err := s.repo.OTP.Consume(ctx, pending.UserID, strings.TrimSpace(req.OTP))
	if err != nil {
		return nil, fmt.Errorf("consume OTP: %w", err)
	}
	if !consumed {
		s.log.Warn("OTP mismatch", zap.String("user_id", pending.UserID.String()))
		metrics.LoginAttemptsTotal.WithLabelValues("otp", "invalid").Inc()
		return nil, ErrInvalidOrExpiredOTP
	}

	user, err := s.repo.User.FindByID(ctx, pending.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.CanLogin() {
		return nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.repo.OTP.CompletePending(ctx, pending, s.clock.Now(), s.config.OTP.TTL()); err != nil {
		s.log.Warn("Failed to clear pending login", zap.Error(err))
	}

	metrics.LoginAttemptsTotal.WithLabelValues("otp", "ok").Inc()
	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	publish(ctx, s.publisher, s.log, events.Event{
		Type:       events.TypeUserLoggedIn,
		Key:        user.ID.String(),
		OccurredAt: s.clock.Now(),
		Payload:    map[string]string{"user_id": user.ID.String(), "ip": client.IPAddress},
	})

	resp := response.AuthToResponse(user, session, SafeRedirect(req.Next))
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return fmt.Errorf("token: %w", ErrValidation)
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client request.ClientInfo) (*entity.Session, error) {
	now := s.clock.Now()
	session := &entity.Session{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(s.config.Session.TTL()),
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// SafeRedirect keeps post-login redirects on this site; anything else
// falls back to "/".
func SafeRedirect(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
