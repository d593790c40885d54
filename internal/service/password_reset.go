package service

import (
	"context"
	"crypto/rand"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/notify"
	"ecommerce-shop/internal/repository"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenValid   = "valid"
	TokenExpired = "expired"
	TokenInvalid = "invalid"

	MinPasswordLength = 8
)

type PasswordResetService interface {
	// RequestReset mails a reset link when a user has the address. It does
	// not tell the caller whether one does.
	RequestReset(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token, password1, password2 string) error
}

type passwordResetServiceImpl struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	tokenRepo  repository.ResetTokenRepository
	notifier   notify.Notifier
	dispatcher *notify.Dispatcher
	baseURL    string
	ttl        time.Duration
	now        func() time.Time
}

func NewPasswordResetService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	tokenRepo repository.ResetTokenRepository,
	notifier notify.Notifier,
	dispatcher *notify.Dispatcher,
	baseURL string,
	ttl time.Duration,
) PasswordResetService {
	return &passwordResetServiceImpl{
		db:         db,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		notifier:   notifier,
		dispatcher: dispatcher,
		baseURL:    strings.TrimRight(baseURL, "/"),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *passwordResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}

	value, err := newResetToken()
	if err != nil {
		return err
	}
	token := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	reset := notify.PasswordReset{
		Username:  user.Username,
		Email:     user.Email,
		ResetURL:  fmt.Sprintf("%s/api/password/reset/%s", s.baseURL, value),
		ExpiresIn: s.ttl,
	}
	s.dispatcher.Go(fmt.Sprintf("password-reset-%d", user.ID), func(ctx context.Context) error {
		return s.notifier.SendPasswordReset(ctx, reset)
	})

	return nil
}

func (s *passwordResetServiceImpl) ValidateToken(ctx context.Context, token string) (string, error) {
	_, err := s.lookup(ctx, token)
	switch {
	case err == nil:
		return TokenValid, nil
	case errors.Is(err, apperr.ErrTokenExpired):
		return TokenExpired, nil
	case errors.Is(err, apperr.ErrTokenInvalid):
		return TokenInvalid, nil
	default:
		return "", err
	}
}

func (s *passwordResetServiceImpl) ResetPassword(ctx context.Context, token, password1, password2 string) error {
	resetToken, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}

	if len(password1) < MinPasswordLength {
		return apperr.Validation("password1", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if password1 != password2 {
		return apperr.Validation("password2", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password1), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.tokenRepo.MarkUsed(ctx, tx, resetToken.ID, s.now())
		if err != nil {
			return fmt.Errorf("mark token used: %w", err)
		}
		if !ok {
			return apperr.ErrTokenInvalid
		}

		if err := s.userRepo.UpdatePassword(ctx, tx, resetToken.UserID, string(hash)); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return nil
	})
}

// lookup returns the token when it can still be used, ErrTokenExpired past
// its expiry and ErrTokenInvalid when it is unknown or already used.
func (s *passwordResetServiceImpl) lookup(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.ErrTokenInvalid
	}

	resetToken, err := s.tokenRepo.FindByToken(ctx, token)
	if apperr.IsNotFound(err) {
		return nil, apperr.ErrTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	if resetToken.UsedAt != nil {
		return nil, apperr.ErrTokenInvalid
	}
	if !s.now().Before(resetToken.ExpiresAt) {
		return nil, apperr.ErrTokenExpired
	}

	return resetToken, nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
