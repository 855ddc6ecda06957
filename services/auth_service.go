package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/repositories"
)

const (
	minPasswordLength = 6
	resetTokenLength  = 32
	resetTokenTTL     = 1 * time.Hour
)

// AuthService is the deletion-gate credential store. The single stored
// credential is created lazily on first use from the configured initial
// password; every later change goes through the reset flow. Nothing else
// in the system reads or writes credentials.
type AuthService interface {
	VerifyDeletePassword(ctx context.Context, password string) error
	GenerateResetToken(ctx context.Context) (string, error)
	ResetPasswordByToken(ctx context.Context, token, newPassword string) error
}

type authService struct {
	credRepo        repositories.CredentialRepository
	initialPassword string
}

func NewAuthService(credRepo repositories.CredentialRepository, initialPassword string) AuthService {
	return &authService{
		credRepo:        credRepo,
		initialPassword: initialPassword,
	}
}

func (s *authService) VerifyDeletePassword(ctx context.Context, password string) error {
	cred, err := s.ensureCredential(ctx)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidDeletePassword
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}

func (s *authService) GenerateResetToken(ctx context.Context) (string, error) {
	cred, err := s.ensureCredential(ctx)
	if err != nil {
		return "", err
	}
	token := generateRandomToken(resetTokenLength)
	if err := s.credRepo.SetResetToken(ctx, cred.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

func (s *authService) ResetPasswordByToken(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	cred, err := s.credRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrCredentialNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if cred.ResetExpiresAt == nil || cred.ResetExpiresAt.Before(time.Now()) {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	// UpdateHash also clears the reset token, making it single-use.
	if err := s.credRepo.UpdateHash(ctx, cred.ID, string(hash)); err != nil {
		return err
	}
	return nil
}

// ensureCredential returns the stored credential, seeding it from the
// configured initial password on first use.
func (s *authService) ensureCredential(ctx context.Context) (cred *models.DeleteCredential, err error) {
	cred, err = s.credRepo.Get(ctx)
	if err == nil {
		return cred, nil
	}
	if !errors.Is(err, repositories.ErrCredentialNotFound) {
		return nil, err
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(s.initialPassword), bcrypt.DefaultCost)
	if hashErr != nil {
		return nil, fmt.Errorf("failed to hash initial password: %w", hashErr)
	}
	cred = &models.DeleteCredential{PasswordHash: string(hash)}
	if createErr := s.credRepo.Create(ctx, cred); createErr != nil {
		return nil, fmt.Errorf("failed to seed delete credential: %w", createErr)
	}
	return cred, nil
}

func generateRandomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// time-derived token rather than panicking in a request path.
		b := make([]byte, length)
		for i := range b {
			b[i] = charset[int(time.Now().UnixNano())%len(charset)]
		}
		return string(b)
	}
	b := make([]byte, length)
	for i, rb := range randomBytes {
		b[i] = charset[int(rb)%len(charset)]
	}
	return string(b)
}
