package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/services"
)

func TestVerifyDeletePasswordSeedsCredentialOnFirstUse(t *testing.T) {
	repo := &mockCredentialRepo{}
	svc := services.NewAuthService(repo, "hunter2")

	if err := svc.VerifyDeletePassword(context.Background(), "hunter2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.cred == nil {
		t.Fatal("credential was not seeded")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.cred.PasswordHash), []byte("hunter2")); err != nil {
		t.Errorf("seeded hash does not match initial password: %v", err)
	}
}

func TestVerifyDeletePasswordWrongPassword(t *testing.T) {
	repo := &mockCredentialRepo{}
	svc := services.NewAuthService(repo, "hunter2")

	err := svc.VerifyDeletePassword(context.Background(), "wrong")
	if !errors.Is(err, services.ErrInvalidDeletePassword) {
		t.Fatalf("error = %v, want ErrInvalidDeletePassword", err)
	}
}

func TestGenerateResetTokenStoresTokenWithExpiry(t *testing.T) {
	repo := &mockCredentialRepo{}
	svc := services.NewAuthService(repo, "hunter2")

	token, err := svc.GenerateResetToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if repo.cred.ResetToken == nil || *repo.cred.ResetToken != token {
		t.Error("token was not stored on the credential")
	}
	if repo.cred.ResetExpiresAt == nil || !repo.cred.ResetExpiresAt.After(time.Now()) {
		t.Error("expiry missing or already past")
	}
}

func TestResetPasswordByToken(t *testing.T) {
	repo := &mockCredentialRepo{}
	svc := services.NewAuthService(repo, "hunter2")

	token, err := svc.GenerateResetToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.ResetPasswordByToken(context.Background(), token, "newpassword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.VerifyDeletePassword(context.Background(), "newpassword"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if err := svc.VerifyDeletePassword(context.Background(), "hunter2"); !errors.Is(err, services.ErrInvalidDeletePassword) {
		t.Errorf("old password still accepted: %v", err)
	}
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	repo := &mockCredentialRepo{}
	svc := services.NewAuthService(repo, "hunter2")

	token, _ := svc.GenerateResetToken(context.Background())
	if err := svc.ResetPasswordByToken(context.Background(), token, "newpassword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.ResetPasswordByToken(context.Background(), token, "another-one")
	if !errors.Is(err, services.ErrResetTokenInvalid) {
		t.Fatalf("reused token error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	token := "expired-token"
	past := time.Now().Add(-time.Minute)
	repo := &mockCredentialRepo{cred: &models.DeleteCredential{
		ID:             1,
		PasswordHash:   string(hash),
		ResetToken:     &token,
		ResetExpiresAt: &past,
	}}
	svc := services.NewAuthService(repo, "hunter2")

	err := svc.ResetPasswordByToken(context.Background(), token, "newpassword")
	if !errors.Is(err, services.ErrResetTokenInvalid) {
		t.Fatalf("error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordTooShort(t *testing.T) {
	svc := services.NewAuthService(&mockCredentialRepo{}, "hunter2")

	err := svc.ResetPasswordByToken(context.Background(), "whatever", "abc")
	if !errors.Is(err, services.ErrPasswordTooShort) {
		t.Fatalf("error = %v, want ErrPasswordTooShort", err)
	}
}

func TestResetPasswordUnknownToken(t *testing.T) {
	svc := services.NewAuthService(&mockCredentialRepo{}, "hunter2")

	err := svc.ResetPasswordByToken(context.Background(), "no-such-token", "newpassword")
	if !errors.Is(err, services.ErrResetTokenInvalid) {
		t.Fatalf("error = %v, want ErrResetTokenInvalid", err)
	}
}
