package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
)

var ErrCredentialNotFound = errors.New("delete credential not found")

type CredentialRepository interface {
	Get(ctx context.Context) (*models.DeleteCredential, error)
	Create(ctx context.Context, cred *models.DeleteCredential) error
	// UpdateHash replaces the password hash and clears any pending reset token.
	UpdateHash(ctx context.Context, id int, passwordHash string) error
	SetResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, token string) (*models.DeleteCredential, error)
}

type postgresCredentialRepository struct {
	db *sql.DB
}

func NewPostgresCredentialRepository(db *sql.DB) CredentialRepository {
	return &postgresCredentialRepository{db: db}
}

func (r *postgresCredentialRepository) Get(ctx context.Context) (*models.DeleteCredential, error) {
	query := `
		SELECT id, password_hash, reset_token, reset_expires_at, updated_at
		FROM delete_credentials
		ORDER BY id ASC
		LIMIT 1`
	return r.scanCredential(r.db.QueryRowContext(ctx, query))
}

func (r *postgresCredentialRepository) Create(ctx context.Context, cred *models.DeleteCredential) error {
	query := `
		INSERT INTO delete_credentials (password_hash)
		VALUES ($1)
		RETURNING id, updated_at`
	return r.db.QueryRowContext(ctx, query, cred.PasswordHash).Scan(&cred.ID, &cred.UpdatedAt)
}

func (r *postgresCredentialRepository) UpdateHash(ctx context.Context, id int, passwordHash string) error {
	query := `
		UPDATE delete_credentials SET
			password_hash = $1,
			reset_token = NULL,
			reset_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCredentialNotFound)
}

func (r *postgresCredentialRepository) SetResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	query := `
		UPDATE delete_credentials SET
			reset_token = $1,
			reset_expires_at = $2,
			updated_at = NOW()
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCredentialNotFound)
}

func (r *postgresCredentialRepository) GetByResetToken(ctx context.Context, token string) (*models.DeleteCredential, error) {
	query := `
		SELECT id, password_hash, reset_token, reset_expires_at, updated_at
		FROM delete_credentials
		WHERE reset_token = $1`
	return r.scanCredential(r.db.QueryRowContext(ctx, query, token))
}

func (r *postgresCredentialRepository) scanCredential(row *sql.Row) (*models.DeleteCredential, error) {
	var c models.DeleteCredential
	var token sql.NullString
	var expiresAt sql.NullTime
	err := row.Scan(&c.ID, &c.PasswordHash, &token, &expiresAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	if token.Valid {
		c.ResetToken = &token.String
	}
	if expiresAt.Valid {
		c.ResetExpiresAt = &expiresAt.Time
	}
	return &c, nil
}
