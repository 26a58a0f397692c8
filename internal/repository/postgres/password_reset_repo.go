package postgres

import (
	"context"
	"errors"
	"time"

	"skillijob-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type passwordResetRepo struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) domain.PasswordResetRepository {
	return &passwordResetRepo{db: db}
}

// Create stores the token. Token holds the hash of the value sent by email.
func (r *passwordResetRepo) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, t.UserID, t.Token, t.ExpiresAt).Scan(&t.ID, &t.CreatedAt)
}

func (r *passwordResetRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	query := `
		UPDATE password_reset_tokens SET used = TRUE
		WHERE token_hash = $1 AND used = FALSE AND expires_at > $2
		RETURNING id, user_id, token_hash, expires_at, used, created_at`

	var t domain.PasswordResetToken
	err := r.db.QueryRow(ctx, query, tokenHash, now).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
