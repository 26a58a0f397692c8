package postgres

import (
	"context"
	"time"

	"skillijob-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type loginAttemptRepo struct {
	db *pgxpool.Pool
}

func NewLoginAttemptRepository(db *pgxpool.Pool) domain.LoginAttemptRepository {
	return &loginAttemptRepo{db: db}
}

func (r *loginAttemptRepo) Record(ctx context.Context, identifier string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO login_attempts (identifier, attempted_at) VALUES ($1, $2)`,
		identifier, at,
	)
	return err
}

func (r *loginAttemptRepo) CountSince(ctx context.Context, identifier string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM login_attempts WHERE identifier = $1 AND attempted_at > $2`,
		identifier, since,
	).Scan(&count)
	return count, err
}

func (r *loginAttemptRepo) Clear(ctx context.Context, identifier string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM login_attempts WHERE identifier = $1`, identifier)
	return err
}
