package postgres

import (
	"context"

	"skillijob-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type newsletterRepo struct {
	db *pgxpool.Pool
}

func NewNewsletterRepository(db *pgxpool.Pool) domain.NewsletterRepository {
	return &newsletterRepo{db: db}
}

func (r *newsletterRepo) Subscribe(ctx context.Context, sub *domain.NewsletterSubscriber) (bool, error) {
	query := `
		INSERT INTO newsletter_subscribers (email, source)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, sub.Email, sub.Source)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
