package postgres

import (
	"context"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type cvRepo struct {
	db *pgxpool.Pool
}

func NewCVRepository(db *pgxpool.Pool) domain.CVRepository {
	return &cvRepo{db: db}
}

func (r *cvRepo) Create(ctx context.Context, s *domain.CVSubmission) error {
	query := `
		INSERT INTO cv_submissions (id, first_name, last_name, email, phone, address, city, postal_code,
			position, summary, file_key, file_name, content_type, file_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.FirstName, s.LastName, s.Email, s.Phone, s.Address, s.City, s.PostalCode,
		s.Position, s.Summary, s.FileKey, s.FileName, s.ContentType, s.FileSize, s.CreatedAt,
	)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}
