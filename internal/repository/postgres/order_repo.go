package postgres

import (
	"context"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	query := `
		INSERT INTO orders (id, reference, user_id, plan_id, amount_cents, currency, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		o.ID, o.Reference, o.UserID, o.PlanID, o.AmountCents, o.Currency, o.Status, o.ExpiresAt, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Référence de commande déjà utilisée")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT id, reference, user_id, plan_id, amount_cents, currency, status, expires_at, created_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.PlanID, &o.AmountCents, &o.Currency, &o.Status, &o.ExpiresAt, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
