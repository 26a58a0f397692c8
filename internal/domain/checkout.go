package domain

import (
	"context"
	"time"
)

// Plan is a pack of qualified profiles sold to companies.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceCents   int64    `json:"price_cents"`
	Currency     string   `json:"currency"`
	Period       string   `json:"period"`
	Profiles     int      `json:"profiles"`
	ValidityDays int      `json:"validity_days"`
	Popular      bool     `json:"popular"`
	Features     []string `json:"features"`
}

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

type Order struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	UserID      string    `json:"user_id"`
	PlanID      string    `json:"plan_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type CheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required,oneof=starter premium business"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type CheckoutUsecase interface {
	Plans() []Plan
	DefaultPlanID() string
	Checkout(ctx context.Context, user *User, req *CheckoutRequest) (*Order, error)
	Orders(ctx context.Context, userID string) ([]Order, error)
}
