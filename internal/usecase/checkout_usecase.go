package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var sharedPlanFeatures = []string{
	"Dossiers complets sous 24h",
	"CV + coordonnées + compte-rendu RH",
}

// plans is the catalogue shown on the payment page, in display order.
var plans = []domain.Plan{
	{
		ID: "starter", Name: "Starter", PriceCents: 29900, Currency: "EUR", Period: "pack",
		Profiles: 3, ValidityDays: 30,
		Features: slices.Concat([]string{"3 profils qualifiés"}, sharedPlanFeatures, []string{
			"Support par email",
			"Validité 30 jours",
		}),
	},
	{
		ID: "premium", Name: "Premium", PriceCents: 49900, Currency: "EUR", Period: "pack",
		Profiles: 5, ValidityDays: 60, Popular: true,
		Features: slices.Concat([]string{"5 profils qualifiés"}, sharedPlanFeatures, []string{
			"Garantie remplacement",
			"Support prioritaire",
			"Validité 60 jours",
			"Sourcing renforcé",
		}),
	},
	{
		ID: "business", Name: "Business", PriceCents: 89900, Currency: "EUR", Period: "pack",
		Profiles: 10, ValidityDays: 90,
		Features: slices.Concat([]string{"10 profils qualifiés"}, sharedPlanFeatures, []string{
			"Garantie remplacement",
			"Support dédié",
			"Validité 90 jours",
			"Sourcing renforcé",
			"Accès base de données étendue",
		}),
	},
}

type checkoutUsecase struct {
	orders   domain.OrderRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewCheckoutUsecase(orders domain.OrderRepository, validate *validator.Validate) domain.CheckoutUsecase {
	return &checkoutUsecase{orders: orders, validate: validate, now: time.Now}
}

func (u *checkoutUsecase) Plans() []domain.Plan {
	out := make([]domain.Plan, len(plans))
	for i, p := range plans {
		p.Features = slices.Clone(p.Features)
		out[i] = p
	}
	return out
}

// DefaultPlanID is the plan preselected on the payment page.
func (u *checkoutUsecase) DefaultPlanID() string {
	for _, p := range plans {
		if p.Popular {
			return p.ID
		}
	}
	return plans[0].ID
}

func findPlan(id string) (domain.Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Plan{}, false
}

// Checkout records a pending order for the plan. Only company accounts buy packs.
func (u *checkoutUsecase) Checkout(ctx context.Context, user *domain.User, req *domain.CheckoutRequest) (*domain.Order, error) {
	if user == nil {
		return nil, apperror.Unauthorized("Connexion requise")
	}
	if user.UserType != domain.UserTypeCompany {
		return nil, apperror.Forbidden("Les packs sont réservés aux comptes entreprise")
	}
	req.PlanID = strings.ToLower(strings.TrimSpace(req.PlanID))
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}
	plan, ok := findPlan(req.PlanID)
	if !ok {
		return nil, apperror.NotFound("Offre introuvable")
	}

	now := u.now().UTC()
	id := uuid.New()
	order := &domain.Order{
		ID:          id.String(),
		Reference:   fmt.Sprintf("SKJ-%s-%s", now.Format("20060102"), strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])),
		UserID:      user.ID,
		PlanID:      plan.ID,
		AmountCents: plan.PriceCents,
		Currency:    plan.Currency,
		Status:      domain.OrderStatusPending,
		ExpiresAt:   now.AddDate(0, 0, plan.ValidityDays),
		CreatedAt:   now,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (u *checkoutUsecase) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return orders, nil
}
