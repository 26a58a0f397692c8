package usecase

import (
	"context"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type newsletterUsecase struct {
	repo     domain.NewsletterRepository
	validate *validator.Validate
}

func NewNewsletterUsecase(repo domain.NewsletterRepository, validate *validator.Validate) domain.NewsletterUsecase {
	return &newsletterUsecase{repo: repo, validate: validate}
}

// Subscribe is idempotent: an address already on the list is not an error.
func (u *newsletterUsecase) Subscribe(ctx context.Context, req *domain.NewsletterRequest) (bool, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Source == "" {
		req.Source = "popup"
	}
	if err := validateStruct(u.validate, req); err != nil {
		return false, err
	}

	created, err := u.repo.Subscribe(ctx, &domain.NewsletterSubscriber{Email: req.Email, Source: req.Source})
	if err != nil {
		return false, apperror.Internal(err)
	}
	return created, nil
}
