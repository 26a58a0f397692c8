package usecase

import (
	"context"
	"strings"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/email"

	"github.com/go-playground/validator/v10"
)

type contactUsecase struct {
	mailer   email.Mailer
	validate *validator.Validate
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer email.Mailer, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{mailer: mailer, validate: validate}
}

// SendContactMessage validates the contact request and sends the email
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(uc.validate, req); err != nil {
		return err
	}

	if !uc.mailer.IsConfigured() {
		return apperror.Unavailable("Le formulaire de contact est momentanément indisponible", nil)
	}

	err := uc.mailer.SendContactEmail(email.ContactEmailData{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
	})
	if err != nil {
		return apperror.Unavailable("Impossible d'envoyer votre message, réessayez plus tard", err)
	}
	return nil
}
