package usecase

import (
	"strings"

	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// validateStruct runs the struct tags and turns failures into a 400 carrying
// the French field messages.
func validateStruct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return apperror.BadRequest("Données invalides").WithDetails(validation.FormatValidationErrors(err))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
