package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown on the French forms
var FieldLabels = map[string]string{
	// Account fields
	"Email":           "Email",
	"Password":        "Mot de passe",
	"CurrentPassword": "Mot de passe actuel",
	"NewPassword":     "Nouveau mot de passe",
	"ConfirmPassword": "Confirmation du mot de passe",
	"UserType":        "Type de compte",
	"FirstName":       "Prénom",
	"LastName":        "Nom",
	"CompanyName":     "Nom de l'entreprise",
	"Phone":           "Téléphone",
	"Position":        "Poste",
	"Token":           "Lien de réinitialisation",

	// CV fields
	"Address":    "Adresse",
	"City":       "Ville",
	"PostalCode": "Code postal",
	"Summary":    "Présentation",

	// Contact and newsletter
	"Name":    "Nom",
	"Subject": "Sujet",
	"Message": "Message",
	"Source":  "Origine",

	// Directory query
	"Query":        "Recherche",
	"Region":       "Région",
	"Sector":       "Secteur",
	"Experience":   "Expérience",
	"Availability": "Disponibilité",
	"Skills":       "Compétences",
	"Sort":         "Tri",

	// Checkout
	"PlanID": "Offre",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s : champ obligatoire", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s : %s caractères minimum", label, param)
		}
		return fmt.Sprintf("%s : minimum %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s : %s caractères maximum", label, param)
		}
		return fmt.Sprintf("%s : maximum %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s : doit être l'une des valeurs suivantes : %s", label, strings.Join(strings.Fields(param), ", "))

	case "email":
		return fmt.Sprintf("%s : adresse email invalide", label)

	case "eqfield":
		if e.Field() == "ConfirmPassword" {
			return "Les mots de passe ne correspondent pas"
		}
		return fmt.Sprintf("%s : doit être identique à %s", label, getFieldLabel(param))

	case "valid_name":
		return fmt.Sprintf("%s : seules les lettres, espaces, apostrophes et tirets sont autorisés", label)

	case "valid_phone":
		return fmt.Sprintf("%s : numéro de téléphone invalide", label)

	case "no_emoji":
		return fmt.Sprintf("%s : les emojis ne sont pas autorisés", label)

	case "postcode_iso3166_alpha2":
		return fmt.Sprintf("%s : code postal invalide", label)

	default:
		return fmt.Sprintf("%s : valeur invalide", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
