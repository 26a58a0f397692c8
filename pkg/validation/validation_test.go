package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	FirstName       string `validate:"required,valid_name"`
	Phone           string `validate:"omitempty,valid_phone"`
	Position        string `validate:"omitempty,no_emoji"`
	NewPassword     string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

func TestValidators(t *testing.T) {
	v := New()

	ok := form{FirstName: "Émilie D'Arc-Leroy", Phone: "09 70 19 67 02", Position: "Chef de projet", NewPassword: "secret", ConfirmPassword: "secret"}
	require.NoError(t, v.Struct(ok))

	bad := form{FirstName: "R2D2", Phone: "12", Position: "Dev 🚀", NewPassword: "abc", ConfirmPassword: "abd"}
	err := v.Struct(bad)
	require.Error(t, err)

	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Prénom : seules les lettres, espaces, apostrophes et tirets sont autorisés")
	assert.Contains(t, msgs, "Téléphone : numéro de téléphone invalide")
	assert.Contains(t, msgs, "Poste : les emojis ne sont pas autorisés")
	assert.Contains(t, msgs, "Nouveau mot de passe : 6 caractères minimum")
	assert.Contains(t, msgs, "Les mots de passe ne correspondent pas")
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		norm  string
	}{
		{"09 70 19 67 02", true, "+33970196702"},
		{"06.12.34.56.78", true, "+33612345678"},
		{"+33 6 12 34 56 78", true, "+33612345678"},
		{"0033612345678", true, "+33612345678"},
		{"+44 20 7946 0958", true, "+442079460958"},
		{"0012", false, "0012"},
		{" abc ", false, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsPhone(tt.in))
			assert.Equal(t, tt.norm, NormalizePhone(tt.in))
		})
	}
}
