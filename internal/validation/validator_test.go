package validation_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/internal/validation"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"full_name" validate:"required,min=3"`
	Password string `json:"password" validate:"required,hasupper,haslower,hasdigit"`
	Phone    string `json:"phone" validate:"omitempty,phonechars"`
	Handle   string `json:"handle" validate:"omitempty,username"`
}

func TestValidator_Struct(t *testing.T) {
	v := validation.New()

	t.Run("valid", func(t *testing.T) {
		err := v.Struct(sample{Name: "Jane", Password: "Secret12", Phone: "+1 (555) 010-0000", Handle: "jane.doe"}, nil, "invalid")
		require.NoError(t, err)
	})

	t.Run("uses JSON names and custom messages", func(t *testing.T) {
		messages := validation.Messages{
			"full_name.min":     "Full name must be at least 3 characters",
			"password.hasdigit": "Digit required",
		}
		err := v.Struct(sample{Name: "Jo", Password: "Secretly", Phone: "abc", Handle: "no spaces"}, messages, "fix the errors")

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "fix the errors", ve.Message)
		require.Equal(t, []string{"Full name must be at least 3 characters"}, ve.Field("full_name"))
		require.Equal(t, []string{"Digit required"}, ve.Field("password"))
		require.Equal(t, []string{"phone is invalid"}, ve.Field("phone"))
		require.Equal(t, []string{"handle is invalid"}, ve.Field("handle"))
	})

	t.Run("default required message", func(t *testing.T) {
		err := v.Struct(sample{Password: "Secret12"}, nil, "invalid")

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, []string{"full_name is required"}, ve.Field("full_name"))
	})
}
