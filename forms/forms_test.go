package forms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	"github.com/jrsteele09/go-agri-dashboard/forms"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/internal/utils"
	"github.com/stretchr/testify/require"
)

func validPayload() forms.Payload {
	return forms.Payload{
		FullName:      "Jane Farmer",
		Email:         "jane@example.com",
		Password:      "Harvest2024",
		ContactMethod: forms.ContactEmail,
		AgreeTerms:    true,
	}
}

func TestToSubmission(t *testing.T) {
	t.Run("minimal payload", func(t *testing.T) {
		p := forms.Payload{FullName: "Jane", ContactMethod: forms.ContactEmail, AgreeTerms: true}
		data, err := json.Marshal(p.ToSubmission())
		require.NoError(t, err)
		require.JSONEq(t, `{"full_name":"Jane","contact_method":"email","agree_terms":true}`, string(data))
	})

	t.Run("all fields", func(t *testing.T) {
		p := validPayload()
		p.Phone = "+1 (555) 010-2030"
		p.Age = utils.Ptr(42)
		p.Website = "https://farm.example.com"
		p.Bio = "Grows wheat"
		p.Country = "Canada"

		data, err := json.Marshal(p.ToSubmission())
		require.NoError(t, err)
		require.JSONEq(t, `{
			"full_name":"Jane Farmer","email":"jane@example.com","password":"Harvest2024",
			"phone":"+1 (555) 010-2030","age":42,"website":"https://farm.example.com",
			"bio":"Grows wheat","country":"Canada","agree_terms":true,"contact_method":"email"
		}`, string(data))
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, validPayload().Validate())

	tests := []struct {
		name   string
		mutate func(*forms.Payload)
		field  string
		want   string
	}{
		{"full name too short", func(p *forms.Payload) { p.FullName = "Jo" }, "fullName", "Full name must be at least 3 characters"},
		{"bad email", func(p *forms.Payload) { p.Email = "nope" }, "email", "Please enter a valid email"},
		{"password without digit", func(p *forms.Payload) { p.Password = "Harvesting" }, "password", "Digit required"},
		{"password without upper", func(p *forms.Payload) { p.Password = "harvest2024" }, "password", "Uppercase required"},
		{"phone required for phone contact", func(p *forms.Payload) { p.ContactMethod = forms.ContactBoth }, "phone", "Phone is required"},
		{"phone characters", func(p *forms.Payload) { p.Phone = "555-CALL-NOW" }, "phone", "Invalid phone characters"},
		{"phone too short", func(p *forms.Payload) { p.Phone = "555 0101" }, "phone", "Phone number must be at least 10 digits"},
		{"age out of range", func(p *forms.Payload) { p.Age = utils.Ptr(151) }, "age", "Valid age required"},
		{"age zero", func(p *forms.Payload) { p.Age = utils.Ptr(0) }, "age", "Valid age required"},
		{"website", func(p *forms.Payload) { p.Website = "farm dot com" }, "website", "Please enter a valid URL"},
		{"bio too long", func(p *forms.Payload) { p.Bio = strings.Repeat("a", 501) }, "bio", "Bio cannot exceed 500 characters"},
		{"terms", func(p *forms.Payload) { p.AgreeTerms = false }, "agreeTerms", "Agree to terms"},
		{"contact method", func(p *forms.Payload) { p.ContactMethod = "pigeon" }, "contactMethod", "Please select a contact method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, p.Validate(), &ve)
			require.Equal(t, forms.ErrorsBanner, ve.Message)
			require.Contains(t, ve.Field(tt.field), tt.want)
		})
	}

	t.Run("phone optional for email contact", func(t *testing.T) {
		p := validPayload()
		p.ContactMethod = forms.ContactEmail
		require.NoError(t, p.Validate())
	})
}

type fakeClient struct {
	err  error
	body interface{}
}

func (f *fakeClient) Post(_ context.Context, path string, body, _ interface{}) error {
	if path != apiclient.RouteFormSubmit {
		return &apiclient.APIError{StatusCode: http.StatusNotFound}
	}
	f.body = body
	return f.err
}

func TestSubmit(t *testing.T) {
	t.Run("posts the snake case submission", func(t *testing.T) {
		client := &fakeClient{}
		require.NoError(t, forms.NewService(client).Submit(context.Background(), validPayload()))
		require.Equal(t, validPayload().ToSubmission(), client.body)
	})

	t.Run("invalid payload is not sent", func(t *testing.T) {
		client := &fakeClient{}
		p := validPayload()
		p.AgreeTerms = false
		require.ErrorIs(t, forms.NewService(client).Submit(context.Background(), p), apperrors.ErrValidation)
		require.Nil(t, client.body)
	})

	t.Run("server field errors map to form fields", func(t *testing.T) {
		client := &fakeClient{err: &apiclient.APIError{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(`{"details":{"full_name":["Name already registered."],"agree_terms":"Required."}}`),
		}}
		err := forms.NewService(client).Submit(context.Background(), validPayload())

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, forms.ErrorsBanner, ve.Message)
		require.Equal(t, map[string][]string{
			"fullName":   {"Name already registered."},
			"agreeTerms": {"Required."},
		}, ve.Fields)
	})

	t.Run("other failures are server errors", func(t *testing.T) {
		client := &fakeClient{err: &apiclient.APIError{StatusCode: http.StatusForbidden}}
		err := forms.NewService(client).Submit(context.Background(), validPayload())
		require.ErrorIs(t, err, apperrors.ErrServer)
		require.NotErrorIs(t, err, apperrors.ErrValidation)
	})
}
