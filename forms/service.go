package forms

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stoewer/go-strcase"
)

// Client is the subset of apiclient.Client the service needs
type Client interface {
	Post(ctx context.Context, path string, body, out interface{}) error
}

var _ Client = (*apiclient.Client)(nil)

type Service struct {
	client Client
	logger zerolog.Logger
}

func NewService(client Client) *Service {
	return &Service{client: client, logger: log.Logger}
}

// Submit validates and posts the form. Field problems, local or reported by
// the server, come back as *errors.ValidationError keyed by the form's field
// names. Anything else wraps errors.ErrServer.
func (s *Service) Submit(ctx context.Context, p Payload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	err := s.client.Post(ctx, apiclient.RouteFormSubmit, p.ToSubmission(), nil)
	if err == nil {
		return nil
	}

	var apiErr *apiclient.APIError
	if apperrors.As(err, &apiErr) {
		if fields, ok := apiErr.FieldErrors(); ok {
			return MapFieldErrors(fields)
		}
	}
	s.logger.Err(err).Msg("Form submission failed")
	return fmt.Errorf("[Forms Submit] %w: %w", apperrors.ErrServer, err)
}

// MapFieldErrors renames server field names (full_name) to form field names (fullName)
func MapFieldErrors(fields map[string][]string) *apperrors.ValidationError {
	ve := &apperrors.ValidationError{Message: ErrorsBanner}
	for name, msgs := range fields {
		for _, msg := range msgs {
			ve.Add(strcase.LowerCamelCase(name), msg)
		}
	}
	return ve
}
