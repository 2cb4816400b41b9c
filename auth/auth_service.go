package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/token"
	"github.com/jrsteele09/go-agri-dashboard/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the subset of apiclient.Client the service needs
type Client interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	RefreshTokens(ctx context.Context, refresh string) (token.Pair, error)
}

var _ Client = (*apiclient.Client)(nil)

// Service manages the signed-in user: bootstrapping a session from stored
// tokens, logging in and out, and signing up.
type Service struct {
	client Client
	store  sessions.Store
	logger zerolog.Logger
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(client Client, store sessions.Store, options ...Option) (*Service, error) {
	if client == nil || store == nil {
		return nil, errors.New("[auth NewService] client and store are required")
	}
	s := &Service{
		client: client,
		store:  store,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string         `json:"access"`
	Refresh string         `json:"refresh"`
	User    *users.Profile `json:"user"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// Bootstrap resolves the user for the stored tokens. Without an access token
// the session is anonymous. If the user cannot be loaded the tokens are
// discarded and an anonymous session is returned; that is not an error.
func (s *Service) Bootstrap(ctx context.Context) (*sessions.Session, error) {
	tokens, err := sessions.LoadTokens(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("[Auth Bootstrap] %w", err)
	}
	if tokens.Access == "" {
		return &sessions.Session{}, nil
	}

	user, err := s.CurrentUser(ctx)
	if err != nil {
		s.logger.Info().Err(err).Msg("Stored session is no longer valid")
		if err := sessions.ClearTokens(ctx, s.store); err != nil {
			return nil, fmt.Errorf("[Auth Bootstrap] %w", err)
		}
		return &sessions.Session{}, nil
	}

	// The user lookup may have refreshed the tokens
	tokens, err = sessions.LoadTokens(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("[Auth Bootstrap] %w", err)
	}
	return &sessions.Session{AccessToken: tokens.Access, RefreshToken: tokens.Refresh, User: user}, nil
}

// Login exchanges credentials for a token pair and stores it. A 401 here means
// bad credentials and never triggers a refresh.
func (s *Service) Login(ctx context.Context, username, password string) (*users.Profile, error) {
	if username == "" || password == "" {
		return nil, &LoginError{Message: LoginFailedMessage, Err: MissingCredentialsErr}
	}

	var resp loginResponse
	err := s.client.Post(ctx, apiclient.RouteAuthLogin, loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		msg := LoginFailedMessage
		var apiErr *apiclient.APIError
		if apperrors.As(err, &apiErr) {
			msg = apiErr.Message(LoginFailedMessage)
		}
		return nil, &LoginError{Message: msg, Err: err}
	}
	if resp.Access == "" {
		return nil, &LoginError{Message: LoginFailedMessage, Err: EmptyTokenResponseErr}
	}

	if err := sessions.SaveTokens(ctx, s.store, token.Pair{Access: resp.Access, Refresh: resp.Refresh}); err != nil {
		return nil, fmt.Errorf("[Auth Login] %w", err)
	}
	s.logger.Info().Str("username", username).Msg("Login successful")

	if resp.User == nil {
		return s.CurrentUser(ctx)
	}
	return resp.User, nil
}

// Logout revokes the refresh token server-side and clears the local tokens.
// The local tokens are cleared even when the remote call fails, in which case
// the returned error wraps ErrLogoutFailed.
func (s *Service) Logout(ctx context.Context) error {
	refresh, _, err := s.store.Get(ctx, sessions.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("[Auth Logout] %w", err)
	}

	remoteErr := s.client.Post(ctx, apiclient.RouteAuthLogout, logoutRequest{Refresh: refresh}, nil)

	if err := sessions.ClearTokens(ctx, s.store); err != nil {
		return fmt.Errorf("[Auth Logout] %w", err)
	}
	if remoteErr != nil {
		s.logger.Warn().Err(remoteErr).Msg(LogoutFailedMessage)
		return fmt.Errorf("[Auth Logout] %w: %w", apperrors.ErrLogoutFailed, remoteErr)
	}
	s.logger.Info().Msg("Logged out successfully")
	return nil
}

// CurrentUser fetches the profile for the stored access token
func (s *Service) CurrentUser(ctx context.Context) (*users.Profile, error) {
	var user users.Profile
	if err := s.client.Get(ctx, apiclient.RouteAuthUser, nil, &user); err != nil {
		return nil, fmt.Errorf("[Auth CurrentUser] %w", err)
	}
	return &user, nil
}

// RefreshToken calls the refresh endpoint directly. It does not touch the
// stored tokens; the request pipeline does that on its own when needed.
func (s *Service) RefreshToken(ctx context.Context, refresh string) (token.Pair, error) {
	pair, err := s.client.RefreshTokens(ctx, refresh)
	if err != nil {
		return token.Pair{}, fmt.Errorf("[Auth RefreshToken] %w", err)
	}
	return pair, nil
}

// Register validates and submits a signup. Field problems come back as a
// *errors.ValidationError keyed by the API's field names; anything else is a
// *RegistrationError.
func (s *Service) Register(ctx context.Context, data users.RegisterData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	err := s.client.Post(ctx, apiclient.RouteAuthSignup, data, nil)
	if err == nil {
		return nil
	}

	var apiErr *apiclient.APIError
	if apperrors.As(err, &apiErr) {
		if fields, ok := apiErr.FieldErrors(); ok {
			return &apperrors.ValidationError{Message: users.RegisterErrorsBanner, Fields: fields}
		}
	}
	s.logger.Err(err).Msg("Registration failed")
	return &RegistrationError{Err: err}
}
