package mockapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/jrsteele09/go-agri-dashboard/internal/config"
	"github.com/jrsteele09/go-agri-dashboard/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Demo account seeded into every server
const (
	DemoUsername = "demo"
	DemoPassword = "Demo1234"
	DemoEmail    = "demo@example.com"
)

// Server is an in-memory stand-in for the yield dashboard REST API
type Server struct {
	env      string
	router   *mux.Router
	routes   []string
	config   config.MockAPIConfig
	logger   zerolog.Logger
	registry *prometheus.Registry

	users   *userStore
	tokens  *tokenIssuer
	refresh *refreshStore
	crops   *dataset

	signupDisabled bool

	hookLock sync.Mutex
	calls    map[string]int
	delays   map[string]time.Duration
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithCrops replaces the generated dataset
func WithCrops(records []crops.CropDetail) Option {
	return func(s *Server) {
		s.crops = newDataset(records)
	}
}

// WithSignupDisabled makes the signup endpoint reject every request with 403
func WithSignupDisabled() Option {
	return func(s *Server) {
		s.signupDisabled = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(cfg config.MockAPIConfig, env string, options ...Option) (*Server, error) {
	s := &Server{
		env:      env,
		router:   mux.NewRouter(),
		config:   cfg,
		logger:   log.Logger,
		registry: prometheus.NewRegistry(),
		users:    newUserStore(),
		tokens:   newTokenIssuer(cfg.GetJWTSecret(), cfg.GetAccessTokenTTL()),
		refresh:  newRefreshStore(cfg.GetRefreshTokenTTL()),
		crops:    newDataset(GenerateCrops(60)),
		calls:    make(map[string]int),
		delays:   make(map[string]time.Duration),
	}
	for _, opt := range options {
		opt(s)
	}

	metrics.RegisterCollectors(s.registry)

	if _, err := s.users.create(DemoUsername, DemoEmail, DemoPassword, "Demo", "Farmer"); err != nil {
		return nil, fmt.Errorf("[mockapi New] failed to seed demo user: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+path)
	s.router.HandleFunc(path, handler).Methods(method, http.MethodOptions)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		s.logger.Debug().Str("route", route).Msg("Registered route")
	}
}
