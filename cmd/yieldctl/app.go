package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	"github.com/jrsteele09/go-agri-dashboard/auth"
	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/jrsteele09/go-agri-dashboard/forms"
	"github.com/jrsteele09/go-agri-dashboard/internal/config"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/internal/logging"
	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/sessions/filestore"
	"github.com/jrsteele09/go-agri-dashboard/sessions/memstore"
	"github.com/jrsteele09/go-agri-dashboard/sessions/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// app holds everything a command needs. It is built once per invocation in
// the root command's PersistentPreRunE.
type app struct {
	cfg    config.Config
	store  sessions.Store
	closer io.Closer
	errOut io.Writer

	client *apiclient.Client
	auth   *auth.Service
	crops  *crops.Service
	forms  *forms.Service
}

func newApp() *app {
	return &app{cfg: config.New()}
}

func (a *app) init(cmd *cobra.Command) error {
	logging.Setup(a.cfg.GetLogLevel(), a.cfg.GetEnv())
	a.errOut = cmd.ErrOrStderr()

	if a.store == nil {
		store, closer, err := openStore(a.cfg)
		if err != nil {
			return err
		}
		a.store, a.closer = store, closer
	}

	rps, burst := a.cfg.GetRateLimit()
	client, err := apiclient.New(a.cfg.GetAPIURL(), a.store,
		apiclient.WithTimeout(a.cfg.GetHTTPTimeout()),
		apiclient.WithRateLimit(rps, burst),
		apiclient.WithRefreshCoalescing(a.cfg.GetCoalesceRefresh()),
		apiclient.WithSessionExpiredHandler(a.sessionExpired),
	)
	if err != nil {
		return err
	}
	a.client = client

	if a.auth, err = auth.NewService(client, a.store); err != nil {
		return err
	}
	a.crops = crops.NewService(client)
	a.forms = forms.NewService(client)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *app) sessionExpired(error) {
	fmt.Fprintln(a.errOut, "Session expired. Run `yieldctl login` to sign in again.")
}

// openStore selects the session backend named in the configuration
func openStore(cfg config.SessionConfig) (sessions.Store, io.Closer, error) {
	switch cfg.GetSessionBackend() {
	case config.SessionBackendFile:
		return filestore.New(cfg.GetSessionFile()), nil, nil
	case config.SessionBackendMemory:
		return memstore.New(), nil, nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("[yieldctl] redis session store at %s: %w", cfg.GetRedisAddr(), err)
		}
		return redisstore.New(client, cfg.GetRedisPrefix()), client, nil
	}
	return nil, nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "unknown session backend %q", cfg.GetSessionBackend())
}
