package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-agri-dashboard/internal/config"
	"github.com/jrsteele09/go-agri-dashboard/internal/logging"
	"github.com/jrsteele09/go-agri-dashboard/internal/mockapi"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	pflag.String("port", "8080", "Port to listen on")
	pflag.String("log-level", "info", "Log level")
	pflag.Parse()

	for {
		if err := run(); err != nil {
			log.Err(err).Msg("Error running mock API")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Mock API stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if err := bindFlags(c); err != nil {
		return err
	}
	logging.Setup(c.GetLogLevel(), c.GetEnv())
	displayAppname(c.GetAppName())

	api, err := mockapi.New(c, c.GetEnv())
	if err != nil {
		return err
	}
	server := &http.Server{Addr: c.GetPort(), Handler: api, ReadHeaderTimeout: 10 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(server)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func bindFlags(c config.Config) error {
	if err := c.BindFlag(config.KeyMockPort, pflag.Lookup("port")); err != nil {
		return err
	}
	return c.BindFlag(config.KeyLogLevel, pflag.Lookup("log-level"))
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Mock API listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname+" mock API", "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
