package main

import (
	"github.com/jrsteele09/go-agri-dashboard/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "yieldctl",
		Short:         "Agricultural yield dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", a.cfg.GetAPIURL(), "Base URL of the dashboard API")
	flags.String("session-backend", string(a.cfg.GetSessionBackend()), "Where tokens are kept: file, redis or memory")
	flags.String("session-file", a.cfg.GetSessionFile(), "Session file for the file backend")
	flags.String("log-level", a.cfg.GetLogLevel(), "Log level")

	for key, name := range map[string]string{
		config.KeyAPIURL:         "api-url",
		config.KeySessionBackend: "session-backend",
		config.KeySessionFile:    "session-file",
		config.KeyLogLevel:       "log-level",
	} {
		cobra.CheckErr(a.cfg.BindFlag(key, flags.Lookup(name)))
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSignupCmd(a),
		newCropsCmd(a),
		newFormCmd(a),
		newThemeCmd(a),
		newVersionCmd(),
	)
	return root
}
