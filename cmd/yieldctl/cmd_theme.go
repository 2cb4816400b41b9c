package main

import (
	"fmt"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/spf13/cobra"
)

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the table theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(sessions.ThemeLight), string(sessions.ThemeDark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				theme sessions.Theme
				err   error
			)
			switch {
			case len(args) == 0:
				theme, err = sessions.LoadTheme(ctx, a.store)
			case args[0] == "toggle":
				theme, err = sessions.ToggleTheme(ctx, a.store)
			default:
				theme = sessions.Theme(args[0])
				err = sessions.SaveTheme(ctx, a.store, theme)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
}
