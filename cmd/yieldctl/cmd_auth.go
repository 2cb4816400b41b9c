package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-agri-dashboard/auth"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/users"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session tokens",
		Long: `Exchange a username and password for an access and refresh token pair.
The password is read from standard input when --password is not given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			user, err := a.auth.Login(cmd.Context(), username, password)
			if err != nil {
				var loginErr *auth.LoginError
				if apperrors.As(err, &loginErr) {
					return fmt.Errorf("%s", loginErr.Message)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and forget the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				if apperrors.Is(err, apperrors.ErrLogoutFailed) {
					fmt.Fprintln(cmd.ErrOrStderr(), auth.LogoutFailedMessage)
				} else {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.auth.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if !session.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", session.User.DisplayName(), session.User.Email)
			return nil
		},
	}
}

func newSignupCmd(a *app) *cobra.Command {
	var data users.RegisterData
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if data.PasswordConfirm == "" {
				data.PasswordConfirm = data.Password
			}
			if err := a.auth.Register(cmd.Context(), data); err != nil {
				var ve *apperrors.ValidationError
				if apperrors.As(err, &ve) {
					printValidation(cmd.ErrOrStderr(), ve)
					return fmt.Errorf("%s", ve.Message)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. You can now log in.")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&data.Username, "username", "", "Username")
	flags.StringVar(&data.Email, "email", "", "Email address")
	flags.StringVar(&data.Password, "password", "", "Password")
	flags.StringVar(&data.PasswordConfirm, "password-confirm", "", "Password confirmation (defaults to --password)")
	flags.StringVar(&data.FirstName, "first-name", "", "First name")
	flags.StringVar(&data.LastName, "last-name", "", "Last name")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
