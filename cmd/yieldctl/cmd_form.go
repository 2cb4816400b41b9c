package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jrsteele09/go-agri-dashboard/forms"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/spf13/cobra"
)

func newFormCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Work with the contact form",
	}

	var file string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit a contact form",
		Long: `Validate and submit a contact form read as JSON from --file, or from
standard input when --file is "-". Field names are the form's camelCase names.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readPayload(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if err := a.forms.Submit(cmd.Context(), payload); err != nil {
				var ve *apperrors.ValidationError
				if apperrors.As(err, &ve) {
					printValidation(cmd.ErrOrStderr(), ve)
					return fmt.Errorf("%s", ve.Message)
				}
				if apperrors.Is(err, apperrors.ErrServer) {
					return fmt.Errorf("%s", forms.ServerErrorMessage)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Form submitted")
			return nil
		},
	}
	submit.Flags().StringVarP(&file, "file", "f", "-", "JSON file holding the form")
	cmd.AddCommand(submit)
	return cmd
}

func readPayload(stdin io.Reader, file string) (forms.Payload, error) {
	var payload forms.Payload
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return payload, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return payload, fmt.Errorf("[yieldctl form] decoding %s: %w", file, err)
	}
	return payload, nil
}
