package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/prompt"
)

func loginCmd() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Ask for username, password and subscriber ID and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errors.New("login needs a terminal")
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			creds, err := prompt.NewTerminal().Prompt(ctx)
			if err != nil {
				return err
			}
			if !creds.Complete() {
				return domain.ErrIncompleteCredentials
			}

			if verify {
				session, err := a.API.Authenticate(ctx, creds.Username, creds.Password)
				if err != nil {
					return fmt.Errorf("login rejected, nothing stored: %w", err)
				}
				if _, err := a.API.FetchUsage(ctx, session, creds.SubscriberID); err != nil {
					return fmt.Errorf("usage check failed, nothing stored: %w", err)
				}
			}
			if err := a.Creds.Save(creds); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login stored.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", true, "check the login against the backend before storing it")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if err := a.Creds.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login removed.")
			return nil
		},
	}
}
