package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/pantry/internal/auth"
	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return errors.New("no session source configured")
			}
			s, err := app.Session.Session(cmd.Context())
			if err != nil {
				return err
			}
			line := formatter.Bold(s.UserID)
			if s.Email != "" {
				line += " " + formatter.Dim("<"+s.Email+">")
			}
			if !s.ExpiresAt.IsZero() {
				line += " " + formatter.Dim("token expires "+s.ExpiresAt.Local().Format(time.RFC3339))
			}
			fmt.Fprintln(out(cmd), line)
			return nil
		},
	}
}

func newTokenCmd(app *App) *cobra.Command {
	var (
		user, email string
		ttl         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long:  "Issue a signed bearer token for the API. Defaults to the current user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Verifier == nil {
				return errors.New("token needs a JWT secret (PANTRY_JWT_SECRET or auth.jwt_secret)")
			}
			if user == "" {
				uid, err := app.userID(cmd.Context())
				if err != nil {
					return err
				}
				user = uid
			}
			tok, err := app.Verifier.Issue(auth.Session{UserID: user, Email: email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id (default: current user)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
