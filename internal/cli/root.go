package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/pantry/internal/app"
	"github.com/alexanderramin/pantry/internal/auth"
	"github.com/alexanderramin/pantry/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds the services and session plumbing used by CLI commands.
type App struct {
	*app.Services

	// Session resolves the signed-in user for every command.
	Session  auth.Source
	Verifier *auth.Verifier
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	// IsInteractive reports whether stdin is a terminal. Wizards and the
	// browse view refuse to start when it returns false.
	IsInteractive func() bool
}

// userID returns the current session's user id.
func (a *App) userID(ctx context.Context) (string, error) {
	if a.Session == nil {
		return "", fmt.Errorf("no session source configured")
	}
	s, err := a.Session.Session(ctx)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// NewRootCmd creates the top-level "pantry" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pantry",
		Short:         "Track DIY projects and the inventory they consume",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInventoryCmd(app),
		newProjectCmd(app),
		newMaterialCmd(app),
		newReportCmd(app),
		newFileCmd(app),
		newServeCmd(app),
		newWhoamiCmd(app),
		newTokenCmd(app),
	)

	return root
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
