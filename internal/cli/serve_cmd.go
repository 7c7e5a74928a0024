package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/pantry/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Verifier == nil {
				return errors.New("serve needs a JWT secret (PANTRY_JWT_SECRET or auth.jwt_secret)")
			}
			if !cmd.Flags().Changed("addr") {
				addr = app.Config.Server.Addr
			}

			router, err := httpapi.NewRouter(httpapi.Options{
				Services: app.Services,
				Verifier: app.Verifier,
				Logger:   app.logger(),
				Gzip:     app.Config.Server.Gzip,
				Registry: app.Registry,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return httpapi.Serve(ctx, addr, router, app.logger())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
