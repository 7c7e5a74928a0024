package cli

import (
	"fmt"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/spf13/cobra"
)

func newMaterialCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "material",
		Short: "Work with project materials",
	}
	cmd.AddCommand(newMaterialFulfillCmd(app))
	return cmd
}

func newMaterialFulfillCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fulfill ID...",
		Short: "Fulfill materials, drawing their quantities from inventory",
		Long: `Fulfill materials in the order they were added. The first material whose
inventory item cannot cover it stops the run; materials fulfilled before it
stay fulfilled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				id, err := app.Fulfillment.ResolveMaterialID(ctx, uid, arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			res, err := app.Fulfillment.Fulfill(ctx, service.FulfillRequest{UserID: uid, MaterialIDs: ids})
			fmt.Fprint(out(cmd), formatter.FormatFulfillResult(res))
			return err
		},
	}
}
