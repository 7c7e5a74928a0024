package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/spf13/cobra"
)

func newInventoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage inventory items",
	}

	cmd.AddCommand(
		newInventoryListCmd(app),
		newInventoryAddCmd(app),
		newInventoryUpdateCmd(app),
		newInventorySetQtyCmd(app),
		newInventoryRemoveCmd(app),
		newInventoryBrowseCmd(app),
	)

	return cmd
}

func newInventoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List inventory items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			items, err := app.Inventory.List(ctx, uid)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatInventoryList(items))
			return nil
		},
	}
}

type inventoryFlags struct {
	name        string
	description string
	quantity    float64
	unit        string
	unitCost    float64
}

func (f *inventoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name")
	cmd.Flags().StringVar(&f.description, "description", "", "Item description")
	cmd.Flags().Float64Var(&f.quantity, "qty", 0, "Quantity on hand")
	cmd.Flags().StringVar(&f.unit, "unit", "", "Unit of measure (e.g. bottle, m, each)")
	cmd.Flags().Float64Var(&f.unitCost, "cost", 0, "Cost per unit")
}

// apply copies every flag the user set onto in.
func (f *inventoryFlags) apply(cmd *cobra.Command, in *service.InventoryItemInput) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = f.name
	}
	if flags.Changed("description") {
		in.Description = f.description
	}
	if flags.Changed("qty") {
		in.Quantity = f.quantity
	}
	if flags.Changed("unit") {
		in.Unit = f.unit
	}
	if flags.Changed("cost") {
		in.UnitCost = f.unitCost
	}
}

func newInventoryAddCmd(app *App) *cobra.Command {
	var flags inventoryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an inventory item",
		Long:  "Add an inventory item. Without --name an interactive form is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}

			var in service.InventoryItemInput
			if !cmd.Flags().Changed("name") {
				if !app.interactive() {
					return fmt.Errorf("--name is required")
				}
				if err := runInventoryForm(&in); err != nil {
					return err
				}
			} else {
				flags.apply(cmd, &in)
			}

			item, err := app.Inventory.Create(ctx, uid, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Added %s\n", formatter.FormatInventoryItem(item))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newInventoryUpdateCmd(app *App) *cobra.Command {
	var flags inventoryFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an inventory item's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Inventory.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			current, err := app.Inventory.Get(ctx, uid, id)
			if err != nil {
				return err
			}

			in := service.InventoryItemInput{
				Name:        current.Name,
				Description: formatter.Deref(current.Description),
				Quantity:    current.Quantity,
				Unit:        current.Unit,
				UnitCost:    current.UnitCost,
			}
			flags.apply(cmd, &in)

			item, err := app.Inventory.Update(ctx, uid, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated %s\n", formatter.FormatInventoryItem(item))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newInventorySetQtyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty ID QUANTITY",
		Short: "Set the quantity on hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Inventory.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			item, err := app.Inventory.SetQuantity(ctx, uid, id, qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated %s\n", formatter.FormatInventoryItem(item))
			return nil
		},
	}
}

func newInventoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete an inventory item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Inventory.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			if err := app.Inventory.Delete(ctx, uid, id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed inventory item %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newInventoryBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and adjust inventory interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal")
			}
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			return runInventoryBrowser(ctx, app.Inventory, uid)
		},
	}
}
