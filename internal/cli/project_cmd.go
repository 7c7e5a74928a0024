package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"proj"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectNewCmd(app),
		newProjectCreateCmd(app),
		newProjectExportCmd(app),
		newProjectEditCmd(app),
		newProjectRemoveCmd(app),
		newProjectFulfillCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var opts service.ListProjectsOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			projects, err := app.Projects.List(ctx, uid, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatProjectList(projects, uid))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter by name or description")
	cmd.Flags().BoolVar(&opts.IncludePublic, "public", false, "Include other users' public projects")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   "Show a project with its materials",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			detail, err := app.Projects.GetDetail(ctx, uid, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatProjectDetail(detail, width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for descriptions")
	return cmd
}

func newProjectNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a project with an interactive wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !app.interactive() {
				return errors.New("project new needs an interactive terminal; use project create -f FILE")
			}
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			items, err := app.Inventory.List(ctx, uid)
			if err != nil {
				return err
			}
			wizard := &projectWizard{items: items}
			form, err := wizard.run()
			if err != nil {
				return err
			}
			return saveProject(cmd, app, uid, "", form)
		},
	}
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project from a YAML or JSON form file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			form, err := readProjectForm(file)
			if err != nil {
				return err
			}
			return saveProject(cmd, app, uid, "", form)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Project form file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProjectExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a project's form as YAML for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			form, err := app.Saver.LoadForm(ctx, uid, id)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(form)
			if err != nil {
				return fmt.Errorf("encoding form: %w", err)
			}
			if output == "" || output == "-" {
				_, err = out(cmd).Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(out(cmd), "Exported %s to %s\n", formatter.Bold(form.Name), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newProjectEditCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace a project's details, materials and subprojects from a form file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			form, err := readProjectForm(file)
			if err != nil {
				return err
			}
			return saveProject(cmd, app, uid, id, form)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Project form file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a project with its subprojects, materials and files",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, uid, id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed project %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newProjectFulfillCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fulfill ID",
		Short: "Fulfill every pending material of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			res, err := app.Fulfillment.FulfillProject(ctx, uid, id)
			fmt.Fprint(out(cmd), formatter.FormatFulfillResult(res))
			return err
		},
	}
}

// readProjectForm decodes a form file. JSON is accepted because it is a
// subset of YAML.
func readProjectForm(path string) (domain.ProjectForm, error) {
	var form domain.ProjectForm
	data, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("parsing %s: %w", path, err)
	}
	form.NormalizeOrder()
	return form, nil
}

// saveProject creates the project when projectID is empty and updates it
// otherwise.
func saveProject(cmd *cobra.Command, app *App, uid, projectID string, form domain.ProjectForm) error {
	ctx := cmd.Context()
	var (
		res  *service.SaveResult
		err  error
		verb = "Created"
	)
	if projectID == "" {
		res, err = app.Saver.Create(ctx, uid, form)
	} else {
		verb = "Updated"
		res, err = app.Saver.Update(ctx, uid, projectID, form)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "%s project %s %s (%d subprojects, %d materials)\n",
		verb, formatter.Bold(res.Project.Name), formatter.Dim(res.Project.DisplayID()),
		len(res.SubprojectIDs), res.MaterialCount)
	return nil
}
