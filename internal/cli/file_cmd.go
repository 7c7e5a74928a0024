package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/spf13/cobra"
)

func newFileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Attach files to projects",
	}

	cmd.AddCommand(
		newFileAttachCmd(app),
		newFileListCmd(app),
		newFileGetCmd(app),
		newFileRemoveCmd(app),
	)

	return cmd
}

func newFileAttachCmd(app *App) *cobra.Command {
	var subproject, description string

	cmd := &cobra.Command{
		Use:   "attach PROJECT PATH",
		Short: "Attach a local file to a project or one of its subprojects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			projectID, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			subprojectID := ""
			if subproject != "" {
				subprojectID, err = resolveSubproject(ctx, app, uid, projectID, subproject)
				if err != nil {
					return err
				}
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[1], err)
			}
			defer f.Close()

			pf, err := app.Files.Attach(ctx, service.AttachFileRequest{
				UserID:       uid,
				ProjectID:    projectID,
				SubprojectID: subprojectID,
				Name:         filepath.Base(args[1]),
				ContentType:  mime.TypeByExtension(filepath.Ext(args[1])),
				Description:  description,
				Body:         f,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Attached %s %s (%s)\n",
				formatter.Bold(pf.Name()), formatter.Dim(pf.ID), formatter.Bytes(pf.SizeBytes))
			return nil
		},
	}

	cmd.Flags().StringVar(&subproject, "subproject", "", "Subproject id prefix or name")
	cmd.Flags().StringVar(&description, "description", "", "File description")
	return cmd
}

func newFileListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "List a project's files, including its subprojects'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			projectID, err := app.Projects.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			files, err := app.Files.List(ctx, uid, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatFileList(files))
			return nil
		},
	}
}

func newFileGetCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Files.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			pf, body, err := app.Files.Open(ctx, uid, id)
			if err != nil {
				return err
			}
			defer body.Close()

			if output == "-" {
				_, err := io.Copy(out(cmd), body)
				return err
			}
			path := output
			if path == "" {
				path = pf.Name()
			}
			dst, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			n, err := io.Copy(dst, body)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(out(cmd), "Saved %s (%s)\n", path, formatter.Bytes(n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path, or - for stdout (default: the file's name)")
	return cmd
}

func newFileRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}
			id, err := app.Files.ResolveID(ctx, uid, args[0])
			if err != nil {
				return err
			}
			if err := app.Files.Delete(ctx, uid, id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed file %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

// resolveSubproject matches input against the project's subprojects by id
// prefix or case-insensitive name.
func resolveSubproject(ctx context.Context, app *App, uid, projectID, input string) (string, error) {
	detail, err := app.Projects.GetDetail(ctx, uid, projectID)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, sp := range detail.Subprojects {
		if strings.HasPrefix(sp.ID, strings.ToLower(input)) || strings.EqualFold(sp.Name, input) {
			matches = append(matches, sp.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrSubprojectNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return "", domain.ErrAmbiguousID
	}
}
