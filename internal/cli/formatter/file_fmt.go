package formatter

import (
	"github.com/alexanderramin/pantry/internal/domain"
)

// FormatFileList renders a project's attachments.
func FormatFileList(files []*domain.ProjectFile) string {
	if len(files) == 0 {
		return Dim("No files attached.")
	}
	headers := []string{"ID", "NAME", "TYPE", "SIZE", "ATTACHED TO", "DESCRIPTION"}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		owner := "project"
		if f.SubprojectID != nil {
			owner = "subproject " + domain.ShortID(*f.SubprojectID)
		}
		rows = append(rows, []string{
			TruncID(f.ID),
			Bold(f.Name()),
			Dim(f.FileType),
			Bytes(f.SizeBytes),
			owner,
			Truncate(Deref(f.Description), 40),
		})
	}
	return RenderTable(headers, rows, 3)
}
