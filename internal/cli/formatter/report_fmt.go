package formatter

import (
	"fmt"

	"github.com/alexanderramin/pantry/internal/service"
)

// FormatProjectReport renders the per-project cost and time summary.
func FormatProjectReport(r *service.ProjectReport) string {
	headers := []string{"PROJECT", "SUBPROJECTS", "MATERIALS", "HOURS", "COST"}
	rows := make([][]string, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		rows = append(rows, []string{
			Bold(row.Name),
			fmt.Sprintf("%d", row.SubprojectCount),
			fmt.Sprintf("%d/%d", row.FulfilledCount, row.MaterialCount),
			Number(row.EstimatedTime),
			Money(row.Cost),
		})
	}
	rows = append(rows, []string{
		Dim(fmt.Sprintf("%d projects", r.TotalProjects)), "", "",
		Bold(Number(r.TotalEstimatedTime)),
		Bold(Money(r.TotalCost)),
	})
	return RenderBox("Project Report", RenderTable(headers, rows, 1, 2, 3, 4))
}
