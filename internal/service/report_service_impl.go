package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ProjectReportRow summarizes one project.
type ProjectReportRow struct {
	ProjectID       string    `json:"project_id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	EstimatedTime   float64   `json:"estimated_time"`
	Cost            float64   `json:"cost"`
	SubprojectCount int       `json:"subproject_count"`
	MaterialCount   int       `json:"material_count"`
	FulfilledCount  int       `json:"fulfilled_count"`
}

// ProjectReport covers all of a user's projects, newest first.
type ProjectReport struct {
	GeneratedAt        time.Time          `json:"generated_at"`
	Rows               []ProjectReportRow `json:"rows"`
	TotalProjects      int                `json:"total_projects"`
	TotalEstimatedTime float64            `json:"total_estimated_time"`
	TotalCost          float64            `json:"total_cost"`
}

const reportSheet = "Projects"

var reportHeaders = []string{
	"Project", "Created", "Updated", "Estimated Time (h)", "Cost", "Subprojects", "Materials", "Fulfilled",
}

type reportService struct {
	projects    repository.ProjectRepo
	subprojects repository.SubprojectRepo
	materials   repository.MaterialRepo
	observer    UseCaseObserver
	now         func() time.Time
}

func NewReportService(
	projects repository.ProjectRepo,
	subprojects repository.SubprojectRepo,
	materials repository.MaterialRepo,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		projects:    projects,
		subprojects: subprojects,
		materials:   materials,
		observer:    useCaseObserverOrNoop(observers),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ProjectReport prices every material at its item's unit cost, counting
// direct and subproject materials toward the owning project.
func (s *reportService) ProjectReport(ctx context.Context, userID string) (*ProjectReport, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, repository.ProjectFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	owned, err := s.materials.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	type tally struct {
		cost      float64
		count     int
		fulfilled int
	}
	byProject := make(map[string]*tally, len(projects))
	for _, m := range owned {
		t := byProject[m.OwnerProjectID]
		if t == nil {
			t = &tally{}
			byProject[m.OwnerProjectID] = t
		}
		t.cost += m.Cost()
		t.count++
		if m.IsFulfilled {
			t.fulfilled++
		}
	}

	report := &ProjectReport{GeneratedAt: s.now()}
	for _, p := range projects {
		subs, err := s.subprojects.ListByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		row := ProjectReportRow{
			ProjectID:       p.ID,
			Name:            p.Name,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
			EstimatedTime:   domain.FloatValue(p.EstimatedTime),
			SubprojectCount: len(subs),
		}
		if t := byProject[p.ID]; t != nil {
			row.Cost = t.cost
			row.MaterialCount = t.count
			row.FulfilledCount = t.fulfilled
		}
		report.Rows = append(report.Rows, row)
		report.TotalEstimatedTime += row.EstimatedTime
		report.TotalCost += row.Cost
	}
	report.TotalProjects = len(report.Rows)
	return report, nil
}

// ExportXLSX writes the project report as a workbook with a bold header and
// a bold summary row.
func (s *reportService) ExportXLSX(ctx context.Context, userID string, w io.Writer) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "export-project-report", startedAt, fields, &err)

	report, err := s.ProjectReport(ctx, userID)
	if err != nil {
		return err
	}
	fields["projects"] = report.TotalProjects

	f, err := BuildReportWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ReportFilename names an exported report after its generation date.
func ReportFilename(generatedAt time.Time) string {
	return fmt.Sprintf("pantry-report-%s.xlsx", generatedAt.Format("20060102"))
}

// BuildReportWorkbook lays the report out on a single sheet.
func BuildReportWorkbook(report *ProjectReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, h)
		f.SetCellStyle(reportSheet, cell, cell, headerStyle)
	}

	row := 2
	for _, r := range report.Rows {
		values := []any{
			r.Name,
			r.CreatedAt.Format("2006-01-02"),
			r.UpdatedAt.Format("2006-01-02"),
			r.EstimatedTime,
			r.Cost,
			r.SubprojectCount,
			r.MaterialCount,
			r.FulfilledCount,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(reportSheet, cell, v)
		}
		row++
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating summary style: %w", err)
	}
	f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("Total (%d projects)", report.TotalProjects))
	f.SetCellValue(reportSheet, fmt.Sprintf("D%d", row), report.TotalEstimatedTime)
	f.SetCellValue(reportSheet, fmt.Sprintf("E%d", row), report.TotalCost)
	f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), summaryStyle)

	widths := []float64{30, 12, 12, 18, 12, 12, 12, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(reportSheet, col, col, w)
	}
	return f, nil
}
