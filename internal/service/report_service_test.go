package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedReport(t *testing.T, r testRepos) (string, string) {
	t.Helper()
	glue := r.mustItem(t, "Wood Glue", 10, "bottles", testutil.WithUnitCost(4.5))
	pine := r.mustItem(t, "Pine Board", 20, "boards", testutil.WithUnitCost(8))

	bookshelf := r.mustProject(t, "Bookshelf", testutil.WithEstimatedTime(6), testutil.WithCreatedAt(at(2)))
	frame := r.mustSubproject(t, bookshelf.ID, "Frame", 0)
	r.mustMaterials(t,
		testutil.NewTestProjectMaterial(bookshelf.ID, glue.ID, 2),
		testutil.NewTestSubprojectMaterial(frame.ID, pine.ID, 3, testutil.WithFulfilled()),
	)

	stool := r.mustProject(t, "Stool", testutil.WithEstimatedTime(1.5), testutil.WithCreatedAt(at(1)))
	r.mustMaterials(t, testutil.NewTestProjectMaterial(stool.ID, pine.ID, 1))

	// Someone else's project never shows up.
	r.mustProject(t, "Not Mine", testutil.WithOwner("user-2"), testutil.WithPublic())
	return bookshelf.ID, stool.ID
}

func TestReportService_ProjectReport(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	bookshelfID, stoolID := seedReport(t, r)

	report, err := NewReportService(r.projects, r.subprojects, r.materials).ProjectReport(ctx, testutil.TestUserID)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 2, report.TotalProjects)

	bookshelf := report.Rows[0]
	assert.Equal(t, bookshelfID, bookshelf.ProjectID)
	// 2 × 4.50 direct + 3 × 8 via the subproject
	assert.InDelta(t, 33.0, bookshelf.Cost, 1e-9)
	assert.Equal(t, 1, bookshelf.SubprojectCount)
	assert.Equal(t, 2, bookshelf.MaterialCount)
	assert.Equal(t, 1, bookshelf.FulfilledCount)

	stool := report.Rows[1]
	assert.Equal(t, stoolID, stool.ProjectID)
	assert.InDelta(t, 8.0, stool.Cost, 1e-9)
	assert.Equal(t, 0, stool.SubprojectCount)

	assert.InDelta(t, 41.0, report.TotalCost, 1e-9)
	assert.InDelta(t, 7.5, report.TotalEstimatedTime, 1e-9)
}

func TestReportService_ExportXLSX(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	seedReport(t, r)

	var buf bytes.Buffer
	require.NoError(t, NewReportService(r.projects, r.subprojects, r.materials).ExportXLSX(ctx, testutil.TestUserID, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two projects, summary")
	assert.Equal(t, reportHeaders, rows[0])
	assert.Equal(t, "Bookshelf", rows[1][0])
	assert.Equal(t, "Stool", rows[2][0])
	assert.Equal(t, "Total (2 projects)", rows[3][0])
	assert.Equal(t, "41", rows[3][4])
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "pantry-report-20261018.xlsx", ReportFilename(time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)))
}
