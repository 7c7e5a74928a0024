package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/stretchr/testify/assert"
)

func sampleDetail() *domain.ProjectDetail {
	desc := "Sand **before** gluing."
	est := 6.0
	glue := domain.InventoryItem{ID: "item-glue", Name: "Wood Glue", Quantity: 1, Unit: "bottle", UnitCost: 4}
	screws := domain.InventoryItem{ID: "item-screws", Name: "Screws", Quantity: 100, Unit: "each", UnitCost: 0.1}
	return &domain.ProjectDetail{
		Project: domain.Project{
			ID: "0193f0a2-aaaa-7000-8000-000000000001", UserID: "user-1", Name: "Bookshelf",
			Description: &desc, EstimatedTime: &est, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		},
		Materials: []domain.MaterialWithItem{{
			ProjectMaterial: domain.ProjectMaterial{ID: "mat-00001", QuantityNeeded: 2},
			Item:            glue,
		}},
		Subprojects: []domain.SubprojectDetail{{
			Subproject: domain.Subproject{ID: "sub-1", Name: "Shelves"},
			Materials: []domain.MaterialWithItem{{
				ProjectMaterial: domain.ProjectMaterial{ID: "mat-00002", QuantityNeeded: 10, IsFulfilled: true},
				Item:            screws,
			}},
		}},
	}
}

func TestFormatProjectDetail(t *testing.T) {
	out := FormatProjectDetail(sampleDetail(), 60)

	assert.Contains(t, out, "Bookshelf")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "MATERIALS")
	assert.Contains(t, out, "SHELVES")
	assert.Contains(t, out, "Wood Glue")
	assert.Contains(t, out, "2 bottle")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "✔ Fulfilled")
	assert.Contains(t, out, "$9.00", "2 x 4 + 10 x 0.1")
	assert.Contains(t, out, "1 of 2")
}

func TestFormatProjectList(t *testing.T) {
	now := time.Now()
	projects := []*domain.Project{
		{ID: "0193f0a2-aaaa", UserID: "user-1", Name: "Bookshelf", UpdatedAt: now},
		{ID: "0193f0a3-bbbb", UserID: "user-2", Name: "Birdhouse", IsPublic: true, UpdatedAt: now},
	}
	out := FormatProjectList(projects, "user-1")
	assert.Contains(t, out, "PROJECTS")
	assert.Contains(t, out, "Bookshelf")
	assert.Contains(t, out, "Birdhouse (shared)")
	assert.Contains(t, out, "◉ Public")

	assert.Contains(t, FormatProjectList(nil, "user-1"), "No projects yet")
}

func TestFormatInventoryList(t *testing.T) {
	items := []*domain.InventoryItem{
		{ID: "item-1-long-id", Name: "Wood Glue", Quantity: 2, Unit: "bottle", UnitCost: 4.5},
		{ID: "item-2-long-id", Name: "Screws", Quantity: 0, Unit: "each", UnitCost: 0.1},
	}
	out := FormatInventoryList(items)
	assert.Contains(t, out, "INVENTORY")
	assert.Contains(t, out, "2 bottle")
	assert.Contains(t, out, "$9.00")
	assert.Contains(t, out, "Total")

	assert.Contains(t, FormatInventoryList(nil), "No inventory items")
}

func TestFormatFulfillResult(t *testing.T) {
	out := FormatFulfillResult(&service.FulfillResult{
		Requested: []string{"m1", "m2"},
		Fulfilled: []string{"m1"},
		Skipped:   []string{"m2"},
		Adjustments: []service.InventoryAdjustment{
			{MaterialID: "m1", ItemName: "Wood Glue", Unit: "bottle", Before: 2, After: 0},
		},
	})
	assert.Contains(t, out, "Fulfilled 1 of 2 materials")
	assert.Contains(t, out, "(1 skipped: already fulfilled or not found)")
	assert.Contains(t, out, "Wood Glue: 2 bottle → 0 bottle")
	assert.Equal(t, "", FormatFulfillResult(nil))
}

func TestFormatProjectReport(t *testing.T) {
	out := FormatProjectReport(&service.ProjectReport{
		Rows: []service.ProjectReportRow{
			{Name: "Bookshelf", EstimatedTime: 6, Cost: 33, SubprojectCount: 1, MaterialCount: 3, FulfilledCount: 1},
			{Name: "Stool", EstimatedTime: 1.5, Cost: 8},
		},
		TotalProjects:      2,
		TotalEstimatedTime: 7.5,
		TotalCost:          41,
	})
	assert.Contains(t, out, "PROJECT REPORT")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "2 projects")
	assert.Contains(t, out, "7.5")
	assert.Contains(t, out, "$41.00")
}

func TestFormatFileList(t *testing.T) {
	sub := "0193f0a2-cccc-7000"
	desc := "cut list"
	out := FormatFileList([]*domain.ProjectFile{
		{ID: "file-1", FilePath: "projects/p/f/plan.pdf", FileType: "application/pdf", SizeBytes: 2048},
		{ID: "file-2", SubprojectID: &sub, FilePath: "projects/p/g/cuts.txt", FileType: "text/plain", SizeBytes: 10, Description: &desc},
	})
	assert.Contains(t, out, "plan.pdf")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "subproject 0193f0a2")
	assert.Contains(t, out, "cut list")
	assert.Contains(t, FormatFileList(nil), "No files attached")
}

func TestRenderMarkdown_FallsBackToText(t *testing.T) {
	out := RenderMarkdown("plain words", 0)
	assert.Contains(t, out, "plain words")
}
