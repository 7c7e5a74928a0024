package httpapi

import (
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
)

type inventoryView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitCost    float64   `json:"unit_cost"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toInventoryView(i *domain.InventoryItem) inventoryView {
	return inventoryView{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Quantity:    i.Quantity,
		Unit:        i.Unit,
		UnitCost:    i.UnitCost,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toInventoryViews(items []*domain.InventoryItem) []inventoryView {
	out := make([]inventoryView, 0, len(items))
	for _, i := range items {
		out = append(out, toInventoryView(i))
	}
	return out
}

type projectView struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	EstimatedTime *float64  `json:"estimated_time"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toProjectView(p *domain.Project) projectView {
	return projectView{
		ID:            p.ID,
		UserID:        p.UserID,
		Name:          p.Name,
		Description:   p.Description,
		EstimatedTime: p.EstimatedTime,
		IsPublic:      p.IsPublic,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProjectViews(projects []*domain.Project) []projectView {
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectView(p))
	}
	return out
}

type materialView struct {
	ID              string  `json:"id"`
	InventoryItemID string  `json:"inventory_item_id"`
	ItemName        string  `json:"item_name"`
	Unit            string  `json:"unit"`
	QuantityNeeded  float64 `json:"quantity_needed"`
	Available       float64 `json:"available"`
	UnitCost        float64 `json:"unit_cost"`
	IsFulfilled     bool    `json:"is_fulfilled"`
}

func toMaterialViews(ms []domain.MaterialWithItem) []materialView {
	out := make([]materialView, 0, len(ms))
	for _, m := range ms {
		out = append(out, materialView{
			ID:              m.ID,
			InventoryItemID: m.InventoryItemID,
			ItemName:        m.Item.Name,
			Unit:            m.Item.Unit,
			QuantityNeeded:  m.QuantityNeeded,
			Available:       m.Item.Quantity,
			UnitCost:        m.Item.UnitCost,
			IsFulfilled:     m.IsFulfilled,
		})
	}
	return out
}

type subprojectView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   *string        `json:"description"`
	EstimatedTime *float64       `json:"estimated_time"`
	OrderIndex    int            `json:"order_index"`
	Materials     []materialView `json:"materials"`
}

type projectDetailView struct {
	projectView
	Materials   []materialView   `json:"materials"`
	Subprojects []subprojectView `json:"subprojects"`
}

func toProjectDetailView(d *domain.ProjectDetail) projectDetailView {
	v := projectDetailView{
		projectView: toProjectView(&d.Project),
		Materials:   toMaterialViews(d.Materials),
		Subprojects: make([]subprojectView, 0, len(d.Subprojects)),
	}
	for _, sp := range d.Subprojects {
		v.Subprojects = append(v.Subprojects, subprojectView{
			ID:            sp.ID,
			Name:          sp.Name,
			Description:   sp.Description,
			EstimatedTime: sp.EstimatedTime,
			OrderIndex:    sp.OrderIndex,
			Materials:     toMaterialViews(sp.Materials),
		})
	}
	return v
}

type fileView struct {
	ID           string    `json:"id"`
	ProjectID    *string   `json:"project_id"`
	SubprojectID *string   `json:"subproject_id"`
	Name         string    `json:"name"`
	FileType     string    `json:"file_type"`
	Description  *string   `json:"description"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

func toFileView(f *domain.ProjectFile) fileView {
	return fileView{
		ID:           f.ID,
		ProjectID:    f.ProjectID,
		SubprojectID: f.SubprojectID,
		Name:         f.Name(),
		FileType:     f.FileType,
		Description:  f.Description,
		SizeBytes:    f.SizeBytes,
		CreatedAt:    f.CreatedAt,
	}
}

func toFileViews(files []*domain.ProjectFile) []fileView {
	out := make([]fileView, 0, len(files))
	for _, f := range files {
		out = append(out, toFileView(f))
	}
	return out
}
