package testutil

import (
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/google/uuid"
)

// TestUserID owns every fixture unless overridden.
const TestUserID = "user-1"

// Project options
type ProjectOption func(*domain.Project)

func WithOwner(userID string) ProjectOption {
	return func(p *domain.Project) {
		p.UserID = userID
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = &d
	}
}

func WithEstimatedTime(h float64) ProjectOption {
	return func(p *domain.Project) {
		p.EstimatedTime = &h
	}
}

func WithPublic() ProjectOption {
	return func(p *domain.Project) {
		p.IsPublic = true
	}
}

func WithCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		UserID:    TestUserID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestSubproject(projectID, name string, orderIndex int) *domain.Subproject {
	now := time.Now().UTC()
	return &domain.Subproject{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Name:       name,
		OrderIndex: orderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// InventoryItem options
type ItemOption func(*domain.InventoryItem)

func WithItemOwner(userID string) ItemOption {
	return func(i *domain.InventoryItem) {
		i.UserID = userID
	}
}

func WithUnitCost(c float64) ItemOption {
	return func(i *domain.InventoryItem) {
		i.UnitCost = c
	}
}

func NewTestItem(name string, quantity float64, unit string, opts ...ItemOption) *domain.InventoryItem {
	now := time.Now().UTC()
	i := &domain.InventoryItem{
		ID:        uuid.New().String(),
		UserID:    TestUserID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Material options
type MaterialOption func(*domain.ProjectMaterial)

func WithFulfilled() MaterialOption {
	return func(m *domain.ProjectMaterial) {
		m.IsFulfilled = true
	}
}

// WithMaterialCreatedAt pins creation time, which fixes fulfillment order.
func WithMaterialCreatedAt(t time.Time) MaterialOption {
	return func(m *domain.ProjectMaterial) {
		m.CreatedAt = t
		m.UpdatedAt = t
	}
}

// NewTestProjectMaterial builds a material attached directly to a project.
func NewTestProjectMaterial(projectID, itemID string, quantity float64, opts ...MaterialOption) *domain.ProjectMaterial {
	m := newTestMaterial(itemID, quantity)
	m.ProjectID = &projectID
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewTestSubprojectMaterial builds a material attached to a subproject.
func NewTestSubprojectMaterial(subprojectID, itemID string, quantity float64, opts ...MaterialOption) *domain.ProjectMaterial {
	m := newTestMaterial(itemID, quantity)
	m.SubprojectID = &subprojectID
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newTestMaterial(itemID string, quantity float64) *domain.ProjectMaterial {
	now := time.Now().UTC()
	return &domain.ProjectMaterial{
		ID:              uuid.New().String(),
		InventoryItemID: itemID,
		QuantityNeeded:  quantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
