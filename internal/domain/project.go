package domain

import (
	"strings"
	"time"
)

type Project struct {
	ID            string
	UserID        string
	Name          string
	Description   *string
	EstimatedTime *float64
	IsPublic      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the fields a project must carry before it is written.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// VisibleTo reports whether userID may read the project.
func (p *Project) VisibleTo(userID string) bool {
	return p.IsPublic || p.UserID == userID
}

// DisplayID returns the first 8 characters of the id.
func (p *Project) DisplayID() string {
	return ShortID(p.ID)
}

type Subproject struct {
	ID            string
	ProjectID     string
	Name          string
	Description   *string
	EstimatedTime *float64
	OrderIndex    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *Subproject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// SubprojectDetail is a subproject together with its own materials.
type SubprojectDetail struct {
	Subproject
	Materials []MaterialWithItem
}

// ProjectDetail is the full read model of one project.
type ProjectDetail struct {
	Project     Project
	Materials   []MaterialWithItem
	Subprojects []SubprojectDetail
}

// AllMaterials returns direct materials followed by every subproject's
// materials in subproject order.
func (d *ProjectDetail) AllMaterials() []MaterialWithItem {
	out := make([]MaterialWithItem, 0, len(d.Materials))
	out = append(out, d.Materials...)
	for _, sp := range d.Subprojects {
		out = append(out, sp.Materials...)
	}
	return out
}

// PendingMaterialIDs lists the ids of all unfulfilled materials.
func (d *ProjectDetail) PendingMaterialIDs() []string {
	var ids []string
	for _, m := range d.AllMaterials() {
		if !m.IsFulfilled {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// ShortID truncates a UUID for display.
func ShortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
