package repository

import (
	"context"

	"github.com/alexanderramin/pantry/internal/domain"
)

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	UserID string
	// Search matches name or description, case-insensitively.
	Search string
	// IncludePublic adds other users' public projects.
	IncludePublic bool
}

// OwnedMaterial is a material joined with its item and annotated with the
// project that owns it directly or through a subproject.
type OwnedMaterial struct {
	domain.MaterialWithItem
	OwnerProjectID string
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error)
}

type SubprojectRepo interface {
	Create(ctx context.Context, s *domain.Subproject) error
	CreateBatch(ctx context.Context, subs []*domain.Subproject) error
	GetByID(ctx context.Context, id string) (*domain.Subproject, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Subproject, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type MaterialRepo interface {
	CreateBatch(ctx context.Context, ms []*domain.ProjectMaterial) error
	GetByID(ctx context.Context, id string) (*domain.MaterialWithItem, error)
	ListDirect(ctx context.Context, projectID string) ([]domain.MaterialWithItem, error)
	ListBySubprojectsOf(ctx context.Context, projectID string) ([]domain.MaterialWithItem, error)
	ListPending(ctx context.Context, userID string, ids []string) ([]domain.MaterialWithItem, error)
	CountExisting(ctx context.Context, userID string, ids []string) (int, error)
	ListOwned(ctx context.Context, userID string) ([]OwnedMaterial, error)
	MarkFulfilled(ctx context.Context, id string) (bool, error)
	DeleteDirectByProject(ctx context.Context, projectID string) (int64, error)
	MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error)
}

type InventoryRepo interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	List(ctx context.Context, userID string) ([]*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	UpdateQuantity(ctx context.Context, id string, quantity float64) error
	Decrement(ctx context.Context, id string, amount float64) (bool, error)
	Delete(ctx context.Context, id string) error
	MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error)
}

type FileRepo interface {
	Create(ctx context.Context, f *domain.ProjectFile) error
	GetByID(ctx context.Context, id string) (*domain.ProjectFile, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectFile, error)
	Delete(ctx context.Context, id string) error
	MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error)
}
