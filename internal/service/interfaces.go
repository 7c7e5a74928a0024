package service

import (
	"context"
	"io"

	"github.com/alexanderramin/pantry/internal/domain"
)

type ProjectService interface {
	List(ctx context.Context, userID string, opts ListProjectsOptions) ([]*domain.Project, error)
	GetDetail(ctx context.Context, userID, id string) (*domain.ProjectDetail, error)
	Delete(ctx context.Context, userID, id string) error
	ResolveID(ctx context.Context, userID, input string) (string, error)
}

// ProjectSaveService writes a project editor form to the store. Neither
// path is transactional: a failure leaves earlier steps applied.
type ProjectSaveService interface {
	Create(ctx context.Context, userID string, form domain.ProjectForm) (*SaveResult, error)
	Update(ctx context.Context, userID, projectID string, form domain.ProjectForm) (*SaveResult, error)
	LoadForm(ctx context.Context, userID, projectID string) (*domain.ProjectForm, error)
}

type InventoryService interface {
	Create(ctx context.Context, userID string, in InventoryItemInput) (*domain.InventoryItem, error)
	Get(ctx context.Context, userID, id string) (*domain.InventoryItem, error)
	List(ctx context.Context, userID string) ([]*domain.InventoryItem, error)
	Update(ctx context.Context, userID, id string, in InventoryItemInput) (*domain.InventoryItem, error)
	SetQuantity(ctx context.Context, userID, id string, quantity float64) (*domain.InventoryItem, error)
	Delete(ctx context.Context, userID, id string) error
	ResolveID(ctx context.Context, userID, input string) (string, error)
}

type FulfillmentService interface {
	Fulfill(ctx context.Context, req FulfillRequest) (*FulfillResult, error)
	FulfillProject(ctx context.Context, userID, projectID string) (*FulfillResult, error)
	ResolveMaterialID(ctx context.Context, userID, input string) (string, error)
}

type ReportService interface {
	ProjectReport(ctx context.Context, userID string) (*ProjectReport, error)
	ExportXLSX(ctx context.Context, userID string, w io.Writer) error
}

type FileService interface {
	Attach(ctx context.Context, req AttachFileRequest) (*domain.ProjectFile, error)
	List(ctx context.Context, userID, projectID string) ([]*domain.ProjectFile, error)
	Open(ctx context.Context, userID, fileID string) (*domain.ProjectFile, io.ReadCloser, error)
	Delete(ctx context.Context, userID, fileID string) error
	ResolveID(ctx context.Context, userID, input string) (string, error)
}
