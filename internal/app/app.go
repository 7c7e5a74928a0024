// Package app wires repositories, the blob store and use-case services
// into the set shared by the CLI and the HTTP API.
package app

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pantry/internal/blob"
	"github.com/alexanderramin/pantry/internal/blob/fs"
	"github.com/alexanderramin/pantry/internal/blob/memory"
	blobs3 "github.com/alexanderramin/pantry/internal/blob/s3"
	"github.com/alexanderramin/pantry/internal/config"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/repository"
	"github.com/alexanderramin/pantry/internal/service"
)

// Services is the use-case surface every frontend talks to.
type Services struct {
	Projects    service.ProjectService
	Saver       service.ProjectSaveService
	Inventory   service.InventoryService
	Fulfillment service.FulfillmentService
	Reports     service.ReportService
	Files       service.FileService
}

// NewServices builds every service over database and store. Observers
// receive use-case events from the services that emit them.
func NewServices(database *db.DB, store blob.Store, observers ...service.UseCaseObserver) *Services {
	d := database.Dialect
	projects := repository.NewSQLProjectRepo(database.DB, d)
	subprojects := repository.NewSQLSubprojectRepo(database.DB, d)
	materials := repository.NewSQLMaterialRepo(database.DB, d)
	inventory := repository.NewSQLInventoryRepo(database.DB, d)
	files := repository.NewSQLFileRepo(database.DB, d)
	uow := db.NewUnitOfWork(database.DB)

	return &Services{
		Projects:    service.NewProjectService(projects, subprojects, materials),
		Saver:       service.NewProjectSaveService(projects, subprojects, materials, inventory, observers...),
		Inventory:   service.NewInventoryService(inventory, observers...),
		Fulfillment: service.NewFulfillmentService(projects, subprojects, materials, uow, d, observers...),
		Reports:     service.NewReportService(projects, subprojects, materials, observers...),
		Files:       service.NewFileService(projects, subprojects, files, store, observers...),
	}
}

// OpenBlobStore returns the store selected by cfg.Driver.
func OpenBlobStore(ctx context.Context, cfg config.Blob) (blob.Store, error) {
	switch blob.Driver(cfg.Driver) {
	case "", blob.DriverFilesystem:
		store, err := fs.New(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, nil
	case blob.DriverMemory:
		return memory.New(), nil
	case blob.DriverS3:
		store, err := blobs3.New(ctx, blobs3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("opening s3 store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
