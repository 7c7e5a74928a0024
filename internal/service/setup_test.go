package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
	"github.com/alexanderramin/pantry/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db          *db.DB
	projects    repository.ProjectRepo
	subprojects repository.SubprojectRepo
	materials   repository.MaterialRepo
	inventory   repository.InventoryRepo
	files       repository.FileRepo
	uow         db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	return reposFor(testutil.NewTestDB(t))
}

func reposFor(database *db.DB) testRepos {
	return reposOn(database, database.DB)
}

// reposOn builds repositories over conn, which may wrap database.
func reposOn(database *db.DB, conn db.DBTX) testRepos {
	d := database.Dialect
	return testRepos{
		db:          database,
		projects:    repository.NewSQLProjectRepo(conn, d),
		subprojects: repository.NewSQLSubprojectRepo(conn, d),
		materials:   repository.NewSQLMaterialRepo(conn, d),
		inventory:   repository.NewSQLInventoryRepo(conn, d),
		files:       repository.NewSQLFileRepo(conn, d),
		uow:         testutil.NewTestUoW(database),
	}
}

func (r testRepos) fulfillment() FulfillmentService {
	return NewFulfillmentService(r.projects, r.subprojects, r.materials, r.uow, r.db.Dialect)
}

func (r testRepos) saver() ProjectSaveService {
	return NewProjectSaveService(r.projects, r.subprojects, r.materials, r.inventory)
}

func (r testRepos) mustItem(t *testing.T, name string, qty float64, unit string, opts ...testutil.ItemOption) *domain.InventoryItem {
	t.Helper()
	item := testutil.NewTestItem(name, qty, unit, opts...)
	require.NoError(t, r.inventory.Create(context.Background(), item))
	return item
}

func (r testRepos) mustProject(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

func (r testRepos) mustSubproject(t *testing.T, projectID, name string, order int) *domain.Subproject {
	t.Helper()
	sp := testutil.NewTestSubproject(projectID, name, order)
	require.NoError(t, r.subprojects.Create(context.Background(), sp))
	return sp
}

func (r testRepos) mustMaterials(t *testing.T, ms ...*domain.ProjectMaterial) {
	t.Helper()
	require.NoError(t, r.materials.CreateBatch(context.Background(), ms))
}

func (r testRepos) quantity(t *testing.T, itemID string) float64 {
	t.Helper()
	item, err := r.inventory.GetByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Quantity
}

func (r testRepos) fulfilled(t *testing.T, materialID string) bool {
	t.Helper()
	m, err := r.materials.GetByID(context.Background(), materialID)
	require.NoError(t, err)
	return m.IsFulfilled
}

// at returns increasing timestamps so fixtures sort in declaration order.
func at(i int) time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
}
