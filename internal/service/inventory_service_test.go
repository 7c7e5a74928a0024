package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_CreateListUpdate(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewInventoryService(r.inventory)

	item, err := svc.Create(ctx, testutil.TestUserID, InventoryItemInput{
		Name: "Wood Glue", Quantity: 5, Unit: "bottles", UnitCost: 4.25,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, testutil.TestUserID, item.UserID)

	_, err = svc.Create(ctx, "user-2", InventoryItemInput{Name: "Other", Quantity: 1, Unit: "pcs"})
	require.NoError(t, err)

	list, err := svc.List(ctx, testutil.TestUserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Wood Glue", list[0].Name)

	updated, err := svc.Update(ctx, testutil.TestUserID, item.ID, InventoryItemInput{
		Name: "PVA Glue", Description: "Titebond II", Quantity: 6, Unit: "bottles", UnitCost: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "PVA Glue", updated.Name)

	got, err := svc.Get(ctx, testutil.TestUserID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Titebond II", domain.StringValue(got.Description))
	assert.Equal(t, 6.0, got.Quantity)
	assert.Equal(t, 30.0, got.TotalValue())
}

func TestInventoryService_Validation(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewInventoryService(r.inventory)

	_, err := svc.Create(ctx, testutil.TestUserID, InventoryItemInput{Name: "", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.Create(ctx, testutil.TestUserID, InventoryItemInput{Name: "Nails", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)

	_, err = svc.Create(ctx, "", InventoryItemInput{Name: "Nails", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestInventoryService_SetQuantity(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewInventoryService(r.inventory)
	item := r.mustItem(t, "Screws", 10, "pcs")

	got, err := svc.SetQuantity(ctx, testutil.TestUserID, item.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Quantity)
	assert.Equal(t, 42.0, r.quantity(t, item.ID))

	_, err = svc.SetQuantity(ctx, testutil.TestUserID, item.ID, -3)
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)
	assert.Equal(t, 42.0, r.quantity(t, item.ID))
}

func TestInventoryService_OtherUsersItemIsNotFound(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewInventoryService(r.inventory)
	theirs := r.mustItem(t, "Chisel", 1, "pcs", testutil.WithItemOwner("user-2"))

	_, err := svc.Get(ctx, testutil.TestUserID, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)

	err = svc.Delete(ctx, testutil.TestUserID, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestInventoryService_DeleteInUse(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewInventoryService(r.inventory)

	glue := r.mustItem(t, "Wood Glue", 5, "bottles")
	proj := r.mustProject(t, "Bookshelf")
	r.mustMaterials(t, testutil.NewTestProjectMaterial(proj.ID, glue.ID, 1))

	err := svc.Delete(ctx, testutil.TestUserID, glue.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInventoryInUse)
	assert.ErrorIs(t, err, domain.ErrReferenced)
	assert.Equal(t, "Cannot delete material that is being used in projects", domain.Message(err))

	_, err = svc.Get(ctx, testutil.TestUserID, glue.ID)
	require.NoError(t, err, "item must survive the failed delete")

	// Once the project is gone the item can be deleted.
	require.NoError(t, r.projects.Delete(ctx, proj.ID))
	require.NoError(t, svc.Delete(ctx, testutil.TestUserID, glue.ID))
	_, err = svc.Get(ctx, testutil.TestUserID, glue.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInventoryService_ResolveID(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewInventoryService(r.inventory)
	item := r.mustItem(t, "Clamp", 4, "pcs")

	id, err := svc.ResolveID(ctx, testutil.TestUserID, item.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, item.ID, id)

	id, err = svc.ResolveID(ctx, testutil.TestUserID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, id)

	_, err = svc.ResolveID(ctx, "user-2", item.ID[:6])
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}
