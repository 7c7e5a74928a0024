package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/pantry/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ts = "2025-01-01T00:00:00.000000000Z"

// openTestUoW seeds one project material needing 3 of an item with 5 on hand.
func openTestUoW(t *testing.T) (*db.DB, *db.SQLUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	seed := []string{
		`INSERT INTO projects (id, user_id, name, created_at, updated_at) VALUES ('p1', 'u1', 'Bookshelf', '` + ts + `', '` + ts + `')`,
		`INSERT INTO inventory_items (id, user_id, name, quantity, unit, unit_cost, created_at, updated_at) VALUES ('glue', 'u1', 'Wood Glue', 5, 'bottles', 4, '` + ts + `', '` + ts + `')`,
		`INSERT INTO project_materials (id, project_id, inventory_item_id, quantity_needed, created_at, updated_at) VALUES ('m1', 'p1', 'glue', 3, '` + ts + `', '` + ts + `')`,
	}
	for _, stmt := range seed {
		_, err := database.Exec(stmt)
		require.NoError(t, err)
	}
	return database, db.NewUnitOfWork(database.DB)
}

// fulfill claims m1 and takes its quantity from the item inside one transaction.
func fulfill(ctx context.Context, tx db.DBTX) error {
	if _, err := tx.ExecContext(ctx, `UPDATE project_materials SET is_fulfilled = 1 WHERE id = 'm1' AND is_fulfilled = 0`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `UPDATE inventory_items SET quantity = quantity - 3 WHERE id = 'glue' AND quantity >= 3`)
	return err
}

func state(t *testing.T, database *db.DB) (quantity float64, fulfilled bool) {
	t.Helper()
	require.NoError(t, database.QueryRow(`SELECT quantity FROM inventory_items WHERE id = 'glue'`).Scan(&quantity))
	require.NoError(t, database.QueryRow(`SELECT is_fulfilled = 1 FROM project_materials WHERE id = 'm1'`).Scan(&fulfilled))
	return quantity, fulfilled
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestUoW(t)

	require.NoError(t, uow.WithinTx(context.Background(), fulfill))

	quantity, fulfilled := state(t, database)
	assert.Equal(t, 2.0, quantity)
	assert.True(t, fulfilled)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := fulfill(ctx, tx); err != nil {
			return err
		}
		return fmt.Errorf("insufficient quantity")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient quantity")

	quantity, fulfilled := state(t, database)
	assert.Equal(t, 5.0, quantity, "decrement rolled back")
	assert.False(t, fulfilled, "claim rolled back")
}

func TestWithinTx_RollbackOnConstraintViolation(t *testing.T) {
	database, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := fulfill(ctx, tx); err != nil {
			return err
		}
		// quantity CHECK(quantity >= 0) rejects going below zero.
		_, err := tx.ExecContext(ctx, `UPDATE inventory_items SET quantity = quantity - 10 WHERE id = 'glue'`)
		return err
	})
	require.Error(t, err)

	quantity, fulfilled := state(t, database)
	assert.Equal(t, 5.0, quantity)
	assert.False(t, fulfilled)
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = fulfill(ctx, tx)
			panic("boom")
		})
	})

	quantity, fulfilled := state(t, database)
	assert.Equal(t, 5.0, quantity)
	assert.False(t, fulfilled)
}
