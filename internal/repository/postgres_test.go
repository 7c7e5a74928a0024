package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresDialect checks statement shape and error mapping against the
// PostgreSQL placeholder style without a live server.
func TestPostgresDialect(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()

	t.Run("DecrementUsesDollarPlaceholdersAndGuard", func(t *testing.T) {
		repo := NewSQLInventoryRepo(conn, db.DialectPostgres)
		mock.ExpectExec(`UPDATE inventory_items SET quantity = quantity - \$1, updated_at = \$2 WHERE id = \$3 AND quantity >= \$4`).
			WithArgs(3.0, sqlmock.AnyArg(), "item-1", 3.0).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Decrement(ctx, "item-1", 3)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteMapsForeignKeyViolation", func(t *testing.T) {
		repo := NewSQLInventoryRepo(conn, db.DialectPostgres)
		mock.ExpectExec(`DELETE FROM inventory_items WHERE id = \$1`).
			WithArgs("item-1").
			WillReturnError(&pgconn.PgError{Code: "23503", Message: "update or delete on table \"inventory_items\" violates foreign key constraint"})

		err := repo.Delete(ctx, "item-1")
		assert.ErrorIs(t, err, domain.ErrReferenced)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListPendingEmbedsItem", func(t *testing.T) {
		repo := NewSQLMaterialRepo(conn, db.DialectPostgres)
		ts := "2025-01-01T00:00:00.000000000Z"
		mock.ExpectQuery(`SELECT .* FROM project_materials m JOIN inventory_items i ON i.id = m.inventory_item_id WHERE m.id IN \(\$1,\$2\) AND m.is_fulfilled = \$3 AND i.user_id = \$4 ORDER BY m.created_at, m.id`).
			WithArgs("m1", "m2", 0, "user-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "project_id", "subproject_id", "inventory_item_id", "quantity_needed", "is_fulfilled", "created_at", "updated_at",
				"item_user_id", "item_name", "item_description", "item_quantity", "item_unit", "item_unit_cost", "item_created_at", "item_updated_at",
			}).AddRow(
				"m1", "p1", nil, "i1", 3.0, int64(0), ts, ts,
				"user-1", "Wood Glue", nil, 5.0, "bottles", 4.0, ts, ts,
			))

		pending, err := repo.ListPending(ctx, "user-1", []string{"m1", "m2"})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "Wood Glue", pending[0].Item.Name)
		require.NotNil(t, pending[0].ProjectID)
		assert.Equal(t, "p1", *pending[0].ProjectID)
		assert.Nil(t, pending[0].SubprojectID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
