package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
)

// SQLMaterialRepo implements MaterialRepo. Reads embed the referenced
// inventory item.
type SQLMaterialRepo struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

func NewSQLMaterialRepo(conn db.DBTX, dialect db.Dialect) *SQLMaterialRepo {
	return &SQLMaterialRepo{db: conn, sb: builder(dialect)}
}

var materialColumns = []string{
	"id", "project_id", "subproject_id", "inventory_item_id", "quantity_needed", "is_fulfilled", "created_at", "updated_at",
}

var materialWithItemColumns = []string{
	"m.id AS id",
	"m.project_id AS project_id",
	"m.subproject_id AS subproject_id",
	"m.inventory_item_id AS inventory_item_id",
	"m.quantity_needed AS quantity_needed",
	"m.is_fulfilled AS is_fulfilled",
	"m.created_at AS created_at",
	"m.updated_at AS updated_at",
	"i.user_id AS item_user_id",
	"i.name AS item_name",
	"i.description AS item_description",
	"i.quantity AS item_quantity",
	"i.unit AS item_unit",
	"i.unit_cost AS item_unit_cost",
	"i.created_at AS item_created_at",
	"i.updated_at AS item_updated_at",
}

type materialRow struct {
	ID              string         `db:"id"`
	ProjectID       sql.NullString `db:"project_id"`
	SubprojectID    sql.NullString `db:"subproject_id"`
	InventoryItemID string         `db:"inventory_item_id"`
	QuantityNeeded  float64        `db:"quantity_needed"`
	IsFulfilled     int64          `db:"is_fulfilled"`
	CreatedAt       string         `db:"created_at"`
	UpdatedAt       string         `db:"updated_at"`

	ItemUserID      string         `db:"item_user_id"`
	ItemName        string         `db:"item_name"`
	ItemDescription sql.NullString `db:"item_description"`
	ItemQuantity    float64        `db:"item_quantity"`
	ItemUnit        string         `db:"item_unit"`
	ItemUnitCost    float64        `db:"item_unit_cost"`
	ItemCreatedAt   string         `db:"item_created_at"`
	ItemUpdatedAt   string         `db:"item_updated_at"`
}

type ownedMaterialRow struct {
	materialRow
	OwnerProjectID string `db:"owner_project_id"`
}

func (r materialRow) toDomain() (domain.MaterialWithItem, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return domain.MaterialWithItem{}, fmt.Errorf("material %s: %w", r.ID, err)
	}
	itemCreated, itemUpdated, err := parseTimestamps(r.ItemCreatedAt, r.ItemUpdatedAt)
	if err != nil {
		return domain.MaterialWithItem{}, fmt.Errorf("inventory item %s: %w", r.InventoryItemID, err)
	}
	return domain.MaterialWithItem{
		ProjectMaterial: domain.ProjectMaterial{
			ID:              r.ID,
			ProjectID:       stringPtr(r.ProjectID),
			SubprojectID:    stringPtr(r.SubprojectID),
			InventoryItemID: r.InventoryItemID,
			QuantityNeeded:  r.QuantityNeeded,
			IsFulfilled:     intToBool(r.IsFulfilled),
			CreatedAt:       created,
			UpdatedAt:       updated,
		},
		Item: domain.InventoryItem{
			ID:          r.InventoryItemID,
			UserID:      r.ItemUserID,
			Name:        r.ItemName,
			Description: stringPtr(r.ItemDescription),
			Quantity:    r.ItemQuantity,
			Unit:        r.ItemUnit,
			UnitCost:    r.ItemUnitCost,
			CreatedAt:   itemCreated,
			UpdatedAt:   itemUpdated,
		},
	}, nil
}

func (r *SQLMaterialRepo) selectWithItem() squirrel.SelectBuilder {
	return r.sb.Select(materialWithItemColumns...).
		From("project_materials m").
		Join("inventory_items i ON i.id = m.inventory_item_id")
}

func (r *SQLMaterialRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]domain.MaterialWithItem, error) {
	rows, err := selectAll[materialRow](ctx, r.db, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MaterialWithItem, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// CreateBatch inserts all materials in a single statement.
func (r *SQLMaterialRepo) CreateBatch(ctx context.Context, ms []*domain.ProjectMaterial) error {
	if len(ms) == 0 {
		return nil
	}
	q := r.sb.Insert("project_materials").Columns(materialColumns...)
	for _, m := range ms {
		q = q.Values(
			m.ID,
			nullableString(m.ProjectID),
			nullableString(m.SubprojectID),
			m.InventoryItemID,
			m.QuantityNeeded,
			boolToInt(m.IsFulfilled),
			formatTime(m.CreatedAt),
			formatTime(m.UpdatedAt),
		)
	}
	if _, err := execAffected(ctx, r.db, q); err != nil {
		return fmt.Errorf("inserting materials: %w", db.ClassifyError(err))
	}
	return nil
}

func (r *SQLMaterialRepo) GetByID(ctx context.Context, id string) (*domain.MaterialWithItem, error) {
	rows, err := r.list(ctx, r.selectWithItem().Where(squirrel.Eq{"m.id": id}))
	if err != nil {
		return nil, fmt.Errorf("getting material: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrMaterialNotFound
	}
	return &rows[0], nil
}

// ListDirect returns materials attached to the project itself.
func (r *SQLMaterialRepo) ListDirect(ctx context.Context, projectID string) ([]domain.MaterialWithItem, error) {
	q := r.selectWithItem().
		Where(squirrel.Eq{"m.project_id": projectID}).
		OrderBy("m.created_at", "m.id")
	out, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing project materials: %w", err)
	}
	return out, nil
}

// ListBySubprojectsOf returns materials attached to any subproject of the
// project, grouped by subproject order.
func (r *SQLMaterialRepo) ListBySubprojectsOf(ctx context.Context, projectID string) ([]domain.MaterialWithItem, error) {
	q := r.selectWithItem().
		Join("subprojects s ON s.id = m.subproject_id").
		Where(squirrel.Eq{"s.project_id": projectID}).
		OrderBy("s.order_index", "m.created_at", "m.id")
	out, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing subproject materials: %w", err)
	}
	return out, nil
}

// ListPending returns the unfulfilled materials among ids whose inventory
// item belongs to userID, oldest first.
func (r *SQLMaterialRepo) ListPending(ctx context.Context, userID string, ids []string) ([]domain.MaterialWithItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.selectWithItem().
		Where(squirrel.Eq{"m.id": ids}).
		Where(squirrel.Eq{"m.is_fulfilled": 0}).
		Where(squirrel.Eq{"i.user_id": userID}).
		OrderBy("m.created_at", "m.id")
	out, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing pending materials: %w", err)
	}
	return out, nil
}

type countRow struct {
	N int64 `db:"n"`
}

// CountExisting counts how many of ids exist for the user, fulfilled or not.
func (r *SQLMaterialRepo) CountExisting(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := r.sb.Select("COUNT(*) AS n").
		From("project_materials m").
		Join("inventory_items i ON i.id = m.inventory_item_id").
		Where(squirrel.Eq{"m.id": ids}).
		Where(squirrel.Eq{"i.user_id": userID})
	row, err := selectOne[countRow](ctx, r.db, q)
	if err != nil {
		return 0, fmt.Errorf("counting materials: %w", err)
	}
	return int(row.N), nil
}

// ListOwned returns every material of the user's projects, direct or via a
// subproject, annotated with the owning project id.
func (r *SQLMaterialRepo) ListOwned(ctx context.Context, userID string) ([]OwnedMaterial, error) {
	cols := append(append([]string{}, materialWithItemColumns...), "COALESCE(m.project_id, s.project_id) AS owner_project_id")
	q := r.sb.Select(cols...).
		From("project_materials m").
		Join("inventory_items i ON i.id = m.inventory_item_id").
		LeftJoin("subprojects s ON s.id = m.subproject_id").
		Join("projects p ON p.id = COALESCE(m.project_id, s.project_id)").
		Where(squirrel.Eq{"p.user_id": userID}).
		OrderBy("m.created_at", "m.id")
	rows, err := selectAll[ownedMaterialRow](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("listing owned materials: %w", err)
	}
	out := make([]OwnedMaterial, 0, len(rows))
	for _, row := range rows {
		m, err := row.materialRow.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, OwnedMaterial{MaterialWithItem: m, OwnerProjectID: row.OwnerProjectID})
	}
	return out, nil
}

// MarkFulfilled flips the flag only if the material is still unfulfilled.
// It reports false when another caller got there first.
func (r *SQLMaterialRepo) MarkFulfilled(ctx context.Context, id string) (bool, error) {
	q := r.sb.Update("project_materials").
		Set("is_fulfilled", 1).
		Set("updated_at", formatTime(nowUTC())).
		Where(squirrel.Eq{"id": id, "is_fulfilled": 0})
	n, err := execAffected(ctx, r.db, q)
	if err != nil {
		return false, fmt.Errorf("marking material fulfilled: %w", err)
	}
	return n == 1, nil
}

// DeleteDirectByProject removes materials attached to the project itself.
// Subproject materials are left alone.
func (r *SQLMaterialRepo) DeleteDirectByProject(ctx context.Context, projectID string) (int64, error) {
	n, err := execAffected(ctx, r.db, r.sb.Delete("project_materials").Where(squirrel.Eq{"project_id": projectID}))
	if err != nil {
		return 0, fmt.Errorf("deleting project materials: %w", err)
	}
	return n, nil
}

func (r *SQLMaterialRepo) MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error) {
	q := r.sb.Select("m.id AS id").
		From("project_materials m").
		Join("inventory_items i ON i.id = m.inventory_item_id").
		Where(squirrel.Eq{"i.user_id": userID}).
		Where(prefixLike("m.id", prefix)).
		Limit(2)
	return selectIDs(ctx, r.db, q)
}
