package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
)

// SQLInventoryRepo implements InventoryRepo.
type SQLInventoryRepo struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

func NewSQLInventoryRepo(conn db.DBTX, dialect db.Dialect) *SQLInventoryRepo {
	return &SQLInventoryRepo{db: conn, sb: builder(dialect)}
}

var inventoryColumns = []string{
	"id", "user_id", "name", "description", "quantity", "unit", "unit_cost", "created_at", "updated_at",
}

type inventoryRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Quantity    float64        `db:"quantity"`
	Unit        string         `db:"unit"`
	UnitCost    float64        `db:"unit_cost"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r inventoryRow) toDomain() (*domain.InventoryItem, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory item %s: %w", r.ID, err)
	}
	return &domain.InventoryItem{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: stringPtr(r.Description),
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		UnitCost:    r.UnitCost,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func (r *SQLInventoryRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	q := r.sb.Insert("inventory_items").Columns(inventoryColumns...).Values(
		item.ID, item.UserID, item.Name,
		nullableString(item.Description),
		item.Quantity, item.Unit, item.UnitCost,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if _, err := execAffected(ctx, r.db, q); err != nil {
		return fmt.Errorf("inserting inventory item: %w", err)
	}
	return nil
}

func (r *SQLInventoryRepo) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	q := r.sb.Select(inventoryColumns...).From("inventory_items").Where(squirrel.Eq{"id": id})
	row, err := selectOne[inventoryRow](ctx, r.db, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	return row.toDomain()
}

// List returns the user's items ordered by name.
func (r *SQLInventoryRepo) List(ctx context.Context, userID string) ([]*domain.InventoryItem, error) {
	q := r.sb.Select(inventoryColumns...).From("inventory_items").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name", "id")
	rows, err := selectAll[inventoryRow](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	items := make([]*domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *SQLInventoryRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	q := r.sb.Update("inventory_items").
		Set("name", item.Name).
		Set("description", nullableString(item.Description)).
		Set("quantity", item.Quantity).
		Set("unit", item.Unit).
		Set("unit_cost", item.UnitCost).
		Set("updated_at", formatTime(item.UpdatedAt)).
		Where(squirrel.Eq{"id": item.ID})
	n, err := execAffected(ctx, r.db, q)
	if err != nil {
		return fmt.Errorf("updating inventory item: %w", err)
	}
	if n == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *SQLInventoryRepo) UpdateQuantity(ctx context.Context, id string, quantity float64) error {
	q := r.sb.Update("inventory_items").
		Set("quantity", quantity).
		Set("updated_at", formatTime(nowUTC())).
		Where(squirrel.Eq{"id": id})
	n, err := execAffected(ctx, r.db, q)
	if err != nil {
		return fmt.Errorf("updating inventory quantity: %w", err)
	}
	if n == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

// Decrement subtracts amount only while the stock covers it. It reports
// false, leaving the row untouched, when it does not.
func (r *SQLInventoryRepo) Decrement(ctx context.Context, id string, amount float64) (bool, error) {
	q := r.sb.Update("inventory_items").
		Set("quantity", squirrel.Expr("quantity - ?", amount)).
		Set("updated_at", formatTime(nowUTC())).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"quantity": amount})
	n, err := execAffected(ctx, r.db, q)
	if err != nil {
		return false, fmt.Errorf("decrementing inventory quantity: %w", err)
	}
	return n == 1, nil
}

// Delete removes the item. Items still referenced by a material are
// rejected with domain.ErrReferenced.
func (r *SQLInventoryRepo) Delete(ctx context.Context, id string) error {
	n, err := execAffected(ctx, r.db, r.sb.Delete("inventory_items").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting inventory item: %w", db.ClassifyError(err))
	}
	if n == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *SQLInventoryRepo) MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error) {
	q := r.sb.Select("id").From("inventory_items").
		Where(squirrel.Eq{"user_id": userID}).
		Where(prefixLike("id", prefix)).
		Limit(2)
	return selectIDs(ctx, r.db, q)
}
