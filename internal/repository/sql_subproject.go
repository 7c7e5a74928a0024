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

// SQLSubprojectRepo implements SubprojectRepo.
type SQLSubprojectRepo struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

func NewSQLSubprojectRepo(conn db.DBTX, dialect db.Dialect) *SQLSubprojectRepo {
	return &SQLSubprojectRepo{db: conn, sb: builder(dialect)}
}

var subprojectColumns = []string{
	"id", "project_id", "name", "description", "estimated_time", "order_index", "created_at", "updated_at",
}

type subprojectRow struct {
	ID            string          `db:"id"`
	ProjectID     string          `db:"project_id"`
	Name          string          `db:"name"`
	Description   sql.NullString  `db:"description"`
	EstimatedTime sql.NullFloat64 `db:"estimated_time"`
	OrderIndex    int64           `db:"order_index"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

func (r subprojectRow) toDomain() (*domain.Subproject, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("subproject %s: %w", r.ID, err)
	}
	return &domain.Subproject{
		ID:            r.ID,
		ProjectID:     r.ProjectID,
		Name:          r.Name,
		Description:   stringPtr(r.Description),
		EstimatedTime: floatPtr(r.EstimatedTime),
		OrderIndex:    int(r.OrderIndex),
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

func subprojectValues(s *domain.Subproject) []any {
	return []any{
		s.ID, s.ProjectID, s.Name,
		nullableString(s.Description),
		nullableFloat(s.EstimatedTime),
		s.OrderIndex,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	}
}

func (r *SQLSubprojectRepo) Create(ctx context.Context, s *domain.Subproject) error {
	q := r.sb.Insert("subprojects").Columns(subprojectColumns...).Values(subprojectValues(s)...)
	if _, err := execAffected(ctx, r.db, q); err != nil {
		return fmt.Errorf("inserting subproject: %w", err)
	}
	return nil
}

// CreateBatch inserts all subprojects in a single statement.
func (r *SQLSubprojectRepo) CreateBatch(ctx context.Context, subs []*domain.Subproject) error {
	if len(subs) == 0 {
		return nil
	}
	q := r.sb.Insert("subprojects").Columns(subprojectColumns...)
	for _, s := range subs {
		q = q.Values(subprojectValues(s)...)
	}
	if _, err := execAffected(ctx, r.db, q); err != nil {
		return fmt.Errorf("inserting subprojects: %w", err)
	}
	return nil
}

func (r *SQLSubprojectRepo) GetByID(ctx context.Context, id string) (*domain.Subproject, error) {
	q := r.sb.Select(subprojectColumns...).From("subprojects").Where(squirrel.Eq{"id": id})
	row, err := selectOne[subprojectRow](ctx, r.db, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubprojectNotFound
		}
		return nil, fmt.Errorf("getting subproject: %w", err)
	}
	return row.toDomain()
}

// ListByProject returns the project's subprojects by order index.
func (r *SQLSubprojectRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Subproject, error) {
	q := r.sb.Select(subprojectColumns...).From("subprojects").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("order_index")
	rows, err := selectAll[subprojectRow](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("listing subprojects: %w", err)
	}
	subs := make([]*domain.Subproject, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// DeleteByProject removes every subproject of the project. Their materials
// and file rows cascade.
func (r *SQLSubprojectRepo) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	n, err := execAffected(ctx, r.db, r.sb.Delete("subprojects").Where(squirrel.Eq{"project_id": projectID}))
	if err != nil {
		return 0, fmt.Errorf("deleting subprojects: %w", err)
	}
	return n, nil
}
