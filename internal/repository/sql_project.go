package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
)

// SQLProjectRepo implements ProjectRepo.
type SQLProjectRepo struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewSQLProjectRepo creates a new SQLProjectRepo.
func NewSQLProjectRepo(conn db.DBTX, dialect db.Dialect) *SQLProjectRepo {
	return &SQLProjectRepo{db: conn, sb: builder(dialect)}
}

var projectColumns = []string{
	"id", "user_id", "name", "description", "estimated_time", "is_public", "created_at", "updated_at",
}

type projectRow struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Description   sql.NullString  `db:"description"`
	EstimatedTime sql.NullFloat64 `db:"estimated_time"`
	IsPublic      int64           `db:"is_public"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

func (r projectRow) toDomain() (*domain.Project, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", r.ID, err)
	}
	return &domain.Project{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Description:   stringPtr(r.Description),
		EstimatedTime: floatPtr(r.EstimatedTime),
		IsPublic:      intToBool(r.IsPublic),
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

func (r *SQLProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	q := r.sb.Insert("projects").Columns(projectColumns...).Values(
		p.ID, p.UserID, p.Name,
		nullableString(p.Description),
		nullableFloat(p.EstimatedTime),
		boolToInt(p.IsPublic),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if _, err := execAffected(ctx, r.db, q); err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	q := r.sb.Select(projectColumns...).From("projects").Where(squirrel.Eq{"id": id})
	row, err := selectOne[projectRow](ctx, r.db, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return row.toDomain()
}

// List returns projects newest first.
func (r *SQLProjectRepo) List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error) {
	q := r.sb.Select(projectColumns...).From("projects")

	owner := squirrel.Sqlizer(squirrel.Eq{"user_id": f.UserID})
	if f.IncludePublic {
		owner = squirrel.Or{owner, squirrel.Eq{"is_public": 1}}
	}
	q = q.Where(owner)

	if s := strings.TrimSpace(f.Search); s != "" {
		s = strings.ToLower(s)
		q = q.Where(squirrel.Or{
			containsLike("LOWER(name)", s),
			containsLike("LOWER(COALESCE(description, ''))", s),
		})
	}
	q = q.OrderBy("created_at DESC", "id")

	rows, err := selectAll[projectRow](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	projects := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (r *SQLProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	q := r.sb.Update("projects").
		Set("name", p.Name).
		Set("description", nullableString(p.Description)).
		Set("estimated_time", nullableFloat(p.EstimatedTime)).
		Set("is_public", boolToInt(p.IsPublic)).
		Set("updated_at", formatTime(p.UpdatedAt)).
		Where(squirrel.Eq{"id": p.ID})
	n, err := execAffected(ctx, r.db, q)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete removes the project. Subprojects, materials and file rows cascade.
func (r *SQLProjectRepo) Delete(ctx context.Context, id string) error {
	n, err := execAffected(ctx, r.db, r.sb.Delete("projects").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// MatchIDPrefix lists ids of the user's projects starting with prefix.
func (r *SQLProjectRepo) MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error) {
	q := r.sb.Select("id").From("projects").
		Where(squirrel.Eq{"user_id": userID}).
		Where(prefixLike("id", prefix)).
		Limit(2)
	return selectIDs(ctx, r.db, q)
}

type idRow struct {
	ID string `db:"id"`
}

func selectIDs(ctx context.Context, conn db.DBTX, q squirrel.Sqlizer) ([]string, error) {
	rows, err := selectAll[idRow](ctx, conn, q)
	if err != nil {
		return nil, fmt.Errorf("matching id prefix: %w", err)
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}
