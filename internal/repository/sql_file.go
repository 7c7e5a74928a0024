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

// SQLFileRepo implements FileRepo.
type SQLFileRepo struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

func NewSQLFileRepo(conn db.DBTX, dialect db.Dialect) *SQLFileRepo {
	return &SQLFileRepo{db: conn, sb: builder(dialect)}
}

var fileColumns = []string{
	"id", "project_id", "subproject_id", "file_path", "file_type", "description", "size_bytes", "created_at", "updated_at",
}

type fileRow struct {
	ID           string         `db:"id"`
	ProjectID    sql.NullString `db:"project_id"`
	SubprojectID sql.NullString `db:"subproject_id"`
	FilePath     string         `db:"file_path"`
	FileType     string         `db:"file_type"`
	Description  sql.NullString `db:"description"`
	SizeBytes    int64          `db:"size_bytes"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

func (r fileRow) toDomain() (*domain.ProjectFile, error) {
	created, updated, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", r.ID, err)
	}
	return &domain.ProjectFile{
		ID:           r.ID,
		ProjectID:    stringPtr(r.ProjectID),
		SubprojectID: stringPtr(r.SubprojectID),
		FilePath:     r.FilePath,
		FileType:     r.FileType,
		Description:  stringPtr(r.Description),
		SizeBytes:    r.SizeBytes,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}

func (r *SQLFileRepo) Create(ctx context.Context, f *domain.ProjectFile) error {
	q := r.sb.Insert("project_files").Columns(fileColumns...).Values(
		f.ID,
		nullableString(f.ProjectID),
		nullableString(f.SubprojectID),
		f.FilePath, f.FileType,
		nullableString(f.Description),
		f.SizeBytes,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if _, err := execAffected(ctx, r.db, q); err != nil {
		return fmt.Errorf("inserting file: %w", db.ClassifyError(err))
	}
	return nil
}

func (r *SQLFileRepo) GetByID(ctx context.Context, id string) (*domain.ProjectFile, error) {
	q := r.sb.Select(fileColumns...).From("project_files").Where(squirrel.Eq{"id": id})
	row, err := selectOne[fileRow](ctx, r.db, q)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("getting file: %w", err)
	}
	return row.toDomain()
}

// ListByProject returns files of the project and of its subprojects.
func (r *SQLFileRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectFile, error) {
	sub := r.sb.Select("id").From("subprojects").Where(squirrel.Eq{"project_id": projectID})
	subSQL, subArgs, err := sub.PlaceholderFormat(squirrel.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building subproject filter: %w", err)
	}
	q := r.sb.Select(fileColumns...).From("project_files").
		Where(squirrel.Or{
			squirrel.Eq{"project_id": projectID},
			squirrel.Expr("subproject_id IN ("+subSQL+")", subArgs...),
		}).
		OrderBy("created_at", "id")
	rows, err := selectAll[fileRow](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	files := make([]*domain.ProjectFile, 0, len(rows))
	for _, row := range rows {
		f, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *SQLFileRepo) Delete(ctx context.Context, id string) error {
	n, err := execAffected(ctx, r.db, r.sb.Delete("project_files").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	if n == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

// MatchIDPrefix lists ids of files on the user's projects starting with prefix.
func (r *SQLFileRepo) MatchIDPrefix(ctx context.Context, userID, prefix string) ([]string, error) {
	q := r.sb.Select("f.id AS id").
		From("project_files f").
		LeftJoin("subprojects s ON s.id = f.subproject_id").
		Join("projects p ON p.id = COALESCE(f.project_id, s.project_id)").
		Where(squirrel.Eq{"p.user_id": userID}).
		Where(prefixLike("f.id", prefix)).
		Limit(2)
	return selectIDs(ctx, r.db, q)
}
