package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are written in the subset of
// SQL shared by SQLite and PostgreSQL and are safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		name           TEXT NOT NULL CHECK(name <> ''),
		description    TEXT,
		estimated_time DOUBLE PRECISION,
		is_public      INTEGER NOT NULL DEFAULT 0 CHECK(is_public IN (0, 1)),
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS subprojects (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name           TEXT NOT NULL CHECK(name <> ''),
		description    TEXT,
		estimated_time DOUBLE PRECISION,
		order_index    INTEGER NOT NULL DEFAULT 0 CHECK(order_index >= 0),
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE(project_id, order_index)
	)`,

	`CREATE TABLE IF NOT EXISTS inventory_items (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		name        TEXT NOT NULL CHECK(name <> ''),
		description TEXT,
		quantity    DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(quantity >= 0),
		unit        TEXT NOT NULL DEFAULT '',
		unit_cost   DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(unit_cost >= 0),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_inventory_user ON inventory_items(user_id, name)`,

	// A material row belongs to exactly one of a project or a subproject.
	// inventory_item_id has no cascade so deleting a used item fails.
	`CREATE TABLE IF NOT EXISTS project_materials (
		id                TEXT PRIMARY KEY,
		project_id        TEXT REFERENCES projects(id) ON DELETE CASCADE,
		subproject_id     TEXT REFERENCES subprojects(id) ON DELETE CASCADE,
		inventory_item_id TEXT NOT NULL REFERENCES inventory_items(id),
		quantity_needed   DOUBLE PRECISION NOT NULL CHECK(quantity_needed >= 0),
		is_fulfilled      INTEGER NOT NULL DEFAULT 0 CHECK(is_fulfilled IN (0, 1)),
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		CHECK((project_id IS NULL) <> (subproject_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_materials_project ON project_materials(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_materials_subproject ON project_materials(subproject_id)`,
	`CREATE INDEX IF NOT EXISTS idx_materials_item ON project_materials(inventory_item_id)`,

	`CREATE TABLE IF NOT EXISTS project_files (
		id            TEXT PRIMARY KEY,
		project_id    TEXT REFERENCES projects(id) ON DELETE CASCADE,
		subproject_id TEXT REFERENCES subprojects(id) ON DELETE CASCADE,
		file_path     TEXT NOT NULL,
		file_type     TEXT NOT NULL DEFAULT '',
		description   TEXT,
		size_bytes    BIGINT NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		CHECK((project_id IS NULL) <> (subproject_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_files_project ON project_files(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_files_subproject ON project_files(subproject_id)`,
}
