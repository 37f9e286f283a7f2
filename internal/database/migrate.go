package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cookeasy/backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const rollbackSuffix = "_rollback.sql"

// Migration is one numbered schema step and its inverse
type Migration struct {
	Version  int
	Name     string
	Up       string
	Down     string
	filename string
}

// AppliedMigration is a row of schema_migrations
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt time.Time
}

// LoadMigrations reads the embedded NNN_name.sql files in version order
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		rollback := strings.HasSuffix(name, rollbackSuffix)
		base := strings.TrimSuffix(strings.TrimSuffix(name, rollbackSuffix), ".sql")
		prefix, label, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s is not named NNN_name.sql", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s has a non-numeric version: %w", name, err)
		}

		body, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &Migration{Version: version, Name: label}
			byVersion[version] = m
		}
		if rollback {
			m.Down = string(body)
		} else {
			m.Up = string(body)
			m.filename = name
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %03d_%s has a rollback but no forward script", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Migrator applies SQL migrations over a plain database/sql handle
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// NewMigrator loads the embedded migrations for db
func NewMigrator(db *sql.DB) (*Migrator, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// Applied lists the recorded migrations, oldest first
func (m *Migrator) Applied(ctx context.Context) ([]AppliedMigration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, `SELECT version, name, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Name, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied = append(applied, a)
	}
	return applied, rows.Err()
}

// Up applies every pending migration, each in its own transaction.
// It returns how many were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return 0, err
	}
	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}

	count := 0
	for _, mig := range m.migrations {
		if done[mig.Version] {
			logrus.Debugf("skipping migration %s (already applied)", mig.filename)
			continue
		}
		err := m.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, mig.Up); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", mig.filename, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mig.filename, err)
			}
			return nil
		})
		if err != nil {
			return count, err
		}
		logrus.Infof("applied migration %s", mig.filename)
		count++
	}
	return count, nil
}

// Down reverts the most recently applied migration. It returns nil, nil when nothing is applied.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, nil
	}
	last := applied[len(applied)-1]

	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			target = &m.migrations[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("applied migration %03d_%s is not known to this binary", last.Version, last.Name)
	}
	if target.Down == "" {
		return nil, fmt.Errorf("migration %03d_%s has no rollback script", target.Version, target.Name)
	}

	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, target.Down); err != nil {
			return fmt.Errorf("failed to roll back migration %03d_%s: %w", target.Version, target.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, target.Version); err != nil {
			return fmt.Errorf("failed to unrecord migration %03d_%s: %w", target.Version, target.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.Infof("rolled back migration %03d_%s", target.Version, target.Name)
	return target, nil
}

// Pending lists migrations not yet applied
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}
	var pending []Migration
	for _, mig := range m.migrations {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RunMigrations brings the schema up to date for whichever dialect db uses.
// postgres runs the SQL files; sqlite and mysql use AutoMigrate on the models.
func RunMigrations(ctx context.Context, db *DB) error {
	if db.Driver != "postgres" {
		logrus.Infof("using GORM auto-migration for %s", db.Driver)
		return AutoMigrate(db.DB)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}
	migrator, err := NewMigrator(sqlDB)
	if err != nil {
		return err
	}
	_, err = migrator.Up(ctx)
	return err
}

// AutoMigrate creates or alters tables for every model
func AutoMigrate(db *gorm.DB) error {
	if err := models.Register(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

// BackfillRecipeCategories links each recipe to its primary category_id in
// recipe_categories where that link is missing. Safe to run repeatedly.
func BackfillRecipeCategories(ctx context.Context, db *gorm.DB) (int64, error) {
	var recipes []models.Recipe
	err := db.WithContext(ctx).
		Select("id", "category_id").
		Where("category_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM recipe_categories rc WHERE rc.recipe_id = recipes.id AND rc.category_id = recipes.category_id)").
		Find(&recipes).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find recipes to backfill: %w", err)
	}
	if len(recipes) == 0 {
		return 0, nil
	}

	links := make([]models.RecipeCategory, 0, len(recipes))
	for _, r := range recipes {
		links = append(links, models.RecipeCategory{RecipeID: r.ID, CategoryID: *r.CategoryID})
	}
	result := db.WithContext(ctx).CreateInBatches(&links, 100)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to backfill recipe categories: %w", result.Error)
	}
	return result.RowsAffected, nil
}
