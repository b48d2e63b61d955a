package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"storekeeper/internal/domain"
)

// MigrationManager coordinates schema migrations and data initialization.
type MigrationManager struct {
	db     *bun.DB
	config *Config
	logger Logger
}

// Migration is an applied migration record stored in the tracking table.
type Migration struct {
	bun.BaseModel `bun:"table:migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// NewMigrationManager constructs a MigrationManager over the given Bun
// database. The config decides which optional migrations are registered.
func NewMigrationManager(db *bun.DB, config *Config, logger Logger) *MigrationManager {
	if logger == nil {
		logger = nopLogger{}
	}
	if config == nil {
		config = &Config{}
	}
	return &MigrationManager{db: db, config: config, logger: logger}
}

// RunMigrations creates the tracking table if needed and executes all
// registered migrations in ascending version order. Already applied
// versions are skipped, so repeated runs are no-ops.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := mm.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	migrations := mm.allMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("execute migration %s: %w", migration.Version, err)
		}
	}

	mm.logger.Info("Database migrations completed")
	return nil
}

func (mm *MigrationManager) createMigrationTable(ctx context.Context) error {
	_, err := mm.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (mm *MigrationManager) allMigrations() []MigrationItem {
	migrations := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create categories, products, and solutions tables",
			Up:          mm.createBaseTables,
		},
	}
	if mm.config.Migrate.EnableForeignKey {
		migrations = append(migrations, MigrationItem{
			Version:     "002",
			Name:        "add_foreign_keys",
			Description: "Add table foreign key constraints",
			Up:          mm.addForeignKeys,
		})
	}
	if mm.config.Migrate.SeedCatalog {
		migrations = append(migrations, MigrationItem{
			Version:     "003",
			Name:        "seed_catalog",
			Description: "Seed the fixed catalog rows",
			Up:          mm.seedCatalog,
		})
	}
	return migrations
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	tx, err := mm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				mm.logger.Error("Failed to rollback migration transaction", "error", rollbackErr)
			}
		}
	}()

	if err := migration.Up(ctx, tx); err != nil {
		return err
	}

	record := &Migration{
		Version:     migration.Version,
		Name:        migration.Name,
		AppliedAt:   time.Now(),
		Description: migration.Description,
	}
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	mm.logger.Info("Migration executed", "version", migration.Version, "name", migration.Name)
	return nil
}

func (mm *MigrationManager) createBaseTables(ctx context.Context, db bun.IDB) error {
	sqlite := mm.db.Dialect().Name() == dialect.SQLite
	for _, registered := range RegisteredModels() {
		query := db.NewCreateTable().
			Model(registered.Model).
			IfNotExists()
		if sqlite {
			// SQLite cannot ALTER TABLE ADD CONSTRAINT afterwards.
			for _, fk := range registered.ForeignKeys {
				query = query.ForeignKey(fk)
			}
		}
		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", registered.Model, err)
		}
	}
	return nil
}

func (mm *MigrationManager) addForeignKeys(ctx context.Context, db bun.IDB) error {
	if mm.db.Dialect().Name() == dialect.SQLite {
		// Constraints were declared inline at table creation.
		return nil
	}

	configPath := mm.config.Migrate.ForeignKeyFile
	if configPath != "" {
		fkManager, err := NewConfigurableForeignKeyManager(mm.logger, configPath)
		if err == nil {
			if errs := fkManager.ValidateConstraints(); len(errs) > 0 {
				for _, err := range errs {
					mm.logger.Debug("Foreign key constraint validation failed", "error", err.Error())
				}
				return fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
			}
			mm.logger.Debug("Managing foreign key constraints from config file", "config_path", configPath)
			return fkManager.AddAllForeignKeys(ctx, db)
		}
		mm.logger.Debug("Failed to load foreign key config, using code-defined constraints", "error", err.Error())
	}

	return NewForeignKeyManager(mm.logger).AddAllForeignKeys(ctx, db)
}

// seedCatalog loads the fixed catalog rows: three categories and three
// products. The store assigns ids in declaration order, so a fresh database
// ends up with Electronics=1, Clothes=2, Grocery=3.
func (mm *MigrationManager) seedCatalog(ctx context.Context, db bun.IDB) error {
	categories := []*domain.Category{
		{Name: "Electronics", Description: "Computers, phones, and accessories"},
		{Name: "Clothes", Description: "Apparel and accessories"},
		{Name: "Grocery", Description: "Food and household staples"},
	}
	if _, err := db.NewInsert().Model(&categories).Exec(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	byName := make(map[string]int64, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	products := []*domain.Product{
		{CategoryID: byName["Electronics"], Name: "Computer", Description: "Desktop workstation", Price: 1000},
		{CategoryID: byName["Electronics"], Name: "Smartphone", Description: "Handheld phone", Price: 500},
		{CategoryID: byName["Clothes"], Name: "Camicia", Description: "Cotton shirt", Price: 25},
	}
	if _, err := db.NewInsert().Model(&products).Exec(ctx); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

// AppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) AppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}
