package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %s, want :3000", cfg.Server.Addr)
	}
	if cfg.Database.Connection.Type != "sqlite" {
		t.Errorf("Database type = %s, want sqlite", cfg.Database.Connection.Type)
	}
	if !cfg.Database.Migrate.MigrateOnStartup {
		t.Error("expected migrations enabled by default")
	}
	if !cfg.Database.Migrate.SeedCatalog {
		t.Error("expected catalog seeding enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storekeeper.yaml")

	content := `version: 1
server:
  addr: ":8080"
  read_timeout: 5s
database:
  connection:
    type: sqlite
    dbname: /tmp/test.db
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, loadedPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loadedPath != path {
		t.Errorf("loaded path = %s, want %s", loadedPath, path)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Connection.DBName != "/tmp/test.db" {
		t.Errorf("DBName = %s, want /tmp/test.db", cfg.Database.Connection.DBName)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}

	// Values the file omits come from defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}
	if cfg.Database.Init.Environment != "prod" {
		t.Errorf("Init.Environment = %s, want default prod", cfg.Database.Init.Environment)
	}
}

func TestLoadFromPathKeepsMigrateDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storekeeper.yaml")

	// No migrate section at all: the startup migrations stay enabled.
	content := `version: 1
database:
  connection:
    type: sqlite
    dbname: /tmp/test.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if !cfg.Database.Migrate.MigrateOnStartup {
		t.Error("expected migrations enabled when migrate section is omitted")
	}
	if !cfg.Database.Migrate.EnableForeignKey {
		t.Error("expected foreign keys enabled when migrate section is omitted")
	}
	if !cfg.Database.Migrate.SeedCatalog {
		t.Error("expected catalog seeding enabled when migrate section is omitted")
	}
}

func TestLoadFromPathExplicitMigrateOff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storekeeper.yaml")

	content := `version: 1
database:
  migrate:
    migrate_on_startup: false
    seed_catalog: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Database.Migrate.MigrateOnStartup {
		t.Error("expected migrations disabled by explicit false")
	}
	if cfg.Database.Migrate.SeedCatalog {
		t.Error("expected seeding disabled by explicit false")
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "storekeeper.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":9999"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %s, want :9999", loaded.Server.Addr)
	}
}

func TestFindConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv(EnvConfigPath, path)
	if got := FindConfigPath(); got != path {
		t.Errorf("FindConfigPath() = %s, want %s", got, path)
	}
}

func TestFindConfigPathEnvMissingFile(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Run somewhere without a working-directory config file.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	os.Chdir(t.TempDir())

	if got := FindConfigPath(); got != "" {
		t.Errorf("FindConfigPath() = %s, want empty", got)
	}
}
