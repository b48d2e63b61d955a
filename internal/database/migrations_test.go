package database

import (
	"context"
	"testing"
	"time"

	"storekeeper/internal/domain"
)

// newTestManager connects a manager to an in-memory SQLite database with
// migrations and catalog seeding enabled.
func newTestManager(t *testing.T) Manager {
	t.Helper()

	cfg := &Config{
		Connection: ConnectionConfig{
			Type:   "sqlite",
			DBName: "file::memory:",
		},
		Migrate: MigrateConfig{
			MigrateOnStartup: true,
			EnableForeignKey: true,
			SeedCatalog:      true,
		},
	}
	cfg.Connection.ConnectTimeout = DefaultConnectionConfig().ConnectTimeout

	m := NewManager(cfg)
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { m.Disconnect() })
	return m
}

func TestRunMigrationsSeedsCatalog(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	var categories []*domain.Category
	if err := m.DB().NewSelect().Model(&categories).Order("id ASC").Scan(ctx); err != nil {
		t.Fatalf("failed to load categories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 seeded categories, got %d", len(categories))
	}

	wantNames := []string{"Electronics", "Clothes", "Grocery"}
	byName := make(map[string]int64)
	for i, c := range categories {
		if c.Name != wantNames[i] {
			t.Errorf("category %d name = %s, want %s", i, c.Name, wantNames[i])
		}
		byName[c.Name] = c.ID
	}

	var products []*domain.Product
	if err := m.DB().NewSelect().Model(&products).Order("id ASC").Scan(ctx); err != nil {
		t.Fatalf("failed to load products: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 seeded products, got %d", len(products))
	}

	wantProducts := []struct {
		name     string
		price    float64
		category string
	}{
		{"Computer", 1000, "Electronics"},
		{"Smartphone", 500, "Electronics"},
		{"Camicia", 25, "Clothes"},
	}
	for i, want := range wantProducts {
		p := products[i]
		if p.Name != want.name || p.Price != want.price {
			t.Errorf("product %d = %s:%v, want %s:%v", i, p.Name, p.Price, want.name, want.price)
		}
		if p.CategoryID != byName[want.category] {
			t.Errorf("product %s category = %d, want %d (%s)", p.Name, p.CategoryID, byName[want.category], want.category)
		}
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	count, err := m.DB().NewSelect().Model((*domain.Category)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("failed to count categories: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 categories after repeated migration, got %d", count)
	}

	mm := NewMigrationManager(m.DB(), nil, nil)
	applied, err := mm.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("failed to read applied migrations: %v", err)
	}
	if len(applied) != 3 {
		t.Errorf("expected 3 applied migrations, got %d", len(applied))
	}
}

func TestSeededForeignKeyEnforced(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	orphan := &domain.Product{CategoryID: 999, Name: "Orphan", Price: 1}
	_, err := m.DB().NewInsert().Model(orphan).Exec(ctx)
	if err == nil {
		t.Fatal("expected foreign key violation, got nil")
	}

	is, kind := IsSQLError(err)
	if !is || kind != ForeignKeyViolationErr {
		t.Errorf("IsSQLError = (%v, %d), want (true, ForeignKeyViolationErr)", is, kind)
	}
}

func TestDisconnectStopsHealthLoopAndReconnectRestarts(t *testing.T) {
	cfg := &Config{
		Connection: ConnectionConfig{
			Type:                "sqlite",
			DBName:              "file::memory:",
			HealthCheckInterval: 10 * time.Millisecond,
		},
	}
	cfg.Connection.ConnectTimeout = DefaultConnectionConfig().ConnectTimeout

	m := NewManager(cfg)
	ctx := context.Background()
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	if err := m.Disconnect(); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
	// A second disconnect is a no-op, not a double close.
	if err := m.Disconnect(); err != nil {
		t.Fatalf("repeated disconnect failed: %v", err)
	}

	if err := m.Reconnect(ctx); err != nil {
		t.Fatalf("reconnect failed: %v", err)
	}
	t.Cleanup(func() { m.Disconnect() })

	// The restarted health loop and the connection itself are live.
	time.Sleep(30 * time.Millisecond)
	if err := m.Ping(ctx); err != nil {
		t.Errorf("ping after reconnect failed: %v", err)
	}
	if status := m.HealthCheck(ctx); !status.Healthy {
		t.Errorf("expected healthy status after reconnect, got %+v", status)
	}
}

func TestHealthCheckAndStats(t *testing.T) {
	m := newTestManager(t)

	status := m.HealthCheck(context.Background())
	if !status.Healthy || !status.Connected {
		t.Errorf("expected healthy connected status, got %+v", status)
	}

	stats := m.Stats()
	if stats.MaxOpenConns != 1 {
		t.Errorf("expected SQLite pool pinned to 1 connection, got %d", stats.MaxOpenConns)
	}
}
