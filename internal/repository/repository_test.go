package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"storekeeper/internal/domain"
)

// newTestDB creates an in-memory SQLite database with the catalog and
// solutions schema. The pool is pinned to a single connection so the
// in-memory database and its foreign_keys pragma survive across queries.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*domain.Category)(nil)).Exec(ctx); err != nil {
		t.Fatalf("failed to create categories table: %v", err)
	}
	if _, err := db.NewCreateTable().
		Model((*domain.Product)(nil)).
		ForeignKey(`("category_id") REFERENCES "categories" ("id")`).
		Exec(ctx); err != nil {
		t.Fatalf("failed to create products table: %v", err)
	}
	if _, err := db.NewCreateTable().Model((*domain.Solution)(nil)).Exec(ctx); err != nil {
		t.Fatalf("failed to create solutions table: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Electronics"}
	assertNoError(t, repo.Create(ctx, cat))

	if cat.ID == 0 {
		t.Fatal("expected store-assigned id, got 0")
	}

	got, err := repo.GetOne(ctx, cat.ID)
	assertNoError(t, err)
	if got.Name != "Electronics" {
		t.Errorf("expected name Electronics, got %s", got.Name)
	}
}

func TestGetOneNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)

	_, err := repo.GetOne(context.Background(), int64(42))
	assertNotFound(t, err)
}

func TestGetAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)
	ctx := context.Background()

	assertNoError(t, repo.Create(ctx,
		&domain.Category{Name: "Electronics"},
		&domain.Category{Name: "Clothes"},
		&domain.Category{Name: "Grocery"},
	))

	all, err := repo.GetAll(ctx)
	assertNoError(t, err)
	if len(all) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(all))
	}
}

func TestGetAllEmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	assertNoError(t, err)
	if all == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(all) != 0 {
		t.Fatalf("expected no categories, got %d", len(all))
	}

	listed, err := repo.List(ctx, NewQueryFilter("name = ?", "Ghost"))
	assertNoError(t, err)
	if listed == nil {
		t.Fatal("expected empty slice from List, got nil")
	}
}

func TestListWithFilter(t *testing.T) {
	db := newTestDB(t)
	catRepo := NewRepository[domain.Category](db)
	prodRepo := NewRepository[domain.Product](db)
	ctx := context.Background()

	electronics := &domain.Category{Name: "Electronics"}
	clothes := &domain.Category{Name: "Clothes"}
	assertNoError(t, catRepo.Create(ctx, electronics, clothes))

	assertNoError(t, prodRepo.Create(ctx,
		&domain.Product{CategoryID: electronics.ID, Name: "Computer", Price: 1000},
		&domain.Product{CategoryID: electronics.ID, Name: "Smartphone", Price: 500},
		&domain.Product{CategoryID: clothes.ID, Name: "Camicia", Price: 25},
	))

	got, err := prodRepo.List(ctx, NewQueryFilter("category_id = ?", electronics.ID))
	assertNoError(t, err)
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	for _, p := range got {
		if p.CategoryID != electronics.ID {
			t.Errorf("product %s has category %d, want %d", p.Name, p.CategoryID, electronics.ID)
		}
	}
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Electronics"}
	assertNoError(t, repo.Create(ctx, cat))

	cat.Description = "Gadgets and devices"
	assertNoError(t, repo.Update(ctx, cat))

	got, err := repo.GetOne(ctx, cat.ID)
	assertNoError(t, err)
	if got.Description != "Gadgets and devices" {
		t.Errorf("expected updated description, got %q", got.Description)
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)

	err := repo.Update(context.Background(), &domain.Category{ID: 42, Name: "Ghost"})
	assertNotFound(t, err)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Electronics"}
	assertNoError(t, repo.Create(ctx, cat))

	assertNoError(t, repo.Delete(ctx, cat.ID))

	_, err := repo.GetOne(ctx, cat.ID)
	assertNotFound(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Category](db)

	err := repo.Delete(context.Background(), int64(42))
	assertNotFound(t, err)
}

func TestForeignKeyViolation(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Product](db)

	err := repo.Create(context.Background(), &domain.Product{
		CategoryID: 999,
		Name:       "Orphan",
		Price:      1,
	})
	if err == nil {
		t.Fatal("expected foreign key violation, got nil")
	}
}

func TestPage(t *testing.T) {
	db := newTestDB(t)
	catRepo := NewRepository[domain.Category](db)
	prodRepo := NewRepository[domain.Product](db)
	ctx := context.Background()

	cat := &domain.Category{Name: "Electronics"}
	assertNoError(t, catRepo.Create(ctx, cat))

	for i := 0; i < 5; i++ {
		assertNoError(t, prodRepo.Create(ctx, &domain.Product{
			CategoryID: cat.ID,
			Name:       "Gadget",
			Price:      float64(10 * (i + 1)),
		}))
	}

	page, err := prodRepo.Page(ctx, NewDefaultPageRequest(2, 2))
	assertNoError(t, err)
	if page.Total != 5 {
		t.Errorf("expected total 5, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items on page, got %d", len(page.Items))
	}
	if page.Page != 2 || page.PageSize != 2 {
		t.Errorf("unexpected page metadata: page=%d size=%d", page.Page, page.PageSize)
	}
}

func TestPageEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Solution](db)

	page, err := repo.Page(context.Background(), NewDefaultPageRequest(1, 10))
	assertNoError(t, err)
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("expected empty page, got total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestUpsertInsertsAndUpdates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Solution](db)
	ctx := context.Background()

	sol := &domain.Solution{BugID: 1, Title: "Restart the worker"}
	assertNoError(t, repo.Create(ctx, sol))

	sol.Title = "Restart the worker pool"
	assertNoError(t, repo.Upsert(ctx, []string{"title", "description"}, []string{"id"}, sol))

	got, err := repo.GetOne(ctx, sol.ID)
	assertNoError(t, err)
	if got.Title != "Restart the worker pool" {
		t.Errorf("expected upserted title, got %q", got.Title)
	}
}

func TestUpdateWithTx(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository[domain.Solution](db)
	ctx := context.Background()

	sol := &domain.Solution{BugID: 1, Title: "Restart the worker"}
	assertNoError(t, repo.Create(ctx, sol))

	tx, err := db.BeginTx(ctx, nil)
	assertNoError(t, err)

	sol.Description = "Drains in-flight jobs first"
	if err := repo.UpdateWithTx(ctx, &tx, sol); err != nil {
		tx.Rollback()
		t.Fatalf("unexpected error: %v", err)
	}
	assertNoError(t, tx.Commit())

	got, err := repo.GetOne(ctx, sol.ID)
	assertNoError(t, err)
	if got.Description != "Drains in-flight jobs first" {
		t.Errorf("expected committed description, got %q", got.Description)
	}
}
