package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storekeeper/internal/domain"
)

func writeSQLFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestGetSQLFilesOrdering(t *testing.T) {
	root := t.TempDir()
	writeSQLFile(t, filepath.Join(root, "common"), "02_products.sql", "-- products")
	writeSQLFile(t, filepath.Join(root, "common"), "01_categories.sql", "-- categories")
	writeSQLFile(t, filepath.Join(root, "environments", "dev"), "01_fixtures.sql", "-- fixtures")
	writeSQLFile(t, filepath.Join(root, "common"), "notes.txt", "ignored")

	s := NewSQLInitManager(nil, "dev", nil)
	s.SetSQLRootPath(root)

	files, err := s.GetSQLFiles()
	if err != nil {
		t.Fatalf("GetSQLFiles failed: %v", err)
	}

	wantNames := []string{"01_categories.sql", "02_products.sql", "01_fixtures.sql"}
	if len(files) != len(wantNames) {
		t.Fatalf("expected %d files, got %d", len(wantNames), len(files))
	}
	for i, want := range wantNames {
		if files[i].Name != want {
			t.Errorf("file %d = %s, want %s", i, files[i].Name, want)
		}
	}
	if files[0].Environment != "common" || files[2].Environment != "dev" {
		t.Errorf("common files must sort before environment files: %+v", files)
	}
}

func TestParseFileOrder(t *testing.T) {
	tests := []struct {
		filename string
		want     int
	}{
		{"01_categories.sql", 1},
		{"42_late.sql", 42},
		{"no_prefix.sql", 999},
		{"categories.sql", 999},
	}

	for _, tt := range tests {
		if got := parseFileOrder(tt.filename); got != tt.want {
			t.Errorf("parseFileOrder(%q) = %d, want %d", tt.filename, got, tt.want)
		}
	}
}

func TestSplitSQLStatements(t *testing.T) {
	content := `-- seed data
INSERT INTO categories (name) VALUES ('Electronics');

INSERT INTO categories (name)
VALUES ('Clothes');
`
	statements := splitSQLStatements(content)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(statements), statements)
	}
}

func TestExecuteInitialization(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	root := t.TempDir()
	writeSQLFile(t, filepath.Join(root, "common"), "01_extra_category.sql",
		"INSERT INTO categories (name, description) VALUES ('Books', 'Printed matter');")
	writeSQLFile(t, filepath.Join(root, "environments", "dev"), "01_extra_solution.sql",
		"INSERT INTO solutions (bug_id, title, description) VALUES (1, 'Reindex', 'Rebuild the search index');")

	s := NewSQLInitManager(m.DB(), "dev", nil)
	s.SetSQLRootPath(root)

	if err := s.ExecuteInitialization(ctx); err != nil {
		t.Fatalf("initialization failed: %v", err)
	}

	catCount, err := m.DB().NewSelect().Model((*domain.Category)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("failed to count categories: %v", err)
	}
	if catCount != 4 {
		t.Errorf("expected 4 categories after init, got %d", catCount)
	}

	solCount, err := m.DB().NewSelect().Model((*domain.Solution)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("failed to count solutions: %v", err)
	}
	if solCount != 1 {
		t.Errorf("expected 1 solution after init, got %d", solCount)
	}
}

func TestExecuteInitializationFailingFileRollsBack(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	root := t.TempDir()
	writeSQLFile(t, filepath.Join(root, "common"), "01_bad.sql",
		"INSERT INTO categories (name) VALUES ('Doomed');\nINSERT INTO nonexistent (x) VALUES (1);")

	s := NewSQLInitManager(m.DB(), "dev", nil)
	s.SetSQLRootPath(root)

	if err := s.ExecuteInitialization(ctx); err == nil {
		t.Fatal("expected initialization to fail")
	}

	count, err := m.DB().NewSelect().Model((*domain.Category)(nil)).Where("name = ?", "Doomed").Count(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback of failing file, found %d rows", count)
	}
}
