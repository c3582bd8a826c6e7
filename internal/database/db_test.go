package database

import (
	"slices"
	"testing"
	"testing/fstest"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_rates.up.sql":   {Data: []byte("CREATE TABLE b ();")},
		"001_init.up.sql":    {Data: []byte("CREATE TABLE a ();")},
		"001_init.down.sql":  {Data: []byte("DROP TABLE a;")},
		"003_names.up.sql":   {Data: []byte("CREATE INDEX c ON a (x);")},
		"README.md":          {Data: []byte("notes")},
		"archive/000.up.sql": {Data: []byte("-- old")},
	}

	got, err := pendingMigrations(fsys, []string{"002_rates.up.sql"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"001_init.up.sql", "003_names.up.sql"}
	if !slices.Equal(got, want) {
		t.Errorf("pendingMigrations() = %v, want %v", got, want)
	}
}

func TestPendingMigrationsAllApplied(t *testing.T) {
	fsys := fstest.MapFS{"001_init.up.sql": {Data: []byte("SELECT 1;")}}
	got, err := pendingMigrations(fsys, []string{"001_init.up.sql"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("pendingMigrations() = %v, want none", got)
	}
}
