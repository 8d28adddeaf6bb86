package sqlite

import "testing"

func TestMigrateUp(t *testing.T) {
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}

	for _, table := range []string{"users", "sessions", "session_exchanges", "courses", "lessons", "chunks"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}

	version, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version < 1 {
		t.Errorf("version = %d, want >= 1", version)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations rows = %d, want 1", count)
	}
}

func TestVersionFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"001_init_schema.up.sql", 1},
		{"042_add_index.up.sql", 42},
		{"garbage.up.sql", 0},
	}
	for _, tc := range cases {
		if got := versionFromFilename(tc.name); got != tc.want {
			t.Errorf("versionFromFilename(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}
