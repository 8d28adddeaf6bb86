package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/coursemind/coursemind/internal/infra/sqlite"
)

func newTestStore(t *testing.T, maxHistory int) (*Store, *sql.DB) {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return NewStore(db, maxHistory), db
}

func TestCreateAndHistory_Empty(t *testing.T) {
	store, _ := newTestStore(t, 2)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	h, err := store.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h != "" {
		t.Errorf("history = %q, want empty", h)
	}
}

func TestHistory_FormatsAndLimits(t *testing.T) {
	store, _ := newTestStore(t, 2)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, ex := range [][2]string{
		{"q1", "a1"},
		{"q2", "a2"},
		{"q3", "a3"},
	} {
		if err := store.AddExchange(ctx, id, ex[0], ex[1]); err != nil {
			t.Fatalf("AddExchange: %v", err)
		}
	}

	h, err := store.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	// Only the last two exchanges, oldest first.
	want := "User: q2\nAssistant: a2\nUser: q3\nAssistant: a3"
	if h != want {
		t.Errorf("history:\n%q\nwant:\n%q", h, want)
	}
}

func TestAddExchange_UnknownSession(t *testing.T) {
	store, _ := newTestStore(t, 2)
	ctx := context.Background()

	if err := store.AddExchange(ctx, "client-supplied-id", "q", "a"); err != nil {
		t.Fatalf("AddExchange: %v", err)
	}
	h, err := store.History(ctx, "client-supplied-id")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h != "User: q\nAssistant: a" {
		t.Errorf("history = %q", h)
	}
}

func TestClear(t *testing.T) {
	store, db := newTestStore(t, 2)
	ctx := context.Background()

	id, _ := store.Create(ctx)
	if err := store.AddExchange(ctx, id, "q", "a"); err != nil {
		t.Fatalf("AddExchange: %v", err)
	}
	if err := store.Clear(ctx, id); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	h, err := store.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h != "" {
		t.Errorf("history = %q, want empty after clear", h)
	}

	// Exchanges removed by FK cascade.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM session_exchanges").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("exchanges = %d, want 0", n)
	}
}

func TestHistory_SessionIsolation(t *testing.T) {
	store, _ := newTestStore(t, 5)
	ctx := context.Background()

	a, _ := store.Create(ctx)
	b, _ := store.Create(ctx)
	_ = store.AddExchange(ctx, a, "qa", "aa")
	_ = store.AddExchange(ctx, b, "qb", "ab")

	h, err := store.History(ctx, a)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h != "User: qa\nAssistant: aa" {
		t.Errorf("history = %q", h)
	}
}
