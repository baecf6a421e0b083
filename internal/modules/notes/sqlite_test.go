package notes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lavanderia-app/lavanderia-backend/internal/config"
	"github.com/lavanderia-app/lavanderia-backend/internal/migrations"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
)

// openTestDB runs the real sqlite migration against an in-memory
// database. Capped at one connection so every query sees the same
// in-memory store.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := migrations.Up(db, config.DriverSQLite, "../../../migrations/sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSQLiteRepo_NoteRoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	n := &Note{
		ID:         uuid.New(),
		Content:    "para a alice",
		AuthorID:   "bob",
		AuthorRole: user.RoleGov,
		Visibility: VisibilityTargeted,
		Recipients: []string{"alice"},
		CreatedAt:  now,
	}
	if err := repo.Insert(ctx, n); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.GetByID(ctx, n.ID.String())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Content != n.Content || got.AuthorID != "bob" ||
		got.AuthorRole != user.RoleGov || got.Visibility != VisibilityTargeted {
		t.Fatalf("got = %+v", got)
	}
	if len(got.Recipients) != 1 || got.Recipients[0] != "alice" {
		t.Fatalf("recipients = %v", got.Recipients)
	}
	if len(got.ReadBy) != 0 {
		t.Fatalf("readBy = %v, want empty on a fresh note", got.ReadBy)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("createdAt = %v, want %v", got.CreatedAt, now)
	}
	if got.UpdatedAt != nil {
		t.Fatalf("updatedAt = %v, want nil on a fresh note", got.UpdatedAt)
	}

	got.ReadBy = append(got.ReadBy, "alice")
	updated := now.Add(time.Hour)
	got.UpdatedAt = &updated
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, n.ID.String())
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if len(reloaded.ReadBy) != 1 || reloaded.ReadBy[0] != "alice" {
		t.Fatalf("readBy = %v after update", reloaded.ReadBy)
	}
	if reloaded.UpdatedAt == nil || !reloaded.UpdatedAt.Equal(updated) {
		t.Fatalf("updatedAt = %v, want %v", reloaded.UpdatedAt, updated)
	}
}

func TestSQLiteRepo_NoteListAndDelete(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	older := &Note{ID: uuid.New(), Content: "primeira", AuthorID: "alice",
		AuthorRole: user.RoleManager, Visibility: VisibilityPublic, CreatedAt: now}
	newer := &Note{ID: uuid.New(), Content: "segunda", AuthorID: "alice",
		AuthorRole: user.RoleManager, Visibility: VisibilityPublic, CreatedAt: now.Add(time.Minute)}
	for _, n := range []*Note{older, newer} {
		if err := repo.Insert(ctx, n); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("listed %d notes, want 2", len(all))
	}
	if all[0].Content != "segunda" {
		t.Fatalf("order = %q first, want newest first", all[0].Content)
	}

	if err := repo.Delete(ctx, older.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, older.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}
