package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// :memory: はコネクションごとに別のデータベースになるため1本に固定する
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func TestSQLiteStoreCreateUserDuplicate(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "hash1"); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", "hash2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSQLiteStoreFindUser(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	byName, err := s.FindUserByName(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUserByName returned error: %v", err)
	}
	if byName.ID != created.ID || byName.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", byName)
	}

	if _, err := s.FindUserByID(ctx, created.ID+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreItemRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	added, err := s.AddItem(ctx, owner.ID, "Bike", "red one")
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	found, err := s.FindItem(ctx, added.ID, owner.ID)
	if err != nil {
		t.Fatalf("FindItem returned error: %v", err)
	}
	if found.Name != "Bike" || found.Description != "red one" || found.OwnerID != owner.ID {
		t.Fatalf("unexpected item: %+v", found)
	}
}

func TestSQLiteStoreOwnerScope(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	bob, err := s.CreateUser(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	item, err := s.AddItem(ctx, alice.ID, "Bike", "")
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if _, err := s.FindItem(ctx, item.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if updated, err := s.UpdateItem(ctx, item.ID, bob.ID, "Stolen", ""); err != nil || updated {
		t.Fatalf("expected no update for foreign owner, got updated=%v err=%v", updated, err)
	}
	if deleted, err := s.DeleteItem(ctx, item.ID, bob.ID); err != nil || deleted {
		t.Fatalf("expected no delete for foreign owner, got deleted=%v err=%v", deleted, err)
	}

	list, err := s.ListByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for bob, got %d items", len(list))
	}
}

func TestSQLiteStoreUpdateAndDelete(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	item, err := s.AddItem(ctx, owner.ID, "Bike", "old")
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	updated, err := s.UpdateItem(ctx, item.ID, owner.ID, "Bicycle", "new")
	if err != nil || !updated {
		t.Fatalf("expected update, got updated=%v err=%v", updated, err)
	}
	found, err := s.FindItem(ctx, item.ID, owner.ID)
	if err != nil {
		t.Fatalf("FindItem returned error: %v", err)
	}
	if found.Name != "Bicycle" || found.Description != "new" {
		t.Fatalf("unexpected item after update: %+v", found)
	}

	deleted, err := s.DeleteItem(ctx, item.ID, owner.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete, got deleted=%v err=%v", deleted, err)
	}
	if updated, err := s.UpdateItem(ctx, item.ID, owner.ID, "x", ""); err != nil || updated {
		t.Fatalf("expected no update after delete, got updated=%v err=%v", updated, err)
	}
}
