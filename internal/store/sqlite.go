package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS wishlist_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	user_id INTEGER NOT NULL REFERENCES users(id)
);
`

// SQLiteStore はプロセスをまたいで残る SQLite バックエンドのストア実装です。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore はテーブルを作成し SQLiteStore を返します。
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists > 0 {
		return nil, ErrUsernameTaken
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)", username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (s *SQLiteStore) FindUserByName(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) FindUserByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) ListByOwner(ctx context.Context, ownerID int64) ([]*WishlistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, user_id FROM wishlist_items WHERE user_id = ? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]*WishlistItem, 0)
	for rows.Next() {
		item := &WishlistItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) AddItem(ctx context.Context, ownerID int64, name, description string) (*WishlistItem, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO wishlist_items (name, description, user_id) VALUES (?, ?, ?)",
		name, description, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &WishlistItem{ID: id, Name: name, Description: description, OwnerID: ownerID}, nil
}

func (s *SQLiteStore) FindItem(ctx context.Context, id, ownerID int64) (*WishlistItem, error) {
	item := &WishlistItem{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, user_id FROM wishlist_items WHERE id = ? AND user_id = ?",
		id, ownerID).
		Scan(&item.ID, &item.Name, &item.Description, &item.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}
	return item, nil
}

func (s *SQLiteStore) UpdateItem(ctx context.Context, id, ownerID int64, name, description string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE wishlist_items SET name = ?, description = ? WHERE id = ? AND user_id = ?",
		name, description, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
