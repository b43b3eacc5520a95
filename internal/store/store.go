// Package store はユーザーとウィッシュリスト項目の永続化を提供します。
// インメモリ実装と SQLite 実装があり、呼び出し側からは同じインターフェースに見えます。
package store

import (
	"context"
	"errors"
)

// User は登録済みユーザーのレコードです。登録後は変更されません。
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// WishlistItem は1件のウィッシュリスト項目です。所有者は常に1人です。
type WishlistItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     int64  `json:"-"`
}

var (
	// ErrNotFound は対象レコードが存在しない、または所有者が一致しないことを表します。
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken はユーザー名が既に使われていることを表します。
	ErrUsernameTaken = errors.New("username already taken")
)

// UserStore は認証情報の保存先です。
type UserStore interface {
	// CreateUser は新しいユーザーを作成します。重複時は ErrUsernameTaken を返します。
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	FindUserByName(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
}

// WishlistStore はウィッシュリスト項目の保存先です。
// 読み書きはすべて項目IDと所有者IDの両方で絞り込みます。ID単独の参照は提供しません。
type WishlistStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*WishlistItem, error)
	AddItem(ctx context.Context, ownerID int64, name, description string) (*WishlistItem, error)
	FindItem(ctx context.Context, id, ownerID int64) (*WishlistItem, error)
	// UpdateItem は変更が行われたかどうかを返します。
	UpdateItem(ctx context.Context, id, ownerID int64, name, description string) (bool, error)
	// DeleteItem は削除が行われたかどうかを返します。
	DeleteItem(ctx context.Context, id, ownerID int64) (bool, error)
}
