package store

import (
	"context"
	"sync"
)

// MemoryStore はプロセス内だけで有効なストア実装です。
// 内容はプロセス終了とともに失われます。
type MemoryStore struct {
	mu         sync.Mutex
	users      []User
	items      []WishlistItem
	nextUserID int64
	nextItemID int64
}

// NewMemoryStore は空の MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID: 1,
		nextItemID: 1,
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, username, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, ErrUsernameTaken
		}
	}

	user := User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	s.nextUserID++
	s.users = append(s.users, user)
	return &user, nil
}

func (s *MemoryStore) FindUserByName(_ context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByID(_ context.Context, id int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// ListByOwner は挿入順で項目を返します。
func (s *MemoryStore) ListByOwner(_ context.Context, ownerID int64) ([]*WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*WishlistItem, 0)
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			item := it
			items = append(items, &item)
		}
	}
	return items, nil
}

func (s *MemoryStore) AddItem(_ context.Context, ownerID int64, name, description string) (*WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := WishlistItem{
		ID:          s.nextItemID,
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	s.nextItemID++
	s.items = append(s.items, item)
	return &item, nil
}

func (s *MemoryStore) FindItem(_ context.Context, id, ownerID int64) (*WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id && it.OwnerID == ownerID {
			item := it
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateItem(_ context.Context, id, ownerID int64, name, description string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].OwnerID == ownerID {
			s.items[i].Name = name
			s.items[i].Description = description
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, id, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].OwnerID == ownerID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
