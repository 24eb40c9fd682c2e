package user

import (
	"context"
	"sync"
	"time"

	"bookseller/internal/entity"
)

// MemoryRepo backs STORE_DRIVER=memory.
type MemoryRepo struct {
	mu     sync.Mutex
	users  map[string]entity.User
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]entity.User)}
}

func (r *MemoryRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.UserName]; ok {
		return ErrUserNameTaken
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.users[u.UserName] = *u
	return nil
}

func (r *MemoryRepo) GetByUserName(_ context.Context, userName string) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userName]
	if !ok {
		return entity.User{}, ErrNotFound
	}
	return u, nil
}
