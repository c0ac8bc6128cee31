package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
)

// UserRepository keeps users in process memory.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.User
	byName map[string]int64
	byMail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:   make(map[int64]model.User),
		byName: make(map[string]int64),
		byMail: make(map[string]int64),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(user.Username) {
		return fmt.Errorf("username %q: %w", user.Username, apperror.ErrDuplicateIdentity)
	}
	if user.Email != "" && r.taken(user.Email) {
		return fmt.Errorf("email %q: %w", user.Email, apperror.ErrDuplicateIdentity)
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()

	r.byID[user.ID] = *user
	r.byName[user.Username] = user.ID
	if user.Email != "" {
		r.byMail[user.Email] = user.ID
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperror.ErrNotFound)
	}
	return &user, nil
}

func (r *UserRepository) FindByIdentity(ctx context.Context, identity string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[identity]
	if !ok {
		id, ok = r.byMail[identity]
	}
	if !ok {
		return nil, fmt.Errorf("user %q: %w", identity, apperror.ErrNotFound)
	}
	user := r.byID[id]
	return &user, nil
}

// taken reports whether identity is already somebody's username or email,
// so that FindByIdentity stays unambiguous.
func (r *UserRepository) taken(identity string) bool {
	_, byName := r.byName[identity]
	_, byMail := r.byMail[identity]
	return byName || byMail
}

// displayName is used by the product store for the owner join.
func (r *UserRepository) displayName(id int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return "", false
	}
	return user.DisplayName(), true
}
