package memory

import (
	"context"
	"fmt"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/server/biz"
)

// UserRepository implements the user read interfaces over the shared store.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Put seeds or replaces a user record. Test and bootstrap helper.
func (r *UserRepository) Put(user *authz.User) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *user
	r.store.users[user.ID] = &clone
}

func (r *UserRepository) GetUser(_ context.Context, userID string) (*authz.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", biz.ErrNotFound, userID)
	}

	clone := *user

	return &clone, nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*authz.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}

	return nil, fmt.Errorf("%w: user with email %s", biz.ErrNotFound, email)
}

func (r *UserRepository) ListDirectReportIDs(_ context.Context, managerID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []string

	for _, user := range r.store.users {
		if user.ManagerID == managerID {
			out = append(out, user.ID)
		}
	}

	return out, nil
}
