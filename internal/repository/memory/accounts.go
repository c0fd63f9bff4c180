package memory

import (
	"context"
	"sync"

	"canteen/internal/model"
	"canteen/internal/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User // by login
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]model.User)}
}

func (r *UserRepository) Create(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Login]; ok {
		return repository.ErrDuplicate
	}
	r.users[user.Login] = user
	return nil
}

func (r *UserRepository) GetByLogin(_ context.Context, login string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[login]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type FeedbackRepository struct {
	mu      sync.RWMutex
	entries []model.Feedback
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{}
}

func (r *FeedbackRepository) Add(_ context.Context, f model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, f)
	return nil
}

// List returns the board most recent first.
func (r *FeedbackRepository) List(_ context.Context) ([]model.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Feedback, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
