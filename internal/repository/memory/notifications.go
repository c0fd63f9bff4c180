package memory

import (
	"context"
	"slices"
	"sync"

	"canteen/internal/model"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[model.Audience][]model.Notification // append order, oldest first
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[model.Audience][]model.Notification)}
}

func (r *NotificationRepository) Add(_ context.Context, ns ...model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range ns {
		r.items[n.Audience] = append(r.items[n.Audience], n)
	}
	return nil
}

func (r *NotificationRepository) List(_ context.Context, audience model.Audience, recipient string) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.items[audience]
	out := make([]model.Notification, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		if recipient != "" && stored[i].Recipient != recipient {
			continue
		}
		out = append(out, stored[i])
	}
	return out, nil
}

func (r *NotificationRepository) Clear(_ context.Context, audience model.Audience, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if recipient == "" {
		delete(r.items, audience)
		return nil
	}
	r.items[audience] = slices.DeleteFunc(slices.Clone(r.items[audience]), func(n model.Notification) bool {
		return n.Recipient == recipient
	})
	return nil
}
