// Package repository declares the storage contracts the services run against.
// Implementations live in the memory, postgres and redis subpackages.
package repository

import (
	"context"
	"errors"

	"canteen/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleStatus is returned when an order moved away from the expected status.
	ErrStaleStatus = errors.New("order status changed concurrently")
	ErrDuplicate   = errors.New("record already exists")
)

type OrderFilter struct {
	Status     model.Status
	CustomerID string
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	Get(ctx context.Context, id string) (model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	// AppendTransition sets the order status and appends entry to its history in one step,
	// provided the current status still equals from.
	AppendTransition(ctx context.Context, id string, from model.Status, entry model.HistoryEntry) (model.Order, error)
}

type NotificationRepository interface {
	Add(ctx context.Context, n ...model.Notification) error
	// List returns notifications of the audience, most recent first. An empty recipient
	// matches every recipient of the audience.
	List(ctx context.Context, audience model.Audience, recipient string) ([]model.Notification, error)
	Clear(ctx context.Context, audience model.Audience, recipient string) error
}

type UserRepository interface {
	Create(ctx context.Context, user model.User) error
	GetByLogin(ctx context.Context, login string) (model.User, error)
}

type FeedbackRepository interface {
	Add(ctx context.Context, f model.Feedback) error
	List(ctx context.Context) ([]model.Feedback, error)
}
