// Package memory keeps every record in process memory. Reads hand out copies so
// callers never observe a partially applied update.
package memory

import (
	"context"
	"fmt"
	"sync"

	"canteen/internal/model"
	"canteen/internal/repository"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*model.Order)}
}

func (r *OrderRepository) Create(_ context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("order %s: %w", order.ID, repository.ErrDuplicate)
	}
	stored := order.Clone()
	r.orders[order.ID] = &stored
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) List(_ context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && o.Customer.ID != filter.CustomerID {
			continue
		}
		orders = append(orders, o.Clone())
	}
	return orders, nil
}

func (r *OrderRepository) AppendTransition(_ context.Context, id string, from model.Status, entry model.HistoryEntry) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	if o.Status != from {
		return model.Order{}, repository.ErrStaleStatus
	}
	// Fresh slice: snapshots handed out earlier keep their own history.
	history := make([]model.HistoryEntry, len(o.History), len(o.History)+1)
	copy(history, o.History)
	o.History = append(history, entry)
	o.Status = entry.Status
	return o.Clone(), nil
}
