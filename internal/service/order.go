package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"canteen/internal/model"
	"canteen/internal/repository"
)

type SortKey string

const (
	SortRecent SortKey = "recent"
	SortAmount SortKey = "amount"
	SortStatus SortKey = "status"
)

type ListOptions struct {
	Status     model.Status
	CustomerID string
	Sort       SortKey
}

// OrderService is the single entry point for creating, reading and transitioning orders.
type OrderService struct {
	orders      repository.OrderRepository
	dispatcher  *Dispatcher
	locks       *keyedMutex
	deliveryFee float64
	now         func() time.Time
}

func NewOrderService(orders repository.OrderRepository, dispatcher *Dispatcher, deliveryFee float64) *OrderService {
	return &OrderService{
		orders:      orders,
		dispatcher:  dispatcher,
		locks:       newKeyedMutex(),
		deliveryFee: deliveryFee,
		now:         time.Now,
	}
}

func (s *OrderService) DeliveryFee() float64 { return s.deliveryFee }

func (s *OrderService) Create(ctx context.Context, items []model.Item, customer model.Customer, paymentMethod string) (model.Order, error) {
	if err := validateItems(items); err != nil {
		return model.Order{}, err
	}
	if strings.TrimSpace(customer.ID) == "" {
		return model.Order{}, invalid("customer", "customer id is required")
	}

	now := s.now().UTC()
	order := model.Order{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Items:         slices.Clone(items),
		Customer:      customer,
		Status:        model.StatusConfirmed,
		DeliveryFee:   s.deliveryFee,
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
		History: []model.HistoryEntry{
			{Status: model.StatusConfirmed, At: now, Actor: model.RoleCustomer},
		},
	}
	order.Total = order.ComputeTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}
	slog.Info("order created", "order", order.ID, "customer", customer.ID, "total", order.Total)

	if err := s.dispatcher.OnCreate(ctx, order); err != nil {
		slog.Error("failed to dispatch order notifications", "order", order.ID, "error", err)
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (model.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List reads the store afresh on every call.
func (s *OrderService) List(ctx context.Context, opts ListOptions) ([]model.Order, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, opts.Status)
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{Status: opts.Status, CustomerID: opts.CustomerID})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	sortOrders(orders, opts.Sort)
	return orders, nil
}

// Transition moves an order to target on behalf of actor. A rejected request leaves the
// order untouched and emits nothing.
func (s *OrderService) Transition(ctx context.Context, id, target string, actor model.Role) (model.Order, error) {
	to, err := ParseStatus(target)
	if err != nil {
		return model.Order{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	from := current.Status

	forced, err := CheckTransition(from, to, actor)
	if err != nil {
		return model.Order{}, err
	}

	at := s.now().UTC()
	if last := current.EnteredAt(); at.Before(last) {
		at = last
	}
	entry := model.HistoryEntry{Status: to, At: at, Actor: actor, Forced: forced}

	updated, err := s.orders.AppendTransition(ctx, id, from, entry)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleStatus):
			return model.Order{}, fmt.Errorf("%w: order %s is no longer %s", ErrInvalidTransition, id, from)
		case errors.Is(err, repository.ErrNotFound):
			return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return model.Order{}, fmt.Errorf("apply transition: %w", err)
	}

	if forced {
		slog.Warn("forced order transition", "order", id, "from", from, "to", to, "actor", actor)
	} else {
		slog.Info("order transition", "order", id, "from", from, "to", to, "actor", actor)
	}

	if err := s.dispatcher.OnTransition(ctx, updated, from, to, actor, forced); err != nil {
		slog.Error("failed to dispatch transition notifications", "order", id, "error", err)
	}
	return updated, nil
}

func validateItems(items []model.Item) error {
	if len(items) == 0 {
		return invalid("items", "order must contain at least one item")
	}
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return invalid(fmt.Sprintf("items[%d].name", i), "name is required")
		}
		if it.Quantity < 1 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1, got %d", it.Quantity)
		}
		if it.UnitPrice < 0 {
			return invalid(fmt.Sprintf("items[%d].unit_price", i), "price must not be negative")
		}
	}
	return nil
}

// sortOrders orders by the requested key; ties fall back to ascending id.
func sortOrders(orders []model.Order, key SortKey) {
	slices.SortFunc(orders, func(a, b model.Order) int {
		var c int
		switch key {
		case SortAmount:
			c = cmp.Compare(b.Total, a.Total)
		case SortStatus:
			c = cmp.Compare(a.Status.Rank(), b.Status.Rank())
		default:
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ParseSort maps a query value onto a sort key; empty selects recency.
func ParseSort(raw string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(raw)); k {
	case "":
		return SortRecent, nil
	case SortRecent, SortAmount, SortStatus:
		return k, nil
	default:
		return "", invalid("sort", "unsupported sort %q", raw)
	}
}
