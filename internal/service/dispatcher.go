package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"canteen/internal/model"
	"canteen/internal/repository"
)

// Publisher forwards status updates to subscribers outside the process.
type Publisher interface {
	PublishStatusUpdate(ctx context.Context, update model.StatusUpdate) error
}

var customerMessages = map[model.Status]string{
	model.StatusConfirmed:      "Your order has been confirmed!",
	model.StatusPreparing:      "Your order is being prepared in the kitchen.",
	model.StatusReady:          "Your order is ready for delivery!",
	model.StatusOutForDelivery: "Your order is out for delivery.",
	model.StatusDelivered:      "Your order has been delivered. Thank you for ordering!",
}

// Dispatcher turns order events into audience-scoped notifications.
type Dispatcher struct {
	store     repository.NotificationRepository
	publisher Publisher
	now       func() time.Time
}

func NewDispatcher(store repository.NotificationRepository, publisher Publisher) *Dispatcher {
	return &Dispatcher{store: store, publisher: publisher, now: time.Now}
}

func (d *Dispatcher) OnCreate(ctx context.Context, o model.Order) error {
	now := d.now().UTC()
	return d.store.Add(ctx,
		d.customerNotice(o, now),
		d.notice(o.ID, model.AudienceChef, fmt.Sprintf("New order %s: %s", o.ID, describeItems(o.Items)), now),
		d.notice(o.ID, model.AudienceAdmin, fmt.Sprintf("New order %s from %s, total %.2f", o.ID, o.Customer.Name, o.Total), now),
	)
}

// OnTransition records one customer and one admin notification per transition, plus a chef
// notification for kitchen steps, then fans the update out.
func (d *Dispatcher) OnTransition(ctx context.Context, o model.Order, from, to model.Status, actor model.Role, forced bool) error {
	now := d.now().UTC()

	adminMsg := fmt.Sprintf("Order %s: %s -> %s by %s", o.ID, from, to, actor)
	if forced {
		adminMsg += " (forced)"
	}
	batch := []model.Notification{
		d.customerNotice(o, now),
		d.notice(o.ID, model.AudienceAdmin, adminMsg, now),
	}
	if kitchenEdge(from, to) {
		batch = append(batch, d.notice(o.ID, model.AudienceChef, fmt.Sprintf("Order %s status updated to %s", o.ID, to), now))
	}
	if err := d.store.Add(ctx, batch...); err != nil {
		return fmt.Errorf("store notifications: %w", err)
	}

	if d.publisher != nil {
		update := model.StatusUpdate{
			OrderID:             o.ID,
			CustomerID:          o.Customer.ID,
			OldStatus:           from,
			NewStatus:           to,
			ChangedBy:           actor,
			Forced:              forced,
			Timestamp:           now,
			EstimatedCompletion: now.Add(EstimateRemaining(o, now)),
		}
		if err := d.publisher.PublishStatusUpdate(ctx, update); err != nil {
			slog.Error("failed to publish status update", "order", o.ID, "error", err)
		}
	}
	return nil
}

// ListFor returns the audience feed, most recent first. recipient narrows the
// customer feed to one customer.
func (d *Dispatcher) ListFor(ctx context.Context, audience model.Audience, recipient string) ([]model.Notification, error) {
	if !audience.Valid() {
		return nil, invalid("audience", "unknown audience %q", audience)
	}
	ns, err := d.store.List(ctx, audience, recipientFor(audience, recipient))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return ns, nil
}

func (d *Dispatcher) Clear(ctx context.Context, audience model.Audience, recipient string) error {
	if !audience.Valid() {
		return invalid("audience", "unknown audience %q", audience)
	}
	if err := d.store.Clear(ctx, audience, recipientFor(audience, recipient)); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func recipientFor(a model.Audience, recipient string) string {
	if a != model.AudienceCustomer {
		return ""
	}
	return recipient
}

func (d *Dispatcher) customerNotice(o model.Order, at time.Time) model.Notification {
	n := d.notice(o.ID, model.AudienceCustomer, customerMessages[o.Status], at)
	n.Recipient = o.Customer.ID
	return n
}

func (d *Dispatcher) notice(orderID string, a model.Audience, msg string, at time.Time) model.Notification {
	return model.Notification{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Audience:  a,
		Message:   msg,
		CreatedAt: at,
	}
}

func describeItems(items []model.Item) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%dx %s", it.Quantity, it.Name)
	}
	return out
}
