package model

import (
	"fmt"
	"time"
)

type Status string // confirmed, preparing, ready, out_for_delivery, delivered

const (
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
)

// Statuses is the canonical progression of an order.
var Statuses = []Status{
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// Rank returns the position of s in the canonical order, or -1 for unknown statuses.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

func (s Status) Terminal() bool { return s == StatusDelivered }

// Next returns the status that follows s, false for the terminal or an unknown status.
func (s Status) Next() (Status, bool) {
	r := s.Rank()
	if r < 0 || r == len(Statuses)-1 {
		return "", false
	}
	return Statuses[r+1], true
}

type Item struct {
	MenuID    string  `json:"menu_id,omitempty"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

func (i Item) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type Customer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Instructions string `json:"instructions,omitempty"`
}

type HistoryEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
	Actor  Role      `json:"actor"`
	Forced bool      `json:"forced,omitempty"`
}

type Order struct {
	ID            string         `json:"id"`
	Items         []Item         `json:"items"`
	Customer      Customer       `json:"customer"`
	Status        Status         `json:"status"`
	DeliveryFee   float64        `json:"delivery_fee"`
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"payment_method,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	History       []HistoryEntry `json:"status_history"`
}

// ComputeTotal sums item subtotals and the delivery fee.
func (o Order) ComputeTotal() float64 {
	total := o.DeliveryFee
	for _, it := range o.Items {
		total += it.Subtotal()
	}
	return total
}

// EnteredAt reports when the order reached its current status.
func (o Order) EnteredAt() time.Time {
	if len(o.History) == 0 {
		return o.CreatedAt
	}
	return o.History[len(o.History)-1].At
}

// Clone returns a deep copy so callers never share slices with the store.
func (o Order) Clone() Order {
	o.Items = append([]Item(nil), o.Items...)
	o.History = append([]HistoryEntry(nil), o.History...)
	return o
}

func (o Order) String() string {
	return fmt.Sprintf("order %s (%s)", o.ID, o.Status)
}
