package model

import "time"

// StatusUpdate is the message fanned out to external subscribers on every transition.
type StatusUpdate struct {
	OrderID             string    `json:"order_id"`
	CustomerID          string    `json:"customer_id"`
	OldStatus           Status    `json:"old_status"`
	NewStatus           Status    `json:"new_status"`
	ChangedBy           Role      `json:"changed_by"`
	Forced              bool      `json:"forced"`
	Timestamp           time.Time `json:"timestamp"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}
