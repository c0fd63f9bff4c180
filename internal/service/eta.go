package service

import (
	"time"

	"canteen/internal/model"
)

// StageDurations is the expected time an order spends in each non-terminal status.
var StageDurations = map[model.Status]time.Duration{
	model.StatusConfirmed:      5 * time.Minute,
	model.StatusPreparing:      5 * time.Minute,
	model.StatusReady:          5 * time.Minute,
	model.StatusOutForDelivery: 10 * time.Minute,
}

// EstimateRemaining returns the time left until delivery. The current stage is measured
// against the schedule that starts at CreatedAt; later stages count in full.
func EstimateRemaining(o model.Order, now time.Time) time.Duration {
	rank := o.Status.Rank()
	if rank < 0 || o.Status.Terminal() {
		return 0
	}

	var throughCurrent, later time.Duration
	for i, s := range model.Statuses {
		switch {
		case i <= rank:
			throughCurrent += StageDurations[s]
		default:
			later += StageDurations[s]
		}
	}

	current := o.CreatedAt.Add(throughCurrent).Sub(now)
	if current < 0 {
		current = 0
	}
	return current + later
}
