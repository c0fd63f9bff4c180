package service

import (
	"fmt"
	"strings"

	"canteen/internal/model"
)

type edge struct {
	from, to model.Status
}

// edgeRoles lists who may take each step of the normal progression.
var edgeRoles = map[edge][]model.Role{
	{model.StatusConfirmed, model.StatusPreparing}:      {model.RoleChef},
	{model.StatusPreparing, model.StatusReady}:          {model.RoleChef},
	{model.StatusReady, model.StatusOutForDelivery}:     {model.RoleChef, model.RoleDelivery},
	{model.StatusOutForDelivery, model.StatusDelivered}: {model.RoleChef, model.RoleDelivery},
}

// statusNames maps every status to its name with separators removed, so
// "out_for_delivery", "out-for-delivery" and "OutForDelivery" all resolve.
var statusNames = func() map[string]model.Status {
	m := make(map[string]model.Status, len(model.Statuses))
	for _, s := range model.Statuses {
		m[foldStatusName(string(s))] = s
	}
	return m
}()

func foldStatusName(raw string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseStatus accepts the canonical names in snake, kebab or camel case.
func ParseStatus(raw string) (model.Status, error) {
	s, ok := statusNames[foldStatusName(raw)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// CheckTransition decides whether actor may move an order from one status to another.
// forced reports an admin override that leaves the normal progression.
func CheckTransition(from, to model.Status, actor model.Role) (forced bool, err error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from.Terminal() {
		return false, fmt.Errorf("%w: order already %s", ErrInvalidTransition, from)
	}
	if from == to {
		return false, fmt.Errorf("%w: order already %s", ErrInvalidTransition, from)
	}

	next, _ := from.Next()
	adjacent := next == to

	if actor == model.RoleAdmin {
		return !adjacent, nil
	}
	if !adjacent {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	for _, r := range edgeRoles[edge{from, to}] {
		if r == actor {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s cannot move %s -> %s", ErrUnauthorizedTransition, actor, from, to)
}

// OwnerOf returns the last non-admin role listed for the step out of s: chef in the
// kitchen, delivery once the order is ready.
func OwnerOf(s model.Status) (model.Role, bool) {
	next, ok := s.Next()
	if !ok {
		return "", false
	}
	roles := edgeRoles[edge{s, next}]
	if len(roles) == 0 {
		return "", false
	}
	return roles[len(roles)-1], true
}

func kitchenEdge(from, to model.Status) bool {
	return (from == model.StatusConfirmed && to == model.StatusPreparing) ||
		(from == model.StatusPreparing && to == model.StatusReady)
}
