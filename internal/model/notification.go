package model

import "time"

type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceChef     Audience = "chef"
	AudienceAdmin    Audience = "admin"
)

func (a Audience) Valid() bool {
	return a == AudienceCustomer || a == AudienceChef || a == AudienceAdmin
}

// AudienceFor maps a role onto the notification feed it reads.
func AudienceFor(r Role) Audience {
	switch r {
	case RoleChef, RoleDelivery:
		return AudienceChef
	case RoleAdmin:
		return AudienceAdmin
	default:
		return AudienceCustomer
	}
}

// Notification references its order by id only; clearing it never touches the order.
type Notification struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Audience  Audience  `json:"audience"`
	Recipient string    `json:"recipient,omitempty"` // customer id for customer-audience entries
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
