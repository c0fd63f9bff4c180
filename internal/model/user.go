package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleChef     Role = "chef"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleChef, RoleDelivery, RoleAdmin:
		return true
	}
	return false
}

func (r Role) Staff() bool {
	return r == RoleChef || r == RoleDelivery || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
