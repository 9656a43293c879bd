// Package policy answers authorization questions as capability lookups
// against a role grant table, instead of ad-hoc role string checks spread
// through handlers.
package policy

import "pasar/internal/models"

// Capability names one administrative action a role may be granted.
type Capability string

const (
	ManageProducts Capability = "manage_products"
	ManageOrders   Capability = "manage_orders"
	ManageUsers    Capability = "manage_users"
)

// Policy maps roles to their granted capabilities.
type Policy struct {
	grants map[string]map[Capability]bool
}

// New returns the default marketplace policy: admins manage everything,
// sellers manage their products, buyers hold no administrative grants.
func New() *Policy {
	return &Policy{
		grants: map[string]map[Capability]bool{
			models.RoleAdmin: {
				ManageProducts: true,
				ManageOrders:   true,
				ManageUsers:    true,
			},
			models.RoleSeller: {
				ManageProducts: true,
			},
		},
	}
}

// HasCapability reports whether the given role holds the capability.
// Unknown roles hold nothing.
func (p *Policy) HasCapability(role string, cap Capability) bool {
	return p.grants[role][cap]
}
