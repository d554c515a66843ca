package order

import (
	"shipflow/internal/domain/user"

	"github.com/google/uuid"
)

// Denial is a business-rule rejection of an order update. It surfaces to the
// client as a structured message, never as an infrastructure error.
type Denial struct {
	Message string
}

func (d *Denial) Error() string {
	return d.Message
}

func deny(msg string) *Denial {
	return &Denial{Message: msg}
}

// DenyRouteAccess is the denial for a role the route does not serve at all.
func DenyRouteAccess() *Denial {
	return deny("Not authorized to access this route")
}

// Snapshot is the slice of persisted order state the policy needs.
type Snapshot struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ShipperID  *uuid.UUID
	Status     Status
}

// Change is the requested mutation. Nil fields are left untouched.
type Change struct {
	Status *Status
	Notes  *string
}

// Decision is a permit. AssignShipper is set when an unassigned order is
// claimed by the shipper performing the update.
type Decision struct {
	AssignShipper *uuid.UUID
}

// statusTargets declares, per role, which status values the role may write.
// A nil entry means any status. Roles absent from the table are denied
// outright. Ownership constraints are enforced separately in AuthorizeUpdate.
var statusTargets = map[user.Role][]Status{
	user.RoleAdmin:    nil,
	user.RoleStaff:    {StatusProcessing, StatusShipping},
	user.RoleCustomer: {StatusCancelled},
	user.RoleShipper:  {StatusCompleted},
}

var statusDenialMessages = map[user.Role]string{
	user.RoleStaff:    "Staff can only update status to processing or shipping",
	user.RoleCustomer: "Customer can only cancel their order",
	user.RoleShipper:  "Shipper can only mark order as completed",
}

// AuthorizeUpdate gates a single order update by caller role. Only the next
// write is checked; there is no transition history. The policy matches the
// role table exactly: admin may set anything, staff processing/shipping,
// customer may cancel their own order, and a shipper may complete an order,
// claiming it if no shipper is assigned yet.
func AuthorizeUpdate(role user.Role, actorID uuid.UUID, snap Snapshot, change Change) (*Decision, *Denial) {
	targets, known := statusTargets[role]
	if !known {
		return nil, DenyRouteAccess()
	}

	decision := &Decision{}

	switch role {
	case user.RoleAdmin, user.RoleStaff:
		// No ownership constraint.
	case user.RoleCustomer:
		if snap.CustomerID != actorID {
			return nil, deny("Not authorized to update this order")
		}
	case user.RoleShipper:
		if snap.ShipperID == nil {
			// First shipper to touch an unassigned order claims it.
			id := actorID
			decision.AssignShipper = &id
		} else if *snap.ShipperID != actorID {
			return nil, deny("Not authorized to update this order")
		}
	}

	if change.Status != nil && targets != nil && !containsStatus(targets, *change.Status) {
		return nil, deny(statusDenialMessages[role])
	}

	return decision, nil
}

// AuthorizeView gates read access to a single order: customers see their own
// orders, shippers the orders assigned to them, admin and staff everything.
func AuthorizeView(role user.Role, actorID uuid.UUID, snap Snapshot) *Denial {
	switch role {
	case user.RoleAdmin, user.RoleStaff:
		return nil
	case user.RoleCustomer:
		if snap.CustomerID != actorID {
			return deny("Not authorized to access this order")
		}
		return nil
	case user.RoleShipper:
		if snap.ShipperID == nil || *snap.ShipperID != actorID {
			return deny("Not authorized to access this order")
		}
		return nil
	default:
		return DenyRouteAccess()
	}
}

// AuthorizeDelete allows the owning customer or an admin to delete an order.
func AuthorizeDelete(role user.Role, actorID uuid.UUID, snap Snapshot) *Denial {
	if role == user.RoleAdmin || snap.CustomerID == actorID {
		return nil
	}
	return deny("Not authorized to delete this order")
}

func containsStatus(targets []Status, s Status) bool {
	for _, t := range targets {
		if t == s {
			return true
		}
	}
	return false
}
