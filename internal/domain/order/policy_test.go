//go:build unit

package order_test

import (
	"testing"

	"shipflow/internal/domain/order"
	"shipflow/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusPtr(s order.Status) *order.Status { return &s }

func TestAuthorizeUpdate(t *testing.T) {
	customerID := uuid.New()
	shipperID := uuid.New()
	otherID := uuid.New()

	unassigned := order.Snapshot{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     order.StatusPending,
	}
	assigned := unassigned
	assigned.ShipperID = &shipperID

	cases := []struct {
		name          string
		role          user.Role
		actor         uuid.UUID
		snap          order.Snapshot
		change        order.Change
		wantDenied    bool
		wantMessage   string
		wantClaimedBy *uuid.UUID
	}{
		{
			name:   "admin may set any status",
			role:   user.RoleAdmin,
			actor:  otherID,
			snap:   unassigned,
			change: order.Change{Status: statusPtr(order.StatusCompleted)},
		},
		{
			name:   "staff may set processing",
			role:   user.RoleStaff,
			actor:  otherID,
			snap:   unassigned,
			change: order.Change{Status: statusPtr(order.StatusProcessing)},
		},
		{
			name:   "staff may set shipping",
			role:   user.RoleStaff,
			actor:  otherID,
			snap:   unassigned,
			change: order.Change{Status: statusPtr(order.StatusShipping)},
		},
		{
			name:        "staff may not set completed",
			role:        user.RoleStaff,
			actor:       otherID,
			snap:        unassigned,
			change:      order.Change{Status: statusPtr(order.StatusCompleted)},
			wantDenied:  true,
			wantMessage: "Staff can only update status to processing or shipping",
		},
		{
			name:   "customer may cancel own order",
			role:   user.RoleCustomer,
			actor:  customerID,
			snap:   unassigned,
			change: order.Change{Status: statusPtr(order.StatusCancelled)},
		},
		{
			name:        "customer may not set processing on own order",
			role:        user.RoleCustomer,
			actor:       customerID,
			snap:        unassigned,
			change:      order.Change{Status: statusPtr(order.StatusProcessing)},
			wantDenied:  true,
			wantMessage: "Customer can only cancel their order",
		},
		{
			name:        "customer may not cancel someone else's order",
			role:        user.RoleCustomer,
			actor:       otherID,
			snap:        unassigned,
			change:      order.Change{Status: statusPtr(order.StatusCancelled)},
			wantDenied:  true,
			wantMessage: "Not authorized to update this order",
		},
		{
			name:          "shipper completing an unassigned order claims it",
			role:          user.RoleShipper,
			actor:         shipperID,
			snap:          unassigned,
			change:        order.Change{Status: statusPtr(order.StatusCompleted)},
			wantClaimedBy: &shipperID,
		},
		{
			name:   "assigned shipper may complete the order",
			role:   user.RoleShipper,
			actor:  shipperID,
			snap:   assigned,
			change: order.Change{Status: statusPtr(order.StatusCompleted)},
		},
		{
			name:        "different shipper may not touch an assigned order",
			role:        user.RoleShipper,
			actor:       otherID,
			snap:        assigned,
			change:      order.Change{Status: statusPtr(order.StatusCompleted)},
			wantDenied:  true,
			wantMessage: "Not authorized to update this order",
		},
		{
			name:        "shipper may not set shipping",
			role:        user.RoleShipper,
			actor:       shipperID,
			snap:        assigned,
			change:      order.Change{Status: statusPtr(order.StatusShipping)},
			wantDenied:  true,
			wantMessage: "Shipper can only mark order as completed",
		},
		{
			name:   "status-free update passes the status gate",
			role:   user.RoleCustomer,
			actor:  customerID,
			snap:   unassigned,
			change: order.Change{},
		},
		{
			name:        "unknown role is denied",
			role:        user.Role("driver"),
			actor:       otherID,
			snap:        unassigned,
			change:      order.Change{Status: statusPtr(order.StatusCompleted)},
			wantDenied:  true,
			wantMessage: "Not authorized to access this route",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, denial := order.AuthorizeUpdate(tc.role, tc.actor, tc.snap, tc.change)

			if tc.wantDenied {
				require.NotNil(t, denial)
				assert.Nil(t, decision)
				assert.Equal(t, tc.wantMessage, denial.Message)
				return
			}

			require.Nil(t, denial)
			require.NotNil(t, decision)
			if tc.wantClaimedBy != nil {
				require.NotNil(t, decision.AssignShipper)
				assert.Equal(t, *tc.wantClaimedBy, *decision.AssignShipper)
			} else {
				assert.Nil(t, decision.AssignShipper)
			}
		})
	}
}

func TestAuthorizeView(t *testing.T) {
	customerID := uuid.New()
	shipperID := uuid.New()
	otherID := uuid.New()

	snap := order.Snapshot{ID: uuid.New(), CustomerID: customerID, ShipperID: &shipperID}

	assert.Nil(t, order.AuthorizeView(user.RoleAdmin, otherID, snap))
	assert.Nil(t, order.AuthorizeView(user.RoleStaff, otherID, snap))
	assert.Nil(t, order.AuthorizeView(user.RoleCustomer, customerID, snap))
	assert.NotNil(t, order.AuthorizeView(user.RoleCustomer, otherID, snap))
	assert.Nil(t, order.AuthorizeView(user.RoleShipper, shipperID, snap))
	assert.NotNil(t, order.AuthorizeView(user.RoleShipper, otherID, snap))

	unassigned := snap
	unassigned.ShipperID = nil
	assert.NotNil(t, order.AuthorizeView(user.RoleShipper, shipperID, unassigned))
	assert.NotNil(t, order.AuthorizeView(user.Role("driver"), otherID, snap))
}

func TestAuthorizeDelete(t *testing.T) {
	customerID := uuid.New()
	otherID := uuid.New()
	snap := order.Snapshot{ID: uuid.New(), CustomerID: customerID}

	assert.Nil(t, order.AuthorizeDelete(user.RoleAdmin, otherID, snap))
	assert.Nil(t, order.AuthorizeDelete(user.RoleCustomer, customerID, snap))
	assert.NotNil(t, order.AuthorizeDelete(user.RoleCustomer, otherID, snap))
	assert.NotNil(t, order.AuthorizeDelete(user.RoleStaff, otherID, snap))
}
