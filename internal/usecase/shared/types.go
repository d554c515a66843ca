package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands independent of read-side view types.
type CouponSnapshot struct {
	ID            uuid.UUID
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	MinOrderValue int64
	MaxDiscount   *int64
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    int32
	UsedCount     int32
	IsActive      bool
	IsDeleted     bool
	CreatedBy     uuid.UUID
}

type OrderSnapshot struct {
	ID         uuid.UUID
	Reference  string
	CustomerID uuid.UUID
	ShipperID  *uuid.UUID
	CouponID   *uuid.UUID
	Status     string
}

// CouponPatch carries the mutable coupon fields of an admin update. Nil
// fields are left untouched.
type CouponPatch struct {
	Description   *string
	DiscountValue *float64
	MinOrderValue *int64
	MaxDiscount   *int64
	StartDate     *time.Time
	EndDate       *time.Time
	UsageLimit    *int32
	IsActive      *bool
}

// OrderPatch carries the mutable order fields of a gated update.
type OrderPatch struct {
	Status      *string
	Notes       *string
	ShipperID   *uuid.UUID
	DeliveredAt *time.Time
}
