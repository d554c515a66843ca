package coupon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RejectReason classifies business-rule rejections of a coupon. Rejections
// are results, not infrastructure errors: callers surface them to the client
// as a structured message.
type RejectReason string

const (
	ReasonInvalidCode  RejectReason = "invalid_code"
	ReasonNotYetActive RejectReason = "not_yet_active"
	ReasonExpired      RejectReason = "expired"
	ReasonUsageLimit   RejectReason = "usage_limit_reached"
	ReasonAlreadyUsed  RejectReason = "already_used"
	ReasonBelowMinimum RejectReason = "below_min_order_value"
)

type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func RejectInvalidCode() *Rejection {
	return &Rejection{Reason: ReasonInvalidCode, Message: "Invalid coupon code"}
}

func RejectNotYetActive(start time.Time) *Rejection {
	return &Rejection{
		Reason:  ReasonNotYetActive,
		Message: fmt.Sprintf("Coupon is not active yet. Valid from %s", start.Format("02/01/2006")),
	}
}

func RejectExpired(end time.Time) *Rejection {
	return &Rejection{
		Reason:  ReasonExpired,
		Message: fmt.Sprintf("Coupon has expired. Valid until %s", end.Format("02/01/2006")),
	}
}

func RejectUsageLimit(limit int32) *Rejection {
	return &Rejection{
		Reason:  ReasonUsageLimit,
		Message: fmt.Sprintf("Coupon has reached its usage limit of %d times", limit),
	}
}

func RejectAlreadyUsed() *Rejection {
	return &Rejection{Reason: ReasonAlreadyUsed, Message: "You have already used this coupon"}
}

func RejectBelowMinimum(minOrderValue int64) *Rejection {
	return &Rejection{
		Reason:  ReasonBelowMinimum,
		Message: fmt.Sprintf("Minimum order value is %s VND", FormatAmount(minOrderValue)),
	}
}

type Coupon struct {
	id            uuid.UUID
	code          Code
	description   string
	discount      Discount
	minOrderValue int64
	startDate     time.Time
	endDate       time.Time
	usageLimit    int32
	usedCount     int32
	isActive      bool
	isDeleted     bool
	createdBy     uuid.UUID
}

// NewCoupon builds a coupon for creation and enforces the creation
// invariants (end after start, percentage <= 100, usage limit >= 1).
func NewCoupon(
	id uuid.UUID,
	code string,
	description string,
	discountType string,
	discountValue float64,
	minOrderValue int64,
	maxDiscount *int64,
	startDate, endDate time.Time,
	usageLimit int32,
	createdBy uuid.UUID,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	kind, err := NewDiscountType(discountType)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(kind, discountValue, maxDiscount)
	if err != nil {
		return nil, err
	}

	if minOrderValue < 0 {
		return nil, ErrNegativeMinOrderValue
	}
	if usageLimit < 1 {
		return nil, ErrInvalidUsageLimit
	}
	if !endDate.After(startDate) {
		return nil, ErrEndDateBeforeStartDate
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Coupon{
		id:            id,
		code:          couponCode,
		description:   description,
		discount:      discount,
		minOrderValue: minOrderValue,
		startDate:     startDate,
		endDate:       endDate,
		usageLimit:    usageLimit,
		usedCount:     0,
		isActive:      true,
		createdBy:     createdBy,
	}, nil
}

// ReconstructCoupon rebuilds an entity from persisted state without re-running
// creation invariants.
func ReconstructCoupon(
	id uuid.UUID,
	code string,
	description string,
	discountType string,
	discountValue float64,
	minOrderValue int64,
	maxDiscount *int64,
	startDate, endDate time.Time,
	usageLimit, usedCount int32,
	isActive, isDeleted bool,
	createdBy uuid.UUID,
) *Coupon {
	return &Coupon{
		id:            id,
		code:          Code(code),
		description:   description,
		discount:      Discount{kind: DiscountType(discountType), value: discountValue, maxDiscount: maxDiscount},
		minOrderValue: minOrderValue,
		startDate:     startDate,
		endDate:       endDate,
		usageLimit:    usageLimit,
		usedCount:     usedCount,
		isActive:      isActive,
		isDeleted:     isDeleted,
		createdBy:     createdBy,
	}
}

func (c *Coupon) ID() uuid.UUID        { return c.id }
func (c *Coupon) Code() Code           { return c.code }
func (c *Coupon) Description() string  { return c.description }
func (c *Coupon) Discount() Discount   { return c.discount }
func (c *Coupon) MinOrderValue() int64 { return c.minOrderValue }
func (c *Coupon) StartDate() time.Time { return c.startDate }
func (c *Coupon) EndDate() time.Time   { return c.endDate }
func (c *Coupon) UsageLimit() int32    { return c.usageLimit }
func (c *Coupon) UsedCount() int32     { return c.usedCount }
func (c *Coupon) IsActive() bool       { return c.isActive }
func (c *Coupon) IsDeleted() bool      { return c.isDeleted }
func (c *Coupon) CreatedBy() uuid.UUID { return c.createdBy }

// WindowStart is start_date at 00:00:00.000 in loc.
func (c *Coupon) WindowStart(loc *time.Location) time.Time {
	t := c.startDate.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WindowEnd is end_date at 23:59:59.999 in loc.
func (c *Coupon) WindowEnd(loc *time.Location) time.Time {
	t := c.endDate.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, loc)
}

// CheckRedeemable runs the checks that do not depend on an order value:
// visibility, date window and usage cap. Redemption re-runs these so a caller
// cannot consume an expired or exhausted coupon by skipping the preview.
func (c *Coupon) CheckRedeemable(now time.Time) *Rejection {
	if c.isDeleted || !c.isActive {
		return RejectInvalidCode()
	}

	loc := now.Location()
	start := c.WindowStart(loc)
	end := c.WindowEnd(loc)
	if now.Before(start) {
		return RejectNotYetActive(start)
	}
	if now.After(end) {
		return RejectExpired(end)
	}

	if c.usedCount >= c.usageLimit {
		return RejectUsageLimit(c.usageLimit)
	}
	return nil
}

type Quote struct {
	OrderValue  int64
	Discount    int64
	FinalAmount int64
}

// Evaluate runs the full validation chain for a preview: window, usage cap,
// per-customer usage, minimum order value, then discount computation. It
// short-circuits at the first failing rule and never mutates usage state.
func (c *Coupon) Evaluate(orderValue int64, alreadyUsed bool, now time.Time) (*Quote, *Rejection) {
	if rej := c.CheckRedeemable(now); rej != nil {
		return nil, rej
	}
	if alreadyUsed {
		return nil, RejectAlreadyUsed()
	}
	if orderValue < c.minOrderValue {
		return nil, RejectBelowMinimum(c.minOrderValue)
	}

	discount := c.discount.Amount(orderValue)
	return &Quote{
		OrderValue:  orderValue,
		Discount:    discount,
		FinalAmount: orderValue - discount,
	}, nil
}
