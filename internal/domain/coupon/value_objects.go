package coupon

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmptyCode              = errors.New("coupon code is required")
	ErrInvalidDiscountType    = errors.New("invalid discount type")
	ErrNegativeDiscountValue  = errors.New("discount value cannot be negative")
	ErrPercentOverHundred     = errors.New("percentage discount cannot exceed 100%")
	ErrNegativeMinOrderValue  = errors.New("minimum order value cannot be negative")
	ErrNegativeMaxDiscount    = errors.New("maximum discount cannot be negative")
	ErrInvalidUsageLimit      = errors.New("usage limit must be at least 1")
	ErrEndDateBeforeStartDate = errors.New("end date must be after start date")
)

type Code string

// NewCode normalizes a raw coupon code the same way it is stored: trimmed
// and upper-cased.
func NewCode(raw string) (Code, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrEmptyCode
	}
	return Code(normalized), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

func NewDiscountType(s string) (DiscountType, error) {
	switch DiscountType(s) {
	case DiscountPercentage, DiscountFixedAmount:
		return DiscountType(s), nil
	default:
		return "", ErrInvalidDiscountType
	}
}

// Discount is the pricing rule of a coupon: a percentage of the order value
// (optionally capped by maxDiscount) or a fixed amount.
type Discount struct {
	kind        DiscountType
	value       float64
	maxDiscount *int64
}

func NewDiscount(kind DiscountType, value float64, maxDiscount *int64) (Discount, error) {
	if value < 0 {
		return Discount{}, ErrNegativeDiscountValue
	}
	if kind == DiscountPercentage && value > 100 {
		return Discount{}, ErrPercentOverHundred
	}
	if maxDiscount != nil && *maxDiscount < 0 {
		return Discount{}, ErrNegativeMaxDiscount
	}
	return Discount{kind: kind, value: value, maxDiscount: maxDiscount}, nil
}

func (d Discount) Type() DiscountType  { return d.kind }
func (d Discount) Value() float64      { return d.value }
func (d Discount) MaxDiscount() *int64 { return d.maxDiscount }

// Amount computes the discount for orderValue. A percentage discount is
// clamped by maxDiscount when set; a fixed discount is clamped to the order
// value so the final amount never goes negative.
func (d Discount) Amount(orderValue int64) int64 {
	var amount int64
	switch d.kind {
	case DiscountPercentage:
		amount = int64(float64(orderValue) * d.value / 100)
		if d.maxDiscount != nil && amount > *d.maxDiscount {
			amount = *d.maxDiscount
		}
	case DiscountFixedAmount:
		amount = int64(d.value)
		if amount > orderValue {
			amount = orderValue
		}
	}
	return amount
}

// FormatAmount renders an amount with thousands separators for user-facing
// rejection messages ("Minimum order value is 50,000 VND").
func FormatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
