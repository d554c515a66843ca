package queries

import (
	"time"

	"github.com/google/uuid"
)

// CouponView represents read-optimized coupon data
type CouponView struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	MinOrderValue int64     `json:"min_order_value"`
	MaxDiscount   *int64    `json:"max_discount,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	UsageLimit    int32     `json:"usage_limit"`
	UsedCount     int32     `json:"used_count"`
	IsActive      bool      `json:"is_active"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CouponValidationView is the preview result for a redeemable coupon: the
// quoted discount without any state change.
type CouponValidationView struct {
	Coupon      CouponView `json:"coupon"`
	OrderValue  int64      `json:"order_value"`
	Discount    int64      `json:"discount"`
	FinalAmount int64      `json:"final_amount"`
}

// OrderView represents read-optimized order data with customer and shipper
// details joined in.
type OrderView struct {
	ID              uuid.UUID  `json:"id"`
	Reference       string     `json:"reference"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	ShipperID       *uuid.UUID `json:"shipper_id,omitempty"`
	ShipperName     *string    `json:"shipper_name,omitempty"`
	CouponID        *uuid.UUID `json:"coupon_id,omitempty"`
	CouponCode      *string    `json:"coupon_code,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes"`
	PickupAddress   string     `json:"pickup_address"`
	DeliveryAddress string     `json:"delivery_address"`
	Weight          float64    `json:"weight"`
	Dimensions      string     `json:"dimensions"`
	ItemType        string     `json:"item_type"`
	ServiceType     string     `json:"service_type"`
	Total           int64      `json:"total"`
	TotalFee        int64      `json:"total_fee"`
	ServiceFee      int64      `json:"service_fee"`
	IsSuburban      bool       `json:"is_suburban"`
	EstimatedTime   time.Time  `json:"estimated_time"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Pagination describes a page of a list result.
type Pagination struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int32 `json:"total_pages"`
}

func NewPagination(page, limit int32, total int64) *Pagination {
	totalPages := int32(0)
	if limit > 0 {
		totalPages = int32((total + int64(limit) - 1) / int64(limit))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
