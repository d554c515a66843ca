package response

import (
	"time"

	"shipflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	MinOrderValue int64     `json:"minOrderValue"`
	MaxDiscount   *int64    `json:"maxDiscount,omitempty"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	UsageLimit    int32     `json:"usageLimit"`
	UsedCount     int32     `json:"usedCount"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:            v.ID,
		Code:          v.Code,
		Description:   v.Description,
		DiscountType:  v.DiscountType,
		DiscountValue: v.DiscountValue,
		MinOrderValue: v.MinOrderValue,
		MaxDiscount:   v.MaxDiscount,
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		UsageLimit:    v.UsageLimit,
		UsedCount:     v.UsedCount,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func FromCouponViews(views []queries.CouponView) []*CouponResponse {
	out := make([]*CouponResponse, 0, len(views))
	for i := range views {
		out = append(out, FromCouponView(&views[i]))
	}
	return out
}

type CouponValidationResponse struct {
	Coupon      *CouponResponse `json:"coupon"`
	OrderValue  int64           `json:"orderValue"`
	Discount    int64           `json:"discount"`
	FinalAmount int64           `json:"finalAmount"`
}

func FromCouponValidationView(v *queries.CouponValidationView) *CouponValidationResponse {
	return &CouponValidationResponse{
		Coupon:      FromCouponView(&v.Coupon),
		OrderValue:  v.OrderValue,
		Discount:    v.Discount,
		FinalAmount: v.FinalAmount,
	}
}

type CouponCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
