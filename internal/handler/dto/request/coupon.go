package request

import (
	"time"

	"shipflow/internal/usecase/commands"
)

type CreateCouponRequest struct {
	Code          string    `json:"code" binding:"required"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discount_type" binding:"required,oneof=percentage fixed_amount"`
	DiscountValue float64   `json:"discount_value" binding:"required,gt=0"`
	MinOrderValue int64     `json:"min_order_value" binding:"min=0"`
	MaxDiscount   *int64    `json:"max_discount,omitempty"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	UsageLimit    int32     `json:"usage_limit" binding:"required,min=1"`
}

func (r CreateCouponRequest) ToCommand() commands.CreateCouponCommand {
	return commands.CreateCouponCommand{
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		MinOrderValue: r.MinOrderValue,
		MaxDiscount:   r.MaxDiscount,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		UsageLimit:    r.UsageLimit,
	}
}

type UpdateCouponRequest struct {
	Description   *string    `json:"description,omitempty"`
	DiscountValue *float64   `json:"discount_value,omitempty" binding:"omitempty,gt=0"`
	MinOrderValue *int64     `json:"min_order_value,omitempty" binding:"omitempty,min=0"`
	MaxDiscount   *int64     `json:"max_discount,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	UsageLimit    *int32     `json:"usage_limit,omitempty" binding:"omitempty,min=1"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

func (r UpdateCouponRequest) ToCommand() commands.UpdateCouponCommand {
	return commands.UpdateCouponCommand{
		Description:   r.Description,
		DiscountValue: r.DiscountValue,
		MinOrderValue: r.MinOrderValue,
		MaxDiscount:   r.MaxDiscount,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		UsageLimit:    r.UsageLimit,
		IsActive:      r.IsActive,
	}
}

type ValidateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	OrderValue int64  `json:"order_value" binding:"required,gt=0"`
}
