package request

import (
	"time"

	"shipflow/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	CouponID        *uuid.UUID `json:"coupon_id,omitempty"`
	Notes           string     `json:"notes"`
	PickupAddress   string     `json:"pickup_address" binding:"required"`
	DeliveryAddress string     `json:"delivery_address" binding:"required"`
	Weight          float64    `json:"weight" binding:"required,gt=0"`
	Dimensions      string     `json:"dimensions" binding:"required"`
	ItemType        string     `json:"item_type" binding:"required"`
	ServiceType     string     `json:"service_type" binding:"required,oneof=standard express same_day"`
	Total           int64      `json:"total" binding:"min=0"`
	TotalFee        int64      `json:"total_fee" binding:"min=0"`
	ServiceFee      int64      `json:"service_fee" binding:"min=0"`
	IsSuburban      bool       `json:"is_suburban"`
	EstimatedTime   time.Time  `json:"estimated_time" binding:"required"`
}

func (r CreateOrderRequest) ToCommand() commands.CreateOrderCommand {
	return commands.CreateOrderCommand{
		CouponID:        r.CouponID,
		Notes:           r.Notes,
		PickupAddress:   r.PickupAddress,
		DeliveryAddress: r.DeliveryAddress,
		Weight:          r.Weight,
		Dimensions:      r.Dimensions,
		ItemType:        r.ItemType,
		ServiceType:     r.ServiceType,
		Total:           r.Total,
		TotalFee:        r.TotalFee,
		ServiceFee:      r.ServiceFee,
		IsSuburban:      r.IsSuburban,
		EstimatedTime:   r.EstimatedTime,
	}
}

type UpdateOrderRequest struct {
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=pending processing shipping completed cancelled"`
	Notes  *string `json:"notes,omitempty"`
}

func (r UpdateOrderRequest) ToCommand() commands.UpdateOrderCommand {
	return commands.UpdateOrderCommand{
		Status: r.Status,
		Notes:  r.Notes,
	}
}
