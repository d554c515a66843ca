package response

import (
	"time"

	"shipflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderResponse struct {
	ID              uuid.UUID  `json:"id"`
	Reference       string     `json:"reference"`
	CustomerID      uuid.UUID  `json:"customerId"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	ShipperID       *uuid.UUID `json:"shipperId,omitempty"`
	ShipperName     *string    `json:"shipperName,omitempty"`
	CouponID        *uuid.UUID `json:"couponId,omitempty"`
	CouponCode      *string    `json:"couponCode,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes"`
	PickupAddress   string     `json:"pickupAddress"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Weight          float64    `json:"weight"`
	Dimensions      string     `json:"dimensions"`
	ItemType        string     `json:"itemType"`
	ServiceType     string     `json:"serviceType"`
	Total           int64      `json:"total"`
	TotalFee        int64      `json:"totalFee"`
	ServiceFee      int64      `json:"serviceFee"`
	IsSuburban      bool       `json:"isSuburban"`
	EstimatedTime   time.Time  `json:"estimatedTime"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	return &OrderResponse{
		ID:              v.ID,
		Reference:       v.Reference,
		CustomerID:      v.CustomerID,
		CustomerName:    v.CustomerName,
		CustomerEmail:   v.CustomerEmail,
		ShipperID:       v.ShipperID,
		ShipperName:     v.ShipperName,
		CouponID:        v.CouponID,
		CouponCode:      v.CouponCode,
		Status:          v.Status,
		Notes:           v.Notes,
		PickupAddress:   v.PickupAddress,
		DeliveryAddress: v.DeliveryAddress,
		Weight:          v.Weight,
		Dimensions:      v.Dimensions,
		ItemType:        v.ItemType,
		ServiceType:     v.ServiceType,
		Total:           v.Total,
		TotalFee:        v.TotalFee,
		ServiceFee:      v.ServiceFee,
		IsSuburban:      v.IsSuburban,
		EstimatedTime:   v.EstimatedTime,
		DeliveredAt:     v.DeliveredAt,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func FromOrderViews(views []queries.OrderView) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(views))
	for i := range views {
		out = append(out, FromOrderView(&views[i]))
	}
	return out
}

type OrderCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
