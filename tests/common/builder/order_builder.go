//go:build unit || e2e

package builder

import (
	"time"

	reqdto "shipflow/internal/handler/dto/request"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	CouponID        *uuid.UUID
	Notes           string
	PickupAddress   string
	DeliveryAddress string
	Weight          float64
	Dimensions      string
	ItemType        string
	ServiceType     string
	Total           int64
	TotalFee        int64
	ServiceFee      int64
	IsSuburban      bool
	EstimatedTime   time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		Notes:           "Call before delivery",
		PickupAddress:   "12 Hang Bac, Hoan Kiem, Hanoi",
		DeliveryAddress: "45 Le Loi, District 1, Ho Chi Minh City",
		Weight:          2.5,
		Dimensions:      "30x20x15",
		ItemType:        "electronics",
		ServiceType:     "standard",
		Total:           250_000,
		TotalFee:        30_000,
		ServiceFee:      5_000,
		IsSuburban:      false,
		EstimatedTime:   time.Now().Add(48 * time.Hour),
	}
}

func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	return reqdto.CreateOrderRequest{
		CouponID:        b.CouponID,
		Notes:           b.Notes,
		PickupAddress:   b.PickupAddress,
		DeliveryAddress: b.DeliveryAddress,
		Weight:          b.Weight,
		Dimensions:      b.Dimensions,
		ItemType:        b.ItemType,
		ServiceType:     b.ServiceType,
		Total:           b.Total,
		TotalFee:        b.TotalFee,
		ServiceFee:      b.ServiceFee,
		IsSuburban:      b.IsSuburban,
		EstimatedTime:   b.EstimatedTime,
	}
}

func BuildStatusUpdateDTO(status string) reqdto.UpdateOrderRequest {
	return reqdto.UpdateOrderRequest{Status: &status}
}

func BuildNotesUpdateDTO(notes string) reqdto.UpdateOrderRequest {
	return reqdto.UpdateOrderRequest{Notes: &notes}
}

// Fluent builder methods
func (b *OrderBuilder) WithCouponID(couponID uuid.UUID) *OrderBuilder {
	b.CouponID = &couponID
	return b
}

func (b *OrderBuilder) WithNotes(notes string) *OrderBuilder {
	b.Notes = notes
	return b
}

func (b *OrderBuilder) WithServiceType(serviceType string) *OrderBuilder {
	b.ServiceType = serviceType
	return b
}

func (b *OrderBuilder) WithTotal(total int64) *OrderBuilder {
	b.Total = total
	return b
}

func (b *OrderBuilder) AsSuburban() *OrderBuilder {
	b.IsSuburban = true
	return b
}
