package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingPickupAddress   = errors.New("pickup address is required")
	ErrMissingDeliveryAddress = errors.New("delivery address is required")
	ErrInvalidWeight          = errors.New("weight must be positive")
	ErrMissingItemType        = errors.New("item type is required")
	ErrMissingDimensions      = errors.New("dimensions are required")
)

type Order struct {
	id              uuid.UUID
	reference       string
	customerID      uuid.UUID
	couponID        *uuid.UUID
	status          Status
	notes           string
	pickupAddress   string
	deliveryAddress string
	weight          float64
	dimensions      string
	itemType        string
	serviceType     ServiceType
	total           int64
	totalFee        int64
	serviceFee      int64
	isSuburban      bool
	estimatedTime   time.Time
}

// NewOrder builds a pending order for creation. The human-readable reference
// follows the legacy "ORD<unix-millis>" format.
func NewOrder(
	customerID uuid.UUID,
	couponID *uuid.UUID,
	pickupAddress, deliveryAddress string,
	weight float64,
	dimensions, itemType, serviceType string,
	total, totalFee, serviceFee int64,
	isSuburban bool,
	estimatedTime time.Time,
	notes string,
	now time.Time,
) (*Order, error) {
	svc, err := NewServiceType(serviceType)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(pickupAddress) == "" {
		return nil, ErrMissingPickupAddress
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		return nil, ErrMissingDeliveryAddress
	}
	if weight <= 0 {
		return nil, ErrInvalidWeight
	}
	if strings.TrimSpace(dimensions) == "" {
		return nil, ErrMissingDimensions
	}
	if strings.TrimSpace(itemType) == "" {
		return nil, ErrMissingItemType
	}

	return &Order{
		id:              uuid.New(),
		reference:       fmt.Sprintf("ORD%d", now.UnixMilli()),
		customerID:      customerID,
		couponID:        couponID,
		status:          StatusPending,
		notes:           notes,
		pickupAddress:   pickupAddress,
		deliveryAddress: deliveryAddress,
		weight:          weight,
		dimensions:      dimensions,
		itemType:        itemType,
		serviceType:     svc,
		total:           total,
		totalFee:        totalFee,
		serviceFee:      serviceFee,
		isSuburban:      isSuburban,
		estimatedTime:   estimatedTime,
	}, nil
}

func (o *Order) ID() uuid.UUID            { return o.id }
func (o *Order) Reference() string        { return o.reference }
func (o *Order) CustomerID() uuid.UUID    { return o.customerID }
func (o *Order) CouponID() *uuid.UUID     { return o.couponID }
func (o *Order) Status() Status           { return o.status }
func (o *Order) Notes() string            { return o.notes }
func (o *Order) PickupAddress() string    { return o.pickupAddress }
func (o *Order) DeliveryAddress() string  { return o.deliveryAddress }
func (o *Order) Weight() float64          { return o.weight }
func (o *Order) Dimensions() string       { return o.dimensions }
func (o *Order) ItemType() string         { return o.itemType }
func (o *Order) ServiceType() ServiceType { return o.serviceType }
func (o *Order) Total() int64             { return o.total }
func (o *Order) TotalFee() int64          { return o.totalFee }
func (o *Order) ServiceFee() int64        { return o.serviceFee }
func (o *Order) IsSuburban() bool         { return o.isSuburban }
func (o *Order) EstimatedTime() time.Time { return o.estimatedTime }
