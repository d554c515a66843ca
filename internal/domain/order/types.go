package order

import "errors"

var (
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidServiceType = errors.New("invalid service type")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipping   Status = "shipping"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipping, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

type ServiceType string

const (
	ServiceStandard ServiceType = "standard"
	ServiceExpress  ServiceType = "express"
	ServiceSameDay  ServiceType = "same_day"
)

func NewServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceStandard, ServiceExpress, ServiceSameDay:
		return ServiceType(s), nil
	default:
		return "", ErrInvalidServiceType
	}
}

func (s ServiceType) String() string {
	return string(s)
}
