package commands

import (
	"context"
	"time"

	"shipflow/internal/domain/order"
	"shipflow/internal/domain/user"
	"shipflow/internal/infra"
	"shipflow/internal/pkg/clock"
	"shipflow/internal/pkg/errs"
	"shipflow/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errs.New("order not found")
)

type CreateOrderCommand struct {
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

type UpdateOrderCommand struct {
	Status *string
	Notes  *string
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand, customerID uuid.UUID) (uuid.UUID, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, cmd UpdateOrderCommand, actorID uuid.UUID, actorRole user.Role) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error
}

type orderCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{uow: uow, clock: clk}
}

func (uc *orderCommandsImpl) CreateOrder(ctx context.Context, cmd CreateOrderCommand, customerID uuid.UUID) (uuid.UUID, error) {
	if cmd.CouponID != nil {
		snap, err := uc.uow.CommandReads().CouponByID(ctx, *cmd.CouponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return uuid.Nil, ErrCouponNotFound
			}
			return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if snap.IsDeleted {
			return uuid.Nil, ErrCouponNotFound
		}
	}

	entity, err := order.NewOrder(
		customerID,
		cmd.CouponID,
		cmd.PickupAddress,
		cmd.DeliveryAddress,
		cmd.Weight,
		cmd.Dimensions,
		cmd.ItemType,
		cmd.ServiceType,
		cmd.Total,
		cmd.TotalFee,
		cmd.ServiceFee,
		cmd.IsSuburban,
		cmd.EstimatedTime,
		cmd.Notes,
		uc.clock.Now(),
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, cerr := tx.Orders().Create(ctx, tx.DB(), entity)
		if cerr != nil {
			if infra.IsKind(cerr, infra.KindForeignKeyViolated) {
				return ErrCouponNotFound
			}
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

// UpdateOrder applies a status and/or notes change after the role gate has
// passed. The snapshot read and the write share one transaction so the gate
// decides on the row it will actually mutate.
func (uc *orderCommandsImpl) UpdateOrder(ctx context.Context, orderID uuid.UUID, cmd UpdateOrderCommand, actorID uuid.UUID, actorRole user.Role) error {
	var targetStatus *order.Status
	if cmd.Status != nil {
		st, err := order.NewStatus(*cmd.Status)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		targetStatus = &st
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		decision, denial := order.AuthorizeUpdate(actorRole, actorID, order.Snapshot{
			ID:         snap.ID,
			CustomerID: snap.CustomerID,
			ShipperID:  snap.ShipperID,
			Status:     order.Status(snap.Status),
		}, order.Change{Status: targetStatus, Notes: cmd.Notes})
		if denial != nil {
			return denial
		}

		patch := shared.OrderPatch{Notes: cmd.Notes, ShipperID: decision.AssignShipper}
		if targetStatus != nil {
			s := targetStatus.String()
			patch.Status = &s
			if *targetStatus == order.StatusCompleted {
				deliveredAt := uc.clock.Now()
				patch.DeliveredAt = &deliveredAt
			}
		}

		if uerr := tx.Orders().Update(ctx, tx.DB(), orderID, patch); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *orderCommandsImpl) DeleteOrder(ctx context.Context, orderID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if denial := order.AuthorizeDelete(actorRole, actorID, order.Snapshot{
			ID:         snap.ID,
			CustomerID: snap.CustomerID,
			ShipperID:  snap.ShipperID,
			Status:     order.Status(snap.Status),
		}); denial != nil {
			return denial
		}

		if derr := tx.Orders().Delete(ctx, tx.DB(), orderID); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
