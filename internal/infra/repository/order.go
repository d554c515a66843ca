package repository

import (
	"context"
	"fmt"
	"strings"

	"shipflow/internal/domain/order"
	"shipflow/internal/infra"
	"shipflow/internal/infra/db"
	"shipflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO orders (
			id, reference, customer_id, coupon_id, status, notes,
			pickup_address, delivery_address, weight, dimensions, item_type,
			service_type, total, total_fee, service_fee, is_suburban, estimated_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		o.ID(),
		o.Reference(),
		o.CustomerID(),
		o.CouponID(),
		o.Status().String(),
		o.Notes(),
		o.PickupAddress(),
		o.DeliveryAddress(),
		o.Weight(),
		o.Dimensions(),
		o.ItemType(),
		o.ServiceType().String(),
		o.Total(),
		o.TotalFee(),
		o.ServiceFee(),
		o.IsSuburban(),
		o.EstimatedTime(),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}
	return o.ID(), nil
}

func (r *OrderRepository) Update(ctx context.Context, tx db.DBTX, id uuid.UUID, patch shared.OrderPatch) error {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.ShipperID != nil {
		set("shipper_id", *patch.ShipperID)
	}
	if patch.DeliveredAt != nil {
		set("delivered_at", *patch.DeliveredAt)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE orders SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
