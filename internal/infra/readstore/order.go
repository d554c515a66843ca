package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shipflow/internal/infra"
	"shipflow/internal/infra/db"
	"shipflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderViewSelect = `
	SELECT o.id, o.reference, o.customer_id, c.name, c.email,
	       o.shipper_id, s.name,
	       o.coupon_id, cp.code,
	       o.status, o.notes, o.pickup_address, o.delivery_address,
	       o.weight, o.dimensions, o.item_type, o.service_type,
	       o.total, o.total_fee, o.service_fee, o.is_suburban,
	       o.estimated_time, o.delivered_at, o.created_at, o.updated_at
	FROM orders o
	JOIN users c ON c.id = o.customer_id
	LEFT JOIN users s ON s.id = o.shipper_id
	LEFT JOIN coupons cp ON cp.id = o.coupon_id`

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	row := r.db.QueryRow(ctx, orderViewSelect+` WHERE o.id = $1`, id)

	view, err := scanOrderView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order by id", err)
	}
	return view, nil
}

func (r *OrderReadStore) List(ctx context.Context, filter queries.OrderListFilter, limit, offset int32) ([]queries.OrderView, error) {
	where, args := buildOrderFilter(filter)
	args = append(args, limit, offset)
	sql := fmt.Sprintf("%s%s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d",
		orderViewSelect, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	views := make([]queries.OrderView, 0, limit)
	for rows.Next() {
		view, serr := scanOrderView(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", serr)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}
	return views, nil
}

func (r *OrderReadStore) Count(ctx context.Context, filter queries.OrderListFilter) (int64, error) {
	where, args := buildOrderFilter(filter)

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders o"+where, args...).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count orders", err)
	}
	return total, nil
}

// buildOrderFilter renders the visibility filter as a WHERE clause with
// positional args. A shipper with ClaimableBy also sees unassigned orders in
// processing so there is something to pick up.
func buildOrderFilter(filter queries.OrderListFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conds = append(conds, fmt.Sprintf("o.customer_id = $%d", len(args)))
	}
	if filter.ShipperID != nil {
		args = append(args, *filter.ShipperID)
		if filter.ClaimableBy {
			conds = append(conds, fmt.Sprintf(
				"(o.shipper_id = $%d OR (o.shipper_id IS NULL AND o.status = 'processing'))", len(args)))
		} else {
			conds = append(conds, fmt.Sprintf("o.shipper_id = $%d", len(args)))
		}
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanOrderView(row pgx.Row) (*queries.OrderView, error) {
	var v queries.OrderView
	err := row.Scan(
		&v.ID,
		&v.Reference,
		&v.CustomerID,
		&v.CustomerName,
		&v.CustomerEmail,
		&v.ShipperID,
		&v.ShipperName,
		&v.CouponID,
		&v.CouponCode,
		&v.Status,
		&v.Notes,
		&v.PickupAddress,
		&v.DeliveryAddress,
		&v.Weight,
		&v.Dimensions,
		&v.ItemType,
		&v.ServiceType,
		&v.Total,
		&v.TotalFee,
		&v.ServiceFee,
		&v.IsSuburban,
		&v.EstimatedTime,
		&v.DeliveredAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
