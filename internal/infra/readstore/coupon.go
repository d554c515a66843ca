package readstore

import (
	"context"
	"errors"

	"shipflow/internal/infra"
	"shipflow/internal/infra/db"
	"shipflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const couponViewColumns = `
	id, code, description, discount_type, discount_value, min_order_value,
	max_discount, start_date, end_date, usage_limit, used_count, is_active,
	created_by, created_at, updated_at`

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+couponViewColumns+` FROM coupons WHERE id = $1 AND is_deleted = FALSE`, id)

	view, err := scanCouponView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get coupon by id", err)
	}
	return view, nil
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+couponViewColumns+` FROM coupons WHERE code = $1 AND is_deleted = FALSE`, code)

	view, err := scanCouponView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get coupon by code", err)
	}
	return view, nil
}

func (r *CouponReadStore) List(ctx context.Context, limit, offset int32) ([]queries.CouponView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+couponViewColumns+` FROM coupons
		 WHERE is_deleted = FALSE
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	views := make([]queries.CouponView, 0, limit)
	for rows.Next() {
		view, serr := scanCouponView(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", serr)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", err)
	}
	return views, nil
}

func (r *CouponReadStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupons WHERE is_deleted = FALSE`).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count coupons", err)
	}
	return total, nil
}

func (r *CouponReadStore) UsageExists(ctx context.Context, couponID, customerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM coupon_usages WHERE coupon_id = $1 AND customer_id = $2)`,
		couponID, customerID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check coupon usage", err)
	}
	return exists, nil
}

func scanCouponView(row pgx.Row) (*queries.CouponView, error) {
	var v queries.CouponView
	err := row.Scan(
		&v.ID,
		&v.Code,
		&v.Description,
		&v.DiscountType,
		&v.DiscountValue,
		&v.MinOrderValue,
		&v.MaxDiscount,
		&v.StartDate,
		&v.EndDate,
		&v.UsageLimit,
		&v.UsedCount,
		&v.IsActive,
		&v.CreatedBy,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
