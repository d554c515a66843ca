package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shipflow/internal/domain/coupon"
	"shipflow/internal/infra"
	"shipflow/internal/infra/db"
	"shipflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO coupons (
			id, code, description, discount_type, discount_value, min_order_value,
			max_discount, start_date, end_date, usage_limit, used_count, is_active,
			is_deleted, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID(),
		c.Code().String(),
		c.Description(),
		string(c.Discount().Type()),
		c.Discount().Value(),
		c.MinOrderValue(),
		c.Discount().MaxDiscount(),
		c.StartDate(),
		c.EndDate(),
		c.UsageLimit(),
		c.UsedCount(),
		c.IsActive(),
		c.IsDeleted(),
		c.CreatedBy(),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return c.ID(), nil
}

func (r *CouponRepository) Update(ctx context.Context, tx db.DBTX, id uuid.UUID, patch shared.CouponPatch) error {
	sets, args := buildCouponPatch(patch)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE coupons SET %s, updated_at = NOW() WHERE id = $%d AND is_deleted = FALSE",
		strings.Join(sets, ", "), len(args))

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func buildCouponPatch(patch shared.CouponPatch) ([]string, []any) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.DiscountValue != nil {
		set("discount_value", *patch.DiscountValue)
	}
	if patch.MinOrderValue != nil {
		set("min_order_value", *patch.MinOrderValue)
	}
	if patch.MaxDiscount != nil {
		set("max_discount", *patch.MaxDiscount)
	}
	if patch.StartDate != nil {
		set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		set("end_date", *patch.EndDate)
	}
	if patch.UsageLimit != nil {
		set("usage_limit", *patch.UsageLimit)
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}
	return sets, args
}

func (r *CouponRepository) SoftDelete(ctx context.Context, tx db.DBTX, id uuid.UUID, deletedAt time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons
		 SET is_deleted = TRUE, is_active = FALSE, deleted_at = $2, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`,
		id, deletedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to soft delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

// IncrementUsedCount is guarded by the usage limit in the WHERE clause so the
// cap holds under concurrent redemptions without an advisory lock.
func (r *CouponRepository) IncrementUsedCount(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons
		 SET used_count = used_count + 1, updated_at = NOW()
		 WHERE id = $1 AND used_count < usage_limit`,
		id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to increment coupon used count", err)
	}
	return tag.RowsAffected() == 1, nil
}
