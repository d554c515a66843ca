package repository

import (
	"context"
	"time"

	"shipflow/internal/infra"
	"shipflow/internal/infra/db"

	"github.com/google/uuid"
)

type CouponUsageRepository struct{}

func NewCouponUsageRepository() *CouponUsageRepository {
	return &CouponUsageRepository{}
}

// Insert relies on the (coupon_id, customer_id) uniqueness constraint as the
// concurrency guard; a violation comes back as KindDuplicateKey.
func (r *CouponUsageRepository) Insert(ctx context.Context, tx db.DBTX, couponID, customerID uuid.UUID, usedAt time.Time) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO coupon_usages (coupon_id, customer_id, used_at) VALUES ($1, $2, $3)`,
		couponID, customerID, usedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to insert coupon usage", err)
	}
	return nil
}
