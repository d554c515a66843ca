package shared

import (
	"context"
	"time"

	"shipflow/internal/domain/coupon"
	"shipflow/internal/domain/order"
	"shipflow/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: validation reads outside a transaction
	CommandReads() CommandReads
}

type Tx interface {
	Coupons() CouponRepository
	CouponUsages() CouponUsageRepository
	Orders() OrderRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	CouponByID(ctx context.Context, id uuid.UUID) (*CouponSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	CouponUsageExists(ctx context.Context, couponID, customerID uuid.UUID) (bool, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
}

type CouponRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, id uuid.UUID, patch CouponPatch) error
	SoftDelete(ctx context.Context, tx db.DBTX, id uuid.UUID, deletedAt time.Time) error
	// IncrementUsedCount bumps used_count, guarded by the usage limit.
	// Returns false when the coupon is already at its cap.
	IncrementUsedCount(ctx context.Context, tx db.DBTX, id uuid.UUID) (bool, error)
}

type CouponUsageRepository interface {
	// Insert records a redemption; the (coupon, customer) uniqueness
	// constraint surfaces as KindDuplicateKey.
	Insert(ctx context.Context, tx db.DBTX, couponID, customerID uuid.UUID, usedAt time.Time) error
}

type OrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, id uuid.UUID, patch OrderPatch) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}
