package commands

import (
	"context"
	"time"

	"shipflow/internal/domain/coupon"
	"shipflow/internal/domain/user"
	"shipflow/internal/infra"
	"shipflow/internal/pkg/clock"
	"shipflow/internal/pkg/errs"
	"shipflow/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound          = errs.New("coupon not found")
	ErrDuplicateCouponCode     = errs.New("coupon code already exists")
	ErrNotCouponOwner          = errs.New("not authorized to modify this coupon")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateCouponCommand struct {
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	MinOrderValue int64
	MaxDiscount   *int64
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    int32
}

type UpdateCouponCommand struct {
	Description   *string
	DiscountValue *float64
	MinOrderValue *int64
	MaxDiscount   *int64
	StartDate     *time.Time
	EndDate       *time.Time
	UsageLimit    *int32
	IsActive      *bool
}

type CouponCommands interface {
	CreateCoupon(ctx context.Context, cmd CreateCouponCommand, actorID uuid.UUID) (uuid.UUID, error)
	UpdateCoupon(ctx context.Context, couponID uuid.UUID, cmd UpdateCouponCommand, actorID uuid.UUID, actorRole user.Role) error
	DeleteCoupon(ctx context.Context, couponID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error
	RedeemCoupon(ctx context.Context, couponID uuid.UUID, customerID uuid.UUID) error
}

type couponCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCouponCommands(uow shared.UnitOfWork, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{uow: uow, clock: clk}
}

func (uc *couponCommandsImpl) CreateCoupon(ctx context.Context, cmd CreateCouponCommand, actorID uuid.UUID) (uuid.UUID, error) {
	entity, err := coupon.NewCoupon(
		uuid.Nil,
		cmd.Code,
		cmd.Description,
		cmd.DiscountType,
		cmd.DiscountValue,
		cmd.MinOrderValue,
		cmd.MaxDiscount,
		cmd.StartDate,
		cmd.EndDate,
		cmd.UsageLimit,
		actorID,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, cerr := tx.Coupons().Create(ctx, tx.DB(), entity)
		if cerr != nil {
			if infra.IsKind(cerr, infra.KindDuplicateKey) {
				return ErrDuplicateCouponCode
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

func (uc *couponCommandsImpl) UpdateCoupon(ctx context.Context, couponID uuid.UUID, cmd UpdateCouponCommand, actorID uuid.UUID, actorRole user.Role) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().CouponByID(ctx, couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if snap.IsDeleted {
			return ErrCouponNotFound
		}
		if actorRole != user.RoleAdmin && snap.CreatedBy != actorID {
			return ErrNotCouponOwner
		}

		if err := validateCouponPatch(snap, cmd); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		patch := shared.CouponPatch{
			Description:   cmd.Description,
			DiscountValue: cmd.DiscountValue,
			MinOrderValue: cmd.MinOrderValue,
			MaxDiscount:   cmd.MaxDiscount,
			StartDate:     cmd.StartDate,
			EndDate:       cmd.EndDate,
			UsageLimit:    cmd.UsageLimit,
			IsActive:      cmd.IsActive,
		}
		if uerr := tx.Coupons().Update(ctx, tx.DB(), couponID, patch); uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// validateCouponPatch re-runs the creation invariants against the merged
// state so a partial update cannot break them.
func validateCouponPatch(snap *shared.CouponSnapshot, cmd UpdateCouponCommand) error {
	merged := *snap
	if cmd.DiscountValue != nil {
		merged.DiscountValue = *cmd.DiscountValue
	}
	if cmd.MinOrderValue != nil {
		merged.MinOrderValue = *cmd.MinOrderValue
	}
	if cmd.MaxDiscount != nil {
		merged.MaxDiscount = cmd.MaxDiscount
	}
	if cmd.StartDate != nil {
		merged.StartDate = *cmd.StartDate
	}
	if cmd.EndDate != nil {
		merged.EndDate = *cmd.EndDate
	}
	if cmd.UsageLimit != nil {
		merged.UsageLimit = *cmd.UsageLimit
	}

	_, err := coupon.NewCoupon(
		merged.ID,
		merged.Code,
		merged.Description,
		merged.DiscountType,
		merged.DiscountValue,
		merged.MinOrderValue,
		merged.MaxDiscount,
		merged.StartDate,
		merged.EndDate,
		merged.UsageLimit,
		merged.CreatedBy,
	)
	return err
}

func (uc *couponCommandsImpl) DeleteCoupon(ctx context.Context, couponID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().CouponByID(ctx, couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if snap.IsDeleted {
			return ErrCouponNotFound
		}
		if actorRole != user.RoleAdmin && snap.CreatedBy != actorID {
			return ErrNotCouponOwner
		}

		if derr := tx.Coupons().SoftDelete(ctx, tx.DB(), couponID, uc.clock.Now()); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// RedeemCoupon consumes one use of a coupon for a customer: it inserts the
// usage record and bumps used_count in a single transaction. Redemption
// re-runs the redeemability checks so an expired or exhausted coupon cannot
// be consumed by calling this directly without a preview.
//
// The (coupon, customer) uniqueness constraint is the authoritative guard
// against double redemption; a duplicate insert is translated into the
// "already used" rejection rather than an infrastructure failure.
func (uc *couponCommandsImpl) RedeemCoupon(ctx context.Context, couponID uuid.UUID, customerID uuid.UUID) error {
	now := uc.clock.Now()
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().CouponByID(ctx, couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return coupon.RejectInvalidCode()
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity := couponEntityFromSnapshot(snap)
		if rej := entity.CheckRedeemable(now); rej != nil {
			return rej
		}

		if ierr := tx.CouponUsages().Insert(ctx, tx.DB(), couponID, customerID, now); ierr != nil {
			if infra.IsKind(ierr, infra.KindDuplicateKey) {
				return coupon.RejectAlreadyUsed()
			}
			return errs.Mark(ierr, ErrDatabaseOperationFailed)
		}

		incremented, ierr := tx.Coupons().IncrementUsedCount(ctx, tx.DB(), couponID)
		if ierr != nil {
			return errs.Mark(ierr, ErrDatabaseOperationFailed)
		}
		if !incremented {
			// Lost the race for the final use; roll the usage insert back
			// with the transaction.
			return coupon.RejectUsageLimit(snap.UsageLimit)
		}
		return nil
	})
}

func couponEntityFromSnapshot(snap *shared.CouponSnapshot) *coupon.Coupon {
	return coupon.ReconstructCoupon(
		snap.ID,
		snap.Code,
		snap.Description,
		snap.DiscountType,
		snap.DiscountValue,
		snap.MinOrderValue,
		snap.MaxDiscount,
		snap.StartDate,
		snap.EndDate,
		snap.UsageLimit,
		snap.UsedCount,
		snap.IsActive,
		snap.IsDeleted,
		snap.CreatedBy,
	)
}
