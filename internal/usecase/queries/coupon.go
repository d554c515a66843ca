package queries

import (
	"context"

	"shipflow/internal/domain/coupon"
	"shipflow/internal/infra"
	"shipflow/internal/pkg/clock"
	"shipflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.New("coupon not found")

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context, page, limit int32) ([]CouponView, *Pagination, error)
	// Validate previews a redemption: it evaluates the full rule chain
	// against the current clock and returns either a quote or the first
	// failing rule's rejection. It never writes.
	Validate(ctx context.Context, code string, orderValue int64, customerID uuid.UUID) (*CouponValidationView, *coupon.Rejection, error)
}

type CouponReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	FindByCode(ctx context.Context, code string) (*CouponView, error)
	List(ctx context.Context, limit, offset int32) ([]CouponView, error)
	Count(ctx context.Context) (int64, error)
	UsageExists(ctx context.Context, couponID, customerID uuid.UUID) (bool, error)
}

type couponQueriesImpl struct {
	store CouponReadStore
	clock clock.Clock
}

func NewCouponQueries(store CouponReadStore, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{store: store, clock: clk}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *couponQueriesImpl) List(ctx context.Context, page, limit int32) ([]CouponView, *Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	views, err := q.store.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}
	total, err := q.store.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	return views, NewPagination(page, limit, total), nil
}

func (q *couponQueriesImpl) Validate(ctx context.Context, code string, orderValue int64, customerID uuid.UUID) (*CouponValidationView, *coupon.Rejection, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return nil, coupon.RejectInvalidCode(), nil
	}

	view, err := q.store.FindByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, coupon.RejectInvalidCode(), nil
		}
		return nil, nil, err
	}

	alreadyUsed, err := q.store.UsageExists(ctx, view.ID, customerID)
	if err != nil {
		return nil, nil, err
	}

	entity := coupon.ReconstructCoupon(
		view.ID,
		view.Code,
		view.Description,
		view.DiscountType,
		view.DiscountValue,
		view.MinOrderValue,
		view.MaxDiscount,
		view.StartDate,
		view.EndDate,
		view.UsageLimit,
		view.UsedCount,
		view.IsActive,
		false,
		view.CreatedBy,
	)

	quote, rejection := entity.Evaluate(orderValue, alreadyUsed, q.clock.Now())
	if rejection != nil {
		return nil, rejection, nil
	}

	return &CouponValidationView{
		Coupon:      *view,
		OrderValue:  quote.OrderValue,
		Discount:    quote.Discount,
		FinalAmount: quote.FinalAmount,
	}, nil, nil
}
