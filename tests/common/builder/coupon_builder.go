//go:build unit || e2e

package builder

import (
	"time"

	reqdto "shipflow/internal/handler/dto/request"
	"shipflow/internal/usecase/queries"
	"shipflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	MinOrderValue int64
	MaxDiscount   *int64
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    int32
	UsedCount     int32
	IsActive      bool
	CreatedBy     uuid.UUID
}

func NewCouponBuilder() *CouponBuilder {
	now := time.Now()
	maxDiscount := int64(50_000)
	return &CouponBuilder{
		Code:          "SUMMER20",
		Description:   "Summer promotion",
		DiscountType:  "percentage",
		DiscountValue: 20,
		MinOrderValue: 100_000,
		MaxDiscount:   &maxDiscount,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(30 * 24 * time.Hour),
		UsageLimit:    100,
		UsedCount:     0,
		IsActive:      true,
		CreatedBy:     uuid.New(),
	}
}

// Build methods
func (b *CouponBuilder) BuildCreateRequestDTO() reqdto.CreateCouponRequest {
	return reqdto.CreateCouponRequest{
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: b.DiscountValue,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		UsageLimit:    b.UsageLimit,
	}
}

func (b *CouponBuilder) BuildUpdateRequestDTO() reqdto.UpdateCouponRequest {
	description := b.Description
	discountValue := b.DiscountValue
	minOrderValue := b.MinOrderValue
	startDate := b.StartDate
	endDate := b.EndDate
	usageLimit := b.UsageLimit
	isActive := b.IsActive
	return reqdto.UpdateCouponRequest{
		Description:   &description,
		DiscountValue: &discountValue,
		MinOrderValue: &minOrderValue,
		MaxDiscount:   b.MaxDiscount,
		StartDate:     &startDate,
		EndDate:       &endDate,
		UsageLimit:    &usageLimit,
		IsActive:      &isActive,
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	now := time.Now()
	return &queries.CouponView{
		ID:            uuid.New(),
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: b.DiscountValue,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		UsageLimit:    b.UsageLimit,
		UsedCount:     b.UsedCount,
		IsActive:      b.IsActive,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *CouponBuilder) BuildSnapshot() *shared.CouponSnapshot {
	return &shared.CouponSnapshot{
		ID:            uuid.New(),
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: b.DiscountValue,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		UsageLimit:    b.UsageLimit,
		UsedCount:     b.UsedCount,
		IsActive:      b.IsActive,
		IsDeleted:     false,
		CreatedBy:     b.CreatedBy,
	}
}

// Fluent builder methods
func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithDiscountValue(value float64) *CouponBuilder {
	b.DiscountValue = value
	return b
}

func (b *CouponBuilder) WithMinOrderValue(value int64) *CouponBuilder {
	b.MinOrderValue = value
	return b
}

func (b *CouponBuilder) WithMaxDiscount(value *int64) *CouponBuilder {
	b.MaxDiscount = value
	return b
}

func (b *CouponBuilder) WithUsageLimit(limit int32) *CouponBuilder {
	b.UsageLimit = limit
	return b
}

func (b *CouponBuilder) WithWindow(start, end time.Time) *CouponBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *CouponBuilder) WithCreatedBy(userID uuid.UUID) *CouponBuilder {
	b.CreatedBy = userID
	return b
}

func (b *CouponBuilder) AsFixedAmount(amount float64) *CouponBuilder {
	b.DiscountType = "fixed_amount"
	b.DiscountValue = amount
	b.MaxDiscount = nil
	return b
}

func (b *CouponBuilder) AsExpired() *CouponBuilder {
	now := time.Now()
	b.StartDate = now.Add(-48 * time.Hour)
	b.EndDate = now.Add(-24 * time.Hour)
	return b
}

func (b *CouponBuilder) AsInactive() *CouponBuilder {
	b.IsActive = false
	return b
}
