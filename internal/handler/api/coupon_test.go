//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipflow/internal/domain/coupon"
	"shipflow/internal/domain/user"
	"shipflow/internal/handler/api"
	"shipflow/internal/usecase/commands"
	"shipflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubCouponCommands struct {
	createFn func(ctx context.Context, cmd commands.CreateCouponCommand, actorID uuid.UUID) (uuid.UUID, error)
	updateFn func(ctx context.Context, couponID uuid.UUID, cmd commands.UpdateCouponCommand, actorID uuid.UUID, actorRole user.Role) error
	deleteFn func(ctx context.Context, couponID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error
	redeemFn func(ctx context.Context, couponID, customerID uuid.UUID) error
}

func (s *stubCouponCommands) CreateCoupon(ctx context.Context, cmd commands.CreateCouponCommand, actorID uuid.UUID) (uuid.UUID, error) {
	return s.createFn(ctx, cmd, actorID)
}

func (s *stubCouponCommands) UpdateCoupon(ctx context.Context, couponID uuid.UUID, cmd commands.UpdateCouponCommand, actorID uuid.UUID, actorRole user.Role) error {
	return s.updateFn(ctx, couponID, cmd, actorID, actorRole)
}

func (s *stubCouponCommands) DeleteCoupon(ctx context.Context, couponID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error {
	return s.deleteFn(ctx, couponID, actorID, actorRole)
}

func (s *stubCouponCommands) RedeemCoupon(ctx context.Context, couponID, customerID uuid.UUID) error {
	return s.redeemFn(ctx, couponID, customerID)
}

type stubCouponQueries struct {
	getFn      func(ctx context.Context, id uuid.UUID) (*queries.CouponView, error)
	listFn     func(ctx context.Context, page, limit int32) ([]queries.CouponView, *queries.Pagination, error)
	validateFn func(ctx context.Context, code string, orderValue int64, customerID uuid.UUID) (*queries.CouponValidationView, *coupon.Rejection, error)
}

func (s *stubCouponQueries) GetByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	return s.getFn(ctx, id)
}

func (s *stubCouponQueries) List(ctx context.Context, page, limit int32) ([]queries.CouponView, *queries.Pagination, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubCouponQueries) Validate(ctx context.Context, code string, orderValue int64, customerID uuid.UUID) (*queries.CouponValidationView, *coupon.Rejection, error) {
	return s.validateFn(ctx, code, orderValue, customerID)
}

type CouponHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubCouponCommands
	queries  *stubCouponQueries
	userID   uuid.UUID
	role     user.Role
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubCouponCommands{}
	s.queries = &stubCouponQueries{}
	s.userID = uuid.New()
	s.role = user.RoleCustomer
	handler := api.NewCouponHandler(s.commands, s.queries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_role", s.role)
		c.Next()
	}

	s.router.POST("/coupons", authMiddleware, handler.CreateCoupon)
	s.router.GET("/coupons", authMiddleware, handler.ListCoupons)
	s.router.POST("/coupons/validate", authMiddleware, handler.ValidateCoupon)
	s.router.GET("/coupons/:id", authMiddleware, handler.GetCoupon)
	s.router.PATCH("/coupons/:id", authMiddleware, handler.UpdateCoupon)
	s.router.DELETE("/coupons/:id", authMiddleware, handler.DeleteCoupon)
	s.router.POST("/coupons/:id/use", authMiddleware, handler.UseCoupon)
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

func (s *CouponHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CouponHandlerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleCouponView() *queries.CouponView {
	return &queries.CouponView{
		ID:            uuid.New(),
		Code:          "SUMMER20",
		DiscountType:  "percentage",
		DiscountValue: 20,
		MinOrderValue: 100_000,
		StartDate:     time.Now().AddDate(0, 0, -7),
		EndDate:       time.Now().AddDate(0, 0, 7),
		UsageLimit:    100,
		UsedCount:     10,
		IsActive:      true,
	}
}

func (s *CouponHandlerTestSuite) TestValidateCoupon() {
	s.Run("success: returns the quote in the envelope", func() {
		view := sampleCouponView()
		s.queries.validateFn = func(_ context.Context, code string, orderValue int64, customerID uuid.UUID) (*queries.CouponValidationView, *coupon.Rejection, error) {
			s.Equal("SUMMER20", code)
			s.Equal(int64(1_000_000), orderValue)
			s.Equal(s.userID, customerID)
			return &queries.CouponValidationView{
				Coupon:      *view,
				OrderValue:  orderValue,
				Discount:    50_000,
				FinalAmount: 950_000,
			}, nil, nil
		}

		rec := s.perform(http.MethodPost, "/coupons/validate", gin.H{"code": "SUMMER20", "order_value": 1_000_000})

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal(true, body["success"])
		data := body["data"].(map[string]any)
		s.Equal(float64(950_000), data["finalAmount"])
		s.Equal(float64(50_000), data["discount"])
	})

	s.Run("rejection: 200 with success=false and the rule message", func() {
		s.queries.validateFn = func(_ context.Context, _ string, _ int64, _ uuid.UUID) (*queries.CouponValidationView, *coupon.Rejection, error) {
			return nil, coupon.RejectBelowMinimum(100_000), nil
		}

		rec := s.perform(http.MethodPost, "/coupons/validate", gin.H{"code": "SUMMER20", "order_value": 50_000})

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal(false, body["success"])
		s.Equal("Minimum order value is 100,000 VND", body["message"])
		s.Nil(body["data"])
	})

	s.Run("error: 400 on missing order value", func() {
		rec := s.perform(http.MethodPost, "/coupons/validate", gin.H{"code": "SUMMER20"})

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *CouponHandlerTestSuite) TestUseCoupon() {
	couponID := uuid.New()

	s.Run("success: records the usage", func() {
		s.commands.redeemFn = func(_ context.Context, id, customerID uuid.UUID) error {
			s.Equal(couponID, id)
			s.Equal(s.userID, customerID)
			return nil
		}

		rec := s.perform(http.MethodPost, "/coupons/"+couponID.String()+"/use", nil)

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal(true, body["success"])
		s.Equal("Coupon usage recorded", body["message"])
	})

	s.Run("rejection: already used comes back as success=false", func() {
		s.commands.redeemFn = func(_ context.Context, _, _ uuid.UUID) error {
			return coupon.RejectAlreadyUsed()
		}

		rec := s.perform(http.MethodPost, "/coupons/"+couponID.String()+"/use", nil)

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal(false, body["success"])
		s.Equal("You have already used this coupon", body["message"])
	})

	s.Run("error: 400 on malformed id", func() {
		rec := s.perform(http.MethodPost, "/coupons/not-a-uuid/use", nil)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *CouponHandlerTestSuite) TestCreateCoupon() {
	validBody := gin.H{
		"code":           "NEWYEAR",
		"discount_type":  "fixed_amount",
		"discount_value": 30000,
		"start_date":     "2025-01-01T00:00:00Z",
		"end_date":       "2025-01-31T00:00:00Z",
		"usage_limit":    50,
	}

	s.Run("success: returns 201 with the new id", func() {
		newID := uuid.New()
		s.commands.createFn = func(_ context.Context, cmd commands.CreateCouponCommand, actorID uuid.UUID) (uuid.UUID, error) {
			s.Equal("NEWYEAR", cmd.Code)
			s.Equal(s.userID, actorID)
			return newID, nil
		}

		rec := s.perform(http.MethodPost, "/coupons", validBody)

		s.Equal(http.StatusCreated, rec.Code)
		body := s.decode(rec)
		data := body["data"].(map[string]any)
		s.Equal(newID.String(), data["id"])
	})

	s.Run("error: 409 on duplicate code", func() {
		s.commands.createFn = func(_ context.Context, _ commands.CreateCouponCommand, _ uuid.UUID) (uuid.UUID, error) {
			return uuid.Nil, commands.ErrDuplicateCouponCode
		}

		rec := s.perform(http.MethodPost, "/coupons", validBody)

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 on missing code", func() {
		body := gin.H{}
		for k, v := range validBody {
			body[k] = v
		}
		delete(body, "code")

		rec := s.perform(http.MethodPost, "/coupons", body)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *CouponHandlerTestSuite) TestGetCoupon() {
	s.Run("success: returns the coupon", func() {
		view := sampleCouponView()
		s.queries.getFn = func(_ context.Context, id uuid.UUID) (*queries.CouponView, error) {
			s.Equal(view.ID, id)
			return view, nil
		}

		rec := s.perform(http.MethodGet, "/coupons/"+view.ID.String(), nil)

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		data := body["data"].(map[string]any)
		s.Equal("SUMMER20", data["code"])
	})

	s.Run("error: 404 when unknown", func() {
		s.queries.getFn = func(_ context.Context, _ uuid.UUID) (*queries.CouponView, error) {
			return nil, queries.ErrCouponNotFound
		}

		rec := s.perform(http.MethodGet, "/coupons/"+uuid.NewString(), nil)

		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *CouponHandlerTestSuite) TestListCoupons() {
	s.queries.listFn = func(_ context.Context, page, limit int32) ([]queries.CouponView, *queries.Pagination, error) {
		s.Equal(int32(2), page)
		s.Equal(int32(5), limit)
		return []queries.CouponView{*sampleCouponView()}, queries.NewPagination(page, limit, 11), nil
	}

	rec := s.perform(http.MethodGet, "/coupons?page=2&limit=5", nil)

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal(float64(1), body["count"])
	pagination := body["pagination"].(map[string]any)
	s.Equal(float64(11), pagination["total"])
	s.Equal(float64(3), pagination["total_pages"])
}
