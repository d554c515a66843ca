//go:build e2e

package coupon_test

import (
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"sync"
	"testing"

	"shipflow/internal/domain/user"
	"shipflow/internal/handler/dto/request"
	"shipflow/internal/handler/dto/response"
	"shipflow/tests/common/authtest"
	"shipflow/tests/common/builder"
	"shipflow/tests/common/dbtest"
	"shipflow/tests/common/httptest"
	"shipflow/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	couponsURL        = "/api/coupons"
	validateCouponURL = "/api/coupons/validate"
	useCouponURL      = "/api/coupons/%s/use"
)

type CouponSuite struct {
	e2e.SharedSuite
}

func (s *CouponSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CouponSuite))
}

// registers a user with the given role and returns its ID and a valid token
func (s *CouponSuite) loginAs(t *testing.T, email string, role user.Role) (uuid.UUID, string) {
	t.Helper()
	userID := dbtest.CreateTestUser(t, s.DB, "Test "+string(role), email, string(role))
	token := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, userID, role)
	return userID, token
}

func (s *CouponSuite) createCoupon(t *testing.T, token string, req request.CreateCouponRequest) uuid.UUID {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL, req, token)
	require.Equal(t, http.StatusCreated, w.Code, "Should create coupon successfully")

	var created response.CouponCreatedResponse
	env := httptest.DecodeEnvelope(t, w.Body)
	require.True(t, env.Success)
	env.DecodeData(t, &created)
	require.NotEqual(t, uuid.Nil, created.ID)
	return created.ID
}

// =============================================================================
// TestCouponLifecycle - create, preview, redeem
// =============================================================================

func (s *CouponSuite) TestCouponLifecycle() {
	s.Run("Normal case: staff creates, customer previews and redeems", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		couponID := s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())

		// Preview: 20% of 500,000 is 100,000, capped at 50,000
		validateReq := request.ValidateCouponRequest{Code: "SUMMER20", OrderValue: 500_000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL, validateReq, customerToken)
		require.Equal(t, http.StatusOK, w.Code)

		env := httptest.DecodeEnvelope(t, w.Body)
		require.True(t, env.Success)
		var quote response.CouponValidationResponse
		env.DecodeData(t, &quote)

		expected := &response.CouponValidationResponse{
			OrderValue:  500_000,
			Discount:    50_000,
			FinalAmount: 450_000,
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.CouponValidationResponse{}, "Coupon"),
		}
		if diff := cmp.Diff(expected, &quote, opts...); diff != "" {
			t.Errorf("Validation quote mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, "SUMMER20", quote.Coupon.Code)

		// Preview is idempotent: a second call returns the same quote
		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL, validateReq, customerToken)
		require.Equal(t, http.StatusOK, w2.Code)
		env2 := httptest.DecodeEnvelope(t, w2.Body)
		var quote2 response.CouponValidationResponse
		env2.DecodeData(t, &quote2)
		if diff := cmp.Diff(&quote, &quote2, opts...); diff != "" {
			t.Errorf("Repeated preview mismatch (-first +second):\n%s", diff)
		}

		// Redeem
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(useCouponURL, couponID), nil, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env = httptest.DecodeEnvelope(t, w.Body)
		require.True(t, env.Success)
		require.Equal(t, "Coupon usage recorded", env.Message)

		usedCount, usageRows := dbtest.CouponRedemptionState(t, s.DB, couponID)
		require.Equal(t, int32(1), usedCount)
		require.Equal(t, int64(1), usageRows)

		// Second redemption by the same customer is rejected
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(useCouponURL, couponID), nil, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env = httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "You have already used this coupon", env.Message)

		// Preview after redemption is rejected the same way
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL, validateReq, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env = httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "You have already used this coupon", env.Message)
	})

	s.Run("Rejection case: order value below minimum", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL,
			request.ValidateCouponRequest{Code: "SUMMER20", OrderValue: 50_000}, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "Minimum order value is 100,000 VND", env.Message)
	})

	s.Run("Rejection case: unknown code", func() {
		t := s.T()

		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL,
			request.ValidateCouponRequest{Code: "NOSUCHCODE", OrderValue: 500_000}, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "Invalid coupon code", env.Message)
	})

	s.Run("Rejection case: expired window", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		s.createCoupon(t, staffToken,
			builder.NewCouponBuilder().WithCode("EXPIRED10").AsExpired().BuildCreateRequestDTO())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL,
			request.ValidateCouponRequest{Code: "EXPIRED10", OrderValue: 500_000}, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Contains(t, env.Message, "Coupon has expired")
	})

	s.Run("Rejection case: deactivated coupon behaves like an unknown code", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		couponID := s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())

		isActive := false
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, couponsURL+"/"+couponID.String(),
			request.UpdateCouponRequest{IsActive: &isActive}, staffToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL,
			request.ValidateCouponRequest{Code: "SUMMER20", OrderValue: 500_000}, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "Invalid coupon code", env.Message)
	})

	s.Run("Normal case: code is normalized before lookup", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL,
			request.ValidateCouponRequest{Code: "  summer20 ", OrderValue: 500_000}, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.True(t, env.Success)
	})
}

// =============================================================================
// TestRedeemConcurrency - usage limit under parallel redemption
// =============================================================================

func (s *CouponSuite) TestRedeemConcurrency() {
	s.Run("Usage limit is never oversubscribed", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		couponID := s.createCoupon(t, staffToken,
			builder.NewCouponBuilder().WithUsageLimit(3).BuildCreateRequestDTO())

		const customers = 8
		tokens := make([]string, customers)
		for i := range customers {
			_, tokens[i] = s.loginAs(t, fmt.Sprintf("customer%d@example.com", i), user.RoleCustomer)
		}

		recorders := make([]*stdhttptest.ResponseRecorder, customers)
		var wg sync.WaitGroup
		for i := range customers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				recorders[i] = httptest.PerformRequest(t, s.Router, http.MethodPost,
					fmt.Sprintf(useCouponURL, couponID), nil, tokens[i])
			}(i)
		}
		wg.Wait()

		var granted, limited int
		for _, w := range recorders {
			require.Equal(t, http.StatusOK, w.Code)
			env := httptest.DecodeEnvelope(t, w.Body)
			if env.Success {
				granted++
			} else {
				require.Equal(t, "Coupon has reached its usage limit of 3 times", env.Message)
				limited++
			}
		}
		require.Equal(t, 3, granted, "Exactly usage_limit redemptions should win")
		require.Equal(t, customers-3, limited)

		usedCount, usageRows := dbtest.CouponRedemptionState(t, s.DB, couponID)
		require.Equal(t, int32(3), usedCount)
		require.Equal(t, int64(3), usageRows)
	})

	s.Run("Same customer racing against themselves redeems once", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)
		couponID := s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())

		const attempts = 4
		recorders := make([]*stdhttptest.ResponseRecorder, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				recorders[i] = httptest.PerformRequest(t, s.Router, http.MethodPost,
					fmt.Sprintf(useCouponURL, couponID), nil, customerToken)
			}(i)
		}
		wg.Wait()

		var granted int
		for _, w := range recorders {
			require.Equal(t, http.StatusOK, w.Code)
			if httptest.DecodeEnvelope(t, w.Body).Success {
				granted++
			}
		}
		require.Equal(t, 1, granted)

		usedCount, usageRows := dbtest.CouponRedemptionState(t, s.DB, couponID)
		require.Equal(t, int32(1), usedCount)
		require.Equal(t, int64(1), usageRows)
	})
}

// =============================================================================
// TestCouponManagement - admin/staff CRUD and ownership
// =============================================================================

func (s *CouponSuite) TestCouponManagement() {
	s.Run("Error case: duplicate code is rejected with 409", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL,
			builder.NewCouponBuilder().BuildCreateRequestDTO(), staffToken)
		require.Equal(t, http.StatusConflict, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "Coupon code already exists", env.Message)
	})

	s.Run("Ownership: another staff cannot update, admin can", func() {
		t := s.T()

		_, creatorToken := s.loginAs(t, "creator@example.com", user.RoleStaff)
		_, otherStaffToken := s.loginAs(t, "other-staff@example.com", user.RoleStaff)
		_, adminToken := s.loginAs(t, "admin@example.com", user.RoleAdmin)

		couponID := s.createCoupon(t, creatorToken, builder.NewCouponBuilder().BuildCreateRequestDTO())
		url := couponsURL + "/" + couponID.String()

		description := "Adjusted by someone else"
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateCouponRequest{Description: &description}, otherStaffToken)
		require.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateCouponRequest{Description: &description}, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Coupon updated", httptest.DecodeEnvelope(t, w.Body).Message)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, creatorToken)
		require.Equal(t, http.StatusOK, w.Code)
		var view response.CouponResponse
		httptest.DecodeEnvelope(t, w.Body).DecodeData(t, &view)
		require.Equal(t, description, view.Description)
	})

	s.Run("Soft delete hides the coupon from reads and previews", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		couponID := s.createCoupon(t, staffToken, builder.NewCouponBuilder().BuildCreateRequestDTO())
		url := couponsURL + "/" + couponID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, url, nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Coupon deleted", httptest.DecodeEnvelope(t, w.Body).Message)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, staffToken)
		require.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, validateCouponURL,
			request.ValidateCouponRequest{Code: "SUMMER20", OrderValue: 500_000}, customerToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.False(t, env.Success)
		require.Equal(t, "Invalid coupon code", env.Message)
	})

	s.Run("Listing is paginated", func() {
		t := s.T()

		_, staffToken := s.loginAs(t, "staff@example.com", user.RoleStaff)
		for i := range 12 {
			s.createCoupon(t, staffToken,
				builder.NewCouponBuilder().WithCode(fmt.Sprintf("BULK%02d", i)).BuildCreateRequestDTO())
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL+"?page=2&limit=5", nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code)
		env := httptest.DecodeEnvelope(t, w.Body)
		require.True(t, env.Success)
		require.NotNil(t, env.Count)
		require.Equal(t, 5, *env.Count)
		require.NotNil(t, env.Pagination)
		require.Equal(t, int64(12), env.Pagination.Total)
		require.Equal(t, int32(3), env.Pagination.TotalPages)
	})
}

// =============================================================================
// TestCouponAuthorization - route-level role and token checks
// =============================================================================

func (s *CouponSuite) TestCouponAuthorization() {
	s.Run("Customer cannot create coupons", func() {
		t := s.T()

		_, customerToken := s.loginAs(t, "customer@example.com", user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL,
			builder.NewCouponBuilder().BuildCreateRequestDTO(), customerToken)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "Not authorized to access this route", httptest.DecodeEnvelope(t, w.Body).Message)
	})

	s.Run("Missing token is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Access token required", httptest.DecodeEnvelope(t, w.Body).Message)
	})

	s.Run("Expired token is rejected", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "Test customer", "customer@example.com", string(user.RoleCustomer))
		token := authtest.NewJWTHelper(s.Config.JWT).CreateExpiredToken(t, userID, user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Invalid or expired token", httptest.DecodeEnvelope(t, w.Body).Message)
	})
}
