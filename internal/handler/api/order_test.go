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

	"shipflow/internal/domain/order"
	"shipflow/internal/domain/user"
	"shipflow/internal/handler/api"
	"shipflow/internal/usecase/commands"
	"shipflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubOrderCommands struct {
	createFn func(ctx context.Context, cmd commands.CreateOrderCommand, customerID uuid.UUID) (uuid.UUID, error)
	updateFn func(ctx context.Context, orderID uuid.UUID, cmd commands.UpdateOrderCommand, actorID uuid.UUID, actorRole user.Role) error
	deleteFn func(ctx context.Context, orderID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error
}

func (s *stubOrderCommands) CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand, customerID uuid.UUID) (uuid.UUID, error) {
	return s.createFn(ctx, cmd, customerID)
}

func (s *stubOrderCommands) UpdateOrder(ctx context.Context, orderID uuid.UUID, cmd commands.UpdateOrderCommand, actorID uuid.UUID, actorRole user.Role) error {
	return s.updateFn(ctx, orderID, cmd, actorID, actorRole)
}

func (s *stubOrderCommands) DeleteOrder(ctx context.Context, orderID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error {
	return s.deleteFn(ctx, orderID, actorID, actorRole)
}

type stubOrderQueries struct {
	getFn  func(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*queries.OrderView, error)
	listFn func(ctx context.Context, actorID uuid.UUID, actorRole user.Role, status *string, page, limit int32) ([]queries.OrderView, *queries.Pagination, error)
}

func (s *stubOrderQueries) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*queries.OrderView, error) {
	return s.getFn(ctx, id, actorID, actorRole)
}

func (s *stubOrderQueries) List(ctx context.Context, actorID uuid.UUID, actorRole user.Role, status *string, page, limit int32) ([]queries.OrderView, *queries.Pagination, error) {
	return s.listFn(ctx, actorID, actorRole, status, page, limit)
}

type OrderHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubOrderCommands
	queries  *stubOrderQueries
	userID   uuid.UUID
	role     user.Role
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubOrderCommands{}
	s.queries = &stubOrderQueries{}
	s.userID = uuid.New()
	s.role = user.RoleCustomer
	handler := api.NewOrderHandler(s.commands, s.queries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_role", s.role)
		c.Next()
	}

	s.router.POST("/orders", authMiddleware, handler.CreateOrder)
	s.router.GET("/orders", authMiddleware, handler.ListOrders)
	s.router.GET("/orders/:id", authMiddleware, handler.GetOrder)
	s.router.PATCH("/orders/:id", authMiddleware, handler.UpdateOrder)
	s.router.DELETE("/orders/:id", authMiddleware, handler.DeleteOrder)
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
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

func (s *OrderHandlerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleOrderView(customerID uuid.UUID) *queries.OrderView {
	return &queries.OrderView{
		ID:              uuid.New(),
		Reference:       "ORD1750000000000",
		CustomerID:      customerID,
		CustomerName:    "Nguyen Van A",
		CustomerEmail:   "a@example.com",
		Status:          "pending",
		PickupAddress:   "12 Nguyen Hue, District 1",
		DeliveryAddress: "34 Le Loi, District 3",
		Weight:          2.5,
		Dimensions:      "30x20x10",
		ItemType:        "document",
		ServiceType:     "standard",
		Total:           150_000,
		EstimatedTime:   time.Now().Add(2 * time.Hour),
	}
}

func (s *OrderHandlerTestSuite) TestCreateOrder() {
	validBody := gin.H{
		"pickup_address":   "12 Nguyen Hue, District 1",
		"delivery_address": "34 Le Loi, District 3",
		"weight":           2.5,
		"dimensions":       "30x20x10",
		"item_type":        "document",
		"service_type":     "standard",
		"total":            150000,
		"estimated_time":   "2025-06-15T14:00:00Z",
	}

	s.Run("success: returns 201 with the new id", func() {
		newID := uuid.New()
		s.commands.createFn = func(_ context.Context, cmd commands.CreateOrderCommand, customerID uuid.UUID) (uuid.UUID, error) {
			s.Equal(s.userID, customerID)
			s.Equal("standard", cmd.ServiceType)
			return newID, nil
		}

		rec := s.perform(http.MethodPost, "/orders", validBody)

		s.Equal(http.StatusCreated, rec.Code)
		body := s.decode(rec)
		data := body["data"].(map[string]any)
		s.Equal(newID.String(), data["id"])
	})

	s.Run("error: 404 on unknown coupon reference", func() {
		s.commands.createFn = func(_ context.Context, _ commands.CreateOrderCommand, _ uuid.UUID) (uuid.UUID, error) {
			return uuid.Nil, commands.ErrCouponNotFound
		}

		body := gin.H{}
		for k, v := range validBody {
			body[k] = v
		}
		body["coupon_id"] = uuid.NewString()

		rec := s.perform(http.MethodPost, "/orders", body)

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 400 on unknown service type", func() {
		body := gin.H{}
		for k, v := range validBody {
			body[k] = v
		}
		body["service_type"] = "teleport"

		rec := s.perform(http.MethodPost, "/orders", body)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *OrderHandlerTestSuite) TestUpdateOrder() {
	orderID := uuid.New()

	s.Run("success: status update passes the gate", func() {
		s.commands.updateFn = func(_ context.Context, id uuid.UUID, cmd commands.UpdateOrderCommand, actorID uuid.UUID, actorRole user.Role) error {
			s.Equal(orderID, id)
			s.Equal(s.userID, actorID)
			s.Equal(user.RoleCustomer, actorRole)
			s.Require().NotNil(cmd.Status)
			s.Equal("cancelled", *cmd.Status)
			return nil
		}

		rec := s.perform(http.MethodPatch, "/orders/"+orderID.String(), gin.H{"status": "cancelled"})

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal(true, body["success"])
	})

	s.Run("denial: 403 with the gate message", func() {
		s.commands.updateFn = func(_ context.Context, _ uuid.UUID, _ commands.UpdateOrderCommand, _ uuid.UUID, _ user.Role) error {
			return &order.Denial{Message: "Staff can only update status to processing or shipping"}
		}

		rec := s.perform(http.MethodPatch, "/orders/"+orderID.String(), gin.H{"status": "completed"})

		s.Equal(http.StatusForbidden, rec.Code)
		body := s.decode(rec)
		s.Equal(false, body["success"])
		s.Equal("Staff can only update status to processing or shipping", body["message"])
	})

	s.Run("error: 404 when the order does not exist", func() {
		s.commands.updateFn = func(_ context.Context, _ uuid.UUID, _ commands.UpdateOrderCommand, _ uuid.UUID, _ user.Role) error {
			return commands.ErrOrderNotFound
		}

		rec := s.perform(http.MethodPatch, "/orders/"+orderID.String(), gin.H{"status": "cancelled"})

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 400 on invalid status value", func() {
		rec := s.perform(http.MethodPatch, "/orders/"+orderID.String(), gin.H{"status": "teleported"})

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *OrderHandlerTestSuite) TestGetOrder() {
	s.Run("success: returns the order", func() {
		view := sampleOrderView(s.userID)
		s.queries.getFn = func(_ context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*queries.OrderView, error) {
			s.Equal(view.ID, id)
			return view, nil
		}

		rec := s.perform(http.MethodGet, "/orders/"+view.ID.String(), nil)

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		data := body["data"].(map[string]any)
		s.Equal(view.Reference, data["reference"])
	})

	s.Run("denial: 403 for someone else's order", func() {
		s.queries.getFn = func(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ user.Role) (*queries.OrderView, error) {
			return nil, &order.Denial{Message: "Not authorized to access this order"}
		}

		rec := s.perform(http.MethodGet, "/orders/"+uuid.NewString(), nil)

		s.Equal(http.StatusForbidden, rec.Code)
		body := s.decode(rec)
		s.Equal("Not authorized to access this order", body["message"])
	})
}

func (s *OrderHandlerTestSuite) TestListOrders() {
	s.queries.listFn = func(_ context.Context, actorID uuid.UUID, actorRole user.Role, status *string, page, limit int32) ([]queries.OrderView, *queries.Pagination, error) {
		s.Equal(s.userID, actorID)
		s.Require().NotNil(status)
		s.Equal("pending", *status)
		return []queries.OrderView{*sampleOrderView(s.userID)}, queries.NewPagination(page, limit, 1), nil
	}

	rec := s.perform(http.MethodGet, "/orders?status=pending", nil)

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal(float64(1), body["count"])
}

func (s *OrderHandlerTestSuite) TestDeleteOrder() {
	orderID := uuid.New()

	s.Run("success", func() {
		s.commands.deleteFn = func(_ context.Context, id uuid.UUID, _ uuid.UUID, _ user.Role) error {
			s.Equal(orderID, id)
			return nil
		}

		rec := s.perform(http.MethodDelete, "/orders/"+orderID.String(), nil)

		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("denial: 403 for non-owner", func() {
		s.commands.deleteFn = func(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ user.Role) error {
			return &order.Denial{Message: "Not authorized to delete this order"}
		}

		rec := s.perform(http.MethodDelete, "/orders/"+orderID.String(), nil)

		s.Equal(http.StatusForbidden, rec.Code)
	})
}
