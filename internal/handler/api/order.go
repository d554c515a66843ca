package api

import (
	"errors"
	"net/http"

	"shipflow/internal/domain/order"
	"shipflow/internal/domain/user"
	reqdto "shipflow/internal/handler/dto/request"
	resdto "shipflow/internal/handler/dto/response"
	"shipflow/internal/handler/httperr"
	"shipflow/internal/handler/middleware"
	"shipflow/internal/pkg/errs"
	"shipflow/internal/usecase/commands"
	"shipflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingIdentity = errs.New("authenticated identity missing from context")

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Create order
// @Description Create a delivery order for the calling customer
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOrderRequest true "Order request"
// @Success 201 {object} resdto.Envelope
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	var req reqdto.CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	id, err := h.orderCommands.CreateOrder(c.Request.Context(), req.ToCommand(), customerID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	resdto.Success(c, http.StatusCreated, resdto.OrderCreatedResponse{ID: id})
}

// @Summary Get order
// @Description Get a single order. Customers see their own orders, shippers their assignments.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.Envelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actorID, actorRole, ok := identity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order id")
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	resdto.Success(c, http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List orders visible to the caller, scoped by role
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.Envelope
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actorID, actorRole, ok := identity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	page := parseInt32Query(c, "page", 1)
	limit := parseInt32Query(c, "limit", 10)

	var status *string
	if raw := c.Query("status"); raw != "" {
		if _, serr := order.NewStatus(raw); serr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, serr, "Invalid status filter")
			return
		}
		status = &raw
	}

	views, pagination, err := h.orderQueries.List(c.Request.Context(), actorID, actorRole, status, page, limit)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	resdto.SuccessList(c, resdto.FromOrderViews(views), len(views), pagination)
}

// @Summary Update order
// @Description Update order status and/or notes, gated by the caller's role
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderRequest true "Update request"
// @Success 200 {object} resdto.Envelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [patch]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	actorID, actorRole, ok := identity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order id")
		return
	}

	var req reqdto.UpdateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	if err := h.orderCommands.UpdateOrder(c.Request.Context(), id, req.ToCommand(), actorID, actorRole); err != nil {
		respondOrderError(c, err)
		return
	}

	resdto.SuccessMessage(c, "Order updated")
}

// @Summary Delete order
// @Description Delete an order. Only the owning customer or an admin may delete.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.Envelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actorID, actorRole, ok := identity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order id")
		return
	}

	if err := h.orderCommands.DeleteOrder(c.Request.Context(), id, actorID, actorRole); err != nil {
		respondOrderError(c, err)
		return
	}

	resdto.SuccessMessage(c, "Order deleted")
}

func respondOrderError(c *gin.Context, err error) {
	var denial *order.Denial
	if errors.As(err, &denial) {
		httperr.AbortWithError(c, http.StatusForbidden, err, denial.Message)
		return
	}

	switch {
	case errors.Is(err, commands.ErrOrderNotFound), errors.Is(err, queries.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found")
	case errors.Is(err, commands.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found")
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

func identity(c *gin.Context) (uuid.UUID, user.Role, bool) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	actorRole, ok := middleware.GetUserRole(c)
	if !ok {
		return uuid.Nil, "", false
	}
	return actorID, actorRole, true
}
