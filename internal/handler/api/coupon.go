package api

import (
	"errors"
	"net/http"
	"strconv"

	"shipflow/internal/domain/coupon"
	reqdto "shipflow/internal/handler/dto/request"
	resdto "shipflow/internal/handler/dto/response"
	"shipflow/internal/handler/httperr"
	"shipflow/internal/handler/middleware"
	"shipflow/internal/usecase/commands"
	"shipflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Create coupon
// @Description Create a new discount coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Coupon request"
// @Success 201 {object} resdto.Envelope
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	var req reqdto.CreateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	id, err := h.couponCommands.CreateCoupon(c.Request.Context(), req.ToCommand(), actorID)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	resdto.Success(c, http.StatusCreated, resdto.CouponCreatedResponse{ID: id})
}

// @Summary Get coupon
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.Envelope
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id")
		return
	}

	view, err := h.couponQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	resdto.Success(c, http.StatusOK, resdto.FromCouponView(view))
}

// @Summary List coupons
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.Envelope
// @Router /coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	page := parseInt32Query(c, "page", 1)
	limit := parseInt32Query(c, "limit", 10)

	views, pagination, err := h.couponQueries.List(c.Request.Context(), page, limit)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	resdto.SuccessList(c, resdto.FromCouponViews(views), len(views), pagination)
}

// @Summary Update coupon
// @Description Update mutable coupon fields. Only the creator or an admin may update.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param request body reqdto.UpdateCouponRequest true "Patch request"
// @Success 200 {object} resdto.Envelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [patch]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	actorID, actorRole, ok := identity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id")
		return
	}

	var req reqdto.UpdateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	if err := h.couponCommands.UpdateCoupon(c.Request.Context(), id, req.ToCommand(), actorID, actorRole); err != nil {
		respondCouponError(c, err)
		return
	}

	resdto.SuccessMessage(c, "Coupon updated")
}

// @Summary Delete coupon
// @Description Soft delete a coupon. Only the creator or an admin may delete.
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.Envelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [delete]
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	actorID, actorRole, ok := identity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id")
		return
	}

	if err := h.couponCommands.DeleteCoupon(c.Request.Context(), id, actorID, actorRole); err != nil {
		respondCouponError(c, err)
		return
	}

	resdto.SuccessMessage(c, "Coupon deleted")
}

// @Summary Validate coupon
// @Description Preview a redemption: returns the quoted discount or the first failing rule. Never consumes a use.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ValidateCouponRequest true "Validation request"
// @Success 200 {object} resdto.Envelope
// @Failure 400 {object} httperr.Response
// @Router /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	var req reqdto.ValidateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	result, rejection, err := h.couponQueries.Validate(c.Request.Context(), req.Code, req.OrderValue, customerID)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	if rejection != nil {
		resdto.Rejected(c, rejection.Message)
		return
	}

	resdto.Success(c, http.StatusOK, resdto.FromCouponValidationView(result))
}

// @Summary Use coupon
// @Description Consume one use of a coupon for the calling customer
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.Envelope
// @Router /coupons/{id}/use [post]
func (h *CouponHandler) UseCoupon(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id")
		return
	}

	if err := h.couponCommands.RedeemCoupon(c.Request.Context(), id, customerID); err != nil {
		respondCouponError(c, err)
		return
	}

	resdto.SuccessMessage(c, "Coupon usage recorded")
}

func respondCouponError(c *gin.Context, err error) {
	var rejection *coupon.Rejection
	if errors.As(err, &rejection) {
		resdto.Rejected(c, rejection.Message)
		return
	}

	switch {
	case errors.Is(err, commands.ErrCouponNotFound), errors.Is(err, queries.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found")
	case errors.Is(err, commands.ErrDuplicateCouponCode):
		httperr.AbortWithError(c, http.StatusConflict, err, "Coupon code already exists")
	case errors.Is(err, commands.ErrNotCouponOwner):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not authorized to modify this coupon")
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

func parseInt32Query(c *gin.Context, name string, fallback int32) int32 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
