package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"shipflow/internal/domain/user"
	"shipflow/internal/handler/api"
	"shipflow/internal/handler/middleware"
	"shipflow/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, couponHandler *api.CouponHandler, orderHandler *api.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, couponHandler, orderHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, couponHandler *api.CouponHandler, orderHandler *api.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireAuth())
		{
			manageRoles := authMiddleware.RequireRoles(user.RoleAdmin, user.RoleStaff)
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "", Handler: couponHandler.CreateCoupon, Mw: []gin.HandlerFunc{manageRoles}},
				{Method: http.MethodGet, Path: "", Handler: couponHandler.ListCoupons},
				{Method: http.MethodPost, Path: "/validate", Handler: couponHandler.ValidateCoupon},
				{Method: http.MethodGet, Path: "/:id", Handler: couponHandler.GetCoupon},
				{Method: http.MethodPatch, Path: "/:id", Handler: couponHandler.UpdateCoupon, Mw: []gin.HandlerFunc{manageRoles}},
				{Method: http.MethodDelete, Path: "/:id", Handler: couponHandler.DeleteCoupon, Mw: []gin.HandlerFunc{manageRoles}},
				{Method: http.MethodPost, Path: "/:id/use", Handler: couponHandler.UseCoupon},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.CreateOrder, Mw: []gin.HandlerFunc{authMiddleware.RequireRoles(user.RoleCustomer)}},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.GetOrder},
				{Method: http.MethodPatch, Path: "/:id", Handler: orderHandler.UpdateOrder},
				{Method: http.MethodDelete, Path: "/:id", Handler: orderHandler.DeleteOrder},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
