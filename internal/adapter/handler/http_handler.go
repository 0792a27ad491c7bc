package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/core/service"
)

type HTTPHandler struct {
	inventoryService *service.InventoryService
}

type QueryHTTPRequest struct {
	Text string `json:"text"`
}

type InventoryUpdateHTTPRequest struct {
	RequestID string `json:"request_id"`
	Item      string `json:"item"`
	Change    *int   `json:"change"`
}

func NewHTTPHandler(inventoryService *service.InventoryService) *HTTPHandler {
	return &HTTPHandler{inventoryService: inventoryService}
}

// NewEcho builds the HTTP server with request ids, panic recovery and
// access logging.
func NewEcho(h *HTTPHandler, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("HTTP request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	h.RegisterRoutes(e)
	return e
}

func (h *HTTPHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)

	g := e.Group("/api")
	g.POST("/query", h.Query)
	g.GET("/inventory", h.GetInventory)
	g.POST("/inventory", h.UpdateInventory)
}

func (h *HTTPHandler) Query(c echo.Context) error {
	ctx := service.WithRequestID(c.Request().Context(), requestID(c))

	var req QueryHTTPRequest
	if err := c.Bind(&req); err != nil {
		reply, err := h.inventoryService.Reject(ctx, "", domain.Malformedf("invalid request body"))
		return c.JSON(statusFor(err), toReply(reply))
	}
	if strings.TrimSpace(req.Text) == "" {
		reply, err := h.inventoryService.Reject(ctx, "", domain.Malformedf("text is required"))
		return c.JSON(statusFor(err), toReply(reply))
	}

	reply, err := h.inventoryService.Ask(ctx, req.Text)
	return c.JSON(statusFor(err), toReply(reply))
}

func (h *HTTPHandler) GetInventory(c echo.Context) error {
	counts, err := h.inventoryService.Inventory(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, countsBody(counts))
}

func (h *HTTPHandler) UpdateInventory(c echo.Context) error {
	ctx := service.WithRequestID(c.Request().Context(), requestID(c))

	var req InventoryUpdateHTTPRequest
	if err := c.Bind(&req); err != nil {
		reply, err := h.inventoryService.Reject(ctx, "", domain.Malformedf("invalid request body"))
		return c.JSON(statusFor(err), toReply(reply))
	}
	if req.Item == "" || req.Change == nil {
		reply, err := h.inventoryService.Reject(ctx, req.RequestID, domain.Malformedf("item and change are required"))
		return c.JSON(statusFor(err), toReply(reply))
	}
	if req.RequestID == "" {
		req.RequestID = c.Request().Header.Get("Idempotency-Key")
	}

	reply, err := h.inventoryService.Apply(ctx, domain.DirectMutation{
		RequestID: req.RequestID,
		Item:      req.Item,
		Change:    *req.Change,
	})
	return c.JSON(statusFor(err), toReply(reply))
}

func (h *HTTPHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
