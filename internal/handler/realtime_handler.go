package handler

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/pkg/serverutils"
	"reversa-be/internal/service"
	internalWS "reversa-be/internal/websocket"
	"reversa-be/pkg/reconcile"
)

// RealtimeHandler upgrades operator connections and ties each one to a
// live dashboard session. The session attaches before the socket serves
// and detaches when the peer goes away.
type RealtimeHandler struct {
	dashboardService service.IDashboardService
	hub              *internalWS.Hub
	logger           logger.ILogger
}

func NewRealtimeHandler(dashboardService service.IDashboardService, hub *internalWS.Hub, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		dashboardService: dashboardService,
		hub:              hub,
		logger:           log,
	}
}

func (h *RealtimeHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/realtime/v1")
	g.Get("ws", h.ServeWs)
	g.Put("period", serverutils.JwtMiddleware, h.SetPeriod)
}

// SetPeriod switches the viewing period of the caller's live session; the
// next snapshot push reflects the new range.
func (h *RealtimeHandler) SetPeriod(c *fiber.Ctx) error {
	storeStr, _ := c.Locals("store_id").(string)
	storeID, err := uuid.Parse(storeStr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "token sem loja associada")
	}

	var req struct {
		PeriodStart string `json:"period_start" validate:"required"`
		PeriodEnd   string `json:"period_end" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period_start")
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period_end")
	}

	if err := h.dashboardService.SetPeriod(c.Context(), storeID, reconcile.Period{Start: start, End: end}); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Período atualizado", nil))
}

// ServeWs handles the websocket handshake. Browsers cannot set headers on
// websocket requests, so the token rides a query param; tooling may still
// use the Authorization header.
func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("RealtimeHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	storeIDStr, ok := claims["store_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing store_id"})
	}
	storeID, err := uuid.Parse(storeIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid store ID format in token"})
	}

	period, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			if err := h.dashboardService.AttachSession(c.Context(), storeID, period); err != nil {
				h.logger.Error("RealtimeHandler", "Failed to attach live session", map[string]interface{}{
					"store_id": storeID.String(), "error": err,
				})
				conn.Close()
				return
			}
			defer h.dashboardService.DetachSession(storeID)

			h.logger.Info("RealtimeHandler", "Starting WebSocket session", map[string]interface{}{"store_id": storeID})
			internalWS.ServeWs(h.hub, conn, storeID)
			h.logger.Info("RealtimeHandler", "WebSocket session ended", map[string]interface{}{"store_id": storeID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// parsePeriod reads the viewing period from the handshake query; defaults
// to the last 30 days.
func parsePeriod(c *fiber.Ctx) (reconcile.Period, error) {
	now := time.Now()
	period := reconcile.Period{Start: now.AddDate(0, 0, -30), End: now}

	if s := c.Query("period_start"); s != "" {
		start, err := time.Parse("2006-01-02", s)
		if err != nil {
			return reconcile.Period{}, err
		}
		period.Start = start
	}
	if s := c.Query("period_end"); s != "" {
		end, err := time.Parse("2006-01-02", s)
		if err != nil {
			return reconcile.Period{}, err
		}
		period.End = end
	}
	return period, nil
}
