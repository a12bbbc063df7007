package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
	"github.com/ignatzorin/lexsuite-backend/internal/ws"
)

type AccessParser interface {
	ParseAccess(token string) (*service.Principal, error)
}

// WSHandler подключает ленту уведомлений по WebSocket.
type WSHandler struct {
	hub      *ws.Hub
	tokens   AccessParser
	upgrader websocket.Upgrader
}

// NewWSHandler: пустой allowedOrigins пропускает любой Origin.
func NewWSHandler(hub *ws.Hub, tokens AccessParser, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
// Браузер не умеет ставить заголовок Authorization при апгрейде, поэтому токен в query.
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	principal, err := h.tokens.ParseAccess(rawToken)
	if err != nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		logger.Log.WithError(err).Warn("ws: не удалось установить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, principal.UserID)
	if err := h.hub.Register(c.Request.Context(), client); err != nil {
		logger.Log.WithError(err).Debug("ws: клиент не зарегистрирован")
		_ = conn.Close()
		return
	}
	logger.Log.WithFields(logrus.Fields{"user_id": principal.UserID, "firm_id": principal.FirmID}).Debug("ws: клиент подключён")

	client.Run(c.Request.Context())
}
