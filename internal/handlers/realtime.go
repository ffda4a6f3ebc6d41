package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/realtime"
)

// RealtimeHandler upgrades authenticated requests to WebSocket channels.
type RealtimeHandler struct {
	registry *realtime.Registry
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewRealtimeHandler(registry *realtime.Registry, log logrus.FieldLogger) *RealtimeHandler {
	return &RealtimeHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// Connect opens the caller's notification channel. The path user ID must be
// the caller's own. The handler blocks until the connection closes.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	if userID != user.ID {
		apierrors.Forbidden(c, "Cannot subscribe to another user's notifications")
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("WebSocket upgrade failed")
		return
	}

	h.registry.Serve(user.ID, ws)
}
