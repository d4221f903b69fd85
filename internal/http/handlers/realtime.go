package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// SSEStream streams the session's upload events until the browser disconnects.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingSession)
		return
	}
	client := h.hub.NewSSEClient(sid)
	h.log.Debug("SSE stream open", "session_id", sid, "client_id", client.ID)
	defer h.hub.CloseClient(client)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
