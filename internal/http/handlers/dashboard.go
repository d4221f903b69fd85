package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
)

type DashboardHandler struct {
	log       *logger.Logger
	dashboard services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{log: log.With("handler", "DashboardHandler"), dashboard: dashboard}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	ov, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		h.log.Warn("dashboard overview failed", "error", err)
		respondErr(c, err)
		return
	}
	response.RespondOK(c, ov)
}
