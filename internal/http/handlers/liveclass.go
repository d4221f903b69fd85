package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/forms"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
)

type LiveClassHandler struct {
	log         *logger.Logger
	liveClasses services.LiveClassService
}

func NewLiveClassHandler(log *logger.Logger, liveClasses services.LiveClassService) *LiveClassHandler {
	return &LiveClassHandler{log: log.With("handler", "LiveClassHandler"), liveClasses: liveClasses}
}

func (h *LiveClassHandler) List(c *gin.Context) {
	page, err := h.liveClasses.List(c.Request.Context(), listFilters(c, "course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *LiveClassHandler) Get(c *gin.Context) {
	lc, err := h.liveClasses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if lc == nil {
		notFound(c)
		return
	}
	response.RespondOK(c, lc)
}

// bindInput reads the form as JSON or multipart (with an optional "material"
// file) and validates it before anything is sent.
func (h *LiveClassHandler) bindInput(c *gin.Context) (domain.LiveClassInput, func(), bool) {
	var f forms.LiveClassForm
	if err := c.ShouldBind(&f); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return domain.LiveClassInput{}, nil, false
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return domain.LiveClassInput{}, nil, false
	}
	material, closeFn, err := formAttachment(c, "material")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_material", err)
		return domain.LiveClassInput{}, nil, false
	}
	return f.Input(material), closeFn, true
}

func (h *LiveClassHandler) Create(c *gin.Context) {
	in, done, ok := h.bindInput(c)
	if !ok {
		return
	}
	defer done()
	lc, err := h.liveClasses.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, lc)
}

func (h *LiveClassHandler) Update(c *gin.Context) {
	in, done, ok := h.bindInput(c)
	if !ok {
		return
	}
	defer done()
	lc, err := h.liveClasses.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, lc)
}

func (h *LiveClassHandler) Delete(c *gin.Context) {
	if err := h.liveClasses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Warn("live class delete failed", "live_class_id", c.Param("id"), "error", err)
		respondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *LiveClassHandler) GenerateLink(c *gin.Context) {
	var req struct {
		Provider domain.Provider `json:"provider"`
		Title    string          `json:"title"`
	}
	if !bindJSON(c, &req) {
		return
	}
	link, err := forms.GenerateMeetingLink(req.Provider, req.Title)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"meeting_link": link, "provider": req.Provider})
}
