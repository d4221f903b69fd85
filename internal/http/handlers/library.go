package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/forms"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
)

type LibraryHandler struct {
	log     *logger.Logger
	library services.LibraryService
}

func NewLibraryHandler(log *logger.Logger, library services.LibraryService) *LibraryHandler {
	return &LibraryHandler{log: log.With("handler", "LibraryHandler"), library: library}
}

func (h *LibraryHandler) List(c *gin.Context) {
	page, err := h.library.List(c.Request.Context(), listFilters(c, "course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *LibraryHandler) Get(c *gin.Context) {
	item, err := h.library.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if item == nil {
		notFound(c)
		return
	}
	response.RespondOK(c, item)
}

// Create accepts either a multipart "file" or a "url" field, never both.
func (h *LibraryHandler) Create(c *gin.Context) {
	var f forms.LibraryItemForm
	if err := c.ShouldBind(&f); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	file, done, err := formAttachment(c, "file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer done()
	f.HasFile = file != nil
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	item, err := h.library.Create(c.Request.Context(), f.Input(file))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, item)
}

func (h *LibraryHandler) Delete(c *gin.Context) {
	if err := h.library.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Warn("library delete failed", "item_id", c.Param("id"), "error", err)
		respondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}
