package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/forms"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
)

type AssignmentHandler struct {
	log         *logger.Logger
	assignments services.AssignmentService
}

func NewAssignmentHandler(log *logger.Logger, assignments services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{log: log.With("handler", "AssignmentHandler"), assignments: assignments}
}

func (h *AssignmentHandler) List(c *gin.Context) {
	page, err := h.assignments.List(c.Request.Context(), listFilters(c, "course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// Get renders the assignment with its submissions.
func (h *AssignmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	a, err := h.assignments.Get(ctx, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if a == nil {
		notFound(c)
		return
	}
	subs, err := h.assignments.ListSubmissions(ctx, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": a, "submissions": subs})
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	var f forms.AssignmentForm
	if !bindJSON(c, &f) {
		return
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	a, err := h.assignments.Create(c.Request.Context(), f.Payload())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, a)
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	var f forms.AssignmentForm
	if !bindJSON(c, &f) {
		return
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	a, err := h.assignments.Update(c.Request.Context(), c.Param("id"), f.Payload())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, a)
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Warn("assignment delete failed", "assignment_id", c.Param("id"), "error", err)
		respondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *AssignmentHandler) Submissions(c *gin.Context) {
	subs, err := h.assignments.ListSubmissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": subs})
}

// Grade checks the marks against the assignment's total before sending them.
func (h *AssignmentHandler) Grade(c *gin.Context) {
	ctx := c.Request.Context()
	var f forms.GradeForm
	if !bindJSON(c, &f) {
		return
	}
	a, err := h.assignments.Get(ctx, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if a == nil {
		notFound(c)
		return
	}
	f.TotalMarks = a.TotalMarks
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	sub, err := h.assignments.GradeSubmission(ctx, c.Param("id"), c.Param("sid"), f.Payload())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, sub)
}
