package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/forms"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/services"
)

type StudentHandler struct {
	students services.StudentService
}

func NewStudentHandler(students services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

func (h *StudentHandler) List(c *gin.Context) {
	page, err := h.students.List(c.Request.Context(), listFilters(c, "course"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *StudentHandler) Get(c *gin.Context) {
	st, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if st == nil {
		notFound(c)
		return
	}
	response.RespondOK(c, st)
}

func (h *StudentHandler) Update(c *gin.Context) {
	var f forms.StudentForm
	if !bindJSON(c, &f) {
		return
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	st, err := h.students.Update(c.Request.Context(), c.Param("id"), f.Patch())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, st)
}
