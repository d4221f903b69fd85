package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
)

type CourseHandler struct {
	log        *logger.Logger
	courses    services.CourseService
	categories services.CategoryService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService, categories services.CategoryService) *CourseHandler {
	return &CourseHandler{
		log:        log.With("handler", "CourseHandler"),
		courses:    courses,
		categories: categories,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	page, err := h.courses.List(c.Request.Context(), listFilters(c, "category", "level"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if course == nil {
		notFound(c)
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Warn("course delete failed", "course_id", c.Param("id"), "error", err)
		respondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *CourseHandler) Categories(c *gin.Context) {
	cats, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": cats})
}
