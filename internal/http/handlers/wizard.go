package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
	"github.com/yungbote/facilitator-console/internal/wizard"
)

// WizardHandler drives the course-authoring wizard. Every route answers with
// the wizard's current view so the page can re-render from one response.
type WizardHandler struct {
	log     *logger.Logger
	drafts  *wizard.Store
	courses services.CourseService
}

func NewWizardHandler(log *logger.Logger, drafts *wizard.Store, courses services.CourseService) *WizardHandler {
	return &WizardHandler{log: log.With("handler", "WizardHandler"), drafts: drafts, courses: courses}
}

func (h *WizardHandler) current(c *gin.Context) *wizard.Wizard {
	return h.drafts.Get(sessionID(c))
}

func (h *WizardHandler) view(c *gin.Context, w *wizard.Wizard) {
	response.RespondOK(c, w.View())
}

func (h *WizardHandler) State(c *gin.Context) {
	h.view(c, h.current(c))
}

// Edit seeds the session's draft from an existing course.
func (h *WizardHandler) Edit(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if course == nil {
		notFound(c)
		return
	}
	w := wizard.FromCourse(*course)
	h.drafts.Put(sessionID(c), w)
	h.view(c, w)
}

func (h *WizardHandler) Discard(c *gin.Context) {
	h.drafts.Discard(sessionID(c))
	response.RespondNoContent(c)
}

func (h *WizardHandler) SetBasicInfo(c *gin.Context) {
	var b wizard.BasicInfo
	if !bindJSON(c, &b) {
		return
	}
	w := h.current(c)
	w.SetBasicInfo(b)
	h.view(c, w)
}

func (h *WizardHandler) SetDetails(c *gin.Context) {
	var d wizard.Details
	if !bindJSON(c, &d) {
		return
	}
	w := h.current(c)
	w.SetDetails(d)
	h.view(c, w)
}

func (h *WizardHandler) Next(c *gin.Context) {
	w := h.current(c)
	if err := w.Next(); err != nil {
		respondErr(c, err)
		return
	}
	h.view(c, w)
}

func (h *WizardHandler) Back(c *gin.Context) {
	w := h.current(c)
	if err := w.Back(); err != nil {
		respondErr(c, err)
		return
	}
	h.view(c, w)
}

// Submit creates or updates the course. A rejected submission keeps the draft
// and shows the message in the banner.
func (h *WizardHandler) Submit(c *gin.Context) {
	w := h.current(c)
	course, err := w.Submit(c.Request.Context(), h.courses)
	if err != nil {
		h.log.Warn("course submit failed", "error", err)
		respondErr(c, err)
		return
	}
	h.log.Info("course submitted", "course_id", course.ID.String())
	response.RespondCreated(c, w.View())
}

func (h *WizardHandler) DismissBanner(c *gin.Context) {
	w := h.current(c)
	w.DismissBanner()
	h.view(c, w)
}

type moduleRequest struct {
	Title string `json:"title"`
}

type moveRequest struct {
	To int `json:"to"`
}

type noteRequest struct {
	Note *domain.CourseNote `json:"note"`
}

func (h *WizardHandler) edit(c *gin.Context, fn func([]domain.CourseCurriculum) ([]domain.CourseCurriculum, error)) {
	w := h.current(c)
	if err := w.EditCurriculum(fn); err != nil {
		respondErr(c, err)
		return
	}
	h.view(c, w)
}

func (h *WizardHandler) AddModule(c *gin.Context) {
	var req moduleRequest
	if !bindJSON(c, &req) {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.AddModule(cur, req.Title), nil
	})
}

func (h *WizardHandler) RenameModule(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	var req moduleRequest
	if !bindJSON(c, &req) {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.RenameModule(cur, i, req.Title)
	})
}

func (h *WizardHandler) RemoveModule(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.RemoveModule(cur, i)
	})
}

func (h *WizardHandler) MoveModule(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	var req moveRequest
	if !bindJSON(c, &req) {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.MoveModule(cur, i, req.To)
	})
}

// SetNote attaches a note to the module; {"note": null} removes it.
func (h *WizardHandler) SetNote(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	var req noteRequest
	if !bindJSON(c, &req) {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.SetModuleNote(cur, i, req.Note)
	})
}

func (h *WizardHandler) AddVideo(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	var v domain.CourseVideo
	if !bindJSON(c, &v) {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.AddVideo(cur, i, v)
	})
}

func (h *WizardHandler) UpdateVideo(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	k, ok := intParam(c, "video")
	if !ok {
		return
	}
	var v domain.CourseVideo
	if !bindJSON(c, &v) {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.UpdateVideo(cur, i, k, v)
	})
}

func (h *WizardHandler) RemoveVideo(c *gin.Context) {
	i, ok := intParam(c, "module")
	if !ok {
		return
	}
	k, ok := intParam(c, "video")
	if !ok {
		return
	}
	h.edit(c, func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return wizard.RemoveVideo(cur, i, k)
	})
}
