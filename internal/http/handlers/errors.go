package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/forms"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/ctxutil"
	"github.com/yungbote/facilitator-console/internal/services"
	"github.com/yungbote/facilitator-console/internal/upload"
	"github.com/yungbote/facilitator-console/internal/wizard"
)

var errNotFound = errors.New("not found")

// respondErr maps package sentinels onto HTTP statuses and leaves the rest to
// response.RespondErr.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrAtLastStep),
		errors.Is(err, wizard.ErrNotAtReview),
		errors.Is(err, wizard.ErrSubmitting),
		errors.Is(err, wizard.ErrSubmitted):
		response.RespondError(c, http.StatusConflict, "wizard_state", err)
	case errors.Is(err, wizard.ErrIndexOutOfRange):
		response.RespondError(c, http.StatusNotFound, "curriculum_index", err)
	case errors.Is(err, upload.ErrEmptyField):
		response.RespondError(c, http.StatusBadRequest, "invalid_field", err)
	case errors.Is(err, upload.ErrNoStore):
		response.RespondError(c, http.StatusServiceUnavailable, "storage_unavailable", err)
	case errors.Is(err, upload.ErrSuperseded):
		response.RespondError(c, http.StatusConflict, "upload_superseded", err)
	case errors.Is(err, forms.ErrManualLink):
		response.RespondError(c, http.StatusUnprocessableEntity, "manual_link", err)
	case errors.Is(err, services.ErrNoAccessToken):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		response.RespondErr(c, err)
	}
}

func notFound(c *gin.Context) {
	response.RespondError(c, http.StatusNotFound, "not_found", errNotFound)
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

func sessionID(c *gin.Context) string {
	return ctxutil.SessionID(c.Request.Context())
}

// listFilters forwards the list query parameters the API understands.
func listFilters(c *gin.Context, keys ...string) services.Filters {
	f := services.Filters{}
	for _, k := range append([]string{"page", "search", "ordering"}, keys...) {
		if v := c.Query(k); v != "" {
			f[k] = v
		}
	}
	return f
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return 0, false
	}
	return n, true
}
