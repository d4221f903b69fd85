package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/platform/apierr"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Status  int                 `json:"status"`
	Fields  []apierr.FieldError `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Status:  status,
		},
	})
}

// RespondErr renders a service error. Local validation failures become 422
// with per-field messages; API errors keep their status, except that no
// response at all (status 0) is reported as 502.
func RespondErr(c *gin.Context, err error) {
	var ve *apierr.ValidationError
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorEnvelope{
			Error: APIError{
				Message: ve.Error(),
				Code:    "validation_failed",
				Status:  http.StatusUnprocessableEntity,
				Fields:  ve.Fields,
			},
		})
		return
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == apierr.StatusNetwork {
			status = http.StatusBadGateway
		}
		code := ae.Code
		if code == "" {
			code = "api_error"
		}
		c.AbortWithStatusJSON(status, ErrorEnvelope{
			Error: APIError{Message: ae.Error(), Code: code, Status: status},
		})
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
