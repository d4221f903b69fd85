package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/forms"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
	"github.com/yungbote/facilitator-console/internal/upload"
	"github.com/yungbote/facilitator-console/internal/wizard"
)

var errMissingSession = errors.New("missing session")

// AuthHandler signs facilitators in and out. Tokens never reach the browser as
// JSON; the session middleware turns them into cookies.
type AuthHandler struct {
	log     *logger.Logger
	auth    services.AuthService
	uploads *upload.Pool
	drafts  *wizard.Store
	ended   func(ctx context.Context, sessionID string)
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService, uploads *upload.Pool, drafts *wizard.Store) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), auth: auth, uploads: uploads, drafts: drafts}
}

// OnLogout registers fn to run after a session signs out, e.g. to close its event streams.
func (h *AuthHandler) OnLogout(fn func(ctx context.Context, sessionID string)) {
	h.ended = fn
}

func (h *AuthHandler) Login(c *gin.Context) {
	var f forms.LoginForm
	if err := c.ShouldBind(&f); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), f.Username, f.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.reset(sessionID(c))
	response.RespondOK(c, gin.H{"user": resp.User})
}

// Logout forgets the tokens, the cached reads, the draft and the uploads of this session.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := sessionID(c)
	h.auth.Logout(c.Request.Context())
	h.reset(sid)
	if sid != "" && h.ended != nil {
		h.ended(c.Request.Context(), sid)
	}
	response.RespondNoContent(c)
}

// reset drops uploads and the course draft left by whoever held the session before.
func (h *AuthHandler) reset(sid string) {
	if sid == "" {
		return
	}
	h.uploads.Drop(sid)
	h.drafts.Discard(sid)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var f forms.OTPForm
	if !bindJSON(c, &f) {
		return
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	f = f.Normalized()
	resp, err := h.auth.VerifyOTP(c.Request.Context(), f.Email, f.Code)
	if err != nil {
		respondErr(c, err)
		return
	}
	if resp.Access != "" {
		h.reset(sessionID(c))
	}
	response.RespondOK(c, gin.H{"user": resp.User, "authenticated": resp.Access != ""})
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var f forms.ResendOTPForm
	if !bindJSON(c, &f) {
		return
	}
	if err := f.Validate(); err != nil {
		respondErr(c, err)
		return
	}
	if err := h.auth.ResendOTP(c.Request.Context(), f.Email); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sent": true})
}

// Me reports who the access token belongs to.
func (h *AuthHandler) Me(c *gin.Context) {
	response.RespondOK(c, gin.H{"user_id": h.auth.CurrentUserID(c.Request.Context())})
}
