package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/http/response"
	"github.com/yungbote/facilitator-console/internal/platform/ctxutil"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/services"
	"github.com/yungbote/facilitator-console/internal/session"
)

var errMissingToken = errors.New("missing or invalid token")

type SessionMiddleware struct {
	log   *logger.Logger
	store session.Store
}

func NewSessionMiddleware(log *logger.Logger, store session.Store) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("Middleware", "SessionMiddleware"), store: store}
}

// Attach loads the browser session, exposes its token pair to the API client
// through the request context, and writes rotated or cleared tokens back
// before the response headers go out.
func (m *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		data, err := m.store.Load(ctx, c.Request)
		if err != nil {
			m.log.Warn("session load failed", "session_id", data.ID, "error", err)
		}

		sess := apiclient.NewSession(data.Tokens)
		rd := &ctxutil.RequestData{SessionID: data.ID}
		if claims, err := services.ParseAccessClaims(data.Tokens.Access); err == nil {
			rd.UserID = claims.UserID
		}
		ctx = apiclient.WithSession(ctx, sess)
		ctx = ctxutil.WithRequestData(ctx, rd)
		c.Request = c.Request.WithContext(ctx)

		w := &persistWriter{ResponseWriter: c.Writer}
		w.persist = func() { m.persist(context.WithoutCancel(ctx), w.ResponseWriter, data, sess) }
		c.Writer = w
		c.Next()
		w.flushSession()
	}
}

func (m *SessionMiddleware) persist(ctx context.Context, w http.ResponseWriter, data session.Data, sess *apiclient.Session) {
	tokens, changed := sess.Snapshot()
	if !changed && !data.Fresh {
		return
	}
	if changed {
		data.Tokens = tokens
	}
	var err error
	if changed && tokens.Empty() {
		err = m.store.Clear(ctx, w, data)
	} else {
		err = m.store.Save(ctx, w, data)
	}
	if err != nil {
		m.log.Warn("session persist failed", "session_id", data.ID, "error", err)
	}
}

// RequireAuth rejects requests that carry no access token.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := apiclient.SessionFrom(c.Request.Context())
		if sess == nil || sess.Tokens(c.Request.Context()).Access == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingToken)
			return
		}
		c.Next()
	}
}

// SessionVerifier checks a session's tokens with the API.
type SessionVerifier interface {
	Verify(ctx context.Context) error
}

// RequireVerified guards routes that touch storage with the server's own
// credentials; the API must have accepted the session's access token.
func (m *SessionMiddleware) RequireVerified(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := v.Verify(ctx); err != nil {
			m.log.Warn("session verification failed", "session_id", ctxutil.SessionID(ctx), "error", err)
			response.RespondErr(c, err)
			return
		}
		c.Next()
	}
}

// persistWriter runs persist once, right before the first header or body write.
type persistWriter struct {
	gin.ResponseWriter
	persist func()
	once    sync.Once
}

func (w *persistWriter) flushSession() { w.once.Do(w.persist) }

func (w *persistWriter) WriteHeader(code int) {
	w.flushSession()
	w.ResponseWriter.WriteHeader(code)
}

func (w *persistWriter) WriteHeaderNow() {
	w.flushSession()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *persistWriter) Write(b []byte) (int, error) {
	w.flushSession()
	return w.ResponseWriter.Write(b)
}

func (w *persistWriter) WriteString(s string) (int, error) {
	w.flushSession()
	return w.ResponseWriter.WriteString(s)
}

func (w *persistWriter) Flush() {
	w.flushSession()
	w.ResponseWriter.Flush()
}

func (w *persistWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.flushSession()
	return w.ResponseWriter.Hijack()
}
