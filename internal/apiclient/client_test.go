package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/facilitator-console/internal/platform/apierr"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server, creds CredentialProvider) *Client {
	t.Helper()
	c, err := New(logger.NewNop(), Config{BaseURL: srv.URL}, creds, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestUnauthorizedRefreshesAndRetriesOnce(t *testing.T) {
	var courseCalls, refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RefreshPath:
			atomic.AddInt32(&refreshCalls, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refresh"] != "r1" {
				t.Errorf("refresh body: want=r1 got=%q", body["refresh"])
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access": "a2", "refresh": "r2"})
		case "/courses/":
			n := atomic.AddInt32(&courseCalls, 1)
			if r.Header.Get("Authorization") != "Bearer a2" {
				if n != 1 {
					t.Errorf("retry used stale token: %q", r.Header.Get("Authorization"))
				}
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"token expired"}`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":1}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	creds := NewMemoryCredentials(Tokens{Access: "a1", Refresh: "r1"})
	c := newTestClient(t, srv, creds)

	var out []map[string]any
	if err := c.Get(context.Background(), "/courses/", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("result: want=1 item got=%v", out)
	}
	if got := atomic.LoadInt32(&courseCalls); got != 2 {
		t.Fatalf("course calls: want=2 got=%d", got)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Fatalf("refresh calls: want=1 got=%d", got)
	}
	if got := creds.Tokens(context.Background()); got != (Tokens{Access: "a2", Refresh: "r2"}) {
		t.Fatalf("rotated tokens: got=%+v", got)
	}
}

func TestFailedRefreshPropagatesOriginalError(t *testing.T) {
	var courseCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RefreshPath:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"refresh token invalid"}`))
		default:
			atomic.AddInt32(&courseCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"token expired"}`))
		}
	}))
	defer srv.Close()

	session := NewSession(Tokens{Access: "a1", Refresh: "r1"})
	ctx := WithSession(context.Background(), session)
	c := newTestClient(t, srv, ContextCredentials{})

	err := c.Get(ctx, "/courses/", nil)
	if !apierr.IsUnauthorized(err) {
		t.Fatalf("want 401 error got=%v", err)
	}
	if err.Error() != "token expired" {
		t.Fatalf("message: want=%q got=%q", "token expired", err.Error())
	}
	if got := atomic.LoadInt32(&courseCalls); got != 1 {
		t.Fatalf("course calls: want=1 got=%d", got)
	}
	tokens, changed := session.Snapshot()
	if !tokens.Empty() || !changed {
		t.Fatalf("session: want cleared+changed got=%+v changed=%v", tokens, changed)
	}
}

func TestUnauthorizedWithoutRefreshTokenReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			t.Errorf("refresh should not be attempted")
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, NewMemoryCredentials(Tokens{Access: "a1"}))
	if err := c.Get(context.Background(), "/students/", nil); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("want 401 got=%v", err)
	}
}

func TestMultipartBodyResentAfterRefresh(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			_, _ = w.Write([]byte(`{"access":"a2"}`))
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		f, _, err := r.FormFile("material")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		b, _ := io.ReadAll(f)
		bodies = append(bodies, r.FormValue("course")+":"+string(b))
		if r.Header.Get("Authorization") != "Bearer a2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":5}`))
	}))
	defer srv.Close()

	creds := NewMemoryCredentials(Tokens{Access: "a1", Refresh: "r1"})
	c := newTestClient(t, srv, creds)

	m := NewMultipart().Field("course", "12").File("material", "slides.pdf", "application/pdf", strings.NewReader("PDF"))
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := c.PostMultipart(context.Background(), "/live-classes/", m, &out); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if len(bodies) != 2 || bodies[0] != "12:PDF" || bodies[1] != "12:PDF" {
		t.Fatalf("bodies: got=%v", bodies)
	}
	if got := creds.Tokens(context.Background()).Refresh; got != "r1" {
		t.Fatalf("refresh token kept: want=r1 got=%q", got)
	}
}

func TestLoginIsFormEncoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != LoginPath {
			t.Errorf("path: want=%s got=%s", LoginPath, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type: got=%q", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not carry a bearer token")
		}
		_ = r.ParseForm()
		if r.PostForm.Get("username") != "ada@example.com" || r.PostForm.Get("password") != "pw" {
			t.Errorf("form: got=%v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"access":"a","refresh":"r","user":{"id":7,"email":"ada@example.com","first_name":"Ada"}}`))
	}))
	defer srv.Close()

	creds := NewMemoryCredentials(Tokens{})
	c := newTestClient(t, srv, creds)
	resp, err := c.Login(context.Background(), LoginCredentials{Username: " ada@example.com ", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != "7" || resp.User.FirstName != "Ada" {
		t.Fatalf("user: got=%+v", resp.User)
	}
	if got := creds.Tokens(context.Background()); got != (Tokens{Access: "a", Refresh: "r"}) {
		t.Fatalf("tokens: got=%+v", got)
	}
}

func TestErrorNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad/":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"title is required","code":"missing_title"}`))
		case "/boom/":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}
	}))
	c := newTestClient(t, srv, NewMemoryCredentials(Tokens{Access: "a"}))

	err := c.Post(context.Background(), "/bad/", map[string]string{}, nil)
	var ae *apierr.Error
	if !asAPIErr(err, &ae) || ae.Status != 400 || ae.Code != "missing_title" || ae.Message != "title is required" {
		t.Fatalf("400: got=%#v", err)
	}
	err = c.Get(context.Background(), "/boom/", nil)
	if !asAPIErr(err, &ae) || ae.Status != 500 || !strings.HasPrefix(ae.Message, "something went wrong") {
		t.Fatalf("500: got=%#v", err)
	}

	srv.Close()
	err = c.Get(context.Background(), "/bad/", nil)
	if !asAPIErr(err, &ae) || ae.Status != apierr.StatusNetwork || ae.Message != "network error" {
		t.Fatalf("network: got=%#v", err)
	}
}

func TestRetryAfterHintIsCarried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/busy/":
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
		case "/missing/":
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv, NewMemoryCredentials(Tokens{Access: "a"}))

	if got := apierr.RetryAfterOf(c.Get(context.Background(), "/busy/", nil)); got != 2*time.Second {
		t.Fatalf("429 Retry-After: want=2s got=%s", got)
	}
	if got := apierr.RetryAfterOf(c.Get(context.Background(), "/missing/", nil)); got != 0 {
		t.Fatalf("404 Retry-After: want=0 got=%s", got)
	}
}

func TestVerifySession(t *testing.T) {
	var verifyCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case VerifyPath:
			atomic.AddInt32(&verifyCalls, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["token"] != "good" && body["token"] != "fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired","code":"token_not_valid"}`))
				return
			}
			_, _ = w.Write([]byte(`{}`))
		case RefreshPath:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refresh"] != "r-ok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var cleared int32
	c := newTestClient(t, srv, ContextCredentials{})
	c.OnCredentialsCleared(func(context.Context) { atomic.AddInt32(&cleared, 1) })

	ok := NewSession(Tokens{Access: "good"})
	if err := c.VerifySession(WithSession(context.Background(), ok)); err != nil {
		t.Fatalf("valid token: %v", err)
	}

	rotated := NewSession(Tokens{Access: "stale", Refresh: "r-ok"})
	if err := c.VerifySession(WithSession(context.Background(), rotated)); err != nil {
		t.Fatalf("stale token with refresh: %v", err)
	}
	if got, _ := rotated.Snapshot(); got.Access != "fresh" || got.Refresh != "r-ok" {
		t.Fatalf("rotated tokens: got=%+v", got)
	}

	forged := NewSession(Tokens{Access: "forged", Refresh: "r-bad"})
	err := c.VerifySession(WithSession(context.Background(), forged))
	if !apierr.IsUnauthorized(err) {
		t.Fatalf("forged token: want 401 got=%v", err)
	}
	if got, _ := forged.Snapshot(); !got.Empty() {
		t.Fatalf("forged session: want cleared got=%+v", got)
	}
	if got := atomic.LoadInt32(&cleared); got != 1 {
		t.Fatalf("clear hook: want=1 got=%d", got)
	}

	if err := c.VerifySession(WithSession(context.Background(), NewSession(Tokens{}))); !apierr.IsUnauthorized(err) {
		t.Fatalf("no token: want 401 got=%v", err)
	}
	if got := atomic.LoadInt32(&verifyCalls); got != 4 {
		t.Fatalf("verify calls: want=4 got=%d", got)
	}
}

func asAPIErr(err error, target **apierr.Error) bool {
	e, ok := err.(*apierr.Error)
	if ok {
		*target = e
	}
	return ok
}

func TestWithQuery(t *testing.T) {
	got := WithQuery("/assignments/", map[string]string{"course": "3", "status": "", "search": "lab 1"})
	if got != "/assignments/?course=3&search=lab+1" {
		t.Fatalf("WithQuery: got=%q", got)
	}
	if got := WithQuery("/courses/", nil); got != "/courses/" {
		t.Fatalf("WithQuery(nil): got=%q", got)
	}
}
