package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/apierr"
	"github.com/yungbote/facilitator-console/internal/platform/ctxutil"
	"github.com/yungbote/facilitator-console/internal/platform/httpx"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

const (
	LoginPath   = "/auth/teacher/login/"
	RefreshPath = "/auth/token/refresh/"
	VerifyPath  = "/auth/token/verify/"
)

// maxRetryAfter caps how long a Retry-After header can hold a retry back.
const maxRetryAfter = 30 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client is the single gateway to the education REST API.
type Client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	creds      CredentialProvider
	refreshes  singleflight.Group
	cleared    func(ctx context.Context)
}

func New(log *logger.Logger, cfg Config, creds CredentialProvider, opts ...Option) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential provider required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing API_BASE_URL")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := &Client{
		log:   log.With("client", "EducationAPIClient"),
		cfg:   cfg,
		creds: creds,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Credentials() CredentialProvider { return c.creds }

// OnCredentialsCleared registers fn to run after a failed refresh drops the
// stored pair. fn sees the request context, so it can find the session.
func (c *Client) OnCredentialsCleared(fn func(ctx context.Context)) {
	c.cleared = fn
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.send(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.send(ctx, http.MethodDelete, endpoint, nil, out)
}

func (c *Client) PostMultipart(ctx context.Context, endpoint string, m *Multipart, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, endpoint, m, out)
}

func (c *Client) PatchMultipart(ctx context.Context, endpoint string, m *Multipart, out any) error {
	return c.sendMultipart(ctx, http.MethodPatch, endpoint, m, out)
}

type LoginCredentials struct {
	Username string
	Password string
}

// Login posts form-encoded credentials and stores the returned pair.
func (c *Client) Login(ctx context.Context, lc LoginCredentials) (*domain.LoginResponse, error) {
	form := url.Values{}
	form.Set("username", strings.TrimSpace(lc.Username))
	form.Set("password", lc.Password)

	var out domain.LoginResponse
	if err := c.doOnce(ctx, http.MethodPost, LoginPath, formBody(form), "", &out); err != nil {
		return nil, err
	}
	if out.Access == "" {
		return nil, apierr.New(http.StatusBadGateway, "invalid_login_response", errors.New("login response carried no access token"))
	}
	c.creds.SetTokens(ctx, Tokens{Access: out.Access, Refresh: out.Refresh})
	return &out, nil
}

// Logout drops the stored pair. The API keeps no server-side session to end.
func (c *Client) Logout(ctx context.Context) {
	c.creds.Clear(ctx)
}

// VerifySession asks the API whether the stored access token is still valid.
// A rejected token gets one refresh; if that fails the pair is cleared and the
// original 401 is returned.
func (c *Client) VerifySession(ctx context.Context) error {
	ctx = ctxutil.Default(ctx)
	used := c.creds.Tokens(ctx)
	if used.Access == "" {
		return apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no access token"))
	}
	err := c.verify(ctx, used.Access)
	if !apierr.IsUnauthorized(err) {
		return err
	}
	if used.Refresh == "" {
		c.clear(ctx)
		return err
	}
	access, refreshErr := c.refresh(ctx, used.Refresh)
	if refreshErr != nil {
		c.log.Warn("token refresh failed during verify; clearing credentials", "error", refreshErr.Error())
		c.clear(ctx)
		return err
	}
	return c.verify(ctx, access)
}

func (c *Client) verify(ctx context.Context, access string) error {
	eb, err := jsonBody(map[string]string{"token": access})
	if err != nil {
		return err
	}
	return c.doOnce(ctx, http.MethodPost, VerifyPath, eb, "", nil)
}

// PostPublic issues an unauthenticated JSON request (OTP flows).
func (c *Client) PostPublic(ctx context.Context, endpoint string, body, out any) error {
	eb, err := jsonBody(body)
	if err != nil {
		return err
	}
	return c.doOnce(ctx, http.MethodPost, endpoint, eb, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, body, out any) error {
	eb, err := jsonBody(body)
	if err != nil {
		return err
	}
	return c.send(ctx, method, endpoint, eb, out)
}

func (c *Client) sendMultipart(ctx context.Context, method, endpoint string, m *Multipart, out any) error {
	if m == nil {
		m = NewMultipart()
	}
	eb, err := m.encode()
	if err != nil {
		return err
	}
	return c.send(ctx, method, endpoint, eb, out)
}

// send attaches the bearer token. A 401 triggers at most one refresh followed
// by exactly one retry; when the refresh fails the original 401 is returned
// and the stored pair is cleared.
func (c *Client) send(ctx context.Context, method, endpoint string, body *encodedBody, out any) error {
	ctx = ctxutil.Default(ctx)
	used := c.creds.Tokens(ctx)
	err := c.doOnce(ctx, method, endpoint, body, used.Access, out)
	if !apierr.IsUnauthorized(err) {
		return err
	}

	// Another request on this session may already have rotated the pair.
	if cur := c.creds.Tokens(ctx); cur.Access != "" && cur.Access != used.Access {
		return c.doOnce(ctx, method, endpoint, body, cur.Access, out)
	}
	if used.Refresh == "" {
		return err
	}

	access, refreshErr := c.refresh(ctx, used.Refresh)
	if refreshErr != nil {
		c.log.Warn("token refresh failed; clearing credentials",
			"endpoint", endpoint,
			"error", refreshErr.Error(),
		)
		c.clear(ctx)
		return err
	}
	return c.doOnce(ctx, method, endpoint, body, access, out)
}

func (c *Client) clear(ctx context.Context) {
	c.creds.Clear(ctx)
	if c.cleared != nil {
		c.cleared(ctx)
	}
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// refresh exchanges the refresh token. Concurrent 401s holding the same refresh
// token share one exchange.
func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	v, err, _ := c.refreshes.Do(refreshToken, func() (any, error) {
		eb, err := jsonBody(map[string]string{"refresh": refreshToken})
		if err != nil {
			return nil, err
		}
		var out refreshResponse
		if err := c.doOnce(context.WithoutCancel(ctx), http.MethodPost, RefreshPath, eb, "", &out); err != nil {
			return nil, err
		}
		if out.Access == "" {
			return nil, errors.New("refresh response carried no access token")
		}
		if out.Refresh == "" {
			out.Refresh = refreshToken
		}
		return Tokens{Access: out.Access, Refresh: out.Refresh}, nil
	})
	if err != nil {
		return "", err
	}
	tokens := v.(Tokens)
	c.creds.SetTokens(ctx, tokens)
	return tokens.Access, nil
}

func (c *Client) doOnce(ctx context.Context, method, endpoint string, body *encodedBody, access string, out any) error {
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.cfg.BaseURL+endpoint, body.reader())
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	req.Header.Set("X-Request-Id", requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Network(err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return apierr.Network(readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apierr.FromResponse(resp.StatusCode, raw)
		if httpx.IsRetryableHTTPStatus(resp.StatusCode) {
			apiErr.RetryAfter = httpx.RetryAfterDuration(resp, 0, maxRetryAfter)
		}
		return apiErr
	}
	if out == nil || len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierr.New(http.StatusBadGateway, "invalid_response", fmt.Errorf("decode %s %s: %w", method, endpoint, err))
	}
	return nil
}

func requestID(ctx context.Context) string {
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		return td.RequestID
	}
	return uuid.NewString()
}

// WithQuery appends non-empty filters to endpoint in a stable order.
func WithQuery(endpoint string, filters map[string]string) string {
	q := url.Values{}
	for k, v := range filters {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + q.Encode()
}
