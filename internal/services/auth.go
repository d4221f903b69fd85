package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/facilitator-console/internal/apiclient"
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/apierr"
	"github.com/yungbote/facilitator-console/internal/platform/ctxutil"
	"github.com/yungbote/facilitator-console/internal/platform/logger"
	"github.com/yungbote/facilitator-console/internal/query"
)

const (
	otpVerifyPath = "/auth/otp/verify/"
	otpResendPath = "/auth/otp/resend/"
)

// ResourceSession caches positive token checks per session and token.
const ResourceSession = "session"

var (
	ErrNoAccessToken = errors.New("no access token")
	ErrTokenExpired  = errors.New("access token expired")
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResponse, error)
	Logout(ctx context.Context)
	VerifyOTP(ctx context.Context, email, code string) (*domain.LoginResponse, error)
	ResendOTP(ctx context.Context, email string) error
	// Verify confirms with the API that the session's access token is genuine.
	Verify(ctx context.Context) error
	// CurrentUserID reads the user id from the access token without verifying it;
	// the API verifies every request.
	CurrentUserID(ctx context.Context) string
}

type authService struct {
	log   *logger.Logger
	api   *apiclient.Client
	cache *query.Cache
}

func NewAuthService(log *logger.Logger, api *apiclient.Client, cache *query.Cache) AuthService {
	return &authService{log: log.With("service", "AuthService"), api: api, cache: cache}
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	resp, err := s.api.Login(ctx, apiclient.LoginCredentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	s.forget(ctx)
	s.log.Info("facilitator logged in", "user_id", resp.User.ID.String())
	return resp, nil
}

func (s *authService) Logout(ctx context.Context) {
	s.api.Logout(ctx)
	s.forget(ctx)
}

// forget drops every read cached under the session, whoever it belonged to.
func (s *authService) forget(ctx context.Context) {
	if sid := ctxutil.SessionID(ctx); sid != "" {
		s.cache.Purge(sid)
	}
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*domain.LoginResponse, error) {
	var out domain.LoginResponse
	body := map[string]string{"email": strings.TrimSpace(email), "otp": strings.TrimSpace(code)}
	if err := s.api.PostPublic(ctx, otpVerifyPath, body, &out); err != nil {
		return nil, err
	}
	if out.Access != "" {
		s.api.Credentials().SetTokens(ctx, apiclient.Tokens{Access: out.Access, Refresh: out.Refresh})
		s.forget(ctx)
	}
	return &out, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	return s.api.PostPublic(ctx, otpResendPath, map[string]string{"email": strings.TrimSpace(email)}, nil)
}

// Verify rejects tokens that do not parse, or that have expired with nothing
// to refresh them, without a request. Anything else is checked by the API once
// per token and cached under the session.
func (s *authService) Verify(ctx context.Context) error {
	tokens := s.api.Credentials().Tokens(ctx)
	claims, err := ParseAccessClaims(tokens.Access)
	if err != nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	}
	if tokens.Refresh == "" && !claims.ExpiresAt.IsZero() && !claims.ExpiresAt.After(time.Now()) {
		return apierr.New(http.StatusUnauthorized, "unauthorized", ErrTokenExpired)
	}
	_, _, err = query.Fetch(ctx, s.cache, query.Read{Resource: ResourceSession, ID: tokenFingerprint(tokens.Access)},
		func(ctx context.Context) (bool, error) {
			if err := s.api.VerifySession(ctx); err != nil {
				return false, err
			}
			return true, nil
		})
	return err
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func (s *authService) CurrentUserID(ctx context.Context) string {
	claims, err := ParseAccessClaims(s.api.Credentials().Tokens(ctx).Access)
	if err != nil {
		return ""
	}
	return claims.UserID
}

type AccessClaims struct {
	UserID    string
	ExpiresAt time.Time
}

// ParseAccessClaims decodes user_id (or sub) and exp from an access token.
func ParseAccessClaims(token string) (AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AccessClaims{}, ErrNoAccessToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return AccessClaims{}, fmt.Errorf("parse access token: %w", err)
	}
	var out AccessClaims
	switch v := claims["user_id"].(type) {
	case string:
		out.UserID = v
	case float64:
		out.UserID = fmt.Sprintf("%.0f", v)
	}
	if out.UserID == "" {
		out.UserID, _ = claims.GetSubject()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
