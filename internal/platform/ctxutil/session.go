package ctxutil

import "context"

type requestDataKey struct{}

// RequestData identifies the browser session a request belongs to.
type RequestData struct {
	SessionID string
	UserID    string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// SessionID returns the session id carried by ctx, or "" outside a session.
func SessionID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.SessionID
	}
	return ""
}
