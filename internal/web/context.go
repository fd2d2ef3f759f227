package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/artviewer/internal/core"
)

type ctxKey struct{}

// WithRequestMetadata adds IP and User-Agent to context for session logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

func withSession(ctx context.Context, sess *core.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// sessionFrom returns the session attached by sessionMiddleware.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(ctxKey{}).(*core.Session)
	return sess
}

// clientIP returns the host part of RemoteAddr, which TrustedRealIP has
// already rewritten for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
