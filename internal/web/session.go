package web

import (
	"net/http"

	"github.com/JonMunkholm/artviewer/internal/logging"
	mw "github.com/JonMunkholm/artviewer/internal/web/middleware"
)

// SessionHeader carries the session id for API clients that do not keep
// cookies. It takes precedence over the cookie.
const SessionHeader = "X-Session-ID"

// sessionMiddleware resolves the caller's viewer session, creating one when
// the id is missing or expired, and attaches it to the request context.
// The cookie has no Max-Age so it ends with the browser session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
				id = c.Value
			}
		}

		sess, created := s.store.GetOrCreate(WithRequestMetadata(r.Context(), r), id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, sess.ID())

		ctx := withSession(r.Context(), sess)
		ctx = logging.ContextWithSessionID(ctx, sess.ID())
		mw.Annotate(ctx, "session_id", sess.ID())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
