package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/motopay/portal/guard"
	"github.com/motopay/portal/users"
)

// BrowserSessionMiddleware finds or starts the browser's session and keeps
// the cookie fresh.
func (s *Server) BrowserSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, created := s.sessions.GetOrCreate(sessionIDFromCookie(r))
		if created {
			zerolog.Ctx(r.Context()).Debug().Str("session_id", sess.ID).Msg("browser session started")
		}
		s.setSessionCookie(w, r, sess.ID)
		next(w, r.WithContext(withBrowserSession(r.Context(), sess)))
	}
}

// RequireRoles guards a page. Give no roles to only require a login. While
// the session is still being restored it waits up to the configured guard
// wait, then shows a page that reloads itself.
func (s *Server) RequireRoles(roles ...users.RoleType) Middleware {
	opts := guard.Options{Roles: roles, RedirectTo: RouteLogin}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess := browserSessionFrom(r.Context())
			if sess == nil {
				redirectSuccess(w, r, RouteLogin)
				return
			}

			waitCtx, cancel := context.WithTimeout(r.Context(), s.guardWait)
			_ = sess.Context.Wait(waitCtx)
			cancel()
			// tokens may have been cleared by a rejected call or an expired store entry
			sess.Context.Sync()

			decision := guard.Decide(guard.StateOf(sess.Context), opts)
			switch decision.Outcome {
			case guard.Wait:
				s.renderWaiting(w, r)
			case guard.Redirect:
				zerolog.Ctx(r.Context()).Debug().
					Str("path", r.URL.Path).
					Str("target", decision.Target).
					Msg("guard redirect")
				redirectSuccess(w, r, decision.Target)
			default:
				next(w, r)
			}
		}
	}
}
