package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/motopay/portal/server/browsersession"
	"github.com/motopay/portal/users"
)

// sessionCookieName is the cookie holding the browser session id
const sessionCookieName = "motopay_session"

type contextKey string

const contextKeyBrowserSession contextKey = "browser_session"

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionMaxIdle().Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func sessionIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func withBrowserSession(ctx context.Context, sess *browsersession.Session) context.Context {
	return context.WithValue(ctx, contextKeyBrowserSession, sess)
}

// browserSessionFrom returns the session put on the request by
// BrowserSessionMiddleware, or nil.
func browserSessionFrom(ctx context.Context) *browsersession.Session {
	sess, _ := ctx.Value(contextKeyBrowserSession).(*browsersession.Session)
	return sess
}

// homeAfterLogin is where a fresh login lands: agents on their dashboard,
// everybody else on the admin dashboard.
func homeAfterLogin(role users.RoleType) string {
	if role == users.RoleAgent {
		return RouteAgentDashboard
	}
	return RouteAdminDashboard
}

// redirectSuccess helper for htmx-aware redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithEmail sends the browser back to the login form with the email
// it typed prefilled.
func redirectWithEmail(w http.ResponseWriter, r *http.Request, path, email string) {
	if email != "" {
		path += "?email=" + url.QueryEscape(email)
	}
	redirectSuccess(w, r, path)
}
