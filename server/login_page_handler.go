package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/auth"
	"github.com/motopay/portal/server/browsersession"
)

// LoginPageHandler displays the login page (GET /login). A browser that is
// already signed in goes straight to its home page.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := browserSessionFrom(r.Context())
		if user, loading := sess.Context.Snapshot(); !loading && user != nil {
			redirectSuccess(w, r, homeAfterLogin(user.Role))
			return
		}

		data := s.newPageData(r, "Log in", "login")
		data.Email = r.URL.Query().Get("email")
		s.render(w, r, http.StatusOK, "login.html", data)
	}
}

// LoginSubmissionHandler processes the login form (POST /auth/login).
//
// The login runs on a brand new browser session. Only when it succeeds does
// the cookie move to the new session id, so an id planted before login is
// never the one that ends up authenticated.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	validator := auth.NewValidator()

	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		current := browserSessionFrom(r.Context())

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		req := auth.LoginRequest{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		if err := validator.ValidateLogin(req); err != nil {
			current.Notices.Notify(r.Context(), api.Notification{
				Level:   api.LevelError,
				Message: "Please enter a valid email and password.",
			})
			redirectWithEmail(w, r, RouteLogin, req.Email)
			return
		}

		fresh := s.sessions.Create()
		resp, err := fresh.Context.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Info().Err(err).Str("email", req.Email).Msg("login failed")
			moveNotices(r.Context(), fresh, current)
			s.deleteSession(r.Context(), fresh.ID)
			redirectWithEmail(w, r, RouteLogin, req.Email)
			return
		}

		user := fresh.Context.User()
		if user == nil {
			// a 2xx envelope that refused the login raises no gateway notice
			message := refusedLoginMessage(resp)
			logger.Info().Str("email", req.Email).Str("message", message).Msg("login refused")
			current.Notices.Notify(r.Context(), api.Notification{Level: api.LevelError, Message: message})
			s.deleteSession(r.Context(), fresh.ID)
			redirectWithEmail(w, r, RouteLogin, req.Email)
			return
		}

		s.setSessionCookie(w, r, fresh.ID)
		s.deleteSession(r.Context(), current.ID)

		logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
		redirectSuccess(w, r, homeAfterLogin(user.Role))
	}
}

// LogoutHandler ends the browser session. The backend logout is best effort;
// the session and cookie are always dropped.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := browserSessionFrom(r.Context())

		if err := sess.Context.Logout(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("backend logout failed")
		}
		s.deleteSession(r.Context(), sess.ID)
		s.clearSessionCookie(w, r)

		redirectSuccess(w, r, RouteLogin)
	}
}

func refusedLoginMessage[T any](resp *api.Response[T]) string {
	switch {
	case resp == nil:
		return api.MsgInvalidLogin
	case resp.Message != "":
		return resp.Message
	case resp.Error != "":
		return resp.Error
	default:
		return api.MsgInvalidLogin
	}
}

func (s *Server) deleteSession(ctx context.Context, id string) {
	if err := s.sessions.Delete(id); err != nil {
		zerolog.Ctx(ctx).Err(err).Str("session_id", id).Msg("failed to delete browser session")
	}
}

// moveNotices hands notifications raised on one session to another, so the
// next page the browser sees still shows them.
func moveNotices(ctx context.Context, from, to *browsersession.Session) {
	for _, n := range from.Notices.Drain() {
		to.Notices.Notify(ctx, n)
	}
}
