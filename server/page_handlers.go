package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/motopay"
)

// IndexHandler renders the public landing page with the vehicle lookup.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "index.html", s.newPageData(r, "Home", "home"))
	}
}

func (s *Server) AgentDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := browserSessionFrom(r.Context())
		resp, err := sess.Services.Agents.GetDashboard(r.Context())
		if s.backendFailed(w, r, err) {
			return
		}

		data := s.newPageData(r, "Dashboard", "agent")
		if resp.OK() {
			data.Data = resp.Data
		}
		s.render(w, r, http.StatusOK, "agent.html", data)
	}
}

// AdminDashboardHandler renders the metrics for ?range= (today, week, month
// or year; month when absent).
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := browserSessionFrom(r.Context())
		resp, err := sess.Services.Admin.GetMetrics(r.Context(), timeRangeFrom(r))
		if s.backendFailed(w, r, err) {
			return
		}

		data := s.newPageData(r, "Dashboard", "admin")
		if resp.OK() {
			data.Data = resp.Data
		}
		s.render(w, r, http.StatusOK, "admin.html", data)
	}
}

func (s *Server) AdminExceptionsHandler() http.HandlerFunc {
	return s.exceptionsPage("exceptions.html", "Exceptions", "exceptions", "")
}

// AdminResolutionHandler lists the exceptions still open.
func (s *Server) AdminResolutionHandler() http.HandlerFunc {
	return s.exceptionsPage("resolution.html", "Resolution", "resolution", motopay.ExceptionOpen)
}

func (s *Server) exceptionsPage(tmpl, title, active string, status motopay.ExceptionStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := browserSessionFrom(r.Context())
		filters := motopay.ExceptionFilters{
			Status:   status,
			Priority: motopay.ExceptionPriority(r.URL.Query().Get("priority")),
			Type:     r.URL.Query().Get("type"),
		}
		if filters.Status == "" {
			filters.Status = motopay.ExceptionStatus(r.URL.Query().Get("status"))
		}

		resp, err := sess.Services.Exceptions.ListExceptions(r.Context(), filters)
		if s.backendFailed(w, r, err) {
			return
		}

		data := s.newPageData(r, title, active)
		if resp.OK() {
			data.Data = resp.Data
		}
		s.render(w, r, http.StatusOK, tmpl, data)
	}
}

func (s *Server) AdminPricingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := browserSessionFrom(r.Context())
		resp, err := sess.Services.Pricing.GetPricing(r.Context())
		if s.backendFailed(w, r, err) {
			return
		}

		data := s.newPageData(r, "Pricing", "pricing")
		if resp.OK() {
			data.Data = *resp.Data
		}
		s.render(w, r, http.StatusOK, "pricing.html", data)
	}
}

// backendFailed handles the error of a page's backend call. The gateway has
// already queued a notification. A rejected token ends the session and sends
// the browser to the login page; any other failure renders the page without
// data. It reports whether the response has been written.
func (s *Server) backendFailed(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("backend call failed")

	sess := browserSessionFrom(r.Context())
	if errors.Is(err, api.ErrUnauthorized) && !sess.Context.Sync() {
		redirectSuccess(w, r, RouteLogin)
		return true
	}
	return false
}

func timeRangeFrom(r *http.Request) motopay.TimeRange {
	switch tr := motopay.TimeRange(r.URL.Query().Get("range")); tr {
	case motopay.RangeToday, motopay.RangeWeek, motopay.RangeMonth, motopay.RangeYear:
		return tr
	default:
		return motopay.RangeMonth
	}
}
