package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/users"
)

var (
	agentRoles = []users.RoleType{users.RoleAgent}
	adminRoles = []users.RoleType{users.RoleAdmin, users.RoleSuperAdmin}
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Agent routes
	s.RegisterRouteHandler("GET "+RouteAgentDashboard, ChainMiddleware(s.AgentDashboardHandler(), s.HTMLMiddleWare(s.RequireRoles(agentRoles...))...))

	// Admin routes
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.RequireRoles(adminRoles...))...))
	s.RegisterRouteHandler("GET "+RouteAdminExceptions, ChainMiddleware(s.AdminExceptionsHandler(), s.HTMLMiddleWare(s.RequireRoles(adminRoles...))...))
	s.RegisterRouteHandler("GET "+RouteAdminPricing, ChainMiddleware(s.AdminPricingHandler(), s.HTMLMiddleWare(s.RequireRoles(adminRoles...))...))
	s.RegisterRouteHandler("GET "+RouteAdminResolution, ChainMiddleware(s.AdminResolutionHandler(), s.HTMLMiddleWare(s.RequireRoles(adminRoles...))...))

	// JSON routes
	s.RegisterRouteHandler("POST "+RouteAPILookup, ChainMiddleware(s.VehicleLookupHandler(), s.APIMiddleware(s.BrowserSessionMiddleware)...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPILookup, ChainMiddleware(s.VehicleLookupHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if err := StreamFile(w, r, filePath); err != nil {
			log.Debug().Err(err).Str("path", filePath).Msg("static file not served")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}
