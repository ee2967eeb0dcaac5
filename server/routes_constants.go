package server

// Route path constants
const (
	RouteIndex = "/"

	// Auth Routes - Login & Logout
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Agent Routes
	RouteAgentDashboard = "/agent"

	// Admin Routes
	RouteAdminDashboard  = "/admin"
	RouteAdminExceptions = "/admin/exceptions"
	RouteAdminPricing    = "/admin/pricing"
	RouteAdminResolution = "/admin/resolution"

	// API Routes
	RouteAPILookup = "/api/lookup"
	RouteHealth    = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
