package api

import "net/url"

// Backend endpoints, relative to the API root.
const (
	EndpointHealth = "health"

	EndpointAuthLogin        = "auth/login"
	EndpointAuthRegister     = "auth/register"
	EndpointAuthRefreshToken = "auth/refresh-token"
	EndpointAuthMe           = "auth/me"
	EndpointAuthLogout       = "auth/logout"

	EndpointVehicleLookup   = "vehicles/lookup"
	EndpointVehicleRegister = "vehicles/register"

	EndpointPaymentInitialize = "payments/initialize"
	EndpointPaymentWebhook    = "payments/webhook"

	EndpointAdminMetrics      = "admin/metrics"
	EndpointAdminTransactions = "admin/transactions"
	EndpointAdminCollections  = "admin/collections"
	EndpointAdminExport       = "admin/export"
	EndpointAdminPricing      = "admin/pricing"

	EndpointAgentDashboard    = "agents/dashboard"
	EndpointAgentTransactions = "agents/transactions"
	EndpointAgentCommissions  = "agents/commissions"

	EndpointComplianceCheck     = "compliance/check"
	EndpointComplianceBulkCheck = "compliance/bulk-check"

	EndpointExceptions = "exceptions"

	EndpointSearchVehicles     = "search/vehicles"
	EndpointSearchTransactions = "search/transactions"
)

// Path helpers escape their argument so an ID can never add path segments
// or a query string.

func EndpointVehicle(id string) string { return "vehicles/" + url.PathEscape(id) }
func EndpointVehicleCompliance(id string) string {
	return "vehicles/" + url.PathEscape(id) + "/compliance"
}
func EndpointVehicleHistory(id string) string { return "vehicles/" + url.PathEscape(id) + "/history" }

func EndpointPaymentVerify(reference string) string {
	return "payments/verify/" + url.PathEscape(reference)
}
func EndpointPaymentTransaction(id string) string { return "payments/transaction/" + url.PathEscape(id) }
func EndpointPaymentRefund(id string) string      { return "payments/refund/" + url.PathEscape(id) }

func EndpointException(id string) string { return EndpointExceptions + "/" + url.PathEscape(id) }
func EndpointExceptionResolve(id string) string {
	return EndpointExceptions + "/" + url.PathEscape(id) + "/resolve"
}

func EndpointPricing(id string) string { return EndpointAdminPricing + "/" + url.PathEscape(id) }
func EndpointPricingStatus(id string) string {
	return EndpointAdminPricing + "/" + url.PathEscape(id) + "/status"
}
