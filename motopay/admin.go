package motopay

import (
	"context"

	"github.com/motopay/portal/api"
)

type TimeRange string

const (
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

type DashboardMetrics struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalTransactions  int     `json:"totalTransactions"`
	AverageTransaction float64 `json:"averageTransaction"`
	SuccessRate        float64 `json:"successRate"`
	RevenueChange      float64 `json:"revenueChange"`
	TransactionChange  float64 `json:"transactionChange"`
	ActiveAgents       int     `json:"activeAgents,omitempty"`
	OpenExceptions     int     `json:"openExceptions,omitempty"`
}

type TransactionFilters struct {
	Status    TransactionStatus
	StartDate string
	EndDate   string
	AgentID   string
	Search    string
	Page      int
	Limit     int
}

func (f TransactionFilters) query() query {
	return query{}.
		str("status", string(f.Status)).
		str("startDate", f.StartDate).
		str("endDate", f.EndDate).
		str("agentId", f.AgentID).
		str("search", f.Search).
		num("page", f.Page).
		num("limit", f.Limit)
}

type TransactionPage struct {
	Page
	Transactions []Transaction `json:"transactions"`
}

type CollectionData struct {
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
	Category string  `json:"category,omitempty"`
}

type ExportRequest struct {
	Type    string            `json:"type"`
	Filters map[string]string `json:"filters,omitempty"`
}

type ExportResult struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type AdminService struct {
	api api.Requester
}

func (s *AdminService) GetMetrics(ctx context.Context, r TimeRange) (*api.Response[DashboardMetrics], error) {
	q := query{}.str("timeRange", string(r))
	return api.Typed[DashboardMetrics](s.api.Get(ctx, api.EndpointAdminMetrics, q.values()))
}

func (s *AdminService) GetTransactions(ctx context.Context, f TransactionFilters) (*api.Response[TransactionPage], error) {
	return api.Typed[TransactionPage](s.api.Get(ctx, api.EndpointAdminTransactions, f.query().values()))
}

func (s *AdminService) GetCollections(ctx context.Context, r TimeRange) (*api.Response[[]CollectionData], error) {
	q := query{}.str("timeRange", string(r))
	return api.Typed[[]CollectionData](s.api.Get(ctx, api.EndpointAdminCollections, q.values()))
}

func (s *AdminService) ExportData(ctx context.Context, req ExportRequest) (*api.Response[ExportResult], error) {
	return api.Typed[ExportResult](s.api.Post(ctx, api.EndpointAdminExport, req))
}
