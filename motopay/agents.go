package motopay

import (
	"context"

	"github.com/motopay/portal/api"
)

type AgentDashboard struct {
	TodayRenewals      int           `json:"todayRenewals"`
	TodayChange        float64       `json:"todayChange"`
	PendingActions     int           `json:"pendingActions"`
	MonthlyCommission  float64       `json:"monthlyCommission"`
	CommissionChange   float64       `json:"commissionChange"`
	RecentTransactions []Transaction `json:"recentTransactions,omitempty"`
}

type CommissionBreakdown struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Amount   float64 `json:"amount"`
}

type Commission struct {
	Period           string                `json:"period"`
	TotalAmount      float64               `json:"totalAmount"`
	TransactionCount int                   `json:"transactionCount"`
	Breakdown        []CommissionBreakdown `json:"breakdown,omitempty"`
}

type AgentService struct {
	api api.Requester
}

func (s *AgentService) GetDashboard(ctx context.Context) (*api.Response[AgentDashboard], error) {
	return api.Typed[AgentDashboard](s.api.Get(ctx, api.EndpointAgentDashboard, nil))
}

func (s *AgentService) GetTransactions(ctx context.Context, f TransactionFilters) (*api.Response[TransactionPage], error) {
	return api.Typed[TransactionPage](s.api.Get(ctx, api.EndpointAgentTransactions, f.query().values()))
}

// GetCommissions returns commissions for a period such as "2026-10". An
// empty period lets the backend pick the current month.
func (s *AgentService) GetCommissions(ctx context.Context, period string) (*api.Response[Commission], error) {
	q := query{}.str("period", period)
	return api.Typed[Commission](s.api.Get(ctx, api.EndpointAgentCommissions, q.values()))
}
