// Package motopay holds typed calls to the MotoPay backend's domain
// endpoints. Every call goes through the api gateway, so failures are
// already classified and shown to the user when an error comes back.
package motopay

import (
	"net/url"
	"strconv"
	"time"

	"github.com/motopay/portal/api"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Client groups the per-area services.
type Client struct {
	Vehicles   *VehicleService
	Compliance *ComplianceService
	Payments   *PaymentService
	Admin      *AdminService
	Agents     *AgentService
	Exceptions *ExceptionService
	Pricing    *PricingService
}

func New(r api.Requester) *Client {
	return &Client{
		Vehicles:   &VehicleService{api: r},
		Compliance: &ComplianceService{api: r},
		Payments:   &PaymentService{api: r},
		Admin:      &AdminService{api: r},
		Agents:     &AgentService{api: r},
		Exceptions: &ExceptionService{api: r},
		Pricing:    &PricingService{api: r},
	}
}

// query collects non-empty parameters
type query url.Values

func (q query) str(key, value string) query {
	if value != "" {
		url.Values(q).Set(key, value)
	}
	return q
}

func (q query) num(key string, value int) query {
	if value > 0 {
		url.Values(q).Set(key, strconv.Itoa(value))
	}
	return q
}

func (q query) values() url.Values {
	if len(q) == 0 {
		return nil
	}
	return url.Values(q)
}

// Page is the paging envelope list endpoints wrap their items in.
type Page struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}
