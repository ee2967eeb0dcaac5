package motopay

import (
	"context"
	"time"

	"github.com/motopay/portal/api"
)

// PricingConfig is the price of one compliance item.
type PricingConfig struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DocumentType DocumentType `json:"documentType,omitempty"`
	VehicleType  string       `json:"vehicleType,omitempty"`
	Price        float64      `json:"price"`
	ServiceFee   float64      `json:"serviceFee,omitempty"`
	IsActive     bool         `json:"isActive"`
	UpdatedAt    time.Time    `json:"updatedAt,omitempty"`
}

// UpdatePricingRequest carries only the fields to change.
type UpdatePricingRequest struct {
	Name       *string  `json:"name,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	ServiceFee *float64 `json:"serviceFee,omitempty"`
}

type PricingService struct {
	api api.Requester
}

func (s *PricingService) GetPricing(ctx context.Context) (*api.Response[[]PricingConfig], error) {
	return api.Typed[[]PricingConfig](s.api.Get(ctx, api.EndpointAdminPricing, nil))
}

func (s *PricingService) UpdatePricing(ctx context.Context, id string, req UpdatePricingRequest) (*api.Response[PricingConfig], error) {
	return api.Typed[PricingConfig](s.api.Put(ctx, api.EndpointPricing(id), req))
}

func (s *PricingService) TogglePricingStatus(ctx context.Context, id string, active bool) (*api.Response[PricingConfig], error) {
	body := map[string]bool{"isActive": active}
	return api.Typed[PricingConfig](s.api.Patch(ctx, api.EndpointPricingStatus(id), body))
}
