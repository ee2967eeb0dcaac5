package motopay

import (
	"context"
	"time"

	"github.com/motopay/portal/api"
)

type LookupType string

const (
	LookupTIN   LookupType = "tin"
	LookupPlate LookupType = "plate"
	LookupVIN   LookupType = "vin"
)

type Vehicle struct {
	ID           string    `json:"id"`
	PlateNumber  string    `json:"plateNumber"`
	VIN          string    `json:"vin,omitempty"`
	TIN          string    `json:"tin,omitempty"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color,omitempty"`
	VehicleType  string    `json:"vehicleType"`
	OwnerName    string    `json:"ownerName"`
	OwnerPhone   string    `json:"ownerPhone,omitempty"`
	OwnerAddress string    `json:"ownerAddress,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// VehicleLookupRequest finds a vehicle by TIN, plate number or VIN.
type VehicleLookupRequest struct {
	Identifier string     `json:"identifier"`
	Type       LookupType `json:"type"`
}

type VehicleRegistrationRequest struct {
	PlateNumber  string `json:"plateNumber,omitempty"`
	VIN          string `json:"vin,omitempty"`
	TIN          string `json:"tin,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year,omitempty"`
	Color        string `json:"color,omitempty"`
	VehicleType  string `json:"vehicleType,omitempty"`
	OwnerName    string `json:"ownerName,omitempty"`
	OwnerPhone   string `json:"ownerPhone,omitempty"`
	OwnerAddress string `json:"ownerAddress,omitempty"`
}

type VehicleService struct {
	api api.Requester
}

func (s *VehicleService) LookupVehicle(ctx context.Context, req VehicleLookupRequest) (*api.Response[Vehicle], error) {
	return api.Typed[Vehicle](s.api.Post(ctx, api.EndpointVehicleLookup, req))
}

func (s *VehicleService) RegisterVehicle(ctx context.Context, req VehicleRegistrationRequest) (*api.Response[Vehicle], error) {
	return api.Typed[Vehicle](s.api.Post(ctx, api.EndpointVehicleRegister, req))
}

func (s *VehicleService) GetVehicle(ctx context.Context, vehicleID string) (*api.Response[Vehicle], error) {
	return api.Typed[Vehicle](s.api.Get(ctx, api.EndpointVehicle(vehicleID), nil))
}

// UpdateVehicle sends only the fields set on req.
func (s *VehicleService) UpdateVehicle(ctx context.Context, vehicleID string, req VehicleRegistrationRequest) (*api.Response[Vehicle], error) {
	return api.Typed[Vehicle](s.api.Put(ctx, api.EndpointVehicle(vehicleID), req))
}

// GetVehicleCompliance fetches the backend's compliance buckets for a vehicle
// and folds them into a VehicleCompliance.
func (s *VehicleService) GetVehicleCompliance(ctx context.Context, vehicleID string) (*api.Response[VehicleCompliance], error) {
	raw, err := api.Typed[backendCompliance](s.api.Get(ctx, api.EndpointVehicleCompliance(vehicleID), nil))
	if err != nil {
		return nil, err
	}

	resp := &api.Response[VehicleCompliance]{
		Success: raw.Success,
		Message: raw.Message,
		Error:   raw.Error,
	}
	if raw.OK() {
		c := raw.Data.toCompliance(vehicleID)
		resp.Data = &c
	}
	return resp, nil
}

func (s *VehicleService) GetVehicleHistory(ctx context.Context, vehicleID string) (*api.Response[[]Transaction], error) {
	return api.Typed[[]Transaction](s.api.Get(ctx, api.EndpointVehicleHistory(vehicleID), nil))
}
