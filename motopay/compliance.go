package motopay

import (
	"context"
	"strings"
	"time"

	"github.com/motopay/portal/api"
)

type DocumentType string

const (
	DocVehicleLicense   DocumentType = "VEHICLE_LICENSE"
	DocRoadWorthiness   DocumentType = "ROAD_WORTHINESS"
	DocInsurance        DocumentType = "INSURANCE"
	DocProofOfOwnership DocumentType = "PROOF_OF_OWNERSHIP"
	DocOther            DocumentType = "OTHER"
)

type DocumentStatus string

const (
	StatusValid    DocumentStatus = "VALID"
	StatusExpired  DocumentStatus = "EXPIRED"
	StatusPending  DocumentStatus = "PENDING"
	StatusNotFound DocumentStatus = "NOT_FOUND"
)

type OverallStatus string

const (
	Compliant          OverallStatus = "COMPLIANT"
	NonCompliant       OverallStatus = "NON_COMPLIANT"
	PartiallyCompliant OverallStatus = "PARTIALLY_COMPLIANT"
)

type ComplianceDocument struct {
	Name           string         `json:"name,omitempty"`
	Type           DocumentType   `json:"type"`
	Status         DocumentStatus `json:"status"`
	IssuedDate     string         `json:"issuedDate,omitempty"`
	ExpiryDate     string         `json:"expiryDate,omitempty"`
	DocumentNumber string         `json:"documentNumber,omitempty"`
	Provider       string         `json:"provider,omitempty"`
	Amount         float64        `json:"amount,omitempty"`
}

type VehicleCompliance struct {
	VehicleID        string               `json:"vehicleId"`
	Vehicle          *Vehicle             `json:"vehicle,omitempty"`
	OverallStatus    OverallStatus        `json:"overallStatus"`
	Documents        []ComplianceDocument `json:"documents"`
	RequiredRenewals []ComplianceDocument `json:"requiredRenewals"`
	TotalRenewalCost float64              `json:"totalRenewalCost"`
	LastChecked      time.Time            `json:"lastChecked"`
}

// backendCompliance is what vehicles/{id}/compliance actually returns.
type backendCompliance struct {
	Vehicle    *Vehicle `json:"vehicle"`
	Compliance struct {
		Active  []backendComplianceItem `json:"active"`
		Expired []backendComplianceItem `json:"expired"`
		Pending []backendComplianceItem `json:"pending"`
	} `json:"compliance"`
}

type backendComplianceItem struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	IssuedDate     string  `json:"issuedDate"`
	ExpiryDate     string  `json:"expiryDate"`
	DocumentNumber string  `json:"documentNumber"`
	Provider       string  `json:"provider"`
	Amount         float64 `json:"amount"`
	ComplianceItem *struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"complianceItem"`
}

func (b backendCompliance) toCompliance(vehicleID string) VehicleCompliance {
	active := mapItems(b.Compliance.Active, StatusValid)
	expired := mapItems(b.Compliance.Expired, StatusExpired)
	pending := mapItems(b.Compliance.Pending, StatusPending)

	docs := make([]ComplianceDocument, 0, len(active)+len(expired)+len(pending))
	docs = append(docs, active...)
	docs = append(docs, expired...)
	docs = append(docs, pending...)

	var cost float64
	for _, d := range expired {
		cost += d.Amount
	}

	status := Compliant
	if len(expired) > 0 {
		status = NonCompliant
	}

	id := vehicleID
	if b.Vehicle != nil && b.Vehicle.ID != "" {
		id = b.Vehicle.ID
	}

	return VehicleCompliance{
		VehicleID:        id,
		Vehicle:          b.Vehicle,
		OverallStatus:    status,
		Documents:        docs,
		RequiredRenewals: expired,
		TotalRenewalCost: cost,
		LastChecked:      NowTimeFunc(),
	}
}

func mapItems(items []backendComplianceItem, bucket DocumentStatus) []ComplianceDocument {
	docs := make([]ComplianceDocument, 0, len(items))
	for _, it := range items {
		name := it.Name
		amount := it.Amount
		if it.ComplianceItem != nil {
			if it.ComplianceItem.Name != "" {
				name = it.ComplianceItem.Name
			}
			if amount == 0 {
				amount = it.ComplianceItem.Price
			}
		}
		status := DocumentStatus(it.Status)
		if status == "" {
			status = bucket
		}
		docs = append(docs, ComplianceDocument{
			Name:           name,
			Type:           DocumentTypeFor(name),
			Status:         status,
			IssuedDate:     it.IssuedDate,
			ExpiryDate:     it.ExpiryDate,
			DocumentNumber: it.DocumentNumber,
			Provider:       it.Provider,
			Amount:         amount,
		})
	}
	return docs
}

// DocumentTypeFor infers the document type from the backend's item name.
func DocumentTypeFor(name string) DocumentType {
	switch {
	case strings.Contains(name, "Vehicle License"), strings.Contains(name, "Registration"):
		return DocVehicleLicense
	case strings.Contains(name, "Road Worthiness"):
		return DocRoadWorthiness
	case strings.Contains(name, "Insurance"):
		return DocInsurance
	case strings.Contains(name, "Proof of Ownership"):
		return DocProofOfOwnership
	default:
		return DocOther
	}
}

type ComplianceCheck struct {
	VehicleID         string   `json:"vehicleId"`
	IsCompliant       bool     `json:"isCompliant"`
	RequiredDocuments []string `json:"requiredDocuments"`
	ExpiredDocuments  []string `json:"expiredDocuments"`
	MissingDocuments  []string `json:"missingDocuments"`
	NextDueDate       string   `json:"nextDueDate,omitempty"`
}

type BulkComplianceResult struct {
	Total        int               `json:"total"`
	Compliant    int               `json:"compliant"`
	NonCompliant int               `json:"nonCompliant"`
	Results      []ComplianceCheck `json:"results"`
}

type ComplianceService struct {
	api api.Requester
}

func (s *ComplianceService) CheckCompliance(ctx context.Context, vehicleID string) (*api.Response[ComplianceCheck], error) {
	q := query{}.str("vehicleId", vehicleID)
	return api.Typed[ComplianceCheck](s.api.Get(ctx, api.EndpointComplianceCheck, q.values()))
}

func (s *ComplianceService) BulkCheck(ctx context.Context, vehicleIDs []string) (*api.Response[BulkComplianceResult], error) {
	body := map[string][]string{"vehicleIds": vehicleIDs}
	return api.Typed[BulkComplianceResult](s.api.Post(ctx, api.EndpointComplianceBulkCheck, body))
}
