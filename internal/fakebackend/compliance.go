package fakebackend

import (
	"net/http"

	"github.com/motopay/portal/motopay"
)

// ComplianceItem is one document in a vehicle's compliance record.
type ComplianceItem struct {
	Name       string
	Price      float64
	ExpiryDate string
}

type complianceBuckets struct {
	Active, Expired, Pending []ComplianceItem
}

// SetCompliance replaces the compliance record for vehicleID.
func (b *Backend) SetCompliance(vehicleID string, active, expired, pending []ComplianceItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.compliance[vehicleID] = complianceBuckets{Active: active, Expired: expired, Pending: pending}
}

func (b *Backend) vehicleCompliance(w http.ResponseWriter, r *http.Request, _ *account, _ *accessClaims) {
	id := r.PathValue("id")

	b.mu.Lock()
	v, ok := b.vehicles[id]
	buckets := b.compliance[id]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}

	writeData(w, http.StatusOK, "", map[string]any{
		"vehicle": v,
		"compliance": map[string]any{
			"active":  wireItems(buckets.Active, motopay.StatusValid),
			"expired": wireItems(buckets.Expired, motopay.StatusExpired),
			"pending": wireItems(buckets.Pending, motopay.StatusPending),
		},
	})
}

func wireItems(items []ComplianceItem, status motopay.DocumentStatus) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{
			"status":     status,
			"expiryDate": it.ExpiryDate,
			"complianceItem": map[string]any{
				"name":  it.Name,
				"price": it.Price,
			},
		})
	}
	return out
}
