package motopay

import (
	"context"
	"time"

	"github.com/motopay/portal/api"
)

type ExceptionStatus string

const (
	ExceptionOpen       ExceptionStatus = "OPEN"
	ExceptionInProgress ExceptionStatus = "IN_PROGRESS"
	ExceptionResolved   ExceptionStatus = "RESOLVED"
	ExceptionClosed     ExceptionStatus = "CLOSED"
)

type ExceptionPriority string

const (
	PriorityLow    ExceptionPriority = "LOW"
	PriorityMedium ExceptionPriority = "MEDIUM"
	PriorityHigh   ExceptionPriority = "HIGH"
)

// Exception is a payment or compliance case that needs manual resolution.
type Exception struct {
	ID            string            `json:"id"`
	TransactionID string            `json:"transactionId,omitempty"`
	VehicleID     string            `json:"vehicleId,omitempty"`
	Type          string            `json:"type"`
	Description   string            `json:"description"`
	Status        ExceptionStatus   `json:"status"`
	Priority      ExceptionPriority `json:"priority"`
	AssignedTo    string            `json:"assignedTo,omitempty"`
	Resolution    string            `json:"resolution,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	ResolvedAt    *time.Time        `json:"resolvedAt,omitempty"`
}

type ExceptionFilters struct {
	Status   ExceptionStatus
	Priority ExceptionPriority
	Type     string
	Page     int
	Limit    int
}

type ExceptionPage struct {
	Page
	Exceptions []Exception `json:"exceptions"`
}

type CreateExceptionRequest struct {
	TransactionID string            `json:"transactionId,omitempty"`
	VehicleID     string            `json:"vehicleId,omitempty"`
	Type          string            `json:"type"`
	Description   string            `json:"description"`
	Priority      ExceptionPriority `json:"priority,omitempty"`
}

type ResolveExceptionRequest struct {
	Resolution string          `json:"resolution"`
	Status     ExceptionStatus `json:"status,omitempty"`
}

type ExceptionService struct {
	api api.Requester
}

func (s *ExceptionService) ListExceptions(ctx context.Context, f ExceptionFilters) (*api.Response[ExceptionPage], error) {
	q := query{}.
		str("status", string(f.Status)).
		str("priority", string(f.Priority)).
		str("type", f.Type).
		num("page", f.Page).
		num("limit", f.Limit)
	return api.Typed[ExceptionPage](s.api.Get(ctx, api.EndpointExceptions, q.values()))
}

func (s *ExceptionService) GetException(ctx context.Context, id string) (*api.Response[Exception], error) {
	return api.Typed[Exception](s.api.Get(ctx, api.EndpointException(id), nil))
}

func (s *ExceptionService) CreateException(ctx context.Context, req CreateExceptionRequest) (*api.Response[Exception], error) {
	return api.Typed[Exception](s.api.Post(ctx, api.EndpointExceptions, req))
}

func (s *ExceptionService) ResolveException(ctx context.Context, id string, req ResolveExceptionRequest) (*api.Response[Exception], error) {
	return api.Typed[Exception](s.api.Put(ctx, api.EndpointExceptionResolve(id), req))
}
