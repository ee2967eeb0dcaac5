package motopay

import (
	"context"
	"time"

	"github.com/motopay/portal/api"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxSuccess   TransactionStatus = "SUCCESS"
	TxFailed    TransactionStatus = "FAILED"
	TxCancelled TransactionStatus = "CANCELLED"
	TxRefunded  TransactionStatus = "REFUNDED"
)

type PaymentItem struct {
	Type        DocumentType `json:"type"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	Quantity    int          `json:"quantity,omitempty"`
}

type PaymentInitRequest struct {
	VehicleID   string         `json:"vehicleId"`
	Items       []PaymentItem  `json:"items"`
	Email       string         `json:"email,omitempty"`
	PhoneNumber string         `json:"phoneNumber,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Total is the sum of item amounts times their quantity (1 when unset).
func (r PaymentInitRequest) Total() float64 {
	var total float64
	for _, it := range r.Items {
		q := it.Quantity
		if q <= 0 {
			q = 1
		}
		total += it.Amount * float64(q)
	}
	return total
}

type PaymentInitResponse struct {
	TransactionID    string  `json:"transactionId"`
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorizationUrl"`
	AccessCode       string  `json:"accessCode,omitempty"`
	Amount           float64 `json:"amount"`
}

type Transaction struct {
	ID            string            `json:"id"`
	Reference     string            `json:"reference"`
	VehicleID     string            `json:"vehicleId"`
	Vehicle       *Vehicle          `json:"vehicle,omitempty"`
	AgentID       string            `json:"agentId,omitempty"`
	Amount        float64           `json:"amount"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	Items         []PaymentItem     `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt,omitempty"`
}

type PaymentVerifyResponse struct {
	Transaction Transaction       `json:"transaction"`
	Status      TransactionStatus `json:"status"`
}

type PaymentService struct {
	api api.Requester
}

func (s *PaymentService) InitializePayment(ctx context.Context, req PaymentInitRequest) (*api.Response[PaymentInitResponse], error) {
	return api.Typed[PaymentInitResponse](s.api.Post(ctx, api.EndpointPaymentInitialize, req))
}

func (s *PaymentService) VerifyPayment(ctx context.Context, reference string) (*api.Response[PaymentVerifyResponse], error) {
	return api.Typed[PaymentVerifyResponse](s.api.Post(ctx, api.EndpointPaymentVerify(reference), nil))
}

func (s *PaymentService) GetTransaction(ctx context.Context, transactionID string) (*api.Response[Transaction], error) {
	return api.Typed[Transaction](s.api.Get(ctx, api.EndpointPaymentTransaction(transactionID), nil))
}

func (s *PaymentService) ProcessRefund(ctx context.Context, transactionID, reason string) (*api.Response[Transaction], error) {
	body := map[string]string{"reason": reason}
	return api.Typed[Transaction](s.api.Post(ctx, api.EndpointPaymentRefund(transactionID), body))
}
