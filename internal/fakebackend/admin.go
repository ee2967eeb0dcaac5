package fakebackend

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/motopay/portal/motopay"
)

// AddException records a case for the exceptions endpoints.
func (b *Backend) AddException(e motopay.Exception) motopay.Exception {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = motopay.ExceptionOpen
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = b.signer.now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exceptions = append(b.exceptions, e)
	return e
}

// AddPricing adds a price list entry.
func (b *Backend) AddPricing(p motopay.PricingConfig) motopay.PricingConfig {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = b.signer.now()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pricing = append(b.pricing, p)
	return p
}

func (b *Backend) listExceptions(w http.ResponseWriter, r *http.Request, _ *account, _ *accessClaims) {
	q := r.URL.Query()
	status := motopay.ExceptionStatus(q.Get("status"))
	priority := motopay.ExceptionPriority(q.Get("priority"))

	b.mu.Lock()
	page := motopay.ExceptionPage{Exceptions: []motopay.Exception{}}
	for _, e := range b.exceptions {
		if status != "" && e.Status != status {
			continue
		}
		if priority != "" && e.Priority != priority {
			continue
		}
		page.Exceptions = append(page.Exceptions, e)
	}
	b.mu.Unlock()

	page.Page = motopay.Page{Total: len(page.Exceptions), Page: 1, TotalPages: 1}
	writeData(w, http.StatusOK, "", page)
}

func (b *Backend) listPricing(w http.ResponseWriter, _ *http.Request, _ *account, _ *accessClaims) {
	b.mu.Lock()
	list := append([]motopay.PricingConfig{}, b.pricing...)
	b.mu.Unlock()
	writeData(w, http.StatusOK, "", list)
}

func (b *Backend) updatePricing(w http.ResponseWriter, r *http.Request, _ *account, _ *accessClaims) {
	var req motopay.UpdatePricingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Price != nil && *req.Price < 0 {
		writeValidation(w, map[string][]string{"price": {"must not be negative"}})
		return
	}

	b.editPricing(w, r.PathValue("id"), "Pricing updated", func(p *motopay.PricingConfig) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.ServiceFee != nil {
			p.ServiceFee = *req.ServiceFee
		}
	})
}

func (b *Backend) togglePricing(w http.ResponseWriter, r *http.Request, _ *account, _ *accessClaims) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	b.editPricing(w, r.PathValue("id"), "Pricing status updated", func(p *motopay.PricingConfig) {
		p.IsActive = req.IsActive
	})
}

func (b *Backend) editPricing(w http.ResponseWriter, id, message string, edit func(*motopay.PricingConfig)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.pricing {
		if b.pricing[i].ID == id {
			edit(&b.pricing[i])
			b.pricing[i].UpdatedAt = b.signer.now()
			writeData(w, http.StatusOK, message, b.pricing[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Pricing not found")
}
