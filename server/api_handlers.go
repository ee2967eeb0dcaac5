package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/motopay"
)

const contentTypeJSON = "application/json"

// jsonEnvelope mirrors the backend envelope so browser code reads the same
// shape from the portal as it would from the backend.
type jsonEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// HealthHandler reports the portal is up. It does not call the backend.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, jsonEnvelope{
			Success: true,
			Data: map[string]string{
				"status": "ok",
				"app":    s.config.GetAppName(),
				"env":    s.env,
			},
		})
	}
}

// VehicleLookupHandler passes a public vehicle lookup through to the backend
// using the caller's browser session.
func (s *Server) VehicleLookupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		var req motopay.VehicleLookupRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeJSON(w, r, http.StatusBadRequest, jsonEnvelope{Message: "Invalid request body"})
			return
		}
		req.Identifier = strings.TrimSpace(req.Identifier)
		if req.Identifier == "" {
			writeJSON(w, r, http.StatusBadRequest, jsonEnvelope{Message: "An identifier is required"})
			return
		}
		if req.Type == "" {
			req.Type = motopay.LookupPlate
		}

		sess := browserSessionFrom(r.Context())
		// the page shows the result inline, so queued notices would only
		// resurface later on an unrelated page
		defer sess.Notices.Drain()

		resp, err := sess.Services.Vehicles.LookupVehicle(r.Context(), req)
		if err != nil {
			status, message := http.StatusBadGateway, "Lookup failed"
			var apiErr *api.Error
			if errors.As(err, &apiErr) {
				message = apiErr.Message
				if apiErr.StatusCode != 0 {
					status = apiErr.StatusCode
				}
			}
			writeJSON(w, r, status, jsonEnvelope{Message: message})
			return
		}

		writeJSON(w, r, http.StatusOK, jsonEnvelope{
			Success: resp.Success,
			Message: resp.Message,
			Data:    resp.Data,
		})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Msg("failed to write JSON response")
	}
}
