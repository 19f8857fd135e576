package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/dcasim/internal/domain"
)

// simulateRequest es el payload de POST /api/simulate. Las fechas viajan
// como strings y se parsean aquí; el dominio trabaja con time.Time.
type simulateRequest struct {
	Allocations       []domain.Allocation `json:"allocations"`
	StartDate         string              `json:"startDate"`
	EndDate           string              `json:"endDate"`
	MonthlyInvestment float64             `json:"monthlyInvestment"`
	InitialInvestment float64             `json:"initialInvestment"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Index Fund DCA Simulator API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"indices":  "GET /api/indices",
			"simulate": "POST /api/simulate",
			"health":   "GET /api/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleIndices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"indices": domain.SupportedIndices(),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var payload simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}

	req, err := payload.toDomain()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.sim.Simulate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// toDomain convierte el payload a domain.SimulationRequest, parseando las
// fechas. La validación de invariantes la hace el motor, no el transporte.
func (p simulateRequest) toDomain() (domain.SimulationRequest, error) {
	start, err := parseDate(p.StartDate)
	if err != nil {
		return domain.SimulationRequest{}, fmt.Errorf("invalid startDate %q", p.StartDate)
	}
	end, err := parseDate(p.EndDate)
	if err != nil {
		return domain.SimulationRequest{}, fmt.Errorf("invalid endDate %q", p.EndDate)
	}
	return domain.SimulationRequest{
		Allocations:       p.Allocations,
		StartDate:         start,
		EndDate:           end,
		MonthlyInvestment: p.MonthlyInvestment,
		InitialInvestment: p.InitialInvestment,
	}, nil
}

// parseDate acepta fecha simple o datetime RFC3339, como hacía el frontend.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// writeError mapea los errores del motor a status codes: validación → 400,
// datos no disponibles → 502, el resto → 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidAllocation),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		slog.Error("simulation failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "err", err)
	}
}
