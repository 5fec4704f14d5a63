package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
)

type Server struct {
	populator ports.Populator
	repo      ports.ParticipantRepository
	log       *zap.Logger
}

func New(populator ports.Populator, repo ports.ParticipantRepository, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{populator: populator, repo: repo, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Post("/api/market/populate", s.handlePopulate)
	r.Get("/api/market/stats", s.handleStats)
	return r
}

type populateRequest struct {
	Commodity string `json:"commodity"`
	Count     int    `json:"count"`
}

type populateResponse struct {
	Success    bool   `json:"success"`
	Added      int    `json:"added"`
	Duplicates int    `json:"duplicates,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePopulate(w http.ResponseWriter, r *http.Request) {
	var req populateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, populateResponse{Error: "invalid request body"})
		return
	}
	if _, ok := domain.CommodityLabel(req.Commodity); !ok {
		writeJSON(w, http.StatusBadRequest, populateResponse{Error: "unsupported commodity"})
		return
	}
	if req.Count < 1 {
		writeJSON(w, http.StatusBadRequest, populateResponse{Error: "count must be positive"})
		return
	}

	result, err := s.populator.Run(r.Context(), req.Commodity, req.Count)
	resp := populateResponse{
		Success:    err == nil,
		Added:      result.Added,
		Duplicates: result.Duplicates,
	}
	if err != nil {
		// Partial progress still gets reported; added=0 with success=true is
		// a valid outcome, an aborted run is not.
		s.log.Warn("populate run failed",
			zap.String("commodity", req.Commodity), zap.Error(err))
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type statsResponse struct {
	Commodity string `json:"commodity"`
	Count     int    `json:"count"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	commodity := r.URL.Query().Get("commodity")
	if _, ok := domain.CommodityLabel(commodity); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported commodity"})
		return
	}
	count, err := s.repo.CountByCommodity(r.Context(), commodity)
	if err != nil {
		s.log.Error("stats query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Commodity: commodity, Count: count})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
