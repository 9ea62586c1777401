// Package dashboard serves the analytics dashboard: an HTML shell plus a
// JSON API over the report service.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/astrocoach/insight/internal/models"
	"github.com/astrocoach/insight/internal/report"
	"github.com/astrocoach/insight/internal/simulate"
)

// Server serves the dashboard HTML and handles analysis API requests.
type Server struct {
	svc        *report.Service
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a dashboard server over svc.
func NewServer(svc *report.Service) *Server {
	return &Server{svc: svc}
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Handler returns the dashboard's HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/overview", s.handleOverview)
	mux.HandleFunc("/api/trend", s.handleTrend)
	mux.HandleFunc("/api/drivers", s.handleDrivers)
	mux.HandleFunc("/api/targets", s.handleTargets)
	mux.HandleFunc("/api/churn", s.handleChurn)
	mux.HandleFunc("/api/simulate", s.handleSimulate)
	return mux
}

// ListenAndServe starts the HTTP server and blocks until the context is
// cancelled. addr may be empty to let the OS pick a free localhost port.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "localhost:0"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: s.Handler()}
	s.mu.Unlock()

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Overview(r.Context())
	if err != nil {
		http.Error(w, "overview error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, ov)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trend, err := s.svc.Trend(r.Context(), from, to)
	if err != nil {
		http.Error(w, "trend error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, trend)
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	outcome := outcomeParam(r)
	n, err := intParam(r, "n", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	drivers, err := s.svc.Drivers(r.Context(), outcome, n)
	if err != nil {
		http.Error(w, "drivers error: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, drivers)
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r, "threshold", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	targets, err := s.svc.Targets(r.Context(), threshold, limit)
	if err != nil {
		http.Error(w, "targets error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, targets)
}

func (s *Server) handleChurn(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r, "threshold", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	atRisk, err := s.svc.AtRisk(r.Context(), threshold)
	if err != nil {
		http.Error(w, "churn error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, atRisk)
}

// simulateRequest is the POST body for /api/simulate.
type simulateRequest struct {
	Outcome       string   `json:"outcome"`
	Selected      []string `json:"selected"`
	UpliftPercent float64  `json:"uplift_percent"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.svc.Simulate(r.Context(), models.Outcome(req.Outcome), simulate.Request{
		Selected:      req.Selected,
		UpliftPercent: req.UpliftPercent,
	})
	if err != nil {
		if errors.Is(err, simulate.ErrEmptySelection) || errors.Is(err, report.ErrUpliftRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "simulate error: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, rep)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD)", name, v)
	}
	return t, nil
}

func outcomeParam(r *http.Request) models.Outcome {
	if v := r.URL.Query().Get("outcome"); v != "" {
		return models.Outcome(v)
	}
	return models.OutcomeConversion
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}
