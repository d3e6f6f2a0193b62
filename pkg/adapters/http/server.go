package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes bounds the size of solve request bodies.
const maxBodyBytes = 1 << 20

// Solver defines the interface of the service behind the HTTP API.
type Solver interface {
	Solve(ctx context.Context, req domain.Request) (*domain.Response, error)
	Info() domain.Info
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server serves the water jug API.
type Server struct {
	Solver      Solver
	Logger      *slog.Logger
	Environment string
	Metrics     http.Handler
	Checks      map[string]HealthCheck
	Timeout     time.Duration
	now         func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithEnvironment sets the environment name reported by /health.
func WithEnvironment(env string) Option {
	return func(s *Server) {
		s.Environment = env
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithHealthCheck adds a named dependency check to /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) {
		s.Checks[name] = check
	}
}

// WithRequestTimeout bounds how long an API request may take. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.Timeout = d
	}
}

// WithClock sets the time source for /health timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewHandler creates a new HTTP handler for the solver.
func NewHandler(solver Solver, opts ...Option) http.Handler {
	server := &Server{
		Solver:      solver,
		Logger:      slog.Default(),
		Environment: "Production",
		Checks:      make(map[string]HealthCheck),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(server.logRequests)
	r.Use(server.recoverPanics)
	r.Use(enableCORS)

	r.Get("/", server.GetRoot)
	r.Get("/health", server.GetHealth)
	r.Route("/api/waterjug", func(r chi.Router) {
		if server.Timeout > 0 {
			r.Use(middleware.Timeout(server.Timeout))
		}
		r.Post("/solve", server.Solve)
		r.Get("/solve", server.SolveQuery)
		r.Get("/info", server.GetInfo)
	})

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			server.Logger.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverPanics turns a handler panic into a generic JSON 500.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.Logger.Error("Handler panic", "panic", fmt.Sprint(rec), "path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()))
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Water Jug Challenge API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// Solve handles the POST /api/waterjug/solve request.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSolveRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.Logger.Warn("Solve: Invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}
	s.solve(w, r, req)
}

// SolveQuery handles the GET /api/waterjug/solve?x=&y=&z= request.
// Parameters are int32, matching the SolveRequest body schema.
func (s *Server) SolveQuery(w http.ResponseWriter, r *http.Request) {
	var x, y, z int32
	query := r.URL.Query()
	params := []struct {
		name string
		dest *int32
	}{
		{"x", &x},
		{"y", &y},
		{"z", &z},
	}
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, true, p.name, query, p.dest); err != nil {
			s.Logger.Warn("SolveQuery: Invalid parameter", "param", p.name, "error", err)
			writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Invalid query parameter",
				Message: fmt.Sprintf("Invalid format for parameter %s: %v", p.name, err),
			})
			return
		}
	}
	s.solve(w, r, domain.Request{
		XCapacity:     int(x),
		YCapacity:     int(y),
		ZAmountWanted: int(z),
	})
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request, req domain.Request) {
	resp, err := s.Solver.Solve(r.Context(), req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:            domain.MsgValidationError,
				Message:          domain.MsgInvalidInput,
				ValidationErrors: vErr.Messages,
			})
			return
		}
		if errors.Is(err, domain.ErrTimeout) {
			s.Logger.Warn("Solve timed out", "error", err, "request_id", middleware.GetReqID(r.Context()))
			writeJSON(w, http.StatusServiceUnavailable, domain.ErrorResponse{
				Error:   "Service unavailable",
				Message: "The request took too long to process",
			})
			return
		}
		s.Logger.Error("Solve failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeInternalError(w)
		return
	}

	if resp.FromCache {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeSolveRequest parses the body and checks it against the SolveRequest schema.
// Field values are range-checked later by the service so that every rule
// violation can be reported together.
func decodeSolveRequest(body io.Reader) (domain.Request, error) {
	var req domain.Request
	data, err := io.ReadAll(body)
	if err != nil {
		return req, fmt.Errorf("failed to read body: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return req, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := validateSchema("SolveRequest", raw); err != nil {
		return req, fmt.Errorf("schema violation: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed request: %w", err)
	}
	return req, nil
}

// GetInfo handles the GET /api/waterjug/info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.Logger.Info("API info requested")
	writeJSON(w, http.StatusOK, s.Solver.Info())
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "Healthy",
		Timestamp:   s.now().UTC(),
		Version:     s.Solver.Info().Version,
		Environment: s.Environment,
	}

	status := http.StatusOK
	if len(s.Checks) > 0 {
		resp.Checks = make(map[string]string, len(s.Checks))
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, check := range s.Checks {
			if err := check(ctx); err != nil {
				s.Logger.Warn("Health check failed", "check", name, "error", err)
				resp.Checks[name] = "Unhealthy"
				resp.Status = "Unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "Healthy"
		}
	}
	writeJSON(w, status, resp)
}

// GetRoot handles the GET / request.
func (s *Server) GetRoot(w http.ResponseWriter, r *http.Request) {
	info := s.Solver.Info()
	writeJSON(w, http.StatusOK, map[string]string{
		"message":       info.Name,
		"documentation": "/swagger",
		"health":        "/health",
		"version":       info.Version,
	})
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
		Error:   "Internal server error",
		Message: "An error occurred while processing your request",
	})
}
