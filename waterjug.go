package waterjug

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/aretw0/waterjug/pkg/solver"
	"golang.org/x/sync/singleflight"
)

// Version is the service version reported by informational endpoints.
const Version = "1.0.0"

// Name is the human readable service name.
const Name = "Water Jug Challenge API"

// SolveFunc computes a solve result. solver.Solve is the default.
type SolveFunc func(capacityX, capacityY, target int) solver.Result

// Service is the high-level entry point for the water jug solver.
// It validates requests, consults the cache and coalesces concurrent
// identical solves. Safe for concurrent use.
type Service struct {
	solve   SolveFunc
	cache   ports.Cache
	metrics *observability.Metrics
	logger  *slog.Logger
	group   singleflight.Group
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithCache enables response caching. Without it every request is solved.
func WithCache(c ports.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMetrics registers Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSolver replaces the solving function, mainly for tests.
func WithSolver(fn SolveFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.solve = fn
		}
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		solve:  solver.Solve,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve validates req and returns the shortest solution or an unsolvable response.
// Validation failures are returned as *domain.ValidationError. When ctx ends
// first the error wraps domain.ErrTimeout; the search itself keeps running and
// its result is still cached. Unexpected failures are logged and reported as
// domain.ErrInternal.
func (s *Service) Solve(ctx context.Context, req domain.Request) (*domain.Response, error) {
	logger := s.logger.With("x", req.XCapacity, "y", req.YCapacity, "z", req.ZAmountWanted)

	if err := req.Validate(); err != nil {
		logger.Warn("Validation failed for water jug problem", "error", err)
		s.metrics.ObserveOutcome(observability.OutcomeInvalid)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, s.timeout(logger, err)
	}

	key := req.Key()
	if cached := s.lookup(ctx, logger, key); cached != nil {
		logger.Info("Serving cached result", "solvable", cached.IsSolvable)
		s.metrics.ObserveOutcome(outcome(cached))
		return cached, nil
	}

	logger.Info("Attempting to solve water jug problem")
	// The result is shared by every waiting caller, so storing it must not
	// depend on the first caller staying around.
	storeCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		resp, err := s.compute(req)
		if err != nil {
			return nil, err
		}
		s.store(storeCtx, logger, key, resp)
		return resp, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, s.timeout(logger, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		logger.Error("Unexpected error occurred while solving water jug problem", "error", res.Err)
		s.metrics.ObserveOutcome(observability.OutcomeError)
		return nil, domain.ErrInternal
	}

	resp := res.Val.(*domain.Response)
	if res.Shared {
		resp = resp.Clone()
	}
	if resp.IsSolvable {
		logger.Info("Water jug problem solved successfully", "steps", resp.TotalSteps)
	} else {
		logger.Info("Water jug problem has no solution", "reason", resp.Message)
	}
	s.metrics.ObserveOutcome(outcome(resp))
	return resp, nil
}

func (s *Service) timeout(logger *slog.Logger, cause error) error {
	logger.Warn("Gave up waiting for water jug solution", "error", cause)
	s.metrics.ObserveOutcome(observability.OutcomeTimeout)
	return fmt.Errorf("%w: %w", domain.ErrTimeout, cause)
}

// compute runs the solver, turning a panic into an error.
func (s *Service) compute(req domain.Request) (resp *domain.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("solver panic: %v", r)
		}
	}()

	start := time.Now()
	res := s.solve(req.XCapacity, req.YCapacity, req.ZAmountWanted)
	s.metrics.ObserveSolve(time.Since(start), len(res.Steps))

	return toResponse(res), nil
}

func (s *Service) lookup(ctx context.Context, logger *slog.Logger, key string) *domain.Response {
	if s.cache == nil {
		return nil
	}
	resp, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("Cache lookup failed", "error", err)
		}
		s.metrics.ObserveCache(false)
		return nil
	}
	s.metrics.ObserveCache(true)
	resp.FromCache = true
	return resp
}

func (s *Service) store(ctx context.Context, logger *slog.Logger, key string, resp *domain.Response) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		logger.Warn("Cache store failed", "error", err)
	}
}

// Info returns static metadata about the service.
func (s *Service) Info() domain.Info {
	return domain.Info{
		Name:        Name,
		Version:     Version,
		Description: "Solves the classic water jug riddle using optimal algorithms",
		Endpoints: map[string]string{
			"solve":  "POST /api/waterjug/solve",
			"info":   "GET /api/waterjug/info",
			"health": "GET /health",
		},
		SampleRequest: domain.Request{XCapacity: 2, YCapacity: 10, ZAmountWanted: 4},
	}
}

func toResponse(res solver.Result) *domain.Response {
	if !res.Solvable {
		return &domain.Response{
			Message:    domain.MsgNoSolution,
			TotalSteps: 0,
		}
	}
	return &domain.Response{
		Solution:   res.Steps,
		IsSolvable: true,
		TotalSteps: len(res.Steps),
	}
}

func outcome(resp *domain.Response) string {
	if resp.IsSolvable {
		return observability.OutcomeSolved
	}
	return observability.OutcomeUnsolvable
}
