package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Solver defines the interface required by the MCP server.
type Solver interface {
	Solve(ctx context.Context, req domain.Request) (*domain.Response, error)
	Info() domain.Info
}

// Server wraps the solver service and exposes it as an MCP Server.
type Server struct {
	solver    Solver
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(solver Solver) *Server {
	info := solver.Info()
	s := &Server{
		solver:    solver,
		mcpServer: server.NewMCPServer("waterjug-mcp", info.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: solve_water_jug
	solveTool := mcp.NewTool("solve_water_jug",
		mcp.WithDescription("Find the shortest sequence of fill, empty and transfer operations that leaves the target amount in either jug."),
		mcp.WithNumber("x_capacity", mcp.Required(), mcp.Description("Capacity of jug X (positive integer)")),
		mcp.WithNumber("y_capacity", mcp.Required(), mcp.Description("Capacity of jug Y (positive integer)")),
		mcp.WithNumber("z_amount_wanted", mcp.Required(), mcp.Description("Target amount (non-negative integer, at most the larger capacity)")),
		mcp.WithOutputSchema[domain.Response](),
	)
	s.mcpServer.AddTool(solveTool, mcp.NewStructuredToolHandler(s.handleSolve))

	// TOOL: water_jug_info
	s.mcpServer.AddTool(mcp.NewTool("water_jug_info",
		mcp.WithDescription("Describe the water jug service and its HTTP endpoints."),
	), s.handleInfo)
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Response, error) {
	var req domain.Request
	var problems []string
	params := []struct {
		name string
		dest *int
	}{
		{"x_capacity", &req.XCapacity},
		{"y_capacity", &req.YCapacity},
		{"z_amount_wanted", &req.ZAmountWanted},
	}
	for _, p := range params {
		v, err := intArg(args, p.name)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		*p.dest = v
	}
	if len(problems) > 0 {
		return domain.Response{}, fmt.Errorf("invalid arguments: %s", strings.Join(problems, "; "))
	}

	resp, err := s.solver.Solve(ctx, req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return domain.Response{}, fmt.Errorf("%s: %s", domain.MsgValidationError, strings.Join(vErr.Messages, "; "))
		}
		slog.Error("MCP Solve failed", "error", err)
		return domain.Response{}, errors.New("an error occurred while processing your request")
	}
	return *resp, nil
}

func (s *Server) handleInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.solver.Info())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("info failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// intArg reads an integral JSON number argument.
func intArg(args map[string]interface{}, name string) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}
