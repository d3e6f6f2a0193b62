package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/aretw0/waterjug/internal/presentation/graph"
	"github.com/aretw0/waterjug/internal/presentation/tui"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type outputMode int

const (
	outputPlain outputMode = iota
	outputMarkdown
	outputJSON
	outputMermaid
)

var solveCmd = &cobra.Command{
	Use:   "solve X Y Z",
	Short: "Solve one puzzle and print the steps",
	Long: `Solves the puzzle for jug capacities X and Y and target amount Z.

On a terminal the solution is rendered as a table. Use --plain for pipes,
--json for the same payload the HTTP API returns and --mermaid for a
flowchart of the solution path.`,
	Example: "  waterjug solve 2 10 4\n  waterjug solve 3 5 4 --json",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseRequest(args)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			cfg.Log.Level = slog.LevelWarn.String()
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		mode := outputPlain
		if isTerminal(out) {
			mode = outputMarkdown
		}
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			mode = outputPlain
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			mode = outputJSON
		}
		if diagram, _ := cmd.Flags().GetBool("mermaid"); diagram {
			mode = outputMermaid
		}

		if mode == outputMarkdown {
			tui.PrintBanner(out)
		}
		return runSolve(cmd.Context(), a.service, out, req, mode)
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().Bool("json", false, "Print the response as JSON")
	solveCmd.Flags().Bool("plain", false, "Print plain text even on a terminal")
	solveCmd.Flags().Bool("mermaid", false, "Print the solution path as a Mermaid flowchart")
	solveCmd.MarkFlagsMutuallyExclusive("json", "plain", "mermaid")
	solveCmd.Flags().BoolP("verbose", "v", false, "Log service activity to stderr")
}

// parseRequest reads the X Y Z positional arguments.
func parseRequest(args []string) (domain.Request, error) {
	var req domain.Request
	dests := []*int{&req.XCapacity, &req.YCapacity, &req.ZAmountWanted}
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return req, fmt.Errorf("argument %d (%q) is not an integer", i+1, arg)
		}
		*dests[i] = v
	}
	return req, nil
}

type solver interface {
	Solve(ctx context.Context, req domain.Request) (*domain.Response, error)
}

// runSolve solves req and writes the result in the requested mode.
// Validation failures are printed and returned so the process exits non-zero.
func runSolve(ctx context.Context, svc solver, w io.Writer, req domain.Request, mode outputMode) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := svc.Solve(ctx, req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) && mode == outputJSON {
			if encErr := encodeJSON(w, domain.ErrorResponse{
				Error:            domain.MsgValidationError,
				Message:          domain.MsgInvalidInput,
				ValidationErrors: vErr.Messages,
			}); encErr != nil {
				return encErr
			}
		}
		return err
	}

	switch mode {
	case outputJSON:
		return encodeJSON(w, resp)
	case outputMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(resp))
		return err
	case outputMarkdown:
		render := tui.NewRenderer()
		out, err := render(tui.SolutionMarkdown(req, resp))
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		_, err := io.WriteString(w, tui.SolutionText(resp))
		return err
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
