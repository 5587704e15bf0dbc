// Package mcp exposes the optimizer as an MCP server, so AI agents can
// trigger optimization runs and inspect the passive tree over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	poe2opt "github.com/User-dev-volt/poe2-optimizer-v6-sub001"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// OptimizeResponse is the structured output of the optimize_build tool.
type OptimizeResponse struct {
	Result         *domain.OptimizationResult `json:"result" jsonschema_description:"The best-found build and how the run terminated"`
	ImprovementPct float64                    `json:"improvement_pct" jsonschema_description:"Relative improvement over the baseline, in percent"`
}

// ValidateResponse is the structured output of the validate_allocation tool.
type ValidateResponse struct {
	Valid  bool   `json:"valid" jsonschema_description:"Whether every allocated node is reachable from the class start"`
	Detail string `json:"detail,omitempty" jsonschema_description:"Explanation when the allocation is invalid"`
}

// Server wraps the Optimizer and exposes it as an MCP Server.
type Server struct {
	opt       *poe2opt.Optimizer
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(opt *poe2opt.Optimizer) *Server {
	s := &Server{
		opt:       opt,
		mcpServer: server.NewMCPServer("poe2opt-mcp", poe2opt.Version),
	}
	s.registerTools()
	s.registerResources()
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
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

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

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: optimize_build
	optimizeTool := mcp.NewTool("optimize_build",
		mcp.WithDescription("Run the passive-tree optimizer for a build and return the best-found allocation."),
		mcp.WithString("class", mcp.Required(), mcp.Description("Character class whose start node anchors the tree")),
		mcp.WithString("metric", mcp.Required(), mcp.Description("Metric to maximize: dps, ehp or balanced")),
		mcp.WithNumber("level", mcp.Description("Character level, used to derive the point budget when unallocated is omitted")),
		mcp.WithNumber("unallocated", mcp.Description("Unallocated passive points available (optional)")),
		mcp.WithString("respec", mcp.Description("Respec points available: a number or \"unlimited\" (default 0)")),
		mcp.WithString("allocation", mcp.Description("JSON array of currently allocated node IDs (optional)")),
		mcp.WithString("run_id", mcp.Description("Run label for persistence (optional)")),
		mcp.WithOutputSchema[OptimizeResponse](),
	)
	s.mcpServer.AddTool(optimizeTool, mcp.NewStructuredToolHandler(s.handleOptimize))

	// TOOL: validate_allocation
	validateTool := mcp.NewTool("validate_allocation",
		mcp.WithDescription("Check whether an allocation is structurally legal for a class."),
		mcp.WithString("class", mcp.Required(), mcp.Description("Character class")),
		mcp.WithString("allocation", mcp.Required(), mcp.Description("JSON array of allocated node IDs")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: tree_stats
	s.mcpServer.AddTool(mcp.NewTool("tree_stats",
		mcp.WithDescription("Get passive tree summary: node count, edge count, classes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tree, err := s.opt.Tree(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("tree load failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(map[string]any{
			"nodes":   tree.NodeCount(),
			"edges":   tree.EdgeCount(),
			"classes": tree.Classes(),
		})
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleOptimize(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (OptimizeResponse, error) {
	class, _ := args["class"].(string)
	metricName, _ := args["metric"].(string)

	metric, err := domain.ParseMetricKind(metricName)
	if err != nil {
		return OptimizeResponse{}, err
	}

	alloc, err := parseAllocation(args)
	if err != nil {
		return OptimizeResponse{}, err
	}

	level := 0
	if v, ok := args["level"].(float64); ok {
		level = int(v)
	}
	unallocated := domain.UnallocatedForLevel(level, alloc.Len())
	if v, ok := args["unallocated"].(float64); ok {
		unallocated = int(v)
	}

	respec := domain.LimitedRespec(0)
	if v, ok := args["respec"].(string); ok && v != "" {
		if v == "unlimited" {
			respec = domain.UnlimitedRespec()
		} else {
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
				return OptimizeResponse{}, fmt.Errorf("respec must be a number or %q, got %q", "unlimited", v)
			}
			respec = domain.LimitedRespec(n)
		}
	}
	budget, err := domain.NewBudgetState(unallocated, respec)
	if err != nil {
		return OptimizeResponse{}, err
	}

	runID, _ := args["run_id"].(string)

	result, err := s.opt.Optimize(ctx, domain.RunInput{
		RunID:  runID,
		Build:  domain.BuildContext{Class: class, Level: level, Allocation: alloc},
		Budget: budget,
		Metric: metric,
	})
	if err != nil {
		return OptimizeResponse{}, fmt.Errorf("optimize failed: %w", err)
	}

	return OptimizeResponse{
		Result:         result,
		ImprovementPct: result.ImprovementPct(),
	}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	class, _ := args["class"].(string)

	alloc, err := parseAllocation(args)
	if err != nil {
		return ValidateResponse{}, err
	}

	tree, err := s.opt.Tree(ctx)
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("tree load failed: %w", err)
	}

	ok, err := tree.ValidateConnectivity(alloc, class)
	if err != nil {
		return ValidateResponse{}, err
	}
	if !ok {
		return ValidateResponse{
			Valid:  false,
			Detail: fmt.Sprintf("allocation is not fully reachable from the %s start node", class),
		}, nil
	}
	return ValidateResponse{Valid: true}, nil
}

func parseAllocation(args map[string]interface{}) (domain.Allocation, error) {
	allocStr, ok := args["allocation"].(string)
	if !ok || allocStr == "" {
		return domain.NewAllocation(), nil
	}
	var ids []domain.NodeID
	if err := json.Unmarshal([]byte(allocStr), &ids); err != nil {
		return nil, fmt.Errorf("allocation must be a JSON array of node IDs: %w", err)
	}
	return domain.NewAllocation(ids...), nil
}

func (s *Server) registerResources() {
	// EXPOSE: poe2opt://tree
	s.mcpServer.AddResource(mcp.NewResource("poe2opt://tree", "Passive Tree Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tree, err := s.opt.Tree(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load tree: %w", err)
		}
		jsonBytes, _ := json.Marshal(tree.Nodes())

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "poe2opt://tree",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
