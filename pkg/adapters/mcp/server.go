package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/pkg/codec"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MatchResponse is the structured result of the find_matching tool.
type MatchResponse struct {
	Document  string  `json:"document" jsonschema_description:"Matched set in the {\"datas\": [...]} format"`
	Matched   int     `json:"matched" jsonschema_description:"Number of model matrices found in the space set"`
	Unmatched int     `json:"unmatched" jsonschema_description:"Number of model matrices with no counterpart"`
	Epsilon   float32 `json:"epsilon" jsonschema_description:"Per-component tolerance used"`
}

// DecodeResponse is the structured result of the decode_matrices tool.
type DecodeResponse struct {
	Count     int         `json:"count" jsonschema_description:"Number of matrices in the document"`
	Positions [][3]float32 `json:"positions" jsonschema_description:"Translation column of every matrix, in order"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Match(ctx context.Context, model, space domain.MatrixSet) *domain.Report
	MatchWithEpsilon(ctx context.Context, model, space domain.MatrixSet, eps float32) (*domain.Report, error)
	Load(ctx context.Context, path string) (domain.MatrixSet, error)
	Epsilon() float32
}

// Server wraps the posematch Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("posematch-mcp", strings.TrimSpace(posematch.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	matchTool := mcp.NewTool("find_matching",
		mcp.WithDescription("Return the model matrices that equal some space matrix within epsilon."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model set: JSON array of matrix entries or a {\"datas\": [...]} document")),
		mcp.WithString("space", mcp.Required(), mcp.Description("Space set, same format as model")),
		mcp.WithString("epsilon", mcp.Description("Per-component tolerance (optional, decimal string)")),
		mcp.WithOutputSchema[MatchResponse](),
	)
	s.mcpServer.AddTool(matchTool, mcp.NewStructuredToolHandler(s.handleFindMatching))

	decodeTool := mcp.NewTool("decode_matrices",
		mcp.WithDescription("Parse a matrix document and list the position of every matrix."),
		mcp.WithString("document", mcp.Required(), mcp.Description("JSON array of matrix entries or a {\"datas\": [...]} document")),
		mcp.WithOutputSchema[DecodeResponse](),
	)
	s.mcpServer.AddTool(decodeTool, mcp.NewStructuredToolHandler(s.handleDecode))

	s.mcpServer.AddTool(mcp.NewTool("load_resource",
		mcp.WithDescription("Load a matrix resource through the configured store and return it as a document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Resource path, extension optional")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, _ := request.GetArguments()["path"].(string)
		set, err := s.engine.Load(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		data, err := codec.Encode(set)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleFindMatching(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MatchResponse, error) {
	modelStr, _ := args["model"].(string)
	spaceStr, _ := args["space"].(string)

	model, err := codec.Decode([]byte(modelStr))
	if err != nil {
		return MatchResponse{}, fmt.Errorf("invalid model: %w", err)
	}
	space, err := codec.Decode([]byte(spaceStr))
	if err != nil {
		return MatchResponse{}, fmt.Errorf("invalid space: %w", err)
	}

	var report *domain.Report
	if epsStr, ok := args["epsilon"].(string); ok && epsStr != "" {
		eps, err := strconv.ParseFloat(epsStr, 32)
		if err != nil {
			return MatchResponse{}, fmt.Errorf("%w: %q", domain.ErrInvalidEpsilon, epsStr)
		}
		report, err = s.engine.MatchWithEpsilon(ctx, model, space, float32(eps))
		if err != nil {
			return MatchResponse{}, err
		}
	} else {
		report = s.engine.Match(ctx, model, space)
	}

	doc, err := codec.Encode(report.Matched)
	if err != nil {
		return MatchResponse{}, fmt.Errorf("encode failed: %w", err)
	}

	return MatchResponse{
		Document:  string(doc),
		Matched:   len(report.Matched),
		Unmatched: len(report.Unmatched),
		Epsilon:   report.Epsilon,
	}, nil
}

func (s *Server) handleDecode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DecodeResponse, error) {
	docStr, _ := args["document"].(string)
	if docStr == "" {
		return DecodeResponse{}, errors.New("document is required")
	}

	set, err := codec.Decode([]byte(docStr))
	if err != nil {
		slog.Warn("MCP decode_matrices: document rejected", "error", err, "size", len(docStr))
		return DecodeResponse{}, err
	}

	positions := make([][3]float32, len(set))
	for i, t := range set {
		positions[i] = [3]float32(t.Position())
	}
	return DecodeResponse{Count: len(set), Positions: positions}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("posematch://info", "Matcher settings",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(map[string]any{
			"version": strings.TrimSpace(posematch.Version),
			"epsilon": s.engine.Epsilon(),
			"fields":  codec.FieldNames(),
		})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "posematch://info",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
