package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/netpbm-tools-mcp/internal/imaging"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
	"github.com/ironsheep/netpbm-tools-mcp/internal/session"
	"github.com/ironsheep/netpbm-tools-mcp/internal/workspace"
)

// Server handles MCP protocol communication
type Server struct {
	sessions    *session.Manager
	store       *workspace.Store
	cache       *imaging.Cache
	jpegQuality int
	version     string
	log         *slog.Logger
}

// Options configures a Server.
type Options struct {
	// Store resolves, loads and saves Netpbm files.
	Store *workspace.Store

	// Decode is used by the inspection cache.
	Decode netpbm.DecodeOptions

	// JPEGQuality applies to netpbm_export with a .jpg or .jpeg target.
	JPEGQuality int

	// Version is reported in the initialize handshake.
	Version string

	Logger *slog.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 90
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{
		sessions:    session.NewManager(opts.Store, opts.Store, logger),
		store:       opts.Store,
		cache:       imaging.NewCache(opts.Decode),
		jpegQuality: opts.JPEGQuality,
		version:     opts.Version,
		log:         logger,
	}
}

// Run serves requests from stdin and writes responses to stdout until stdin
// is closed or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes each response
// as one line to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers. Notifications
// (any notifications/ method, or a message without an id) get no response.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	if req.ID == nil || strings.HasPrefix(req.Method, "notifications/") {
		s.log.Debug("notification received", "method", req.Method)
		return nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "netpbm-tools-mcp",
				"version": s.version,
			},
		},
	}
}

