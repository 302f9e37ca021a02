// Package mcp exposes Miro whiteboard operations as MCP tools.
//
// The server is built on the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp),
// which handles tools/list and tools/call dispatch and the stdio transport.
// Tool handlers forward to the Miro REST client and relay responses unchanged
// in shape.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mirod/internal/miro"
)

// errInvalidParams marks argument validation failures caught before any
// upstream call is made.
var errInvalidParams = errors.New("invalid params")

// Session is the credential surface the auth tools use.
type Session interface {
	AuthorizationURL() string
	Exchange(ctx context.Context, code string) error
}

// BoardClient is the Miro API surface the board/shape/group tools call.
type BoardClient interface {
	GetBoard(ctx context.Context, boardID string) (map[string]any, error)
	CreateShape(ctx context.Context, boardID string, params miro.ShapeParams) (map[string]any, error)
	UpdateShape(ctx context.Context, boardID, itemID string, update miro.ShapeUpdate) (map[string]any, error)
	DeleteShape(ctx context.Context, boardID, itemID string) error
	GroupItems(ctx context.Context, boardID string, itemIDs []string) (map[string]any, error)
	UngroupItems(ctx context.Context, boardID, groupID string) (int, error)
}

// Server is the MCP server exposing the Miro tool surface.
type Server struct {
	mcp      *mcp.Server
	session  Session
	client   BoardClient
	registry *ToolRegistry
	metrics  *Metrics
	logger   *zap.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "mirod")
	Name string

	// Version is the server version (default: "dev")
	Version string

	// Logger for structured logging
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "mirod",
		Version: "dev",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server wired to the given session and client.
// Tool registration happens here, in fixed group order: auth, board, shape,
// group. A registration conflict is fatal.
func NewServer(cfg *Config, session Session, client BoardClient) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if client == nil {
		return nil, fmt.Errorf("board client is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		session:  session,
		client:   client,
		registry: NewToolRegistry(),
		metrics:  NewMetrics(cfg.Logger),
		logger:   cfg.Logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// registerTools registers all tool groups in fixed order.
func (s *Server) registerTools() error {
	if err := s.registerAuthTools(); err != nil {
		return err
	}
	if err := s.registerBoardTools(); err != nil {
		return err
	}
	if err := s.registerShapeTools(); err != nil {
		return err
	}
	return s.registerGroupTools()
}

// Registry returns the tool metadata registry.
func (s *Server) Registry() *ToolRegistry {
	return s.registry
}

// Run starts the MCP server on the stdio transport and blocks until the
// context is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport",
		zap.Int("tools", s.registry.Count()))
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
