package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ===== BOARD TOOLS =====

type getBoardInput struct {
	BoardID string `json:"board_id" jsonschema:"required,The ID of the board"`
}

type getBoardOutput struct {
	Success bool           `json:"success" jsonschema:"True when the board was fetched"`
	Board   map[string]any `json:"board" jsonschema:"Board metadata as returned by the Miro API"`
}

func (s *Server) registerBoardTools() error {
	if err := s.registry.Register(&ToolMetadata{
		Name:        "get_board",
		Description: "Get information about a Miro board including metadata, name, description, and settings",
		Category:    CategoryBoard,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_board",
		Description: "Get information about a Miro board including metadata, name, description, and settings",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getBoardInput) (*mcp.CallToolResult, getBoardOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "get_board", time.Since(start), toolErr)
		}()

		if args.BoardID == "" {
			toolErr = fmt.Errorf("%w: board_id parameter is required", errInvalidParams)
			return nil, getBoardOutput{}, toolErr
		}

		board, err := s.client.GetBoard(ctx, args.BoardID)
		if err != nil {
			toolErr = err
			return nil, getBoardOutput{}, toolErr
		}

		result := getBoardOutput{Success: true, Board: board}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Board %s fetched", args.BoardID)},
			},
		}, result, nil
	})

	return nil
}
