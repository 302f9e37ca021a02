package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ===== GROUP TOOLS =====

type groupShapesInput struct {
	BoardID string   `json:"board_id" jsonschema:"required,The ID of the board"`
	ItemIDs []string `json:"item_ids" jsonschema:"required,List of item IDs to group together (minimum 2)"`
}

type groupShapesOutput struct {
	Success bool           `json:"success" jsonschema:"True when the group was created"`
	Group   map[string]any `json:"group" jsonschema:"Frame item created to hold the group"`
	Message string         `json:"message" jsonschema:"Human-readable outcome"`
}

type ungroupShapesInput struct {
	BoardID string `json:"board_id" jsonschema:"required,The ID of the board"`
	GroupID string `json:"group_id" jsonschema:"required,The ID of the group/frame to ungroup"`
}

func (s *Server) registerGroupTools() error {
	// group_shapes
	if err := s.registry.Register(&ToolMetadata{
		Name:        "group_shapes",
		Description: "Group multiple shapes together on a board",
		Category:    CategoryGroup,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "group_shapes",
		Description: "Group multiple shapes together on a board",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args groupShapesInput) (*mcp.CallToolResult, groupShapesOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "group_shapes", time.Since(start), toolErr)
		}()

		if args.BoardID == "" {
			toolErr = fmt.Errorf("%w: board_id parameter is required", errInvalidParams)
			return nil, groupShapesOutput{}, toolErr
		}
		// Validated before any upstream call; a one-element group is a no-op
		// the remote service would happily create.
		if len(args.ItemIDs) < 2 {
			toolErr = fmt.Errorf("%w: item_ids must be a list with at least 2 item IDs", errInvalidParams)
			return nil, groupShapesOutput{}, toolErr
		}

		frame, err := s.client.GroupItems(ctx, args.BoardID, args.ItemIDs)
		if err != nil {
			toolErr = err
			return nil, groupShapesOutput{}, toolErr
		}

		result := groupShapesOutput{
			Success: true,
			Group:   frame,
			Message: fmt.Sprintf("Successfully grouped %d shapes", len(args.ItemIDs)),
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Message},
			},
		}, result, nil
	})

	// ungroup_shapes
	if err := s.registry.Register(&ToolMetadata{
		Name:        "ungroup_shapes",
		Description: "Ungroup shapes by removing them from a group/frame",
		Category:    CategoryGroup,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "ungroup_shapes",
		Description: "Ungroup shapes by removing them from a group/frame",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ungroupShapesInput) (*mcp.CallToolResult, messageOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "ungroup_shapes", time.Since(start), toolErr)
		}()

		if args.BoardID == "" || args.GroupID == "" {
			toolErr = fmt.Errorf("%w: board_id and group_id are required", errInvalidParams)
			return nil, messageOutput{}, toolErr
		}

		released, err := s.client.UngroupItems(ctx, args.BoardID, args.GroupID)
		if err != nil {
			toolErr = err
			return nil, messageOutput{}, toolErr
		}

		result := messageOutput{
			Success: true,
			Message: fmt.Sprintf("Ungrouped %d items", released),
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Message},
			},
		}, result, nil
	})

	return nil
}
