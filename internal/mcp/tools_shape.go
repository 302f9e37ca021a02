package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/mirod/internal/miro"
)

// ===== SHAPE TOOLS =====

type createShapeInput struct {
	BoardID     string   `json:"board_id" jsonschema:"required,The ID of the board"`
	ShapeType   string   `json:"shape_type" jsonschema:"required,Type of shape: rectangle circle triangle star arrow rhombus octagon hexagon"`
	X           float64  `json:"x" jsonschema:"required,X coordinate of the shape position"`
	Y           float64  `json:"y" jsonschema:"required,Y coordinate of the shape position"`
	Width       float64  `json:"width" jsonschema:"required,Width of the shape"`
	Height      float64  `json:"height" jsonschema:"required,Height of the shape"`
	FillColor   string   `json:"fillColor,omitempty" jsonschema:"Fill color in hex format (e.g. #FF0000)"`
	BorderColor string   `json:"borderColor,omitempty" jsonschema:"Border color in hex format (e.g. #000000)"`
	BorderWidth *float64 `json:"borderWidth,omitempty" jsonschema:"Border width in pixels"`
	Content     string   `json:"content,omitempty" jsonschema:"Text content to display in the shape"`
}

type shapeOutput struct {
	Success bool           `json:"success" jsonschema:"True when the operation succeeded"`
	Shape   map[string]any `json:"shape" jsonschema:"Shape item as returned by the Miro API"`
}

type updateShapeInput struct {
	BoardID     string   `json:"board_id" jsonschema:"required,The ID of the board"`
	ItemID      string   `json:"item_id" jsonschema:"required,The ID of the shape item to update"`
	X           *float64 `json:"x,omitempty" jsonschema:"New X coordinate"`
	Y           *float64 `json:"y,omitempty" jsonschema:"New Y coordinate"`
	Width       *float64 `json:"width,omitempty" jsonschema:"New width"`
	Height      *float64 `json:"height,omitempty" jsonschema:"New height"`
	FillColor   string   `json:"fillColor,omitempty" jsonschema:"New fill color in hex format"`
	BorderColor string   `json:"borderColor,omitempty" jsonschema:"New border color in hex format"`
	BorderWidth *float64 `json:"borderWidth,omitempty" jsonschema:"New border width in pixels"`
	Content     *string  `json:"content,omitempty" jsonschema:"New text content"`
}

type deleteShapeInput struct {
	BoardID string `json:"board_id" jsonschema:"required,The ID of the board"`
	ItemID  string `json:"item_id" jsonschema:"required,The ID of the shape item to delete"`
}

type messageOutput struct {
	Success bool   `json:"success" jsonschema:"True when the operation succeeded"`
	Message string `json:"message" jsonschema:"Human-readable outcome"`
}

func (s *Server) registerShapeTools() error {
	// create_shape
	if err := s.registry.Register(&ToolMetadata{
		Name:        "create_shape",
		Description: "Create a shape on a Miro board",
		Category:    CategoryShape,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_shape",
		Description: "Create a shape on a Miro board",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createShapeInput) (*mcp.CallToolResult, shapeOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "create_shape", time.Since(start), toolErr)
		}()

		if args.BoardID == "" || args.ShapeType == "" || args.Width == 0 || args.Height == 0 {
			toolErr = fmt.Errorf("%w: board_id, shape_type, x, y, width, and height are required", errInvalidParams)
			return nil, shapeOutput{}, toolErr
		}

		shape, err := s.client.CreateShape(ctx, args.BoardID, miro.ShapeParams{
			ShapeType:   args.ShapeType,
			X:           args.X,
			Y:           args.Y,
			Width:       args.Width,
			Height:      args.Height,
			FillColor:   args.FillColor,
			BorderColor: args.BorderColor,
			BorderWidth: args.BorderWidth,
			Content:     args.Content,
		})
		if err != nil {
			toolErr = err
			return nil, shapeOutput{}, toolErr
		}

		result := shapeOutput{Success: true, Shape: shape}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Created %s shape on board %s", args.ShapeType, args.BoardID)},
			},
		}, result, nil
	})

	// update_shape
	if err := s.registry.Register(&ToolMetadata{
		Name:        "update_shape",
		Description: "Update properties of an existing shape",
		Category:    CategoryShape,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_shape",
		Description: "Update properties of an existing shape",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateShapeInput) (*mcp.CallToolResult, shapeOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "update_shape", time.Since(start), toolErr)
		}()

		if args.BoardID == "" || args.ItemID == "" {
			toolErr = fmt.Errorf("%w: board_id and item_id are required", errInvalidParams)
			return nil, shapeOutput{}, toolErr
		}

		shape, err := s.client.UpdateShape(ctx, args.BoardID, args.ItemID, miro.ShapeUpdate{
			X:           args.X,
			Y:           args.Y,
			Width:       args.Width,
			Height:      args.Height,
			FillColor:   args.FillColor,
			BorderColor: args.BorderColor,
			BorderWidth: args.BorderWidth,
			Content:     args.Content,
		})
		if err != nil {
			toolErr = err
			return nil, shapeOutput{}, toolErr
		}

		result := shapeOutput{Success: true, Shape: shape}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Updated shape %s", args.ItemID)},
			},
		}, result, nil
	})

	// delete_shape
	if err := s.registry.Register(&ToolMetadata{
		Name:        "delete_shape",
		Description: "Delete a shape from a board",
		Category:    CategoryShape,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_shape",
		Description: "Delete a shape from a board",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args deleteShapeInput) (*mcp.CallToolResult, messageOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "delete_shape", time.Since(start), toolErr)
		}()

		if args.BoardID == "" || args.ItemID == "" {
			toolErr = fmt.Errorf("%w: board_id and item_id are required", errInvalidParams)
			return nil, messageOutput{}, toolErr
		}

		if err := s.client.DeleteShape(ctx, args.BoardID, args.ItemID); err != nil {
			toolErr = err
			return nil, messageOutput{}, toolErr
		}

		result := messageOutput{Success: true, Message: "Shape deleted successfully"}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Message},
			},
		}, result, nil
	})

	return nil
}
