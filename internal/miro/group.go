package miro

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// GroupItems groups items into a frame. Miro has no first-class group object
// on the v2 API, so a frame sized to the members' bounding box is created and
// each member is reparented into it. Returns the created frame unchanged in
// shape.
func (c *Client) GroupItems(ctx context.Context, boardID string, itemIDs []string) (map[string]any, error) {
	items := make([]*Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := c.getItem(ctx, boardID, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items found to group")
	}

	pos, geom := boundingBox(items)
	frame, err := c.createFrame(ctx, boardID, "Group", pos, geom)
	if err != nil {
		return nil, err
	}

	frameID, ok := frame["id"].(string)
	if !ok || frameID == "" {
		return nil, fmt.Errorf("frame response missing id")
	}

	for _, id := range itemIDs {
		if err := c.setItemParent(ctx, boardID, id, &frameID); err != nil {
			return nil, fmt.Errorf("failed to move item %s into frame: %w", id, err)
		}
	}

	c.logger.Info("grouped items into frame",
		zap.String("board_id", boardID),
		zap.String("frame_id", frameID),
		zap.Int("items", len(itemIDs)))
	return frame, nil
}

// UngroupItems releases a frame's members back to the board root and deletes
// the frame. Returns the number of released items.
func (c *Client) UngroupItems(ctx context.Context, boardID, groupID string) (int, error) {
	frame, err := c.getItem(ctx, boardID, groupID)
	if err != nil {
		return 0, fmt.Errorf("frame %s not found: %w", groupID, err)
	}
	if frame.Type != "frame" {
		return 0, fmt.Errorf("item %s is not a frame/group", groupID)
	}

	items, err := c.listItems(ctx, boardID)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, item := range items {
		if item.Parent == nil || item.Parent.ID != groupID {
			continue
		}
		if err := c.setItemParent(ctx, boardID, item.ID, nil); err != nil {
			return released, fmt.Errorf("failed to release item %s: %w", item.ID, err)
		}
		released++
	}

	if err := c.deleteFrame(ctx, boardID, groupID); err != nil {
		return released, err
	}

	c.logger.Info("ungrouped frame",
		zap.String("board_id", boardID),
		zap.String("frame_id", groupID),
		zap.Int("released", released))
	return released, nil
}

// getItem resolves an item id trying the shape endpoint first, then the frame
// endpoint, then a scan of the board's items. Different item types live on
// different endpoints.
func (c *Client) getItem(ctx context.Context, boardID, itemID string) (*Item, error) {
	if item, err := c.getShapeItem(ctx, boardID, itemID); err == nil {
		return item, nil
	} else if notAPIError(err) {
		return nil, err
	}

	if item, err := c.getFrameItem(ctx, boardID, itemID); err == nil {
		return item, nil
	} else if notAPIError(err) {
		return nil, err
	}

	items, err := c.listItems(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("item %s not found on board %s", itemID, boardID)
}

// notAPIError reports whether err is something other than an upstream API
// rejection (auth failure, transport error). Those abort the fallback chain
// instead of masking the real problem.
func notAPIError(err error) bool {
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}

// boundingBox computes the position and size of the frame that encloses the
// given items, treating each item's position as its top-left corner.
func boundingBox(items []*Item) (Position, Geometry) {
	minX := items[0].Position.X
	minY := items[0].Position.Y
	maxX := minX + items[0].Geometry.Width
	maxY := minY + items[0].Geometry.Height

	for _, item := range items[1:] {
		if item.Position.X < minX {
			minX = item.Position.X
		}
		if item.Position.Y < minY {
			minY = item.Position.Y
		}
		if right := item.Position.X + item.Geometry.Width; right > maxX {
			maxX = right
		}
		if bottom := item.Position.Y + item.Geometry.Height; bottom > maxY {
			maxY = bottom
		}
	}

	return Position{X: minX, Y: minY}, Geometry{Width: maxX - minX, Height: maxY - minY}
}
