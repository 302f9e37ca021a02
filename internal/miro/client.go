// Package miro wraps the Miro v2 REST API for board, shape, and frame
// operations. Each method attaches the session's bearer token, sends JSON,
// and surfaces non-success responses as *APIError.
package miro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/mirod/internal/auth"
	"github.com/fyrsmithlabs/mirod/internal/config"
)

const (
	// Miro allows roughly 100 requests per minute at the lowest tier.
	defaultRateLimit = 10
	defaultBurst     = 5
)

// Client is a Miro REST API client bound to a credential session.
type Client struct {
	baseURL    string
	session    *auth.Session
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client from the Miro configuration.
func NewClient(cfg config.MiroConfig, session *auth.Session, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.APIBaseURL,
		session: session,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		logger:  logger,
	}
}

// GetBoard fetches board metadata. The board object is returned unchanged
// in shape.
func (c *Client) GetBoard(ctx context.Context, boardID string) (map[string]any, error) {
	var board map[string]any
	if err := c.do(ctx, http.MethodGet, c.boardPath(boardID), nil, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// CreateShape creates a shape on a board and returns the created item.
func (c *Client) CreateShape(ctx context.Context, boardID string, params ShapeParams) (map[string]any, error) {
	var shape map[string]any
	path := c.boardPath(boardID) + "/shapes"
	if err := c.do(ctx, http.MethodPost, path, createShapePayload(params), &shape); err != nil {
		return nil, err
	}
	return shape, nil
}

// UpdateShape applies a partial update to a shape and returns the updated
// item. Only fields set on the update are sent upstream.
func (c *Client) UpdateShape(ctx context.Context, boardID, itemID string, update ShapeUpdate) (map[string]any, error) {
	var shape map[string]any
	path := c.boardPath(boardID) + "/shapes/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodPatch, path, updateShapePayload(update), &shape); err != nil {
		return nil, err
	}
	return shape, nil
}

// DeleteShape removes a shape from a board.
func (c *Client) DeleteShape(ctx context.Context, boardID, itemID string) error {
	path := c.boardPath(boardID) + "/shapes/" + url.PathEscape(itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// getShapeItem fetches a single shape as a typed item.
func (c *Client) getShapeItem(ctx context.Context, boardID, itemID string) (*Item, error) {
	var item Item
	path := c.boardPath(boardID) + "/shapes/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// getFrameItem fetches a single frame as a typed item.
func (c *Client) getFrameItem(ctx context.Context, boardID, itemID string) (*Item, error) {
	var item Item
	path := c.boardPath(boardID) + "/frames/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// listItems fetches the items on a board.
func (c *Client) listItems(ctx context.Context, boardID string) ([]Item, error) {
	var resp struct {
		Data []Item `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.boardPath(boardID)+"/items", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// createFrame creates a frame on a board and returns the created item.
func (c *Client) createFrame(ctx context.Context, boardID, title string, pos Position, geom Geometry) (map[string]any, error) {
	payload := map[string]any{
		"data":     map[string]any{"title": title},
		"position": map[string]any{"x": pos.X, "y": pos.Y},
		"geometry": map[string]any{"width": geom.Width, "height": geom.Height},
	}
	var frame map[string]any
	if err := c.do(ctx, http.MethodPost, c.boardPath(boardID)+"/frames", payload, &frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// deleteFrame removes a frame from a board.
func (c *Client) deleteFrame(ctx context.Context, boardID, frameID string) error {
	path := c.boardPath(boardID) + "/frames/" + url.PathEscape(frameID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// setItemParent moves an item into a frame, or back to the board root when
// parentID is nil.
func (c *Client) setItemParent(ctx context.Context, boardID, itemID string, parentID *string) error {
	var parent any
	if parentID != nil {
		parent = map[string]any{"id": *parentID}
	}
	payload := map[string]any{"parent": parent}
	path := c.boardPath(boardID) + "/items/" + url.PathEscape(itemID)
	return c.do(ctx, http.MethodPatch, path, payload, nil)
}

func (c *Client) boardPath(boardID string) string {
	return "/v2/boards/" + url.PathEscape(boardID)
}

// do performs one API call: rate-limit, marshal, attach the bearer token,
// send, and decode. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	authHeader, err := c.session.AuthHeader(ctx)
	if err != nil {
		// ErrNotAuthenticated passes through untouched for the tool layer.
		return err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("miro API request",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls the human-readable message out of a Miro error body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return string(body)
}
