package miro

import "strconv"

// Position is an item's board position.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry is an item's size.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Parent references an item's containing frame, if any.
type Parent struct {
	ID string `json:"id"`
}

// Item is the subset of a board item the client interprets. Only grouping
// needs these fields; everything else passes board items through untouched.
type Item struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Geometry Geometry `json:"geometry"`
	Parent   *Parent  `json:"parent,omitempty"`
}

// ShapeParams describes a shape to create. FillColor, BorderColor,
// BorderWidth and Content are optional; zero values are omitted from the
// outgoing payload.
type ShapeParams struct {
	ShapeType   string
	X           float64
	Y           float64
	Width       float64
	Height      float64
	FillColor   string
	BorderColor string
	BorderWidth *float64
	Content     string
}

// ShapeUpdate describes a partial shape update. Nil fields are left out of
// the payload entirely so the service only touches what the caller provided.
type ShapeUpdate struct {
	X           *float64
	Y           *float64
	Width       *float64
	Height      *float64
	FillColor   string
	BorderColor string
	BorderWidth *float64
	Content     *string
}

// createShapePayload builds the request body for shape creation. Optional
// fields absent from the input never appear in the payload, not even as null.
func createShapePayload(p ShapeParams) map[string]any {
	data := map[string]any{"shape": p.ShapeType}
	if p.Content != "" {
		data["content"] = p.Content
	}

	payload := map[string]any{
		"data":     data,
		"position": map[string]any{"x": p.X, "y": p.Y},
		"geometry": map[string]any{"width": p.Width, "height": p.Height},
	}
	if style := formatStyle(p.FillColor, p.BorderColor, p.BorderWidth); len(style) > 0 {
		payload["style"] = style
	}
	return payload
}

// updateShapePayload builds a partial-update body containing only the fields
// set on the update.
func updateShapePayload(u ShapeUpdate) map[string]any {
	payload := map[string]any{}

	position := map[string]any{}
	if u.X != nil {
		position["x"] = *u.X
	}
	if u.Y != nil {
		position["y"] = *u.Y
	}
	if len(position) > 0 {
		payload["position"] = position
	}

	geometry := map[string]any{}
	if u.Width != nil {
		geometry["width"] = *u.Width
	}
	if u.Height != nil {
		geometry["height"] = *u.Height
	}
	if len(geometry) > 0 {
		payload["geometry"] = geometry
	}

	if u.Content != nil {
		payload["data"] = map[string]any{"content": *u.Content}
	}

	if style := formatStyle(u.FillColor, u.BorderColor, u.BorderWidth); len(style) > 0 {
		payload["style"] = style
	}
	return payload
}

// formatStyle maps the tool-facing camelCase style fields onto the snake_case
// keys the Miro API expects. Setting a color also pins the matching opacity,
// otherwise the service resets it.
func formatStyle(fillColor, borderColor string, borderWidth *float64) map[string]any {
	style := map[string]any{}
	if fillColor != "" {
		style["fill_color"] = fillColor
		style["fill_opacity"] = "1.0"
	}
	if borderColor != "" {
		style["border_color"] = borderColor
		style["border_opacity"] = "1.0"
	}
	if borderWidth != nil {
		// The API takes border width as a string.
		style["border_width"] = strconv.FormatFloat(*borderWidth, 'f', -1, 64)
	}
	return style
}
