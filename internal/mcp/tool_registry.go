package mcp

import (
	"errors"
	"fmt"
)

// ToolCategory is the functional category of a tool.
type ToolCategory string

const (
	// CategoryAuth is for OAuth flow tools.
	CategoryAuth ToolCategory = "auth"
	// CategoryBoard is for board metadata tools.
	CategoryBoard ToolCategory = "board"
	// CategoryShape is for shape CRUD tools.
	CategoryShape ToolCategory = "shape"
	// CategoryGroup is for grouping/ungrouping tools.
	CategoryGroup ToolCategory = "group"
)

// Registration errors.
var (
	// ErrDuplicateTool means a tool name was registered twice. Fatal at startup.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrUnknownTool means a tool name is not in the registry.
	ErrUnknownTool = errors.New("unknown tool")
)

// ToolMetadata describes a registered MCP tool.
type ToolMetadata struct {
	// Name is the unique tool name (e.g. "create_shape").
	Name string `json:"name"`

	// Description is a human-readable description of what the tool does.
	Description string `json:"description"`

	// Category is the functional category of the tool.
	Category ToolCategory `json:"category"`
}

// ToolRegistry tracks registered tool metadata. Descriptors are immutable
// after registration, and List preserves registration order for protocol
// discovery.
type ToolRegistry struct {
	tools map[string]*ToolMetadata
	order []string
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*ToolMetadata),
	}
}

// Register adds a tool to the registry. Registering a name twice fails with
// ErrDuplicateTool.
func (r *ToolRegistry) Register(tool *ToolMetadata) error {
	if tool == nil || tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if tool.Description == "" {
		return fmt.Errorf("tool description is required")
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Get returns the metadata for a tool, or ErrUnknownTool.
func (r *ToolRegistry) Get(name string) (*ToolMetadata, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return tool, nil
}

// List returns all registered tool metadata in registration order.
func (r *ToolRegistry) List() []*ToolMetadata {
	result := make([]*ToolMetadata, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// ListByCategory returns tools of one category in registration order.
func (r *ToolRegistry) ListByCategory(category ToolCategory) []*ToolMetadata {
	result := make([]*ToolMetadata, 0)
	for _, name := range r.order {
		if r.tools[name].Category == category {
			result = append(result, r.tools[name])
		}
	}
	return result
}

// Count returns the total number of registered tools.
func (r *ToolRegistry) Count() int {
	return len(r.tools)
}
