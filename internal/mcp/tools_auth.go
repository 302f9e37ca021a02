package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ===== AUTH TOOLS =====

type getAuthURLInput struct{}

type getAuthURLOutput struct {
	Success bool   `json:"success" jsonschema:"True when the URL was generated"`
	AuthURL string `json:"auth_url" jsonschema:"OAuth 2.0 authorization URL to visit"`
	Message string `json:"message" jsonschema:"Instructions for completing the flow"`
}

type exchangeAuthCodeInput struct {
	Code string `json:"code" jsonschema:"required,The authorization code received from Miro OAuth callback"`
}

type exchangeAuthCodeOutput struct {
	Success bool   `json:"success" jsonschema:"True when authentication succeeded"`
	Message string `json:"message" jsonschema:"Human-readable outcome"`
}

func (s *Server) registerAuthTools() error {
	// get_auth_url
	if err := s.registry.Register(&ToolMetadata{
		Name:        "get_auth_url",
		Description: "Get the OAuth 2.0 authorization URL to authenticate with Miro",
		Category:    CategoryAuth,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_auth_url",
		Description: "Get the OAuth 2.0 authorization URL to authenticate with Miro",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getAuthURLInput) (*mcp.CallToolResult, getAuthURLOutput, error) {
		start := time.Now()
		defer func() {
			s.metrics.RecordInvocation(ctx, "get_auth_url", time.Since(start), nil)
		}()

		authURL := s.session.AuthorizationURL()
		result := getAuthURLOutput{
			Success: true,
			AuthURL: authURL,
			Message: "Visit this URL to authorize the application, then use exchange_auth_code with the code from the callback",
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: authURL},
			},
		}, result, nil
	})

	// exchange_auth_code
	if err := s.registry.Register(&ToolMetadata{
		Name:        "exchange_auth_code",
		Description: "Exchange an authorization code for an access token",
		Category:    CategoryAuth,
	}); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "exchange_auth_code",
		Description: "Exchange an authorization code for an access token",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args exchangeAuthCodeInput) (*mcp.CallToolResult, exchangeAuthCodeOutput, error) {
		start := time.Now()
		var toolErr error
		defer func() {
			s.metrics.RecordInvocation(ctx, "exchange_auth_code", time.Since(start), toolErr)
		}()

		if args.Code == "" {
			toolErr = fmt.Errorf("%w: code parameter is required", errInvalidParams)
			return nil, exchangeAuthCodeOutput{}, toolErr
		}

		if err := s.session.Exchange(ctx, args.Code); err != nil {
			toolErr = err
			return nil, exchangeAuthCodeOutput{}, toolErr
		}

		result := exchangeAuthCodeOutput{
			Success: true,
			Message: "Successfully authenticated with Miro",
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Message},
			},
		}, result, nil
	})

	return nil
}
