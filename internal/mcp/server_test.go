package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mirod/internal/auth"
	"github.com/fyrsmithlabs/mirod/internal/miro"
)

// fakeSession is a Session double recording exchange calls.
type fakeSession struct {
	exchangedCode string
	exchangeErr   error
}

func (f *fakeSession) AuthorizationURL() string {
	return "https://miro.example/oauth/authorize?client_id=test&state=abc"
}

func (f *fakeSession) Exchange(ctx context.Context, code string) error {
	f.exchangedCode = code
	return f.exchangeErr
}

// fakeBoardClient is a BoardClient double. When authenticated is false, every
// call fails with auth.ErrNotAuthenticated, mirroring the real client.
type fakeBoardClient struct {
	authenticated bool
	calls         []string
	board         map[string]any
}

func (f *fakeBoardClient) guard(call string) error {
	if !f.authenticated {
		return auth.ErrNotAuthenticated
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeBoardClient) GetBoard(ctx context.Context, boardID string) (map[string]any, error) {
	if err := f.guard("GetBoard"); err != nil {
		return nil, err
	}
	return f.board, nil
}

func (f *fakeBoardClient) CreateShape(ctx context.Context, boardID string, params miro.ShapeParams) (map[string]any, error) {
	if err := f.guard("CreateShape"); err != nil {
		return nil, err
	}
	return map[string]any{"id": "shape-1", "type": "shape"}, nil
}

func (f *fakeBoardClient) UpdateShape(ctx context.Context, boardID, itemID string, update miro.ShapeUpdate) (map[string]any, error) {
	if err := f.guard("UpdateShape"); err != nil {
		return nil, err
	}
	return map[string]any{"id": itemID}, nil
}

func (f *fakeBoardClient) DeleteShape(ctx context.Context, boardID, itemID string) error {
	return f.guard("DeleteShape")
}

func (f *fakeBoardClient) GroupItems(ctx context.Context, boardID string, itemIDs []string) (map[string]any, error) {
	if err := f.guard("GroupItems"); err != nil {
		return nil, err
	}
	return map[string]any{"id": "frame-1", "type": "frame"}, nil
}

func (f *fakeBoardClient) UngroupItems(ctx context.Context, boardID, groupID string) (int, error) {
	if err := f.guard("UngroupItems"); err != nil {
		return 0, err
	}
	return 2, nil
}

func newTestServer(t *testing.T, session Session, client BoardClient) *Server {
	t.Helper()
	cfg := &Config{Name: "mirod-test", Version: "0.0.1", Logger: zap.NewNop()}
	server, err := NewServer(cfg, session, client)
	require.NoError(t, err)
	return server
}

// connect wires a test client to the server over in-memory transports and
// returns the client session.
func connect(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.mcp.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = clientSession.Close()
		_ = serverSession.Wait()
	})
	return clientSession
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, nil, &fakeBoardClient{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is required")

	_, err = NewServer(nil, &fakeSession{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "board client is required")
}

func TestNewServer_RegistersToolsInFixedOrder(t *testing.T) {
	server := newTestServer(t, &fakeSession{}, &fakeBoardClient{})

	want := []string{
		"get_auth_url",
		"exchange_auth_code",
		"get_board",
		"create_shape",
		"update_shape",
		"delete_shape",
		"group_shapes",
		"ungroup_shapes",
	}

	listed := server.Registry().List()
	require.Len(t, listed, len(want))
	for i, name := range want {
		assert.Equal(t, name, listed[i].Name)
	}
}

func TestToolsList_OneDescriptorPerTool(t *testing.T) {
	server := newTestServer(t, &fakeSession{}, &fakeBoardClient{})
	cs := connect(t, server)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, tool := range res.Tools {
		seen[tool.Name]++
	}
	assert.Len(t, seen, server.Registry().Count())
	for name, count := range seen {
		assert.Equal(t, 1, count, "tool %s listed more than once", name)
	}
}

func TestCallTool_UnknownName(t *testing.T) {
	client := &fakeBoardClient{authenticated: true}
	server := newTestServer(t, &fakeSession{}, client)
	cs := connect(t, server)

	_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "paint_the_moon",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	assert.Empty(t, client.calls, "no handler should run for an unknown tool")
}

func TestCallTool_GetBoard_EchoesBoard(t *testing.T) {
	client := &fakeBoardClient{
		authenticated: true,
		board:         map[string]any{"id": "abc", "name": "Test"},
	}
	server := newTestServer(t, &fakeSession{}, client)
	cs := connect(t, server)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_board",
		Arguments: map[string]any{"board_id": "abc"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, structured["success"])
	assert.Equal(t, map[string]any{"id": "abc", "name": "Test"}, structured["board"])
}

func TestCallTool_NotAuthenticated(t *testing.T) {
	client := &fakeBoardClient{authenticated: false}
	server := newTestServer(t, &fakeSession{}, client)
	cs := connect(t, server)

	for _, call := range []struct {
		name string
		args map[string]any
	}{
		{"get_board", map[string]any{"board_id": "b1"}},
		{"create_shape", map[string]any{"board_id": "b1", "shape_type": "rectangle", "x": 0, "y": 0, "width": 10, "height": 10}},
		{"delete_shape", map[string]any{"board_id": "b1", "item_id": "s1"}},
		{"group_shapes", map[string]any{"board_id": "b1", "item_ids": []string{"a", "b"}}},
	} {
		t.Run(call.name, func(t *testing.T) {
			res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      call.name,
				Arguments: call.args,
			})
			require.NoError(t, err)
			require.True(t, res.IsError, "tool should fail before authentication")

			text := contentText(t, res)
			assert.Contains(t, text, "not authenticated")
		})
	}
	assert.Empty(t, client.calls)
}

func TestCallTool_GroupShapes_MinimumTwoItems(t *testing.T) {
	client := &fakeBoardClient{authenticated: true}
	server := newTestServer(t, &fakeSession{}, client)
	cs := connect(t, server)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "group_shapes",
		Arguments: map[string]any{"board_id": "b1", "item_ids": []string{"only-one"}},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, contentText(t, res), "at least 2")
	assert.Empty(t, client.calls, "validation must run before any upstream call")
}

func TestCallTool_ExchangeAuthCode(t *testing.T) {
	session := &fakeSession{}
	server := newTestServer(t, session, &fakeBoardClient{authenticated: true})
	cs := connect(t, server)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "exchange_auth_code",
		Arguments: map[string]any{"code": "auth-code-1"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "auth-code-1", session.exchangedCode)
}

func TestCallTool_ExchangeAuthCode_Failure(t *testing.T) {
	session := &fakeSession{exchangeErr: fmt.Errorf("token exchange failed: invalid_grant")}
	server := newTestServer(t, session, &fakeBoardClient{})
	cs := connect(t, server)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "exchange_auth_code",
		Arguments: map[string]any{"code": "bad"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, contentText(t, res), "token exchange failed")
}

func TestCallTool_GetAuthURL(t *testing.T) {
	server := newTestServer(t, &fakeSession{}, &fakeBoardClient{})
	cs := connect(t, server)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_auth_url",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, structured["success"])
	assert.Contains(t, structured["auth_url"], "oauth/authorize")
	assert.Contains(t, structured["message"], "exchange_auth_code")
}

func TestCallTool_UngroupShapes(t *testing.T) {
	client := &fakeBoardClient{authenticated: true}
	server := newTestServer(t, &fakeSession{}, client)
	cs := connect(t, server)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ungroup_shapes",
		Arguments: map[string]any{"board_id": "b1", "group_id": "g1"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ungrouped 2 items", structured["message"])
	assert.Equal(t, []string{"UngroupItems"}, client.calls)
}

// contentText concatenates the text content of a tool result.
func contentText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var out string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}
