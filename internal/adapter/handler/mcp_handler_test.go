package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stock-assistant/internal/adapter/handler/rpc"
)

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", res.Content[0])
	return text.Text
}

func TestMCP_Ask(t *testing.T) {
	h := NewMCPHandler(newTestService(t))

	res, err := h.Ask(context.Background(), callTool(askTool, map[string]any{"text": "add 5 shirts"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var reply rpc.Reply
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &reply))
	assert.Equal(t, "applied", reply.Outcome)
	assert.Equal(t, 15, reply.Counts["shirts"])
}

func TestMCP_AskRequestErrorIsToolError(t *testing.T) {
	h := NewMCPHandler(newTestService(t))

	res, err := h.Ask(context.Background(), callTool(askTool, map[string]any{"text": "sold 2 hats"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "UnknownItem")
}

func TestMCP_AskRequiresText(t *testing.T) {
	h := NewMCPHandler(newTestService(t))

	res, err := h.Ask(context.Background(), callTool(askTool, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMCP_Adjust(t *testing.T) {
	h := NewMCPHandler(newTestService(t))
	ctx := context.Background()

	res, err := h.Adjust(ctx, callTool(adjustTool, map[string]any{"item": "pants", "change": float64(-2), "request_id": "m-1"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"pants":3`)

	res, err = h.Adjust(ctx, callTool(adjustTool, map[string]any{"item": "pants", "change": float64(-2), "request_id": "m-1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "DuplicateRequest")

	res, err = h.Adjust(ctx, callTool(adjustTool, map[string]any{"item": "pants", "change": 1.5}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "MalformedRequest")
}

func TestMCP_Inventory(t *testing.T) {
	h := NewMCPHandler(newTestService(t))

	res, err := h.Inventory(context.Background(), callTool(inventoryTool, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"shirts":10,"pants":5}`, resultText(t, res))
}
