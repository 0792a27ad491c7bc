package handler

import (
	"context"
	"encoding/json"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/core/service"
)

const (
	askTool       = "inventory_ask"
	adjustTool    = "inventory_adjust"
	inventoryTool = "inventory_get"
)

// MCPHandler exposes the assistant as MCP tools.
type MCPHandler struct {
	inventoryService *service.InventoryService
}

func NewMCPHandler(inventoryService *service.InventoryService) *MCPHandler {
	return &MCPHandler{inventoryService: inventoryService}
}

// NewMCPServer registers every tool on a fresh server.
func NewMCPServer(h *MCPHandler, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"stock-assistant",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	h.RegisterTools(s)
	return s
}

func (h *MCPHandler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(askTool,
		mcp.WithDescription("Update or query the t-shirt and pants inventory with a plain-English request, e.g. \"add 5 shirts and remove 2 pants\"."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The request in natural language")),
	), h.Ask)

	s.AddTool(mcp.NewTool(adjustTool,
		mcp.WithDescription("Change the count of one item by a signed amount."),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item name: shirts or pants (aliases such as tshirts are accepted)")),
		mcp.WithNumber("change", mcp.Required(), mcp.Description("Non-zero whole number; negative removes stock")),
		mcp.WithString("request_id", mcp.Description("Optional idempotency key")),
	), h.Adjust)

	s.AddTool(mcp.NewTool(inventoryTool,
		mcp.WithDescription("Return the current inventory counts."),
	), h.Inventory)
}

func (h *MCPHandler) Ask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reply, err := h.inventoryService.Ask(ctx, text)
	return toolResult(reply, err)
}

func (h *MCPHandler) Adjust(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, err := req.RequireString("item")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	change, err := req.RequireFloat("change")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	requestID := req.GetString("request_id", "")

	if change != math.Trunc(change) || math.Abs(change) > math.MaxInt32 {
		reply, err := h.inventoryService.Reject(ctx, requestID, domain.Malformedf("change must be a whole number"))
		return toolResult(reply, err)
	}

	reply, err := h.inventoryService.Apply(ctx, domain.DirectMutation{
		RequestID: requestID,
		Item:      item,
		Change:    int(change),
	})
	return toolResult(reply, err)
}

func (h *MCPHandler) Inventory(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := h.inventoryService.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(countsBody(counts))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolResult renders the reply as JSON. Request errors are tool errors the
// model can read, internal failures abort the call.
func toolResult(reply domain.Reply, err error) (*mcp.CallToolResult, error) {
	if isInternal(err) {
		return nil, err
	}
	data, merr := json.Marshal(toReply(reply))
	if merr != nil {
		return nil, merr
	}
	if err != nil {
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio blocks serving MCP over stdin and stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
