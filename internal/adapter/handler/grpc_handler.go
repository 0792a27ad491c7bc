package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/stock-assistant/internal/adapter/handler/rpc"
	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/core/service"
)

type GRPCHandler struct {
	inventoryService *service.InventoryService
}

var _ rpc.InventoryAssistantServer = (*GRPCHandler)(nil)

func NewGRPCHandler(inventoryService *service.InventoryService) *GRPCHandler {
	return &GRPCHandler{inventoryService: inventoryService}
}

// NewGRPCServer returns a server with the InventoryAssistant service registered.
func NewGRPCServer(h *GRPCHandler, opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	rpc.RegisterInventoryAssistantServer(s, h)
	return s
}

// Ask reports request outcomes, rejections included, in the reply body.
// Only internal failures become gRPC status errors.
func (h *GRPCHandler) Ask(ctx context.Context, req *rpc.AskRequest) (*rpc.Reply, error) {
	ctx = service.WithRequestID(ctx, grpcRequestID(ctx, req.RequestID))

	if strings.TrimSpace(req.Text) == "" {
		reply, _ := h.inventoryService.Reject(ctx, req.RequestID, domain.Malformedf("text is required"))
		return toReply(reply), nil
	}

	reply, err := h.inventoryService.Ask(ctx, req.Text)
	if isInternal(err) {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return toReply(reply), nil
}

func (h *GRPCHandler) Adjust(ctx context.Context, req *rpc.AdjustRequest) (*rpc.Reply, error) {
	ctx = service.WithRequestID(ctx, grpcRequestID(ctx, ""))

	if req.Item == "" || req.Change == nil {
		reply, _ := h.inventoryService.Reject(ctx, req.RequestID, domain.Malformedf("item and change are required"))
		return toReply(reply), nil
	}

	reply, err := h.inventoryService.Apply(ctx, domain.DirectMutation{
		RequestID: req.RequestID,
		Item:      req.Item,
		Change:    *req.Change,
	})
	if isInternal(err) {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return toReply(reply), nil
}

func (h *GRPCHandler) Inventory(ctx context.Context, _ *rpc.InventoryRequest) (*rpc.InventoryResponse, error) {
	counts, err := h.inventoryService.Inventory(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &rpc.InventoryResponse{Counts: countsBody(counts)}, nil
}

// grpcRequestID prefers an explicit id, then the x-request-id metadata key.
func grpcRequestID(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
