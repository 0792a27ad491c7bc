package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "inventory.v1.InventoryAssistant"

	askMethod       = "/" + ServiceName + "/Ask"
	adjustMethod    = "/" + ServiceName + "/Adjust"
	inventoryMethod = "/" + ServiceName + "/Inventory"
)

type InventoryAssistantServer interface {
	Ask(ctx context.Context, req *AskRequest) (*Reply, error)
	Adjust(ctx context.Context, req *AdjustRequest) (*Reply, error)
	Inventory(ctx context.Context, req *InventoryRequest) (*InventoryResponse, error)
}

func RegisterInventoryAssistantServer(s grpc.ServiceRegistrar, srv InventoryAssistantServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryAssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ask", Handler: askHandler},
		{MethodName: "Adjust", Handler: adjustHandler},
		{MethodName: "Inventory", Handler: inventoryHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func askHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryAssistantServer).Ask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: askMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryAssistantServer).Ask(ctx, req.(*AskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func adjustHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AdjustRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryAssistantServer).Adjust(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: adjustMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryAssistantServer).Adjust(ctx, req.(*AdjustRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func inventoryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryAssistantServer).Inventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: inventoryMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryAssistantServer).Inventory(ctx, req.(*InventoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type InventoryAssistantClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryAssistantClient(cc grpc.ClientConnInterface) *InventoryAssistantClient {
	return &InventoryAssistantClient{cc: cc}
}

func (c *InventoryAssistantClient) Ask(ctx context.Context, in *AskRequest, opts ...grpc.CallOption) (*Reply, error) {
	out := new(Reply)
	if err := c.cc.Invoke(ctx, askMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryAssistantClient) Adjust(ctx context.Context, in *AdjustRequest, opts ...grpc.CallOption) (*Reply, error) {
	out := new(Reply)
	if err := c.cc.Invoke(ctx, adjustMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryAssistantClient) Inventory(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	out := new(InventoryResponse)
	if err := c.cc.Invoke(ctx, inventoryMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
