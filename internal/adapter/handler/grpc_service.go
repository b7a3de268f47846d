package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const inventoryServiceName = "stockroom.InventoryService"

type ListInventoriesRequest struct{}

type AddInventoryRequest struct {
	Name string `json:"name"`
}

type InventoriesReply struct {
	Inventories []string `json:"inventories"`
	Options     []string `json:"options"`
	Selected    string   `json:"selected"`
}

type ListProductsRequest struct {
	Inventory string `json:"inventory"`
	Query     string `json:"query,omitempty"`
}

type ProductsReply struct {
	Inventory string                 `json:"inventory"`
	Products  []domain.TaggedProduct `json:"products"`
}

type RecordSaleRequest struct {
	Inventory    string `json:"inventory"`
	ProductID    int64  `json:"productId"`
	Quantity     int    `json:"quantity"`
	ShipmentDate string `json:"shipmentDate,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`
	DeliveredBy  string `json:"deliveredBy,omitempty"`
}

type RecordSaleReply struct {
	Shipment domain.Shipment `json:"shipment"`
}

type RefreshDeliveriesRequest struct{}

type RefreshDeliveriesReply struct {
	Changed int `json:"changed"`
}

// InventoryServer is the server side of stockroom.InventoryService.
type InventoryServer interface {
	ListInventories(context.Context, *ListInventoriesRequest) (*InventoriesReply, error)
	AddInventory(context.Context, *AddInventoryRequest) (*InventoriesReply, error)
	ListProducts(context.Context, *ListProductsRequest) (*ProductsReply, error)
	RecordSale(context.Context, *RecordSaleRequest) (*RecordSaleReply, error)
	RefreshDeliveries(context.Context, *RefreshDeliveriesRequest) (*RefreshDeliveriesReply, error)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: inventoryServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListInventories", InventoryServer.ListInventories),
		unary("AddInventory", InventoryServer.AddInventory),
		unary("ListProducts", InventoryServer.ListProducts),
		unary("RecordSale", InventoryServer.RecordSale),
		unary("RefreshDeliveries", InventoryServer.RefreshDeliveries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockroom/inventory",
}

func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

func unary[Req, Reply any](method string, call func(InventoryServer, context.Context, *Req) (*Reply, error)) grpc.MethodDesc {
	fullMethod := "/" + inventoryServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(InventoryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(InventoryServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// InventoryClient calls stockroom.InventoryService with the JSON codec.
type InventoryClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryClient(cc grpc.ClientConnInterface) *InventoryClient {
	return &InventoryClient{cc: cc}
}

func (c *InventoryClient) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+inventoryServiceName+"/"+method, in, out, opts...)
}

func (c *InventoryClient) ListInventories(ctx context.Context, in *ListInventoriesRequest, opts ...grpc.CallOption) (*InventoriesReply, error) {
	out := new(InventoriesReply)
	if err := c.invoke(ctx, "ListInventories", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) AddInventory(ctx context.Context, in *AddInventoryRequest, opts ...grpc.CallOption) (*InventoriesReply, error) {
	out := new(InventoriesReply)
	if err := c.invoke(ctx, "AddInventory", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ProductsReply, error) {
	out := new(ProductsReply)
	if err := c.invoke(ctx, "ListProducts", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) RecordSale(ctx context.Context, in *RecordSaleRequest, opts ...grpc.CallOption) (*RecordSaleReply, error) {
	out := new(RecordSaleReply)
	if err := c.invoke(ctx, "RecordSale", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryClient) RefreshDeliveries(ctx context.Context, in *RefreshDeliveriesRequest, opts ...grpc.CallOption) (*RefreshDeliveriesReply, error) {
	out := new(RefreshDeliveriesReply)
	if err := c.invoke(ctx, "RefreshDeliveries", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
