package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

type GRPCHandler struct {
	svc *service.InventoryService
}

func NewGRPCHandler(svc *service.InventoryService) *GRPCHandler {
	return &GRPCHandler{svc: svc}
}

func (h *GRPCHandler) inventories() *InventoriesReply {
	return &InventoriesReply{
		Inventories: h.svc.Inventories(),
		Options:     h.svc.InventoryOptions(),
		Selected:    h.svc.SelectedInventory(),
	}
}

func (h *GRPCHandler) ListInventories(ctx context.Context, req *ListInventoriesRequest) (*InventoriesReply, error) {
	return h.inventories(), nil
}

func (h *GRPCHandler) AddInventory(ctx context.Context, req *AddInventoryRequest) (*InventoriesReply, error) {
	if err := h.svc.AddInventory(ctx, req.Name); err != nil {
		return nil, toStatus(err)
	}
	return h.inventories(), nil
}

func (h *GRPCHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ProductsReply, error) {
	products, err := h.svc.SearchProducts(req.Inventory, req.Query)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ProductsReply{Inventory: req.Inventory, Products: products}, nil
}

func (h *GRPCHandler) RecordSale(ctx context.Context, req *RecordSaleRequest) (*RecordSaleReply, error) {
	shipped, err := parseDate(req.ShipmentDate)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	arrives, err := parseDate(req.DeliveryDate)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	shipment, err := h.svc.RecordSale(ctx, req.Inventory, req.ProductID, service.Sale{
		Quantity:     req.Quantity,
		ShipmentDate: shipped,
		DeliveryDate: arrives,
		DeliveredBy:  req.DeliveredBy,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &RecordSaleReply{Shipment: shipment}, nil
}

func (h *GRPCHandler) RefreshDeliveries(ctx context.Context, req *RefreshDeliveriesRequest) (*RefreshDeliveriesReply, error) {
	return &RefreshDeliveriesReply{Changed: h.svc.RefreshDeliveries(ctx)}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// UnaryLogger logs every call with its status code.
func UnaryLogger(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
