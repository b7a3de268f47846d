package handler

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

func newTestClient(t *testing.T) (*InventoryClient, *service.InventoryService) {
	svc := newTestService(t)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger(zap.NewNop())))
	RegisterInventoryServer(srv, NewGRPCHandler(svc))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewInventoryClient(conn), svc
}

func TestGRPC_Inventories(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	got, err := client.ListInventories(ctx, &ListInventoriesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Default Inventory", "Secondary Inventory"}, got.Inventories)
	assert.Equal(t, "Default Inventory", got.Selected)

	got, err = client.AddInventory(ctx, &AddInventoryRequest{Name: "Annex"})
	require.NoError(t, err)
	assert.Contains(t, got.Inventories, "Annex")

	_, err = client.AddInventory(ctx, &AddInventoryRequest{Name: domain.AllInventories})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_SalesFlow(t *testing.T) {
	client, svc := newTestClient(t)
	ctx := context.Background()
	p, err := svc.AddProduct(ctx, "Default Inventory", domain.ProductInput{Name: "Lamp", Stock: 10})
	require.NoError(t, err)

	reply, err := client.RecordSale(ctx, &RecordSaleRequest{
		Inventory:    domain.AllInventories,
		ProductID:    p.ID,
		Quantity:     15,
		ShipmentDate: "2026-03-09",
		DeliveryDate: "2026-03-11",
		DeliveredBy:  "courier",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, reply.Shipment.Quantity)
	assert.Equal(t, domain.ShipmentStatusInTransit, reply.Shipment.Status)

	products, err := client.ListProducts(ctx, &ListProductsRequest{Inventory: "Default Inventory", Query: "lamp"})
	require.NoError(t, err)
	require.Len(t, products.Products, 1)
	assert.Equal(t, 10, products.Products[0].Details.InTransit)
	assert.Equal(t, "Default Inventory", products.Products[0].Inventory)

	_, err = client.RecordSale(ctx, &RecordSaleRequest{Inventory: "Default Inventory", ProductID: p.ID, Quantity: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListProducts(ctx, &ListProductsRequest{Inventory: "Nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	refreshed, err := client.RefreshDeliveries(ctx, &RefreshDeliveriesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.Changed)
}

func TestGRPC_BadDate(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.RecordSale(context.Background(), &RecordSaleRequest{Inventory: "Default Inventory", ProductID: 1, Quantity: 1, ShipmentDate: "03/09"})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
