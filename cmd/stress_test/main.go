package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

const (
	stressKey     = "stockroom-stress"
	inventoryName = "Stress Inventory"
	initialStock  = 20
	totalRequests = 50
)

// Fires concurrent single-unit sales at one product and checks that exactly
// initialStock of them are booked, both in memory and after a reload.
func main() {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Store.Key = stressKey

	repo, closeStore, err := storage.Open(ctx, cfg, zap.NewNop())
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Start from a clean default state under the stress key
	if err := repo.SaveState(ctx, domain.DefaultSnapshot()); err != nil {
		log.Fatalf("failed to reset state: %v", err)
	}

	inventoryService := service.NewInventoryService(repo)
	if err := inventoryService.Load(ctx); err != nil {
		log.Fatalf("failed to load state: %v", err)
	}
	if err := inventoryService.AddInventory(ctx, inventoryName); err != nil {
		log.Fatalf("failed to add inventory: %v", err)
	}
	product, err := inventoryService.AddProduct(ctx, inventoryName, domain.ProductInput{
		Name:  "stress-item",
		Price: decimal.NewFromInt(1),
		Stock: initialStock,
	})
	if err != nil {
		log.Fatalf("failed to add product: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var otherCount atomic.Int32

	// Spawn concurrent sales
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := inventoryService.RecordSale(ctx, inventoryName, product.ID, service.Sale{Quantity: 1})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrValidation):
				soldOutCount.Add(1)
			default:
				otherCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	soldOut := soldOutCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold out:         %d\n", soldOut)
	fmt.Printf("Other errors:     %d\n", otherCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(initialStock) && soldOut == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d sales booked, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d booked/%d rejected, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, soldOut)
	}

	if err := inventoryService.LastPersistError(); err != nil {
		fmt.Printf("FAIL: last write failed: %v\n", err)
	}

	// Verify the stored ledger after a reload
	reloaded := service.NewInventoryService(repo)
	if err := reloaded.Load(ctx); err != nil {
		log.Fatalf("failed to reload state: %v", err)
	}
	products, err := reloaded.ListProducts(inventoryName)
	if err != nil || len(products) != 1 {
		log.Fatalf("reloaded catalog: %v (%d products)", err, len(products))
	}
	stored := products[0]
	fmt.Printf("Stored sold:      %d\n", stored.Details.TotalSold)
	fmt.Printf("Stored shipments: %d\n", len(stored.Details.Shipments))

	if stored.Details.TotalSold == initialStock && stored.AvailableStock() == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected %d sold and 0 available, got %d/%d\n",
			initialStock, stored.Details.TotalSold, stored.AvailableStock())
	}
}
