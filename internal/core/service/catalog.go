package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// ListProducts returns a copy of the catalog in insertion order. The
// aggregate view lists every inventory's products, inventory by inventory.
func (s *InventoryService) ListProducts(inventory string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inventory == domain.AllInventories {
		var out []domain.Product
		for _, name := range s.inventories {
			out = append(out, cloneProducts(s.catalogs[name])...)
		}
		if out == nil {
			out = []domain.Product{}
		}
		return out, nil
	}

	products, ok := s.catalogs[inventory]
	if !ok {
		return nil, fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound)
	}
	return cloneProducts(products), nil
}

// AllProducts flattens every catalog, tagging each product with its owner.
func (s *InventoryService) AllProducts() []domain.TaggedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allProducts()
}

func (s *InventoryService) allProducts() []domain.TaggedProduct {
	out := make([]domain.TaggedProduct, 0, s.productCount())
	for _, name := range s.inventories {
		for _, p := range s.catalogs[name] {
			out = append(out, domain.TaggedProduct{Inventory: name, Product: p.Clone()})
		}
	}
	return out
}

// SearchProducts filters the view by a case-insensitive name substring.
func (s *InventoryService) SearchProducts(inventory, query string) ([]domain.TaggedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scope []domain.TaggedProduct
	if inventory == domain.AllInventories {
		scope = s.allProducts()
	} else {
		products, ok := s.catalogs[inventory]
		if !ok {
			return nil, fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound)
		}
		for _, p := range products {
			scope = append(scope, domain.TaggedProduct{Inventory: inventory, Product: p.Clone()})
		}
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.TaggedProduct, 0, len(scope))
	for _, p := range scope {
		if p.Name != "" && strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AddProduct appends a new product with a fresh id, an empty cart and an
// empty ledger. The name must be unique within the inventory.
func (s *InventoryService) AddProduct(ctx context.Context, inventory string, in domain.ProductInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, ok := s.catalogs[inventory]
	if !ok {
		return domain.Product{}, s.rejected("add_product", fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound))
	}
	if !in.Validate() {
		return domain.Product{}, s.rejected("add_product", fmt.Errorf("product %q: %w", in.Name, domain.ErrValidation))
	}
	if slices.ContainsFunc(products, func(p domain.Product) bool { return p.Name == in.Name }) {
		return domain.Product{}, s.rejected("add_product", fmt.Errorf("product %q already in %q: %w", in.Name, inventory, domain.ErrValidation))
	}

	p := domain.Product{
		ID:      s.nextID(),
		Name:    in.Name,
		Price:   in.Price,
		Stock:   in.Stock,
		Image:   in.Image,
		InCart:  0,
		Details: domain.ShipmentSummary{},
	}
	s.catalogs[inventory] = append(products, p)

	s.log.Info("product added",
		zap.String("inventory", inventory),
		zap.Int64("id", p.ID),
		zap.String("name", p.Name),
	)
	s.committed(ctx, "add_product")
	return p.Clone(), nil
}

// RestockProduct adds to the lifetime stock and pulls the cart back within
// what is now available.
func (s *InventoryService) RestockProduct(ctx context.Context, inventory string, id int64, added int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.product(inventory, id)
	if err != nil {
		return domain.Product{}, s.rejected("restock_product", err)
	}
	if added <= 0 {
		return domain.Product{}, s.rejected("restock_product", fmt.Errorf("restock by %d: %w", added, domain.ErrValidation))
	}

	p.Stock += added
	p.InCart = p.ClampCart(p.InCart)

	s.committed(ctx, "restock_product")
	return p.Clone(), nil
}

// DeleteProduct removes the product and forgets it in the pending selection.
func (s *InventoryService) DeleteProduct(ctx context.Context, inventory string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, idx, err := s.locate(inventory, id)
	if err != nil {
		return s.rejected("delete_product", err)
	}

	s.catalogs[owner] = slices.Delete(s.catalogs[owner], idx, idx+1)
	delete(s.selection, id)

	s.log.Info("product deleted", zap.String("inventory", owner), zap.Int64("id", id))
	s.committed(ctx, "delete_product")
	return nil
}

// SetCartQuantity stores quantity clamped to [0, available stock].
func (s *InventoryService) SetCartQuantity(ctx context.Context, inventory string, id int64, quantity int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.product(inventory, id)
	if err != nil {
		return domain.Product{}, s.rejected("set_cart", err)
	}

	p.InCart = p.ClampCart(quantity)

	s.committed(ctx, "set_cart")
	return p.Clone(), nil
}

// SelectProduct adds id to or drops it from the pending selection. The
// selection is working state and is not persisted.
func (s *InventoryService) SelectProduct(id int64, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !checked {
		delete(s.selection, id)
		return
	}
	if _, _, err := s.locate(domain.AllInventories, id); err == nil {
		s.selection[id] = struct{}{}
	}
}

// SelectAll selects every product of the view, or clears the selection.
func (s *InventoryService) SelectAll(inventory string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !checked {
		clear(s.selection)
		return nil
	}

	names := []string{inventory}
	if inventory == domain.AllInventories {
		names = s.inventories
	} else if !s.hasInventory(inventory) {
		return fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound)
	}
	for _, name := range names {
		for _, p := range s.catalogs[name] {
			s.selection[p.ID] = struct{}{}
		}
	}
	return nil
}

// Selection returns the selected ids in ascending order.
func (s *InventoryService) Selection() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DeleteSelected deletes every selected product visible in the view and
// returns how many were removed.
func (s *InventoryService) DeleteSelected(ctx context.Context, inventory string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inventory != domain.AllInventories && !s.hasInventory(inventory) {
		return 0, s.rejected("delete_selected", fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound))
	}

	removed := 0
	for _, name := range s.inventories {
		if inventory != domain.AllInventories && name != inventory {
			continue
		}
		s.catalogs[name] = slices.DeleteFunc(s.catalogs[name], func(p domain.Product) bool {
			if _, ok := s.selection[p.ID]; !ok {
				return false
			}
			delete(s.selection, p.ID)
			removed++
			return true
		})
	}

	if removed == 0 {
		return 0, nil
	}
	s.log.Info("selected products deleted", zap.String("inventory", inventory), zap.Int("count", removed))
	s.committed(ctx, "delete_selected")
	return removed, nil
}

// locate finds a product by id. In the aggregate view the owning inventory
// is looked up, so mutations land in the right catalog.
func (s *InventoryService) locate(inventory string, id int64) (string, int, error) {
	names := []string{inventory}
	if inventory == domain.AllInventories {
		names = s.inventories
	} else if !s.hasInventory(inventory) {
		return "", 0, fmt.Errorf("inventory %q: %w", inventory, domain.ErrNotFound)
	}

	for _, name := range names {
		for i, p := range s.catalogs[name] {
			if p.ID == id {
				return name, i, nil
			}
		}
	}
	return "", 0, fmt.Errorf("product %d in %q: %w", id, inventory, domain.ErrNotFound)
}

// product returns a pointer into the owning catalog. Callers hold s.mu.
func (s *InventoryService) product(inventory string, id int64) (*domain.Product, error) {
	owner, idx, err := s.locate(inventory, id)
	if err != nil {
		return nil, err
	}
	return &s.catalogs[owner][idx], nil
}
