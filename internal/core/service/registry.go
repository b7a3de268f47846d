package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Inventories returns the inventory names in creation order.
func (s *InventoryService) Inventories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.inventories)
}

// InventoryOptions is what a picker offers: the aggregate view first, then
// every inventory.
func (s *InventoryService) InventoryOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{domain.AllInventories}, s.inventories...)
}

func (s *InventoryService) SelectedInventory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSelectedInventory stores the selection as given. Offering only valid
// names is the caller's job.
func (s *InventoryService) SetSelectedInventory(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = name
	s.committed(ctx, "select_inventory")
}

// AddInventory creates an empty inventory and selects it. The name is stored
// trimmed. Blank, reserved and duplicate names are rejected without touching
// state.
func (s *InventoryService) AddInventory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if !domain.ValidInventoryName(name) {
		return s.rejected("add_inventory", fmt.Errorf("inventory name %q: %w", name, domain.ErrValidation))
	}
	if s.hasInventory(name) {
		return s.rejected("add_inventory", fmt.Errorf("inventory %q already exists: %w", name, domain.ErrValidation))
	}

	s.inventories = append(s.inventories, name)
	s.catalogs[name] = []domain.Product{}
	s.selected = name

	s.log.Info("inventory added", zap.String("inventory", name))
	s.committed(ctx, "add_inventory")
	return nil
}

// RemoveInventory applies the transfer plan and then deletes the inventory.
// Products the plan does not move are discarded. Plan entries with a blank,
// unknown or self target, or without products, are skipped; so are product
// ids that are not in the inventory or were already moved by an earlier entry.
func (s *InventoryService) RemoveInventory(ctx context.Context, name string, plan []domain.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.catalogs[name]
	if !ok || name == domain.AllInventories {
		return s.rejected("remove_inventory", fmt.Errorf("inventory %q: %w", name, domain.ErrNotFound))
	}

	byID := make(map[int64]domain.Product, len(source))
	for _, p := range source {
		byID[p.ID] = p
	}

	moved := 0
	for _, t := range plan {
		target, ok := s.resolveInventory(t.TargetInventory)
		if !ok || target == name || len(t.ProductIDs) == 0 {
			continue
		}
		for _, id := range t.ProductIDs {
			p, ok := byID[id]
			if !ok {
				continue
			}
			delete(byID, id)
			s.catalogs[target] = append(s.catalogs[target], p.Clone())
			moved++
		}
	}

	for id := range byID {
		delete(s.selection, id)
	}

	delete(s.catalogs, name)
	s.inventories = slices.DeleteFunc(s.inventories, func(inv string) bool { return inv == name })
	if s.selected == name {
		s.selected = s.firstInventory()
	}

	s.log.Info("inventory removed",
		zap.String("inventory", name),
		zap.Int("moved", moved),
		zap.Int("discarded", len(byID)),
	)
	s.committed(ctx, "remove_inventory")
	return nil
}

// resolveInventory finds an existing inventory by its exact name, falling
// back to the trimmed name. Names loaded from older state may carry padding.
func (s *InventoryService) resolveInventory(name string) (string, bool) {
	if s.hasInventory(name) {
		return name, true
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || !s.hasInventory(trimmed) {
		return "", false
	}
	return trimmed, true
}
