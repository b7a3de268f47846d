package domain

import "strings"

// AllInventories is the pseudo-inventory that aggregates every catalog.
// It can be selected but never created, removed or written to directly.
const AllInventories = "All Inventory"

// Transfer moves the listed products out of an inventory that is being
// removed and appends them to TargetInventory.
type Transfer struct {
	TargetInventory string  `json:"targetInventory"`
	ProductIDs      []int64 `json:"productIds"`
}

func ValidInventoryName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != AllInventories
}
