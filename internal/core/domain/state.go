package domain

// Snapshot is the persisted application state. The layout is kept stable so
// existing saved data keeps loading.
type Snapshot struct {
	Inventories       []string             `json:"inventories"`
	SelectedInventory string               `json:"selectedInventory"`
	AllProducts       map[string][]string  `json:"allProducts"`
	ProductsData      map[string][]Product `json:"productsData"`
}

// DefaultSnapshot is the state of a fresh installation.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Inventories:       []string{"Default Inventory", "Secondary Inventory"},
		SelectedInventory: "Default Inventory",
		AllProducts: map[string][]string{
			"Default Inventory":   {},
			"Secondary Inventory": {},
		},
		ProductsData: map[string][]Product{
			"Default Inventory":   {},
			"Secondary Inventory": {},
		},
	}
}

// ProductNames lists names in catalog order, as stored under allProducts.
func ProductNames(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}
