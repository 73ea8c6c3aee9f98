package catalog

import "github.com/angelmondragon/storefront-backend/pkg/types"

var (
	drinkSugarLevels = []string{"0%", "30%", "50%", "100%"}
	drinkIceLevels   = []string{"No Ice", "Less Ice", "Regular Ice"}
)

// DefaultProducts mirrors the seed migration so the static and database
// catalogs serve the same listings.
func DefaultProducts() []Product {
	return []Product{
		{ID: "p1", Title: "Classic White T-Shirt", Description: "100% cotton, breathable and comfortable.", Emoji: "👕", Category: "apparel", BasePrice: 499},
		{ID: "p2", Title: "Street Hoodie", Description: "Soft brushed interior for warmth.", Emoji: "🧥", Category: "apparel", BasePrice: 1290},
		{ID: "p3", Title: "Classic Jeans", Description: "Durable denim with a timeless cut.", Emoji: "👖", Category: "apparel", BasePrice: 1890},
		{ID: "p4", Title: "Running Sneakers", Description: "Lightweight cushioning for running and daily wear.", Emoji: "👟", Category: "footwear", BasePrice: 2590},
		{
			ID: "d1", Title: "Brown Sugar Milk Tea", Description: "Fresh milk with caramelised brown sugar pearls.", Emoji: "🧋", Category: "drinks", BasePrice: 65,
			Sizes:       []types.SizeOption{{Name: "Medium", Surcharge: 0}, {Name: "Large", Surcharge: 15}},
			SugarLevels: drinkSugarLevels,
			IceLevels:   drinkIceLevels,
		},
		{
			ID: "d2", Title: "Jasmine Green Tea", Description: "Fragrant jasmine leaves, brewed every hour.", Emoji: "🍵", Category: "drinks", BasePrice: 45,
			Sizes:       []types.SizeOption{{Name: "Medium", Surcharge: 0}, {Name: "Large", Surcharge: 10}},
			SugarLevels: drinkSugarLevels,
			IceLevels:   append(append([]string(nil), drinkIceLevels...), "Hot"),
		},
	}
}
