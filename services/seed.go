package services

import "storefront-service/models"

// seedProducts is the built-in catalog used on a fresh install, or when the
// catalog store is unreachable.
var seedProducts = []models.Product{
	{
		ID:          "1",
		Name:        "Cute Dress",
		Price:       500,
		Image:       "",
		Description: "Striped dress with a strawberry print, modern and elegant",
		Category:    "Dresses",
		Colors:      []string{"Red", "Green", "Blue"},
		Sizes:       []string{"S", "M", "L", "XL"},
		Available:   true,
	},
	{
		ID:          "2",
		Name:        "Silk Pajamas",
		Price:       450,
		Image:       "",
		Description: "Soft silk pajamas, comfortable and elegant",
		Category:    "Sleepwear",
		Colors:      []string{"Pink", "Black", "Light Blue"},
		Sizes:       []string{"S", "M", "L"},
		Available:   true,
	},
	{
		ID:          "3",
		Name:        "Cotton Shirt",
		Price:       320,
		Image:       "",
		Description: "Comfortable cotton shirt, perfect for everyday wear",
		Category:    "Shirts",
		Colors:      []string{"White", "Black", "Blue"},
		Sizes:       []string{"S", "M", "L"},
		Available:   true,
	},
	{
		ID:          "4",
		Name:        "Velvet Robe",
		Price:       600,
		Image:       "",
		Description: "Luxurious velvet robe, soft and warm",
		Category:    "Sleepwear",
		Colors:      []string{"Dark Red", "Navy", "Black"},
		Sizes:       []string{"M", "L", "XL"},
		Available:   true,
	},
	{
		ID:          "5",
		Name:        "Evening Dress",
		Price:       1200,
		Image:       "",
		Description: "Luxurious evening dress for special occasions",
		Category:    "Dresses",
		Colors:      []string{"Black", "Gold", "Silver"},
		Sizes:       []string{"S", "M", "L"},
		Available:   true,
	},
	{
		ID:          "6",
		Name:        "Casual Blouse",
		Price:       280,
		Image:       "",
		Description: "Comfortable and elegant casual blouse",
		Category:    "Blouses",
		Colors:      []string{"White", "Pink", "Light Blue"},
		Sizes:       []string{"S", "M", "L"},
		Available:   true,
	},
}

// SeedProducts returns a copy of the built-in catalog.
func SeedProducts() []models.Product {
	out := make([]models.Product, len(seedProducts))
	copy(out, seedProducts)
	return out
}
