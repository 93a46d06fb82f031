package services

import "styleshop/internal/models"

// DefaultCollections are the four style collections of the storefront.
func DefaultCollections() []models.Collection {
	return []models.Collection{
		{Name: "Traditional Wear", Slug: "traditional-wear", Description: "Festivals & Weddings", Featured: true,
			ImageURL: "https://img.freepik.com/free-photo/two-indian-stylish-mans-friends-traditional-clothes-posed-outdoor_627829-2531.jpg"},
		{Name: "Casual Wear", Slug: "casual-wear", Description: "Daily Life & Comfort", Featured: true,
			ImageURL: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab"},
		{Name: "Formal Wear", Slug: "formal-wear", Description: "Office & Business", Featured: true,
			ImageURL: "https://images.unsplash.com/photo-1490578474895-699cd4e2cf59"},
		{Name: "Party Wear", Slug: "party-wear", Description: "Trendy & Fusion Styles", Featured: true,
			ImageURL: "https://images.unsplash.com/photo-1514996937319-344454492b37"},
	}
}

func seedProduct(name, brand, description string, price float64, category, image string, stock int, tags ...string) models.Product {
	return models.Product{
		Name:        name,
		Brand:       brand,
		Description: description,
		Price:       price,
		Category:    category,
		ImageURL:    image,
		Images:      []string{image},
		Tags:        tags,
		Stock:       stock,
		Match:       "90",
	}
}

// DefaultProducts is the starter catalog loaded by the seed command.
func DefaultProducts() []models.Product {
	return []models.Product{
		seedProduct("Ivory Silk Sherwani", "Manyavar", "Elegant silk sherwani with fine embroidery for weddings and festivals.",
			1850, "Formalwear", "https://m.media-amazon.com/images/I/61eo+imYSGL._SY741_.jpg", 18, "wedding", "festive", "ethnic"),
		seedProduct("Royal Blue Silk Kurta Set", "Sojanya", "Premium silk kurta with pajama for festive occasions.",
			1999, "Essentials", "https://m.media-amazon.com/images/I/71wBm6C+03L._SY879_.jpg", 25, "festive", "silk"),
		seedProduct("Olive Green Chinos", "HRX", "Comfortable stretch chinos for everyday wear.",
			749, "Bottoms", "https://m.media-amazon.com/images/I/71mPQJaw85L._SY879_.jpg", 60, "casual", "chinos"),
		seedProduct("Slim Fit Formal Shirt", "Peter England", "Formal office shirt with tailored fit.",
			1349, "Tops", "https://m.media-amazon.com/images/I/81wgovxstvL._SX569_.jpg", 40, "office", "shirt"),
		seedProduct("Navy Blue Formal Trousers", "Louis Philippe", "Tailored formal trousers for office and business wear.",
			1699, "Bottoms", "https://m.media-amazon.com/images/I/61kqr5MqpwL._SX679_.jpg", 35, "office", "trousers"),
		seedProduct("Charcoal Grey Blazer", "Van Heusen", "Slim-fit blazer for formal and semi-formal occasions.",
			5899, "Outerwear", "https://m.media-amazon.com/images/I/61YquRQoZdL._SY741_.jpg", 12, "formal", "blazer"),
		seedProduct("Olive Green Bomber Jacket", "Zara", "Stylish olive bomber jacket for a layered street look.",
			449, "Outerwear", "https://m.media-amazon.com/images/I/619xMvtqClL._SY879_.jpg", 30, "street", "jacket"),
		seedProduct("Beige Linen Shirt & Shorts", "H&M", "Breezy linen co-ord set perfect for summer vacations.",
			699, "Seasonal", "https://m.media-amazon.com/images/I/51SMe2bXGJL._SY741_.jpg", 22, "summer", "linen"),
		seedProduct("Charcoal Grey 3-Piece Suit", "Blackberrys", "Premium charcoal grey 3-piece suit for classic corporate look.",
			6899, "Formalwear", "https://m.media-amazon.com/images/I/71Hnmw5ZBxL._SX679_.jpg", 10, "suit", "corporate"),
		seedProduct("Indo-Western Asymmetric Kurta", "Shantanu & Nikhil", "Avant-garde asymmetric kurta for high-fashion cocktail events.",
			599, "New Arrivals", "https://m.media-amazon.com/images/I/41XpY9IzT-L._SX679_.jpg", 15, "party", "fusion"),
	}
}
