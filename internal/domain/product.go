package domain

// Product is a catalog product as exposed by the commerce API.
type Product struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Images        []string `json:"images,omitempty"`
	Price         float64  `json:"price"`
	RatingsAvg    float64  `json:"ratings_avg"`
	RatingsCount  int      `json:"ratings_count"`
	Sold          int      `json:"sold"`
	QuantityStock int      `json:"quantity_stock"`
	Category      Category `json:"category"`
	Brand         Brand    `json:"brand"`
}

// Category is a catalog category.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Brand is a catalog brand.
type Brand struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}
