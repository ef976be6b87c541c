package models

type FilterCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

type FilterOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type FilterAttribute struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Slug    string         `json:"slug"`
	Options []FilterOption `json:"options"`
}

type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FiltersResponse lists every facet the storefront can filter on.
type FiltersResponse struct {
	Categories []FilterCategory  `json:"categories"`
	Attributes []FilterAttribute `json:"attributes"`
	PriceRange PriceBounds       `json:"priceRange"`
}
