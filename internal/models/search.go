package models

type CategoryRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type SearchResult struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   *string      `json:"description"`
	Images        []string     `json:"images"`
	BasePrice     *float64     `json:"basePrice"`
	Price         *float64     `json:"price"`
	Category      *CategoryRef `json:"category"`
	AverageRating float64      `json:"averageRating"`
	ReviewCount   int          `json:"reviewCount"`
}

type SearchResponse struct {
	Data  []SearchResult `json:"data"`
	Meta  PaginationMeta `json:"meta"`
	Query string         `json:"query"`
}

type SearchSuggestion struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Image *string `json:"image,omitempty"`
}

type InstantProduct struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Images    []string     `json:"images"`
	Price     *float64     `json:"price"`
	BasePrice *float64     `json:"basePrice"`
	Category  *CategoryRef `json:"category"`
}

type InstantSearchResponse struct {
	Products   []InstantProduct `json:"products"`
	Categories []FilterCategory `json:"categories"`
}

type SearchInput struct {
	Query      string   `form:"q" validate:"required"`
	Limit      int      `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int      `form:"offset" validate:"omitempty,min=0"`
	CategoryID string   `form:"categoryId"`
	MinPrice   *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice   *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
}
