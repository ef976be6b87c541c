package query

import (
	"encoding/json"
	"net/url"
)

// BackendParams translates a FilterState into the product listing dialect of
// the remote API: a single categorySlug, a combined sortBy, and options as a
// JSON array. NaN price bounds are dropped here.
func BackendParams(s FilterState) url.Values {
	params := url.Values{}

	if search := s.Search.String(); search != "" {
		params.Set("search", search)
	}

	// Backend expects one category slug
	if len(s.Categories) > 0 && s.Categories[0] != "" {
		params.Set("categorySlug", s.Categories[0])
	}

	if v, ok := s.PriceRange.MinValid(); ok {
		params.Set(KeyMinPrice, formatNumber(v))
	}
	if v, ok := s.PriceRange.MaxValid(); ok {
		params.Set(KeyMaxPrice, formatNumber(v))
	}

	if page := s.Page.String(); page != "" {
		params.Set(KeyPage, page)
	}

	if sortBy := backendSort(s.SortBy.String(), s.SortOrder.String()); sortBy != "" {
		params.Set(KeySortBy, sortBy)
	}

	if len(s.Options) > 0 {
		if data, err := json.Marshal(s.Options); err == nil {
			params.Set("options", string(data))
		}
	}

	return params
}

func backendSort(by, order string) string {
	if order == "" {
		order = SortAsc
	}
	switch by {
	case SortByPrice:
		if order == SortAsc {
			return "price_asc"
		}
		return "price_desc"
	case SortByCreatedAt:
		return "newest"
	case SortByName:
		return "name"
	}
	return ""
}
