package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendParams(t *testing.T) {
	s := Decode(ParseQuery("search=hat&categories=shoes&categories=bags&minPrice=abc&maxPrice=50&sortBy=price&sortOrder=desc&page=2&Color=Red&Color=Blue"))

	got := BackendParams(s)

	assert.Equal(t, "hat", got.Get("search"))
	assert.Equal(t, "shoes", got.Get("categorySlug"))
	assert.False(t, got.Has(KeyMinPrice))
	assert.Equal(t, "50", got.Get(KeyMaxPrice))
	assert.Equal(t, "2", got.Get(KeyPage))
	assert.Equal(t, "price_desc", got.Get(KeySortBy))
	assert.JSONEq(t, `[{"Color":"Red"},{"Color":"Blue"}]`, got.Get("options"))
	assert.False(t, got.Has(KeyCategories))
	assert.False(t, got.Has(KeySortOrder))
}

func TestBackendParams_Empty(t *testing.T) {
	assert.Empty(t, BackendParams(FilterState{}))
}

func TestBackendSort(t *testing.T) {
	tests := []struct {
		by, order, want string
	}{
		{SortByPrice, "", "price_asc"},
		{SortByPrice, SortAsc, "price_asc"},
		{SortByPrice, SortDesc, "price_desc"},
		{SortByCreatedAt, SortDesc, "newest"},
		{SortByName, SortAsc, "name"},
		{SortByUpdatedAt, SortAsc, ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.by+"_"+tt.order, func(t *testing.T) {
			assert.Equal(t, tt.want, backendSort(tt.by, tt.order))
		})
	}
}

func TestOptionPair_JSON(t *testing.T) {
	var o OptionPair
	assert.NoError(t, o.UnmarshalJSON([]byte(`{"Size":"XL"}`)))
	assert.Equal(t, OptionPair{Key: "Size", Value: "XL"}, o)

	data, err := OptionPair{Key: "a\"b", Value: "c"}.MarshalJSON()
	assert.NoError(t, err)
	assert.JSONEq(t, `{"a\"b":"c"}`, string(data))
}
