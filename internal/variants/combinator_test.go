package variants

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestGenerateCombinationKey(t *testing.T) {
	assert.Equal(t, "a|b", GenerateCombinationKey([]string{"b", "a"}))
	assert.Equal(t, GenerateCombinationKey([]string{"a", "b"}), GenerateCombinationKey([]string{"b", "a"}))
	assert.Equal(t, "x", GenerateCombinationKey([]string{"x"}))
	assert.Equal(t, "", GenerateCombinationKey(nil))

	in := []string{"c", "a", "b"}
	GenerateCombinationKey(in)
	assert.Equal(t, []string{"c", "a", "b"}, in)
}

func TestGenerateCombinations_Cartesian(t *testing.T) {
	sel := NewSelection()
	sel.Select("color", "red", "blue")
	sel.Select("size", "s", "m", "l")

	combos := GenerateCombinations(sel)

	require.Len(t, combos, 6)
	assert.Equal(t, 6, CombinationsCount(sel))

	var order [][]string
	keys := map[string]struct{}{}
	for _, c := range combos {
		order = append(order, c.OptionIDs())
		keys[c.CombinationKey] = struct{}{}
		assert.Zero(t, c.BasePrice)
		assert.Nil(t, c.Price)
		assert.Zero(t, c.Stock)
	}
	assert.Len(t, keys, 6)
	assert.Equal(t, [][]string{
		{"red", "s"}, {"red", "m"}, {"red", "l"},
		{"blue", "s"}, {"blue", "m"}, {"blue", "l"},
	}, order)
	assert.Equal(t, "blue|s", combos[3].CombinationKey)
}

func TestGenerateCombinations_KeyIndependentOfAttributeOrder(t *testing.T) {
	a := NewSelection()
	a.Select("color", "red")
	a.Select("size", "m")

	b := NewSelection()
	b.Select("size", "m")
	b.Select("color", "red")

	ca, cb := GenerateCombinations(a), GenerateCombinations(b)
	require.Len(t, ca, 1)
	require.Len(t, cb, 1)
	assert.Equal(t, ca[0].CombinationKey, cb[0].CombinationKey)
	assert.NotEqual(t, ca[0].OptionIDs(), cb[0].OptionIDs())
}

func TestGenerateCombinations_EmptySelection(t *testing.T) {
	tests := []struct {
		name string
		sel  *Selection
	}{
		{"nil", nil},
		{"no attributes", NewSelection()},
		{"all sets empty", func() *Selection {
			s := NewSelection()
			s.Select("color")
			s.Select("size", "m")
			s.Deselect("size", "m")
			return s
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combos := GenerateCombinations(tt.sel)
			assert.NotNil(t, combos)
			assert.Empty(t, combos)
			assert.Equal(t, 0, CombinationsCount(tt.sel))
		})
	}
}

func TestGenerateCombinations_SkipsEmptyAttributes(t *testing.T) {
	sel := NewSelection()
	sel.Select("color", "red", "blue")
	sel.Select("material")
	sel.Select("size", "m")

	combos := GenerateCombinations(sel)
	require.Len(t, combos, 2)
	assert.Equal(t, []string{"red", "m"}, combos[0].OptionIDs())
	assert.Equal(t, 2, CombinationsCount(sel))
}

func TestCombinationsCount_MatchesGeneration(t *testing.T) {
	shapes := [][]int{{1}, {3}, {2, 3}, {2, 0, 4}, {1, 1, 1}, {5, 4, 3}, {0}}
	for _, shape := range shapes {
		sel := NewSelection()
		for i, n := range shape {
			attr := string(rune('a' + i))
			sel.Select(attr)
			for j := 0; j < n; j++ {
				sel.Select(attr, attr+string(rune('0'+j)))
			}
		}
		assert.Equal(t, len(GenerateCombinations(sel)), CombinationsCount(sel), "shape %v", shape)
	}
}

func TestCombinationsCount_Saturates(t *testing.T) {
	for _, attrs := range []int{63, 64, 100} {
		sel := NewSelection()
		for i := 0; i < attrs; i++ {
			attr := fmt.Sprintf("attr-%d", i)
			sel.Select(attr, attr+"-x", attr+"-y")
		}
		assert.Equal(t, math.MaxInt, CombinationsCount(sel), "%d attributes", attrs)
		assert.True(t, IsCombinationsCountHigh(sel, DefaultHighThreshold))
	}
}

func TestIsCombinationsCountHigh(t *testing.T) {
	sel := NewSelection()
	for i := 0; i < 10; i++ {
		sel.Select("a", string(rune('a'+i)))
		sel.Select("b", string(rune('A'+i)))
	}
	require.Equal(t, 100, CombinationsCount(sel))

	assert.False(t, IsCombinationsCountHigh(sel, DefaultHighThreshold))
	assert.False(t, IsCombinationsCountHigh(sel, 0))
	assert.True(t, IsCombinationsCountHigh(sel, 99))

	sel.Select("c", "x", "y")
	assert.True(t, IsCombinationsCountHigh(sel, 0))
}

func TestReconcile(t *testing.T) {
	price := 42.0
	sel := NewSelection()
	sel.Select("color", "red")
	sel.Select("size", "s", "m")

	first := GenerateCombinations(sel)
	first[0].BasePrice = 100
	first[0].Price = &price
	first[0].Stock = 7
	first[1].Stock = 3

	sel.Deselect("size", "m")
	sel.Select("size", "l")
	next := Reconcile(first, GenerateCombinations(sel))

	require.Len(t, next, 2)
	assert.Equal(t, "red|s", next[0].CombinationKey)
	assert.Equal(t, 100.0, next[0].BasePrice)
	require.NotNil(t, next[0].Price)
	assert.Equal(t, 42.0, *next[0].Price)
	assert.Equal(t, 7, next[0].Stock)

	assert.Equal(t, "l|red", next[1].CombinationKey)
	assert.Zero(t, next[1].Stock)

	price = 1
	assert.Equal(t, 42.0, *next[0].Price)
}

func testCatalog() []models.Attribute {
	return []models.Attribute{
		{ID: "a-color", Name: "Color", Options: []models.AttributeOption{{ID: "red", Name: "Red"}, {ID: "blue", Name: "Blue"}}},
		{ID: "a-size", Name: "Size", Options: []models.AttributeOption{{ID: "m", Name: "M"}}},
	}
}

func TestCombinationLabel(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, "Color: Red / Size: M", CombinationLabel([]OptionRef{{"red"}, {"m"}}, catalog))
	assert.Equal(t, "Size: M / Color: Blue", CombinationLabel([]OptionRef{{"m"}, {"blue"}}, catalog))
	assert.Equal(t, "Color: Red / ghost", CombinationLabel([]OptionRef{{"red"}, {"ghost"}}, catalog))
	assert.Equal(t, "", CombinationLabel(nil, catalog))
	assert.Equal(t, "red", CombinationLabel([]OptionRef{{"red"}}, nil))
}

func TestCatalogLookups(t *testing.T) {
	catalog := testCatalog()

	attr, ok := FindAttributeForOption("m", catalog)
	require.True(t, ok)
	assert.Equal(t, "a-size", attr.ID)

	_, ok = FindAttributeForOption("ghost", catalog)
	assert.False(t, ok)

	d, ok := OptionDetails("blue", catalog)
	require.True(t, ok)
	assert.Equal(t, SelectedOption{AttributeID: "a-color", AttributeName: "Color", OptionID: "blue", OptionName: "Blue"}, d)

	assert.Equal(t, "Red", OptionName("red", catalog))
	assert.Equal(t, "ghost", OptionName("ghost", catalog))
}

func TestSelection_ToggleAndOrder(t *testing.T) {
	sel := NewSelection()
	assert.True(t, sel.Toggle("size", "m"))
	assert.True(t, sel.Toggle("color", "red"))
	assert.True(t, sel.Toggle("size", "s"))
	assert.False(t, sel.Toggle("size", "m"))

	assert.Equal(t, []string{"size", "color"}, sel.Attributes())
	assert.Equal(t, []string{"s"}, sel.Options("size"))
	assert.True(t, sel.IsSelected("color", "red"))
	assert.False(t, sel.IsSelected("size", "m"))

	sel.Select("size", "s", "s")
	assert.Equal(t, []string{"s"}, sel.Options("size"))

	sel.Clear("size")
	assert.Equal(t, []string{"color"}, sel.Attributes())
}

func TestSelection_JSON(t *testing.T) {
	var sel Selection
	raw := `[{"attributeId":"size","optionIds":["m","s"]},{"attributeId":"color","optionIds":["red"]}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &sel))

	assert.Equal(t, []string{"size", "color"}, sel.Attributes())
	combos := GenerateCombinations(&sel)
	require.Len(t, combos, 2)
	assert.Equal(t, []string{"m", "red"}, combos[0].OptionIDs())

	data, err := json.Marshal(&sel)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))

	assert.Error(t, json.Unmarshal([]byte(`[{"optionIds":["x"]}]`), &sel))
	assert.Error(t, json.Unmarshal([]byte(`{"size":["m"]}`), &sel))
}
