package variants

import (
	"math"
	"sort"
	"strings"
)

// DefaultHighThreshold is the combination count above which the admin form
// warns before generating.
const DefaultHighThreshold = 100

// MaxCombinations caps what a caller may generate even after confirming a
// high count.
const MaxCombinations = 5000

type OptionRef struct {
	OptionID string `json:"optionId"`
}

// Combination is one purchasable variant. Options keep generation order;
// only CombinationKey is sorted. Prices and stock start zeroed and belong to
// the caller afterwards.
type Combination struct {
	CombinationKey string      `json:"combinationKey"`
	Options        []OptionRef `json:"options"`
	BasePrice      float64     `json:"basePrice"`
	Price          *float64    `json:"price,omitempty"`
	Stock          int         `json:"stock"`
}

// OptionIDs returns the option ids in stored order.
func (c Combination) OptionIDs() []string {
	ids := make([]string, len(c.Options))
	for i, o := range c.Options {
		ids[i] = o.OptionID
	}
	return ids
}

// GenerateCombinationKey sorts the ids and joins them with '|'. The input is
// not modified.
func GenerateCombinationKey(optionIDs []string) string {
	sorted := append([]string(nil), optionIDs...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// GenerateCombinations returns the cartesian product of the non-empty option
// sets in sel, attribute order first, then option order. No non-empty set
// means no combinations.
func GenerateCombinations(sel *Selection) []Combination {
	lists := sel.nonEmpty()
	if len(lists) == 0 {
		return []Combination{}
	}

	tuples := [][]string{{}}
	for _, options := range lists {
		next := make([][]string, 0, len(tuples)*len(options))
		for _, tuple := range tuples {
			for _, id := range options {
				t := make([]string, len(tuple), len(tuple)+1)
				copy(t, tuple)
				next = append(next, append(t, id))
			}
		}
		tuples = next
	}

	out := make([]Combination, 0, len(tuples))
	for _, tuple := range tuples {
		refs := make([]OptionRef, len(tuple))
		for i, id := range tuple {
			refs[i] = OptionRef{OptionID: id}
		}
		out = append(out, Combination{
			CombinationKey: GenerateCombinationKey(tuple),
			Options:        refs,
		})
	}
	return out
}

// CombinationsCount is len(GenerateCombinations(sel)) without building them.
// A product too large for an int saturates at math.MaxInt.
func CombinationsCount(sel *Selection) int {
	lists := sel.nonEmpty()
	if len(lists) == 0 {
		return 0
	}
	count := 1
	for _, options := range lists {
		n := len(options)
		if count > math.MaxInt/n {
			return math.MaxInt
		}
		count *= n
	}
	return count
}

// IsCombinationsCountHigh reports whether the count exceeds threshold. A
// non-positive threshold means DefaultHighThreshold.
func IsCombinationsCountHigh(sel *Selection, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultHighThreshold
	}
	return CombinationsCount(sel) > threshold
}

// Reconcile carries caller edits (prices, stock) from previous onto a fresh
// generation, matching by CombinationKey. The result follows generated order;
// previous entries that were not regenerated are dropped.
func Reconcile(previous, generated []Combination) []Combination {
	byKey := make(map[string]Combination, len(previous))
	for _, c := range previous {
		byKey[c.CombinationKey] = c
	}

	out := make([]Combination, len(generated))
	for i, c := range generated {
		if prev, ok := byKey[c.CombinationKey]; ok {
			c.BasePrice = prev.BasePrice
			c.Stock = prev.Stock
			if prev.Price != nil {
				p := *prev.Price
				c.Price = &p
			}
		}
		out[i] = c
	}
	return out
}
