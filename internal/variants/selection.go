package variants

import (
	"encoding/json"
	"fmt"
)

// Selection maps attribute ids to the option ids chosen for them. Both levels
// keep insertion order, which drives the order of generated combinations.
// An attribute whose set becomes empty keeps its position.
type Selection struct {
	order []string
	sets  map[string]*optionSet
}

type optionSet struct {
	ids   []string
	index map[string]struct{}
}

func (s *optionSet) add(id string) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *optionSet) remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

func NewSelection() *Selection {
	return &Selection{sets: map[string]*optionSet{}}
}

func (s *Selection) set(attributeID string) *optionSet {
	if s.sets == nil {
		s.sets = map[string]*optionSet{}
	}
	set, ok := s.sets[attributeID]
	if !ok {
		set = &optionSet{index: map[string]struct{}{}}
		s.sets[attributeID] = set
		s.order = append(s.order, attributeID)
	}
	return set
}

// Select adds option ids under attributeID. Duplicates are ignored.
func (s *Selection) Select(attributeID string, optionIDs ...string) {
	set := s.set(attributeID)
	for _, id := range optionIDs {
		set.add(id)
	}
}

// Deselect removes one option id; it reports whether it was selected.
func (s *Selection) Deselect(attributeID, optionID string) bool {
	set, ok := s.sets[attributeID]
	if !ok {
		return false
	}
	return set.remove(optionID)
}

// Toggle flips one option and reports whether it is now selected.
func (s *Selection) Toggle(attributeID, optionID string) bool {
	if s.Deselect(attributeID, optionID) {
		return false
	}
	s.Select(attributeID, optionID)
	return true
}

// Clear drops an attribute entirely.
func (s *Selection) Clear(attributeID string) {
	if _, ok := s.sets[attributeID]; !ok {
		return
	}
	delete(s.sets, attributeID)
	for i, id := range s.order {
		if id == attributeID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// Attributes returns attribute ids in insertion order, including empty ones.
func (s *Selection) Attributes() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Options returns the selected option ids of an attribute in insertion order.
func (s *Selection) Options(attributeID string) []string {
	if s == nil {
		return nil
	}
	set, ok := s.sets[attributeID]
	if !ok {
		return nil
	}
	return append([]string(nil), set.ids...)
}

// IsSelected reports whether optionID is chosen for attributeID.
func (s *Selection) IsSelected(attributeID, optionID string) bool {
	if s == nil {
		return false
	}
	set, ok := s.sets[attributeID]
	if !ok {
		return false
	}
	_, ok = set.index[optionID]
	return ok
}

// nonEmpty returns the option lists of attributes with at least one option,
// in attribute order.
func (s *Selection) nonEmpty() [][]string {
	if s == nil {
		return nil
	}
	var out [][]string
	for _, id := range s.order {
		if set := s.sets[id]; len(set.ids) > 0 {
			out = append(out, set.ids)
		}
	}
	return out
}

// AttributeSelection is the wire form of one Selection entry.
type AttributeSelection struct {
	AttributeID string   `json:"attributeId"`
	OptionIDs   []string `json:"optionIds"`
}

// MarshalJSON encodes the selection as an ordered array, since JSON objects
// do not carry key order.
func (s *Selection) MarshalJSON() ([]byte, error) {
	out := make([]AttributeSelection, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, AttributeSelection{AttributeID: id, OptionIDs: append([]string{}, s.sets[id].ids...)})
	}
	return json.Marshal(out)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var entries []AttributeSelection
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}
	*s = Selection{sets: map[string]*optionSet{}}
	for _, e := range entries {
		if e.AttributeID == "" {
			return fmt.Errorf("invalid selection: empty attributeId")
		}
		s.Select(e.AttributeID, e.OptionIDs...)
	}
	return nil
}
