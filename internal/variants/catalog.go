package variants

import (
	"strings"

	"storefront/internal/models"
)

// SelectedOption resolves an option id against the attribute catalog.
type SelectedOption struct {
	AttributeID   string `json:"attributeId"`
	AttributeName string `json:"attributeName"`
	OptionID      string `json:"optionId"`
	OptionName    string `json:"optionName"`
}

// Catalog lookups are linear. Attribute lists hold tens of entries.

func findOption(optionID string, catalog []models.Attribute) (int, int, bool) {
	for i, attr := range catalog {
		for j, opt := range attr.Options {
			if opt.ID == optionID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// FindAttributeForOption returns the attribute owning optionID.
func FindAttributeForOption(optionID string, catalog []models.Attribute) (models.Attribute, bool) {
	i, _, ok := findOption(optionID, catalog)
	if !ok {
		return models.Attribute{}, false
	}
	return catalog[i], true
}

func OptionDetails(optionID string, catalog []models.Attribute) (SelectedOption, bool) {
	i, j, ok := findOption(optionID, catalog)
	if !ok {
		return SelectedOption{}, false
	}
	attr := catalog[i]
	return SelectedOption{
		AttributeID:   attr.ID,
		AttributeName: attr.Name,
		OptionID:      attr.Options[j].ID,
		OptionName:    attr.Options[j].Name,
	}, true
}

// OptionName falls back to the id when the option is unknown.
func OptionName(optionID string, catalog []models.Attribute) string {
	if d, ok := OptionDetails(optionID, catalog); ok {
		return d.OptionName
	}
	return optionID
}

// CombinationLabel renders "Color: Red / Size: M" in stored option order.
// Unknown ids are printed as is.
func CombinationLabel(options []OptionRef, catalog []models.Attribute) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if d, ok := OptionDetails(o.OptionID, catalog); ok {
			parts[i] = d.AttributeName + ": " + d.OptionName
			continue
		}
		parts[i] = o.OptionID
	}
	return strings.Join(parts, " / ")
}
