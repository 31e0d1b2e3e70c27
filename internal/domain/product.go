package domain

import (
	"encoding/json"
	"fmt"
)

// IngredientKind tags how an expected ingredient was declared
type IngredientKind int

const (
	// IngredientBare is an ingredient given as plain text
	IngredientBare IngredientKind = iota
	// IngredientNamed is a structured ingredient entry carrying a name
	IngredientNamed
)

// Ingredient is a single expected ingredient entry
type Ingredient struct {
	kind  IngredientKind
	value string
}

// Named builds an ingredient from a structured entry's name field
func Named(name string) Ingredient {
	return Ingredient{kind: IngredientNamed, value: name}
}

// Bare builds an ingredient from plain text
func Bare(text string) Ingredient {
	return Ingredient{kind: IngredientBare, value: text}
}

// Kind reports how the ingredient was declared
func (i Ingredient) Kind() IngredientKind {
	return i.kind
}

// DisplayName returns the text used both for matching and for reporting
func (i Ingredient) DisplayName() string {
	return i.value
}

// MarshalJSON renders named entries as {"name": ...} and bare entries as strings
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.kind == IngredientNamed {
		return json.Marshal(struct {
			Name string `json:"name"`
		}{Name: i.value})
	}
	return json.Marshal(i.value)
}

// IngredientList is an ordered list of expected ingredients.
// A nil list means the product carries no ingredient expectation;
// a non-nil empty list is an expectation with no entries.
type IngredientList []Ingredient

// IngredientNames builds a bare ingredient list from plain names
func IngredientNames(names ...string) IngredientList {
	list := make(IngredientList, 0, len(names))
	for _, name := range names {
		list = append(list, Bare(name))
	}
	return list
}

// Names returns the display name of every entry in order
func (l IngredientList) Names() []string {
	names := make([]string, 0, len(l))
	for _, ingredient := range l {
		names = append(names, ingredient.DisplayName())
	}
	return names
}

// UnmarshalJSON accepts a list of strings and/or {"name": ...} objects.
// Anything that is not a list decodes to a nil (absent) list.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = IngredientListFromValue(raw)
	return nil
}

// UnmarshalYAML implements the goccy/go-yaml interface unmarshaler
func (l *IngredientList) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*l = IngredientListFromValue(raw)
	return nil
}

// IngredientListFromValue converts a loosely typed decoded value into an
// ingredient list. Non-list input yields nil.
func IngredientListFromValue(raw any) IngredientList {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	list := make(IngredientList, 0, len(items))
	for _, item := range items {
		list = append(list, ingredientFromValue(item))
	}
	return list
}

func ingredientFromValue(item any) Ingredient {
	switch v := item.(type) {
	case string:
		return Bare(v)
	case map[string]any:
		if name, ok := v["name"].(string); ok && name != "" {
			return Named(name)
		}
	}
	return Bare(rawText(item))
}

// rawText renders an entry that carries no usable name
func rawText(item any) string {
	if encoded, err := json.Marshal(item); err == nil {
		return string(encoded)
	}
	return fmt.Sprint(item)
}

// HasOptionalIngredients is implemented by any candidate that may carry an
// ingredient expectation. ok is false when no expectation exists.
type HasOptionalIngredients interface {
	ExpectedIngredientList() (ingredients []Ingredient, ok bool)
}

// Product is a catalog record describing what a product label should read
type Product struct {
	ID                  int64          `json:"id" yaml:"id"`
	Name                string         `json:"name" yaml:"name"`
	Barcode             string         `json:"barcode,omitempty" yaml:"barcode"`
	ExpectedVerbage     string         `json:"expected_verbage,omitempty" yaml:"expected_verbage"`
	ExpectedIngredients IngredientList `json:"expected_ingredients" yaml:"expected_ingredients"`
	ReferenceImageURL   string         `json:"reference_image_url,omitempty" yaml:"reference_image_url"`
}

// ExpectedIngredientList implements HasOptionalIngredients
func (p Product) ExpectedIngredientList() ([]Ingredient, bool) {
	return p.ExpectedIngredients, p.ExpectedIngredients != nil
}

// HasIngredients reports whether the product carries an ingredient expectation
func (p Product) HasIngredients() bool {
	return p.ExpectedIngredients != nil
}

// Summary returns the reduced view of a product sent back with scan results
func (p Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, Barcode: p.Barcode}
}

// ProductSummary is the reduced product view included in scan responses
type ProductSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Barcode string `json:"barcode,omitempty"`
}
