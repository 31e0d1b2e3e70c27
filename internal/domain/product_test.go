package domain

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientDisplayName(t *testing.T) {
	assert.Equal(t, "peanuts", Named("peanuts").DisplayName())
	assert.Equal(t, IngredientNamed, Named("peanuts").Kind())
	assert.Equal(t, "sea salt", Bare("sea salt").DisplayName())
	assert.Equal(t, IngredientBare, Bare("sea salt").Kind())
}

func TestIngredientListUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNil   bool
		wantNames []string
		wantKinds []IngredientKind
	}{
		{
			name:      "strings and named objects",
			input:     `["sugar", {"name": "salt"}, {"name": "cocoa butter", "percent": 12}]`,
			wantNames: []string{"sugar", "salt", "cocoa butter"},
			wantKinds: []IngredientKind{IngredientBare, IngredientNamed, IngredientNamed},
		},
		{
			name:      "entries without a usable name fall back to their JSON text",
			input:     `[42, null, {"label": "x"}, {"name": ""}]`,
			wantNames: []string{"42", "null", `{"label":"x"}`, `{"name":""}`},
			wantKinds: []IngredientKind{IngredientBare, IngredientBare, IngredientBare, IngredientBare},
		},
		{name: "empty list is present", input: `[]`, wantNames: []string{}, wantKinds: []IngredientKind{}},
		{name: "null is absent", input: `null`, wantNil: true},
		{name: "string is absent", input: `"peanuts, salt"`, wantNil: true},
		{name: "object is absent", input: `{"name": "salt"}`, wantNil: true},
		{name: "number is absent", input: `3`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list IngredientList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &list))

			if tt.wantNil {
				assert.Nil(t, list)
				return
			}
			require.NotNil(t, list)
			assert.Equal(t, tt.wantNames, list.Names())

			kinds := make([]IngredientKind, 0, len(list))
			for _, ingredient := range list {
				kinds = append(kinds, ingredient.Kind())
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestProductIngredientPresence(t *testing.T) {
	var withList, withEmpty, without Product
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","expected_ingredients":["x"]}`), &withList))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"b","expected_ingredients":[]}`), &withEmpty))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"c"}`), &without))

	list, ok := withList.ExpectedIngredientList()
	assert.True(t, ok)
	assert.Len(t, list, 1)

	list, ok = withEmpty.ExpectedIngredientList()
	assert.True(t, ok)
	assert.Empty(t, list)

	_, ok = without.ExpectedIngredientList()
	assert.False(t, ok)
	assert.False(t, without.HasIngredients())
}

func TestProductJSONRoundTrip(t *testing.T) {
	product := Product{
		ID:                  7,
		Name:                "Trail Mix",
		Barcode:             "0001",
		ExpectedIngredients: IngredientList{Named("peanuts"), Bare("raisins")},
	}

	data, err := json.Marshal(product)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":7,"name":"Trail Mix","barcode":"0001","expected_ingredients":[{"name":"peanuts"},"raisins"]}`,
		string(data))

	var decoded Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, product, decoded)
}

func TestIngredientListUnmarshalYAML(t *testing.T) {
	input := `
expected_ingredients:
  - name: peanuts
  - salt
`
	var product Product
	require.NoError(t, yaml.Unmarshal([]byte(input), &product))
	assert.Equal(t, IngredientList{Named("peanuts"), Bare("salt")}, product.ExpectedIngredients)

	var scalar Product
	require.NoError(t, yaml.Unmarshal([]byte("expected_ingredients: peanuts\n"), &scalar))
	assert.Nil(t, scalar.ExpectedIngredients)
}

func TestProductSummary(t *testing.T) {
	summary := Product{ID: 3, Name: "Water", Barcode: "999", ExpectedVerbage: "Still"}.Summary()
	assert.Equal(t, &ProductSummary{ID: 3, Name: "Water", Barcode: "999"}, summary)
}
