package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeValue(t *testing.T) {
	assert.Equal(t, `{"v":1}`, RecipeValue(`{"v":1}`))
	assert.Equal(t, "encoded", RecipeValue(map[string]interface{}{"mode": "list", "value": "encoded"}))
	assert.Equal(t, "", RecipeValue(map[string]interface{}{"mode": "list"}))
	assert.Equal(t, "", RecipeValue(nil))
	assert.Equal(t, "", RecipeValue(12.0))
}

func TestInputMapping(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    map[string]interface{}
		wantErr bool
	}{
		{name: "nil", in: nil, want: nil},
		{name: "plain mapping", in: map[string]interface{}{"city": "Paris"}, want: map[string]interface{}{"city": "Paris"}},
		{
			name: "resource mapper",
			in:   map[string]interface{}{"mappingMode": "defineBelow", "value": map[string]interface{}{"city": "Oslo"}},
			want: map[string]interface{}{"city": "Oslo"},
		},
		{name: "resource mapper with null value", in: map[string]interface{}{"mappingMode": "defineBelow", "value": nil}, want: nil},
		{name: "resource mapper with scalar value", in: map[string]interface{}{"mappingMode": "defineBelow", "value": "x"}, wantErr: true},
		{name: "not an object", in: []interface{}{"a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InputMapping(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunResult(t *testing.T) {
	obj := map[string]interface{}{"answer": "42"}
	assert.Equal(t, obj, RunResult(obj))
	assert.Equal(t, map[string]interface{}{"data": []interface{}{"a", "b"}}, RunResult([]interface{}{"a", "b"}))
	assert.Equal(t, map[string]interface{}{"data": "plain"}, RunResult("plain"))
	assert.Equal(t, map[string]interface{}{}, RunResult(nil))
}
