// internal/models/option.go
package models

// Option is a selectable entry handed back to the host: name is shown, value
// is what the host passes back on the next stage.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RecipeOption is an Option keyed by the recipe it was aggregated from.
type RecipeOption struct {
	RecipeID string `json:"recipeId"`
	Option
}

// FieldDescriptor describes one input field derived from a request schema.
type FieldDescriptor struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	Required         bool   `json:"required"`
	DefaultMatch     bool   `json:"defaultMatch"`
	Display          bool   `json:"display"`
	Type             string `json:"type"`
	CanBeUsedToMatch bool   `json:"canBeUsedToMatch"`
	ReadOnly         bool   `json:"readOnly"`
	Removed          bool   `json:"removed"`
}
