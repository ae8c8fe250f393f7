package selection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"promptstudio-workers/internal/models"
)

// ErrNoSchema is returned when the selected deployment is not in the recipe
// group or carries no usable request schema.
var ErrNoSchema = errors.New("no schema found for the selected deployment")

// DeriveFields returns one field descriptor per top-level key of the selected
// deployment's request schema, in the order the keys were received.
func DeriveFields(value, deploymentID string) ([]models.FieldDescriptor, error) {
	return DeriveGroupFields(Decode(value), deploymentID)
}

// DeriveGroupFields is DeriveFields for an already decoded group.
func DeriveGroupFields(g Group, deploymentID string) ([]models.FieldDescriptor, error) {
	idx := g.Index(deploymentID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: deployment %q is not part of the selected recipe", ErrNoSchema, deploymentID)
	}

	keys, err := objectKeys(g.Deployments[idx].Schemas.RequestSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: deployment %q: %v", ErrNoSchema, deploymentID, err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: deployment %q has an empty request schema", ErrNoSchema, deploymentID)
	}

	fields := make([]models.FieldDescriptor, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, models.FieldDescriptor{
			ID:               key,
			DisplayName:      key,
			Required:         true,
			DefaultMatch:     true,
			Display:          true,
			Type:             "string",
			CanBeUsedToMatch: true,
			ReadOnly:         false,
			Removed:          false,
		})
	}
	return fields, nil
}

// objectKeys lists the top-level keys of a JSON object in document order.
// Duplicate keys are reported once.
func objectKeys(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("request schema is missing")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read request schema: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("request schema is not an object")
	}

	seen := make(map[string]bool)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read request schema key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in request schema", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("read request schema value for %q: %w", key, err)
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}
