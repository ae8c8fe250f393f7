// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"promptstudio-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SaveRegistry writes reg as indented JSON, creating the directory if needed.
func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks ids are unique, required fields are present and task types
// follow the domain.subdomain.action convention.
func Validate(reg *ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range reg.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if err := validation.ValidateActivityNaming(activity.TaskType); err != nil {
			return fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true
		if activity.InputSchema == nil || activity.OutputSchema == nil {
			return fmt.Errorf("activity %s missing input or output schema", activity.ID)
		}
	}
	return nil
}

// Diff lists the activity ids whose entries differ between a and b, including
// ids present in only one of them.
func Diff(a, b *ActivityRegistry) []string {
	index := func(reg *ActivityRegistry) map[string][]byte {
		out := make(map[string][]byte, len(reg.Activities))
		for _, act := range reg.Activities {
			data, _ := json.Marshal(act)
			out[act.ID] = data
		}
		return out
	}

	left, right := index(a), index(b)
	var changed []string
	for _, act := range a.Activities {
		if r, ok := right[act.ID]; !ok || string(r) != string(left[act.ID]) {
			changed = append(changed, act.ID)
		}
	}
	for _, act := range b.Activities {
		if _, ok := left[act.ID]; !ok {
			changed = append(changed, act.ID)
		}
	}
	return changed
}
