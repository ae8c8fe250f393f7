package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg, err := Generate(now)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01T12:00:00Z", reg.LastUpdated)
	require.Len(t, reg.Activities, 4)
	require.NoError(t, Validate(reg))

	byID := map[string]Activity{}
	for _, a := range reg.Activities {
		byID[a.ID] = a
	}

	search := byID["search-recipes"]
	assert.Equal(t, "promptstudio.recipes.search", search.TaskType)
	assert.Equal(t, 3, search.Retries)
	assert.Equal(t, []interface{}{"results"}, search.OutputSchema["required"])

	columns := byID["mapping-columns"]
	assert.Equal(t, "promptstudio.inputs.columns", columns.TaskType)
	assert.Contains(t, columns.ErrorCodes, "SCHEMA_NOT_FOUND")
	assert.Equal(t, 0, columns.Retries)
	assert.Equal(t, []interface{}{"deploymentId"}, columns.InputSchema["required"])

	run := byID["run-deployment"]
	assert.Equal(t, 0, run.Retries)
	assert.Equal(t, "2m0s", run.Timeout)
	assert.Equal(t, []string{"items", "deploymentId", "inputs"}, run.FetchVariables)
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")

	reg, err := Generate(time.Now())
	require.NoError(t, err)
	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Empty(t, Diff(reg, loaded))
	require.NoError(t, Validate(loaded))
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Activity {
		return Activity{
			ID:           "a",
			DisplayName:  "A",
			Category:     "promptstudio",
			TaskType:     "promptstudio.recipes.search",
			InputSchema:  map[string]interface{}{},
			OutputSchema: map[string]interface{}{},
		}
	}

	tests := []struct {
		name    string
		mutate  func(reg *ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(reg *ActivityRegistry) { reg.Activities = nil }, wantErr: "no activities"},
		{name: "missing id", mutate: func(reg *ActivityRegistry) { reg.Activities[0].ID = "" }, wantErr: "ID"},
		{name: "missing display name", mutate: func(reg *ActivityRegistry) { reg.Activities[0].DisplayName = "" }, wantErr: "DisplayName"},
		{name: "bad task type", mutate: func(reg *ActivityRegistry) { reg.Activities[0].TaskType = "run-deployment" }, wantErr: "domain.subdomain.action"},
		{name: "missing schema", mutate: func(reg *ActivityRegistry) { reg.Activities[0].InputSchema = nil }, wantErr: "schema"},
		{
			name: "duplicate id",
			mutate: func(reg *ActivityRegistry) {
				dup := valid()
				dup.TaskType = "promptstudio.deployment.run"
				reg.Activities = append(reg.Activities, dup)
			},
			wantErr: "duplicate activity ID",
		},
		{
			name: "duplicate task type",
			mutate: func(reg *ActivityRegistry) {
				dup := valid()
				dup.ID = "b"
				reg.Activities = append(reg.Activities, dup)
			},
			wantErr: "duplicate task type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{valid()}}
			tt.mutate(reg)
			err := Validate(reg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiff(t *testing.T) {
	a := &ActivityRegistry{Activities: []Activity{{ID: "x", Version: "1"}, {ID: "y"}}}
	b := &ActivityRegistry{Activities: []Activity{{ID: "x", Version: "2"}, {ID: "z"}}}

	assert.ElementsMatch(t, []string{"x", "y", "z"}, Diff(a, b))
	assert.Empty(t, Diff(a, a))
}
