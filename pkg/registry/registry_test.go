package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shippedRegistry = "../../configs/activity-registry.json"

func TestShippedRegistryIsValid(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistry)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"calculate-savings", "score-lead", "submit-lead"} {
		a, ok := reg.FindByTaskType(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, "completed", a.ImplementationStatus)
	}
}

func TestActivity_ValidateInput(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistry)
	require.NoError(t, err)
	a, ok := reg.Find("calculate-savings")
	require.True(t, ok)

	assert.NoError(t, a.ValidateInput(map[string]interface{}{
		"acUnitCount":       25,
		"monthlyBillAmount": "LKR 250,000",
		"currentACType":     "NON_INVERTER",
	}))

	err = a.ValidateInput(map[string]interface{}{"acUnitCount": 25})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monthlyBillAmount")

	assert.Error(t, a.ValidateInput(map[string]interface{}{
		"acUnitCount":       25,
		"monthlyBillAmount": 1000,
		"currentACType":     "WINDOW",
	}))
}

func TestValidate(t *testing.T) {
	valid := func() Activity {
		return Activity{ID: "a", DisplayName: "A", TaskType: "a", Category: "leads", Timeout: "5s"}
	}

	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"ok", func(r *ActivityRegistry) {}, ""},
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate", func(r *ActivityRegistry) { r.Activities = append(r.Activities, valid()) }, "duplicate activity ID"},
		{"missing task type", func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, "TaskType"},
		{"bad status", func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" }, "unknown status"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"bad schema", func(r *ActivityRegistry) {
			r.Activities[0].InputSchema = map[string]interface{}{"type": "bogus"}
		}, "invalid input schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Version: "1.0.0", Activities: []Activity{valid()}}
			tt.mutate(reg)

			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	reg := &ActivityRegistry{Version: "1.0.0"}
	require.NoError(t, reg.Add(Activity{ID: "notify-sales", DisplayName: "Notify Sales", TaskType: "notify-sales", Category: "leads"}, now))
	assert.Error(t, reg.Add(Activity{ID: "notify-sales"}, now))
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T09:30:00Z", loaded.LastUpdated)
	require.Len(t, loaded.Activities, 1)
	assert.Equal(t, "Notify Sales", loaded.Activities[0].DisplayName)
}
