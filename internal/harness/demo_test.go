package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioFiles runs every scenario under testdata/scenarios. Each one
// states its own expectations, so a pass means every step and assertion held
// and no bus drifted from its seat map.
func TestScenarioFiles(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunIsolated(context.Background(), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v\n%s", result.Errors, result.Transcript(scenario.Name))
		})
	}
}

func TestScenarioFiles_AbandonedLeavesNoActivity(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "abandoned.yaml"))
	require.NoError(t, err)

	result, err := RunIsolated(context.Background(), scenario)
	require.NoError(t, err)
	require.Len(t, result.Steps, 3)

	assert.Equal(t, "ABANDONED", result.Steps[0].Error)
	assert.Equal(t, "ATTEMPTS_EXCEEDED", result.Steps[1].Error)
	assert.Equal(t, []string{"2025-01-01 09:00:00 - Booked: Bus 1 Seat 3 Name: Carol"}, result.Activity)
	assert.Equal(t, "ref-0001", result.Steps[2].Ref)
}
