package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"booking_retry", "boundary"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			// To regenerate:
			//   go test ./internal/harness -run TestRunWithGolden -update
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "booking_retry.yaml"))
	require.NoError(t, err)

	first, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	second, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Transcript(scenario.Name), second.Transcript(scenario.Name))
}
