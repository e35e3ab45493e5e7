package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/busreserve/internal/testutil"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// testSetup is a file-backed deployment of two 8-seat buses.
type testSetup struct {
	config  string
	dataDir string
}

func setupCLI(t *testing.T) *testSetup {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	config := filepath.Join(dir, "busres.yaml")
	content := fmt.Sprintf("backend: file\ndata_dir: %q\nseats_per_bus: 8\nbuses: [Alpha, Beta]\n", data)
	require.NoError(t, os.WriteFile(config, []byte(content), 0o644))
	return &testSetup{config: config, dataDir: data}
}

func (s *testSetup) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := execute(t, stdin, append([]string{"--config", s.config}, args...)...)
	return out, err
}

func TestBuses_InitializesState(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "buses")
	require.NoError(t, err)
	assert.Contains(t, out, " [1] Alpha   - Available seats: 8")
	assert.Contains(t, out, " [2] Beta   - Available seats: 8")

	assert.FileExists(t, filepath.Join(s.dataDir, "bus1_seats.txt"))
	assert.FileExists(t, filepath.Join(s.dataDir, "bus2_status.txt"))
	assert.Len(t, testutil.ReadStatusLines(t, s.dataDir, 2), 8)
}

func TestBuses_JSON(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "buses", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	buses, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, buses, 2)
}

func TestBook_Scripted(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "book", "1", "--count", "2",
		"--seat", "3", "--seat", "3", "--seat", "4",
		"--name", "Ann", "--name", "Ben", "--as", "clerk")
	require.NoError(t, err)
	assert.Contains(t, out, "1 attempt(s) rejected")
	assert.Contains(t, out, "Seat 3 booked for Ann.")
	assert.Contains(t, out, "Seat 4 booked for Ben.")
	assert.Contains(t, out, "Booking complete. Total charge: Rs 400")
	assert.Contains(t, out, "Reference: ")

	lines := testutil.ReadStatusLines(t, s.dataDir, 1)
	assert.Equal(t, "Ann", lines[2])
	assert.Equal(t, "Ben", lines[3])

	status, err := s.run(t, "", "status", "1")
	require.NoError(t, err)
	assert.Contains(t, status, "Bus 1 --> Alpha")
	assert.Contains(t, status, " 3.Ann")
	assert.Contains(t, status, "Available seats: 6")

	logData, err := os.ReadFile(filepath.Join(s.dataDir, "activity", "clerk.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Booked: Bus 1 Seat 3 Name: Ann")

	history, err := s.run(t, "", "history", "--as", "clerk")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(history, "Booked: Bus 1"))
}

func TestBook_JSON(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "book", "2", "--seat", "8", "--name", "Zed", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Ref)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(200), data["charge"])
	assert.Equal(t, float64(7), data["available"])
}

func TestBook_Interactive(t *testing.T) {
	s := setupCLI(t)

	// seat 9 is out of range, then an empty name, then a good answer
	out, err := s.run(t, "9\n2\n\n2\nZed\n", "book", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid seat number. Try again.")
	assert.Contains(t, out, "Name cannot be empty. Try again.")
	assert.Contains(t, out, "Seat 2 booked for Zed.")
	assert.Equal(t, "Zed", testutil.ReadStatusLines(t, s.dataDir, 1)[1])
}

func TestBook_InputClosedPersistsNothing(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "1\nAnn\n", "book", "1", "--count", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E110]")

	for _, line := range testutil.ReadStatusLines(t, s.dataDir, 1) {
		assert.Equal(t, "Empty", line)
	}
}

func TestBook_InsufficientSeats(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "book", "1", "--count", "9", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E104", resp.Error.Code)
}

func TestCancel(t *testing.T) {
	s := setupCLI(t)

	_, err := s.run(t, "", "book", "1", "--seat", "5", "--name", "Ann")
	require.NoError(t, err)

	out, err := s.run(t, "", "cancel", "1", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled seat 5 booked by Ann.")
	assert.Contains(t, out, "Rs 200 will be refunded.")
	assert.Equal(t, "Empty", testutil.ReadStatusLines(t, s.dataDir, 1)[4])

	out, err = s.run(t, "", "cancel", "1", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E108]")
}

func TestStatus_Errors(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "status", "7")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E101]")

	_, err = s.run(t, "", "status", "one")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerify_DriftAndRepair(t *testing.T) {
	s := setupCLI(t)
	require.NoError(t, os.MkdirAll(s.dataDir, 0o755))
	testutil.WriteBusFiles(t, s.dataDir, 1, 8, "Ann")

	out, err := s.run(t, "", "verify")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Bus 1: stored count 8, seat map has 7 vacant")

	out, err = s.run(t, "", "verify", "--repair")
	require.NoError(t, err)
	assert.Contains(t, out, "Repaired 1 bus(es).")

	out, err = s.run(t, "", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "All buses consistent.")

	data, err := os.ReadFile(filepath.Join(s.dataDir, "bus1_seats.txt"))
	require.NoError(t, err)
	assert.Equal(t, "7", strings.TrimSpace(string(data)))
}

func TestInit(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized bus 1 (Alpha) with 8 vacant seats.")
	assert.Contains(t, out, "Initialized bus 2 (Beta) with 8 vacant seats.")

	out, err = s.run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Every bus already has stored state.")
}

func TestRun_MemoryMatchesGolden(t *testing.T) {
	script := filepath.Join("..", "harness", "testdata", "scenarios", "booking_retry.yaml")
	want, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "booking_retry.golden"))
	require.NoError(t, err)

	out, _, err := execute(t, "", "run", "--memory", script)
	require.NoError(t, err)
	assert.Equal(t, string(want), out)
}

func TestRun_ConfiguredStore(t *testing.T) {
	s := setupCLI(t)
	script := filepath.Join(t.TempDir(), "two.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
name: two
description: Books two seats on the configured store
steps:
  - book: {bus: 2, count: 2, seats: [1, 2], names: [Ann, Ben]}
    expect: {available: 6}
`), 0o644))

	out, err := s.run(t, "", "run", script)
	require.NoError(t, err)
	assert.Contains(t, out, "pass: true")
	assert.Equal(t, []string{"Ann", "Ben"}, testutil.ReadStatusLines(t, s.dataDir, 2)[:2])
}

func TestRun_FailingScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
name: bad
description: Expects the wrong count
steps:
  - status: {bus: 1}
    expect: {available: 3}
`), 0o644))

	out, _, err := execute(t, "", "run", "--memory", script)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "pass: false")
	assert.Contains(t, out, "available = 32, expected 3")
}

func TestRun_MissingScript(t *testing.T) {
	_, _, err := execute(t, "", "run", "--memory", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_RequiresActor(t *testing.T) {
	s := setupCLI(t)

	_, err := s.run(t, "", "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_NoActivity(t *testing.T) {
	s := setupCLI(t)

	out, err := s.run(t, "", "history", "--as", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity for nobody.")
}

func TestConfigError(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "busres.yaml")
	require.NoError(t, os.WriteFile(config, []byte("seats_per_bus: 0\n"), 0o644))

	out, _, err := execute(t, "", "--config", config, "buses")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E202]")
}
