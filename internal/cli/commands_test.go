package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/shuffleplay/internal/app"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

// execute runs the command line args and returns what the command wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	parser := flags.NewParser(NewCommands(&out), flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(append(args, "--log-level", "error"))
	return out.String(), err
}

func TestRunCommand_JSON(t *testing.T) {
	out, err := execute(t, "run", "--songs", "1", "--plays", "5", "--verbose", "--seed", "3", "--format", "json")
	require.NoError(t, err)

	var report app.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, uint64(3), report.Seed)
	assert.Equal(t, map[domain.ItemID]int{1: 5}, report.Result.Plays)
	assert.Equal(t, []domain.ItemID{1, 1, 1, 1, 1}, report.Result.Playlist)
}

func TestRunCommand_Text(t *testing.T) {
	out, err := execute(t, "run", "-n", "10", "-p", "1", "-s", "11")
	require.NoError(t, err)

	assert.Contains(t, out, "seed 11")
	assert.Contains(t, out, "recycle window: 2 positions (8..10)")
	assert.NotContains(t, out, "playlist:")
}

func TestRunCommand_Overrides(t *testing.T) {
	out, err := execute(t, "run", "-n", "8", "-p", "0", "-s", "1",
		"--randomness", "0", "--buffer", "5", "--min-rec", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "randomness=0 buffer=5 min_rec=1")
	assert.Contains(t, out, "recycle window: 3 positions (5..8)")
}

func TestRunCommand_InvalidParameter(t *testing.T) {
	_, err := execute(t, "run", "--min-rec", "2")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = execute(t, "run", "--songs", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestBatchCommand(t *testing.T) {
	out, err := execute(t, "batch", "-n", "4", "-p", "10", "--runs", "3", "-w", "2", "-s", "1", "-f", "json")
	require.NoError(t, err)

	var report app.BatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Result.Runs, 3)
	assert.Equal(t, uint64(1), report.Result.Seed)

	total := 0
	for _, n := range report.Result.Totals {
		total += n
	}
	assert.Equal(t, 30, total)
}

func TestBatchCommand_InvalidWorkers(t *testing.T) {
	_, err := execute(t, "batch", "--workers", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestWindowCommand(t *testing.T) {
	out, err := execute(t, "window", "--max-songs", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"songs", "recycle", "start"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"3", "1", "2"}, strings.Fields(lines[3]))
}

func TestWindowCommand_JSON(t *testing.T) {
	out, err := execute(t, "window", "--max-songs", "2", "--format", "json")
	require.NoError(t, err)

	var table []domain.RecycleWindow
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Equal(t, []domain.RecycleWindow{
		{Size: 1, Start: 1, Length: 1},
		{Size: 1, Start: 1, Length: 2},
	}, table)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "shuffleplay "), out)
}

func TestConfigAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "shuffleplay.toml")
	metricsPath := filepath.Join(dir, "shuffleplay.prom")

	_, err := execute(t, "run", "--config", configPath, "--metrics-file", metricsPath, "-p", "4", "-s", "2")
	require.NoError(t, err)

	assert.FileExists(t, configPath)
	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shuffleplay_plays_total 4")
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "rewind")
	require.Error(t, err)

	var flagsErr *flags.Error
	require.ErrorAs(t, err, &flagsErr)
	assert.Equal(t, flags.ErrUnknownCommand, flagsErr.Type)
}
