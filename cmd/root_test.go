package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/track-preprocess/internal/config"

	"github.com/sells-group/track-preprocess/internal/model"
)

const sampleTrack = `{
  "curvatures": {
    "units": {"position": "m", "radius at start": "m", "radius at end": "m"},
    "values": [[0.0, -502, -502], [1018.8, 0.0, -850.0]]
  },
  "metadata": {"preprocessing": {"stale": true}}
}`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		curvature = false
	})
	return rootCmd.Execute()
}

func writeInput(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "track.json")
	require.NoError(t, os.WriteFile(in, []byte(content), 0644))
	return in, filepath.Join(dir, "out.json")
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "track-preprocess", rootCmd.Name())
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_CurvatureFlag(t *testing.T) {
	flag := rootCmd.Flags().Lookup("curvature")
	require.NotNil(t, flag, "root command should have --curvature flag")
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCommand_RequiresTwoArgs(t *testing.T) {
	err := execute(t, "only-one.json")
	assert.Error(t, err)
}

func TestRootCommand_Curvature(t *testing.T) {
	in, out := writeInput(t, sampleTrack)

	require.NoError(t, execute(t, in, out, "-c"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "curvatures": {
    "units": {"position": "m", "radius": "m"},
    "values": [[0.0, 502], [1018.8, 425]]
  },
  "metadata": {"preprocessing": {
    "original file": "track.json",
    "curvatures": "`+model.CurvatureNote+`"
  }}
}`, string(data))
}

func TestRootCommand_PassthroughWithoutFlag(t *testing.T) {
	in, out := writeInput(t, sampleTrack)

	require.NoError(t, execute(t, in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "curvatures": {
    "units": {"position": "m", "radius at start": "m", "radius at end": "m"},
    "values": [[0.0, -502, -502], [1018.8, 0.0, -850.0]]
  },
  "metadata": {"preprocessing": {"original file": "track.json"}}
}`, string(data))
}

func TestRootCommand_FailureWritesNothing(t *testing.T) {
	in, out := writeInput(t, `{"metadata": {"preprocessing": {}}}`)

	err := execute(t, in, out, "--curvature")
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "output must not be created on failure")
}

func TestRootCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, filepath.Join(dir, "nope.json"), filepath.Join(dir, "out.json"))
	assert.Error(t, err)
}

func TestRootCommand_SilencesCobraErrors(t *testing.T) {
	assert.True(t, rootCmd.SilenceErrors, "failures are reported by reportError only")
}

func TestReportError_LogsOnceWhenLoggerReady(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	prev := cfg
	cfg = &config.Config{}
	t.Cleanup(func() {
		restore()
		cfg = prev
	})

	var stderr bytes.Buffer
	reportError(&stderr, errors.New("curvature field is missing"))

	assert.Empty(t, stderr.String())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "curvature field is missing", entry.ContextMap()["error"])
}

func TestReportError_FallsBackToWriterWithoutLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	prev := cfg
	cfg = nil
	t.Cleanup(func() {
		restore()
		cfg = prev
	})

	var stderr bytes.Buffer
	reportError(&stderr, errors.New("accepts 2 arg(s), received 1"))

	assert.Equal(t, "Error: accepts 2 arg(s), received 1\n", stderr.String())
	assert.Equal(t, 0, logs.Len())
}
