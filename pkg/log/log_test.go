package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, JSONOutput: true, Output: &buf})

	Logger.Info().Msg("below threshold")
	Logger.Warn().Msg("at threshold")

	assert.NotContains(t, buf.String(), "below threshold")
	assert.Contains(t, buf.String(), "at threshold")
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "verbose", JSONOutput: true, Output: &buf})

	Logger.Debug().Msg("debug line")
	Logger.Info().Msg("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, JSONOutput: true, Output: &buf})

	logger := WithComponent("reconciler")
	logger.Info().Msg("workload status")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reconciler", entry["component"])
	assert.Equal(t, "workload status", entry["message"])
}

func TestWithTrigger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, JSONOutput: true, Output: &buf})

	logger := WithTrigger("config-changed", "id-1")
	logger.Debug().Msg("running handler")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "config-changed", entry["trigger"])
	assert.Equal(t, "id-1", entry["trigger_id"])
}
