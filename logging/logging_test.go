package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ACCESS-NRI/hpcpy/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", "text", &buf)

	logger.Info("job submitted", "job_id", "123")
	logger.Debug("suppressed at info level")

	out := buf.String()
	assert.Contains(t, out, "job submitted")
	assert.Contains(t, out, "job_id=123")
	assert.NotContains(t, out, "suppressed")
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("debug", "json", &buf)

	logger.Debug("probe", "client", "pbs")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "probe", entry["msg"])
	assert.Equal(t, "pbs", entry["client"])
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("verbose", "text", &buf)

	logger.Info("kept")
	logger.Debug("dropped")

	assert.Contains(t, buf.String(), "kept")
	assert.NotContains(t, buf.String(), "dropped")
}
