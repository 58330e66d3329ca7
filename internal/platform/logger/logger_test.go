package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	log, closer := New(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("booking_id", "b-1").Warn("slot missing on cancel")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "b-1", entry["booking_id"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, closer := New(config.LogConfig{Level: "chatty"})
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
