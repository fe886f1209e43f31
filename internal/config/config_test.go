package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcircuit/qasm"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shots: 64\nseed: 7\ndialect: \"3.0\"\nlog_level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Shots)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, qasm.V3, cfg.OutputDialect())
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 4, cfg.Precision)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		"shots: 0\n",
		"dialect: \"9\"\n",
		"log_level: loud\n",
		"max_loop_iterations: -1\n",
		"shots: [1, 2]\n",
	} {
		path := filepath.Join(t.TempDir(), "qc.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := Load(path)
		assert.Error(t, err, body)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qc.yaml")
	cfg := DefaultConfig()
	cfg.Shots = 10
	cfg.Seed = 99
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
