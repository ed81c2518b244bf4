package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(envName, "dev")

	p := &Paths{
		configFileName:   "config.yml",
		snapshotFileName: "snapshot.db",
		sessionsFileName: "sessions.db",
		logFileName:      "studyfocus.log",
	}

	p.applyEnvironmentOverrides()

	assert.Equal(t, "config_dev.yml", p.configFileName)
	assert.Equal(t, "snapshot_dev.db", p.snapshotFileName)
	assert.Equal(t, "sessions_dev.db", p.sessionsFileName)
	assert.Equal(t, "studyfocus_dev.log", p.logFileName)
}

func TestComputePaths(t *testing.T) {
	dir := t.TempDir()

	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	xdg.Reload()

	p := &Paths{
		configDir:        "studyfocus",
		configFileName:   "config.yml",
		snapshotFileName: "snapshot.db",
		sessionsFileName: "sessions.db",
		logFileName:      "studyfocus.log",
	}

	assert.NoError(t, p.computePaths())

	assert.Equal(t, filepath.Join(dir, "config", "studyfocus", "config.yml"), p.configFilePath)
	assert.Equal(t, filepath.Join(dir, "data", "studyfocus", "snapshot.db"), p.snapshotFilePath)
	assert.Equal(t, filepath.Join(dir, "data", "studyfocus", "sessions.db"), p.sessionsFilePath)
	assert.Equal(t, filepath.Join(dir, "data", "studyfocus", "log", "studyfocus.log"), p.logFilePath)
}
