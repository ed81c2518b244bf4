// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const envName = "STUDYFOCUS_ENV"

// Paths holds all application path configurations.
type Paths struct {
	configDir        string
	configFileName   string
	snapshotFileName string
	sessionsFileName string
	logFileName      string

	// Computed absolute paths
	configFilePath   string
	snapshotFilePath string
	sessionsFilePath string
	logFilePath      string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

// Initialize must be called once at program startup. STUDYFOCUS_ENV selects
// a separate set of files, so that a development build does not touch the
// real snapshot or session database.
func Initialize() error {
	once.Do(func() {
		paths = &Paths{
			configDir:        "studyfocus",
			configFileName:   "config.yml",
			snapshotFileName: "snapshot.db",
			sessionsFileName: "sessions.db",
			logFileName:      "studyfocus.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

// SnapshotFilePath is the bbolt file holding the timer snapshot.
func SnapshotFilePath() string {
	return Must().snapshotFilePath
}

// SessionsFilePath is the default location of the session database when
// system.remote_db is not set.
func SessionsFilePath() string {
	return Must().sessionsFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv(envName))
	if env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.snapshotFileName = fmt.Sprintf("snapshot_%s.db", env)
		p.sessionsFileName = fmt.Sprintf("sessions_%s.db", env)
		p.logFileName = fmt.Sprintf("studyfocus_%s.log", env)
	}
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(filepath.Join(p.configDir, p.configFileName))
	if err != nil {
		return err
	}

	dataDir, err := xdg.DataFile(p.configDir)
	if err != nil {
		return err
	}

	p.snapshotFilePath = filepath.Join(dataDir, p.snapshotFileName)
	p.sessionsFilePath = filepath.Join(dataDir, p.sessionsFileName)
	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
