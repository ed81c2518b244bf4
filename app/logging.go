package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/studyfocus/internal/osutil"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// setupLogging routes the default slog logger to a rotated JSON log file.
// Nothing is logged to the terminal because the TUI owns it.
func setupLogging(path string, debug bool) (io.Closer, error) {
	err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return nil, err
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	slog.SetDefault(newLogger(w, debug))

	return w, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
