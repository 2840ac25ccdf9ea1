package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig controls where and how much the application logs.
type FileConfig struct {
	// Dir is the directory the rotated log file lives in. Created if missing.
	Dir string
	// Debug lowers the level to Debug and duplicates output to stderr.
	Debug bool
}

// NewRotatingFile builds a SlogLogger that writes JSON lines to a
// size-rotated file under cfg.Dir. The returned closer flushes and closes
// the underlying file; call it on shutdown.
func NewRotatingFile(cfg FileConfig) (*SlogLogger, io.Closer, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "daybook.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := slog.LevelInfo
	var w io.Writer = rotator
	if cfg.Debug {
		level = slog.LevelDebug
		w = io.MultiWriter(os.Stderr, rotator)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), rotator, nil
}
