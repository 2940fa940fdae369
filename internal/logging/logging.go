// Package logging routes the standard logger to stderr and, optionally, a
// size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zhouzirui/bizspark/backend/internal/config"
)

// Setup configures the package-level logger. The returned closer flushes the
// rotating file, if any.
func Setup(cfg config.LogConfig, stderr io.Writer) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if cfg.File == "" {
		log.SetOutput(stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		log.SetOutput(stderr)
		return nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(stderr, writer))
	return writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
