package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhouzirui/bizspark/backend/internal/config"
)

func TestSetupStderrOnly(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	var buf bytes.Buffer
	closer, err := Setup(config.LogConfig{}, &buf)
	if err != nil {
		t.Fatalf("Setup err: %v", err)
	}
	defer closer.Close()

	log.Printf("[test] hello")
	if !strings.Contains(buf.String(), "[test] hello") {
		t.Fatalf("expected log line in stderr writer, got %q", buf.String())
	}
}

func TestSetupWritesRotatingFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "bizspark.log")
	var buf bytes.Buffer
	closer, err := Setup(config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}, &buf)
	if err != nil {
		t.Fatalf("Setup err: %v", err)
	}

	log.Printf("[test] to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close err: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile err: %v", err)
	}
	if !strings.Contains(string(data), "[test] to file") {
		t.Fatalf("log file missing line: %q", string(data))
	}
	if !strings.Contains(buf.String(), "[test] to file") {
		t.Fatal("stderr writer missing line")
	}
}
