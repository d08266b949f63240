package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}

	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir symlink failed: %v", err)
	}
	realGot, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve got dir symlink failed: %v", err)
	}
	expectedDir := filepath.Join(realTmpDir, defaultLogDirName)
	if realGot != expectedDir {
		t.Fatalf("unexpected log dir: got=%s expected=%s", realGot, expectedDir)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Fatalf("expected log dir to be created: %v", err)
	}
}

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "release.log",
	}
	log := New("release", cfg)
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	}
	log := New("debug", cfg)
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestParseGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		" ERROR ": gormlogger.Error,
		"info":    gormlogger.Info,
		"warn":    gormlogger.Warn,
		"":        gormlogger.Warn,
		"verbose": gormlogger.Warn,
	}
	for input, expected := range cases {
		if got := ParseGormLevel(input); got != expected {
			t.Fatalf("ParseGormLevel(%q) = %v, want %v", input, got, expected)
		}
	}
}

func TestGormLoggerTraceRecordsFailedQuery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger("warn")
	gl.base = func() *zap.Logger { return zap.New(core) }

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, errors.New("boom"))
	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 2", 1
	}, gormlogger.ErrRecordNotFound)

	entries := logs.FilterMessage("gorm_query_failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failed query entry, got %d", len(entries))
	}
	if sql := entries[0].ContextMap()["sql"]; sql != "SELECT 1" {
		t.Fatalf("unexpected sql field: %v", sql)
	}
}

func TestGormLoggerLogModeDoesNotMutateReceiver(t *testing.T) {
	gl := NewGormLogger("silent")
	next := gl.LogMode(gormlogger.Info).(*GormLogger)
	if gl.level != gormlogger.Silent {
		t.Fatalf("original level changed: %v", gl.level)
	}
	if next.level != gormlogger.Info {
		t.Fatalf("unexpected new level: %v", next.level)
	}
}
