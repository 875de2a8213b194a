package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger("", "", WithDir(t.TempDir()), WithOutput(io.Discard))
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestConsoleLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("", "", WithDir(""), WithOutput(&buf))
	defer l.Close()

	l.Success("Advertencia registrada", "Warns")

	line := buf.String()
	if !strings.Contains(line, "SUCCESS") || !strings.Contains(line, "[Warns]: Advertencia registrada") {
		t.Errorf("unexpected console line %q", line)
	}
}

func TestDebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("", "", WithDir(""), WithOutput(&buf), WithDebug(false))
	defer l.Close()

	l.Debug("hidden", "TEST")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogFiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger("", "", WithDir(dir), WithOutput(io.Discard))

	l.Info("solo combinado", "TEST")
	l.Error("también en errores", "TEST")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatal(err)
	}
	errorsLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(combined), "solo combinado") || !strings.Contains(string(combined), "también en errores") {
		t.Errorf("combined.log missing entries: %q", combined)
	}
	if strings.Contains(string(errorsLog), "solo combinado") {
		t.Error("error.log should only contain errors")
	}
	if strings.Contains(string(combined), "\033[") {
		t.Error("file output should not contain colors")
	}
}

func TestLibraryEntriesGetDefaults(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("", "", WithDir(""), WithOutput(&buf))
	defer l.Close()

	l.Logrus().WithField("lib", "x").Warn("from a library")

	if !strings.Contains(buf.String(), "WARN") || !strings.Contains(buf.String(), "[SYS]") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestWebhookRouting(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	l := NewLogger(srv.URL+"/errors", srv.URL+"/logs", WithDir(""), WithOutput(io.Discard))
	l.Error("boom", "TEST")
	l.Info("hello", "TEST")
	l.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 {
		t.Fatalf("expected 2 webhook calls, got %v", paths)
	}
	if paths[0] != "/errors" || paths[1] != "/logs" {
		t.Errorf("unexpected routing %v", paths)
	}
}

func TestLogAfterCloseDoesNotPanic(t *testing.T) {
	l := NewLogger("http://127.0.0.1:1/errors", "", WithDir(""), WithOutput(io.Discard))
	l.Close()
	l.Error("late", "TEST")
	l.Close()
}

func TestEntryMetaFromLogrusLevel(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.ErrorLevel
	entry.Time = time.Now()

	level, prefix := entryMeta(entry)
	if level != LevelError || prefix != "SYS" {
		t.Errorf("entryMeta = %v, %q", level, prefix)
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	logger = nil
	once = sync.Once{}

	l := Init("", "", WithDir(""), WithOutput(io.Discard))
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	if Get() != l {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
