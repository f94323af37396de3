package logging

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestInitializeWithFile(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	path := filepath.Join(t.TempDir(), "lutronctl.log")

	if err := InitializeWithFile("", DefaultFileConfig(path)); err != nil {
		t.Fatalf("InitializeWithFile() error = %v", err)
	}
	if !GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("file logging should default to info level")
	}
	Info("file logging works")
	Sync()
}

func TestLogProtocolLine_RedactsSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogProtocolLine("10.0.0.2:23", "sent", "hunter2\r\n", true)
	LogProtocolLine("10.0.0.2:23", "received", "~OUTPUT,12,1,45.50\r\n", false)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["line"]; got != "********" {
		t.Errorf("secret line = %v, want redacted", got)
	}
	if got := entries[1].ContextMap()["line"]; got != "~OUTPUT,12,1,45.50" {
		t.Errorf("line = %v, want trimmed broadcast", got)
	}
}

func TestAsciiDump(t *testing.T) {
	if got := asciiDump([]byte("NET>\r\n")); got != "NET>.." {
		t.Errorf("asciiDump() = %q, want %q", got, "NET>..")
	}
	if got := hexDump(nil); got != "" {
		t.Errorf("hexDump(nil) = %q, want empty", got)
	}
}
