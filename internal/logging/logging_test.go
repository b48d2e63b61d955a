package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"bogus", logrus.InfoLevel},
		{"  DEBUG ", logrus.DebugLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerReturnsSameInstance(t *testing.T) {
	a := NewLogger("registry-test")
	b := NewLogger("registry-test")
	if a != b {
		t.Error("expected the same logger instance for the same name")
	}
}

func TestSetLevel(t *testing.T) {
	l := NewLogger("level-test")

	if !SetLevel("level-test", logrus.DebugLevel) {
		t.Fatal("SetLevel returned false for a registered logger")
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}

	if SetLevel("never-registered", logrus.DebugLevel) {
		t.Error("SetLevel returned true for an unknown logger")
	}
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{LoggerName: "test", DisableColors: true}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "database connected",
		Data:    logrus.Fields{"type": "sqlite", "dbname": "test.db"},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	s := string(out)
	for _, want := range []string{"2026-01-02 03:04:05.000", "INFO", "test", "database connected", "dbname=test.db", "type=sqlite"} {
		if !strings.Contains(s, want) {
			t.Errorf("formatted output missing %q: %s", want, s)
		}
	}
	if !strings.HasSuffix(s, "\n") {
		t.Error("formatted output must end with a newline")
	}
}

func TestKVAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKV("kv-test")
	kv.l.SetOutput(&buf)
	kv.l.SetLevel(logrus.DebugLevel)
	kv.l.SetFormatter(&TextFormatter{LoggerName: "kv-test", DisableColors: true})

	kv.Info("migration executed", "version", "001", "name", "create_base_tables")

	s := buf.String()
	for _, want := range []string{"migration executed", "version=001", "name=create_base_tables"} {
		if !strings.Contains(s, want) {
			t.Errorf("log output missing %q: %s", want, s)
		}
	}
}
