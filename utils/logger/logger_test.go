package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() { color.NoColor = true }

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("test").WithOutput(&buf).WithLevel(LevelWarn)
	l.Info("hidden %d", 1)
	l.Debug("hidden too")
	l.Warn("shown %s", "warning")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("messages below level leaked: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown warning") || !strings.Contains(out, "| test |") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestErrorWrapsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc").WithOutput(&buf)
	base := errors.New("boom")
	err := l.Error("save role %s", base, "DOCTOR")
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	if err.Error() != "save role DOCTOR: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !strings.Contains(buf.String(), "save role DOCTOR: boom") {
		t.Fatalf("unexpected log %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != LevelDebug || ParseLevel("warning") != LevelWarn || ParseLevel("error") != LevelError || ParseLevel("bogus") != LevelInfo {
		t.Fatal("ParseLevel mapping mismatch")
	}
}

func TestDiscardAndNil(t *testing.T) {
	Discard().Info("nothing")
	var l *Logger
	l.Warn("nil logger must not panic")
}
