package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerDebugGate(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Debug("hidden %d", 1)
	if out.Len() != 0 {
		t.Fatalf("debug line written while disabled: %q", out.String())
	}

	l.EnableDebug(true)
	l.Debug("shown %d", 2)
	if !strings.Contains(out.String(), "shown 2") {
		t.Errorf("debug line missing: %q", out.String())
	}
}

func TestLoggerErrorGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Info("hello %s", "info")
	l.Error("bad %s", "thing")

	if !strings.Contains(out.String(), "hello info") {
		t.Errorf("info line missing: %q", out.String())
	}
	if strings.Contains(out.String(), "bad thing") {
		t.Errorf("error line leaked to stdout writer")
	}
	if !strings.Contains(errOut.String(), "bad thing") {
		t.Errorf("error line missing: %q", errOut.String())
	}
}

func TestLoggerKeepsPercentInArgs(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out)
	l.Info("keyword %q", "100%")
	if !strings.Contains(out.String(), `"100%"`) {
		t.Errorf("argument mangled: %q", out.String())
	}
}
