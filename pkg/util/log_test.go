package util

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestConfigureLogging(t *testing.T) {
	if err := ConfigureLogging("debug", false); err != nil {
		t.Errorf("ConfigureLogging(debug) failed: %v", err)
	}
	if err := ConfigureLogging("nonsense", false); err == nil {
		t.Error("ConfigureLogging(nonsense) should fail")
	}
	if err := ConfigureLogging("", false); err != nil {
		t.Errorf("empty level should be accepted: %v", err)
	}
	ConfigureLogging("info", false)
}

func TestWithPhase(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	WithPhase("Demo", "Main").Error("boom")
	got := buf.String()
	if !strings.Contains(got, "component=Demo") || !strings.Contains(got, "phase=Main") {
		t.Errorf("log output missing phase fields: %q", got)
	}

	buf.Reset()
	WithBinding("osc").Warn("late")
	if !strings.Contains(buf.String(), "binding=osc") {
		t.Errorf("log output missing binding field: %q", buf.String())
	}
}
