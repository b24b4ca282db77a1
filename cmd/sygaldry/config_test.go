package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\"): %v", err)
	}
	if cfg.TickIntervalMS != 0 || cfg.OSC.SrcPort != "" {
		t.Errorf("empty path should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instrument.yaml")
	data := `log_level: debug
tick_interval_ms: 25
session:
  file: /tmp/session.json
osc:
  src_port: "9000"
  dst_port: "9001"
  dst_addr: 127.0.0.1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.TickIntervalMS != 25 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Session.File != "/tmp/session.json" {
		t.Errorf("session file = %q", cfg.Session.File)
	}
	if cfg.OSC.SrcPort != "9000" || cfg.OSC.DstAddr != "127.0.0.1" {
		t.Errorf("osc = %+v", cfg.OSC)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config should fail")
	}
}
