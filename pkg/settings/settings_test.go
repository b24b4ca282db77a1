package settings

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom missing: %v", err)
	}
	if s.SessionFile != "" || s.TickIntervalMS != 0 {
		t.Error("missing file should yield empty settings")
	}
	if s.GetTickIntervalMS() != DefaultTickIntervalMS {
		t.Errorf("GetTickIntervalMS = %d, want %d", s.GetTickIntervalMS(), DefaultTickIntervalMS)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.json")
	s := &Settings{SessionFile: "/tmp/x.json", TickIntervalMS: 25, LogLevel: "debug"}
	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.SessionFile != s.SessionFile || got.TickIntervalMS != 25 || got.LogLevel != "debug" {
		t.Errorf("round trip = %+v", got)
	}

	got.Clear()
	if got.SessionFile != "" {
		t.Error("Clear should reset fields")
	}
}
