// Package session implements the session-storage binding: a JSON snapshot
// of every endpoint tagged session_data, keyed by OSC path, restored at
// init and rewritten whenever a tagged value changes.
package session

import (
	"encoding/json"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Backend abstracts where the snapshot bytes live.
type Backend interface {
	// Load reads the snapshot. A missing snapshot returns nil, nil.
	Load() ([]byte, error)
	// Store rewrites the snapshot in full.
	Store([]byte) error
}

// Storage is the session-storage binding component.
type Storage struct {
	backend Backend
	doc     map[string]any
}

// NewStorage constructs the binding over the given backend.
func NewStorage(b Backend) *Storage {
	return &Storage{backend: b, doc: make(map[string]any)}
}

// ComponentName implements tree.Component.
func (s *Storage) ComponentName() string { return "Session Storage" }

// Init parses the stored snapshot and restores every session-data
// endpoint whose path appears in it. Malformed or missing input leaves
// the endpoints at their compile-time defaults.
func (s *Storage) Init(t *tree.Tree) {
	s.doc = make(map[string]any)
	data, err := s.backend.Load()
	if err != nil {
		util.WithBinding("session").Warnf("load failed, starting empty: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		util.WithBinding("session").Warnf("malformed snapshot, starting empty: %v", err)
		s.doc = make(map[string]any)
		return
	}
	for _, n := range t.SessionData() {
		v, ok := s.doc[n.Path]
		if !ok {
			continue
		}
		if err := endpoint.SetValue(n.Endpoint, v); err != nil {
			util.WithBinding("session").Warnf("restore of %s failed: %v", n.Path, err)
		}
	}
}

// ExternalDestinations folds current session-data values into the
// snapshot and rewrites it through the backend when anything changed.
func (s *Storage) ExternalDestinations(t *tree.Tree) {
	touched := false
	for _, n := range t.SessionData() {
		cur := snapshotValue(n.Endpoint)
		if cur == nil {
			continue
		}
		prev, ok := s.doc[n.Path]
		if ok && canon(prev) == canon(cur) {
			continue
		}
		s.doc[n.Path] = cur
		touched = true
	}
	if !touched {
		return
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		util.WithBinding("session").Errorf("snapshot encoding failed: %v", err)
		return
	}
	if err := s.backend.Store(data); err != nil {
		util.WithBinding("session").Errorf("snapshot write failed: %v", err)
	}
}

// snapshotValue renders an endpoint's value for the snapshot: number for
// numeric endpoints, string for text, array of number for arrays. Bangs
// carry no value and are not persisted.
func snapshotValue(e endpoint.Endpoint) any {
	if e.Kind() == endpoint.KindBang {
		return nil
	}
	return endpoint.ValueOf(e)
}

// canon renders a value in canonical JSON form, so that a restored
// float64 compares equal to the float32 it was snapshotted from.
func canon(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
