package session_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sygaldry-dmi/sygaldry/internal/testutil"
	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/runtime"
	"github.com/sygaldry-dmi/sygaldry/pkg/session"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
)

type testInputs struct {
	Text   endpoint.Text
	Slider endpoint.Slider
	Array  endpoint.Array
	Toggle endpoint.Toggle
}

type testComponent struct {
	Inputs testInputs
}

func (c *testComponent) ComponentName() string { return "Test" }

func newTestComponent() *testComponent {
	return &testComponent{Inputs: testInputs{
		Text:   endpoint.MakeText("text", endpoint.WithTags(endpoint.TagSessionData)),
		Slider: endpoint.MakeSlider("slider", endpoint.WithRange(0, 100, 0), endpoint.WithTags(endpoint.TagSessionData)),
		Array:  endpoint.MakeArray("array", 3, endpoint.WithRange(0, 10, 0), endpoint.WithTags(endpoint.TagSessionData)),
		Toggle: endpoint.MakeToggle("toggle"),
	}}
}

type assembly struct {
	TC      *testComponent
	Storage *session.Storage
}

func newRig(t *testing.T, backend session.Backend) (*assembly, *runtime.Runtime) {
	t.Helper()
	a := &assembly{TC: newTestComponent(), Storage: session.NewStorage(backend)}
	tr, err := tree.New(a)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	rt, err := runtime.New(tr)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	return a, rt
}

func TestIngest(t *testing.T) {
	backend := &session.MemoryBackend{Data: []byte(
		`{"/Test/text":"hello world","/Test/slider":42.0,"/Test/array":[1,2,3]}`,
	)}
	a, rt := newRig(t, backend)
	rt.Init()

	if got := a.TC.Inputs.Text.Value(); got != "hello world" {
		t.Errorf("text = %q, want %q", got, "hello world")
	}
	if got := a.TC.Inputs.Slider.Value(); got != 42.0 {
		t.Errorf("slider = %v, want 42", got)
	}
	want := []float32{1, 2, 3}
	for i, v := range a.TC.Inputs.Array.Values() {
		if v != want[i] {
			t.Errorf("array[%d] = %v, want %v", i, v, want[i])
		}
	}
	// untagged endpoints are untouched
	if a.TC.Inputs.Toggle.Value() != 0 {
		t.Error("untagged toggle should keep its default")
	}
}

func TestMalformedInputStartsEmpty(t *testing.T) {
	backend := &session.MemoryBackend{Data: []byte(`{not json`)}
	a, rt := newRig(t, backend)
	rt.Init()
	if a.TC.Inputs.Text.Value() != "" {
		t.Error("endpoints should keep defaults on malformed input")
	}
}

func TestRoundTripAndIdempotence(t *testing.T) {
	backend := &session.MemoryBackend{}
	a, rt := newRig(t, backend)
	rt.Init()

	a.TC.Inputs.Text.Set("saved")
	a.TC.Inputs.Slider.Set(0.31459)
	a.TC.Inputs.Array.Set([]float32{4, 5, 6})
	rt.Tick()

	if backend.Stores == 0 {
		t.Fatal("changed values should have been stored")
	}
	stores := backend.Stores

	// no further changes: no further serialisation
	rt.Tick()
	rt.Tick()
	if backend.Stores != stores {
		t.Errorf("idle ticks stored %d more times", backend.Stores-stores)
	}

	// the snapshot is keyed by OSC path
	var doc map[string]any
	if err := json.Unmarshal(backend.Data, &doc); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if doc["/Test/text"] != "saved" {
		t.Errorf("snapshot text = %v", doc["/Test/text"])
	}

	// a fresh tree restored from the snapshot sees the same values
	b, rt2 := newRig(t, backend)
	rt2.Init()
	if b.TC.Inputs.Text.Value() != "saved" {
		t.Error("round trip lost the text value")
	}
	if b.TC.Inputs.Slider.Value() != 0.31459 {
		t.Errorf("round trip slider = %v, want 0.31459", b.TC.Inputs.Slider.Value())
	}
	want := []float32{4, 5, 6}
	for i, v := range b.TC.Inputs.Array.Values() {
		if v != want[i] {
			t.Errorf("round trip array[%d] = %v, want %v", i, v, want[i])
		}
	}

	// restoring does not dirty the snapshot again
	stores = backend.Stores
	rt2.Tick()
	if backend.Stores != stores {
		t.Error("restore followed by an idle tick should not rewrite the snapshot")
	}
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	backend := session.NewFileBackend(path)

	a, rt := newRig(t, backend)
	rt.Init()
	a.TC.Inputs.Text.Set("on disk")
	rt.Tick()

	b, rt2 := newRig(t, session.NewFileBackend(path))
	rt2.Init()
	if b.TC.Inputs.Text.Value() != "on disk" {
		t.Error("file backend round trip failed")
	}
}

func TestRedisBackend(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	backend := session.NewRedisBackend(testutil.RedisAddr(), "sygaldry:test:session")
	defer backend.Close()

	a, rt := newRig(t, backend)
	rt.Init()
	a.TC.Inputs.Text.Set("in redis")
	rt.Tick()

	b, rt2 := newRig(t, backend)
	rt2.Init()
	if b.TC.Inputs.Text.Value() != "in redis" {
		t.Error("redis backend round trip failed")
	}
}
