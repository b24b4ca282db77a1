package runtime_test

import (
	"errors"
	"testing"

	"github.com/sygaldry-dmi/sygaldry/internal/testutil"
	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/runtime"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
)

type sourceOutputs struct {
	Level endpoint.Slider
}

// source writes a fresh level into its own outputs each tick.
type source struct {
	Outputs sourceOutputs

	Feed float32
}

func (s *source) ComponentName() string { return "Source" }

func (s *source) Main() {
	s.Outputs.Level.Set(s.Feed)
}

type sinkInputs struct {
	Heard endpoint.Slider
}

// sink observes the source's outputs through its argument pack.
type sink struct {
	Inputs sinkInputs

	observed []float32
}

func (s *sink) ComponentName() string { return "Sink" }

func (s *sink) Main(outs *sourceOutputs) {
	s.Inputs.Heard.Set(outs.Level.Value())
	s.observed = append(s.observed, outs.Level.Value())
}

func newSource() *source {
	return &source{Outputs: sourceOutputs{Level: endpoint.MakeSlider("level")}}
}

func newSink() *sink {
	return &sink{Inputs: sinkInputs{Heard: endpoint.MakeSlider("heard")}}
}

func TestCrossComponentDataflow(t *testing.T) {
	type asm struct {
		Src *source
		Snk *sink
	}
	a := &asm{Src: newSource(), Snk: newSink()}
	tr, err := tree.New(a)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	rt, err := runtime.New(tr)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}

	a.Src.Feed = 0.25
	rt.Tick()

	// the value set by Src's main is observed by Snk's main within the
	// same tick, since Snk is declared after Src
	if len(a.Snk.observed) != 1 || a.Snk.observed[0] != 0.25 {
		t.Errorf("sink observed %v, want [0.25]", a.Snk.observed)
	}
	if a.Snk.Inputs.Heard.Value() != 0.25 {
		t.Errorf("heard = %v, want 0.25", a.Snk.Inputs.Heard.Value())
	}
}

type rangedInputs struct {
	Knob endpoint.Slider
}

type ranged struct {
	Inputs rangedInputs

	initCalls int
}

func (r *ranged) ComponentName() string { return "Ranged" }
func (r *ranged) Init()                 { r.initCalls++ }

func TestRangeInitialisation(t *testing.T) {
	type asm struct{ R *ranged }
	a := &asm{R: &ranged{Inputs: rangedInputs{
		Knob: endpoint.MakeSlider("knob", endpoint.WithRange(0, 10, 5)),
	}}}
	a.R.Inputs.Knob.Set(9)

	tr, err := tree.New(a)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	rt, err := runtime.New(tr)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}

	rt.Init()
	if got := a.R.Inputs.Knob.Value(); got != 5 {
		t.Errorf("knob after Init = %v, want range init 5", got)
	}
	if a.R.initCalls != 1 {
		t.Errorf("initCalls = %d, want 1", a.R.initCalls)
	}

	// init runs at most once
	rt.Tick()
	rt.Tick()
	if a.R.initCalls != 1 {
		t.Errorf("initCalls after ticks = %d, want 1", a.R.initCalls)
	}
}

func TestFlagDiscipline(t *testing.T) {
	type asm struct {
		In *testutil.InputPresser
		TC *testutil.TestComponent
	}
	a := &asm{In: &testutil.InputPresser{}, TC: testutil.NewTestComponent()}
	tr, err := tree.New(a)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	rt, err := runtime.New(tr)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	rt.Init()

	// press the button and fire the bang during external_sources
	a.In.Arm()
	rt.Tick()

	// the mirror saw the flags during main...
	if a.TC.Outputs.ButtonOut.Value() != 1 {
		t.Error("button press was not mirrored")
	}

	// ...and after the full tick every flag is clear
	for _, n := range tr.Endpoints() {
		if endpoint.FlagOf(n.Endpoint) {
			t.Errorf("flag still set on %s after tick", n.Path)
		}
	}

	// a second tick with no writes mirrors nothing new
	rt.Tick()
	if a.TC.Outputs.BangOut.Updated() {
		t.Error("bang out fired without input")
	}
}

// faulty always fails its main; the runtime must proceed to later
// components.
type faulty struct{}

func (f *faulty) ComponentName() string { return "Faulty" }
func (f *faulty) Main() error           { return errors.New("deliberate failure") }

type panicky struct{}

func (p *panicky) ComponentName() string { return "Panicky" }
func (p *panicky) Main()                 { panic("deliberate panic") }

func TestFailurePolicy(t *testing.T) {
	type asm struct {
		F  *faulty
		P  *panicky
		TC *testutil.TestComponent
	}
	a := &asm{F: &faulty{}, P: &panicky{}, TC: testutil.NewTestComponent()}
	tr, err := tree.New(a)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	rt, err := runtime.New(tr)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}

	rt.Tick()
	if a.TC.MainCalls != 1 {
		t.Errorf("component after failing peers ran %d times, want 1", a.TC.MainCalls)
	}
}

type needy struct{}

func (n *needy) ComponentName() string { return "Needy" }
func (n *needy) Main(peer *sourceOutputs) {}

// sourceB shares source's output container type under a distinct name.
type sourceB struct {
	Outputs sourceOutputs
}

func (s *sourceB) ComponentName() string { return "Source B" }

func TestUnresolvableDependency(t *testing.T) {
	type asm struct{ N *needy }
	tr, err := tree.New(&asm{N: &needy{}})
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	if _, err := runtime.New(tr); err == nil {
		t.Error("runtime.New should fail when a dependency has no node")
	}

	type asm2 struct {
		A *source
		B *sourceB
		N *needy
	}
	a2 := &asm2{
		A: newSource(),
		B: &sourceB{Outputs: sourceOutputs{Level: endpoint.MakeSlider("level")}},
		N: &needy{},
	}
	tr2, err := tree.New(a2)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	if _, err := runtime.New(tr2); err == nil {
		t.Error("runtime.New should fail when a dependency is ambiguous")
	}
}

type treeAware struct {
	seen int
}

func (c *treeAware) ComponentName() string { return "Tree Aware" }

func (c *treeAware) Main(t *tree.Tree) {
	c.seen = len(t.Components())
}

func TestTreeParameter(t *testing.T) {
	type asm struct {
		TA *treeAware
		TC *testutil.TestComponent
	}
	a := &asm{TA: &treeAware{}, TC: testutil.NewTestComponent()}
	tr, err := tree.New(a)
	if err != nil {
		t.Fatalf("tree.New: %v", err)
	}
	rt, err := runtime.New(tr)
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	rt.Tick()
	if a.TA.seen != 2 {
		t.Errorf("tree-aware component saw %d components, want 2", a.TA.seen)
	}
}
