// Package testutil provides shared test components and fixtures.
package testutil

import (
	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
)

// TestInputs is the input container of TestComponent.
type TestInputs struct {
	ButtonIn endpoint.Button
	ToggleIn endpoint.Toggle
	SliderIn endpoint.Slider
	BangIn   endpoint.Bang
	TextIn   endpoint.Text
}

// TestOutputs is the output container of TestComponent.
type TestOutputs struct {
	ButtonOut endpoint.Button
	ToggleOut endpoint.Toggle
	SliderOut endpoint.Slider
	BangOut   endpoint.Bang
	TextOut   endpoint.Text
}

// TestComponent mirrors its inputs onto its outputs each tick.
type TestComponent struct {
	Inputs  TestInputs
	Outputs TestOutputs

	MainCalls int
}

// NewTestComponent constructs the component with its endpoints named and
// ranged.
func NewTestComponent() *TestComponent {
	return &TestComponent{
		Inputs: TestInputs{
			ButtonIn: endpoint.MakeButton("button in"),
			ToggleIn: endpoint.MakeToggle("toggle in"),
			SliderIn: endpoint.MakeSlider("slider in"),
			BangIn:   endpoint.MakeBang("bang in"),
			TextIn:   endpoint.MakeText("text in"),
		},
		Outputs: TestOutputs{
			ButtonOut: endpoint.MakeButton("button out"),
			ToggleOut: endpoint.MakeToggle("toggle out"),
			SliderOut: endpoint.MakeSlider("slider out"),
			BangOut:   endpoint.MakeBang("bang out"),
			TextOut:   endpoint.MakeText("text out"),
		},
	}
}

// ComponentName implements tree.Component.
func (c *TestComponent) ComponentName() string { return "Test Component 1" }

// Main mirrors inputs onto outputs.
func (c *TestComponent) Main() {
	c.MainCalls++
	if c.Inputs.ButtonIn.Updated() {
		c.Outputs.ButtonOut.Set(c.Inputs.ButtonIn.Value())
	}
	c.Outputs.ToggleOut.Set(c.Inputs.ToggleIn.Value())
	c.Outputs.SliderOut.Set(c.Inputs.SliderIn.Value())
	if c.Inputs.BangIn.Updated() {
		c.Outputs.BangOut.Fire()
	}
	c.Outputs.TextOut.Set(c.Inputs.TextIn.Value())
}

// InputPresser presses TestComponent's button and fires its bang during
// external_sources, the phase in which bindings deliver input, once per
// call to Arm.
type InputPresser struct {
	armed bool
}

// Arm schedules one press for the next tick.
func (p *InputPresser) Arm() { p.armed = true }

// ComponentName implements tree.Component.
func (p *InputPresser) ComponentName() string { return "Input Presser" }

// ExternalSources writes the button and bang inputs when armed.
func (p *InputPresser) ExternalSources(in *TestInputs) {
	if !p.armed {
		return
	}
	p.armed = false
	in.ButtonIn.Set(1)
	in.BangIn.Fire()
}
