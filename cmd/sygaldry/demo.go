package main

import (
	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
)

// DemoInputs is the input container of the demo component.
type DemoInputs struct {
	Toggle  endpoint.Toggle
	Level   endpoint.Slider
	Trigger endpoint.Bang
}

// DemoOutputs is the output container of the demo component.
type DemoOutputs struct {
	Toggle endpoint.Toggle
	Level  endpoint.Slider
	Echo   endpoint.Bang
}

// DemoComponent mirrors its inputs onto its outputs: a minimal
// instrument body to exercise the bindings.
type DemoComponent struct {
	Inputs  DemoInputs
	Outputs DemoOutputs
}

// NewDemoComponent constructs the demo component.
func NewDemoComponent() *DemoComponent {
	return &DemoComponent{
		Inputs: DemoInputs{
			Toggle: endpoint.MakeToggle("toggle in",
				endpoint.WithDescription("mirrored to toggle out")),
			Level: endpoint.MakeSlider("level in",
				endpoint.WithDescription("mirrored to level out"),
				endpoint.WithTags(endpoint.TagSessionData)),
			Trigger: endpoint.MakeBang("trigger in",
				endpoint.WithDescription("echoed to echo out")),
		},
		Outputs: DemoOutputs{
			Toggle: endpoint.MakeToggle("toggle out"),
			Level:  endpoint.MakeSlider("level out"),
			Echo:   endpoint.MakeBang("echo out"),
		},
	}
}

// ComponentName implements tree.Component.
func (d *DemoComponent) ComponentName() string { return "Demo" }

// Main mirrors inputs onto outputs.
func (d *DemoComponent) Main() {
	d.Outputs.Toggle.Set(d.Inputs.Toggle.Value())
	d.Outputs.Level.Set(d.Inputs.Level.Value())
	if d.Inputs.Trigger.Updated() {
		d.Outputs.Echo.Fire()
	}
}
