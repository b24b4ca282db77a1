// Package endpoint implements the typed data ports that components expose
// through their input and output containers. Each endpoint carries a
// free-form name, optional description and unit, optional numeric range,
// and behaviour tags. Occasional and bang endpoints additionally carry an
// update flag that signals "written this tick".
package endpoint

import (
	"fmt"

	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Tag is a bitmask of endpoint behaviour tags.
type Tag uint8

const (
	// TagWriteOnly marks an endpoint that is never displayed nor emitted.
	TagWriteOnly Tag = 1 << iota
	// TagSessionData marks an endpoint whose value is persisted across
	// process restarts by the session-storage binding.
	TagSessionData
)

// Has reports whether all bits of q are set in t.
func (t Tag) Has(q Tag) bool { return t&q == q }

// Kind identifies the element type of an endpoint's value slots.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBang
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "text"
	case KindBang:
		return "bang"
	}
	return "unknown"
}

// TypeTagChar returns the OSC type tag character for one value slot.
func (k Kind) TypeTagChar() byte {
	switch k {
	case KindInt:
		return 'i'
	case KindFloat:
		return 'f'
	case KindString:
		return 's'
	}
	return 0
}

// Range bounds a numeric endpoint and supplies its initial value.
type Range struct {
	Min  float64
	Max  float64
	Init float64
}

// Validate checks Min <= Init <= Max.
func (r Range) Validate() error {
	var v util.ValidationBuilder
	v.Add(r.Min <= r.Max, fmt.Sprintf("range min %v exceeds max %v", r.Min, r.Max))
	v.Add(r.Min <= r.Init && r.Init <= r.Max, fmt.Sprintf("range init %v outside [%v, %v]", r.Init, r.Min, r.Max))
	return v.Build()
}

// Meta holds the metadata common to every endpoint kind. It is embedded in
// each concrete endpoint type and satisfies the metadata accessors of the
// Endpoint interface.
type Meta struct {
	name        string
	description string
	unit        string
	tags        Tag
}

// Name returns the endpoint's human label.
func (m *Meta) Name() string { return m.name }

// Description returns the endpoint's description, if any.
func (m *Meta) Description() string { return m.description }

// Unit returns the endpoint's unit label, if any.
func (m *Meta) Unit() string { return m.unit }

// Tags returns the endpoint's behaviour tags.
func (m *Meta) Tags() Tag { return m.tags }

// Endpoint is implemented by every endpoint kind.
type Endpoint interface {
	Name() string
	Description() string
	Unit() string
	Tags() Tag

	// Kind is the element kind of the endpoint's value slots.
	Kind() Kind
	// Size is the number of value slots; zero for a bang.
	Size() int
}

// Ranged is implemented by numeric endpoints carrying a declared range.
type Ranged interface {
	Endpoint
	Range() Range
}

// Flagged is implemented by occasional and bang endpoints, whose update
// flag records whether the endpoint was written (or fired) this tick.
// Clearing the flag leaves the stored value intact.
type Flagged interface {
	Endpoint
	Updated() bool
	ClearFlag()
}

type config struct {
	meta     Meta
	rng      Range
	hasRange bool
}

// Option configures an endpoint at construction.
type Option func(*config)

// WithDescription sets the endpoint description.
func WithDescription(desc string) Option {
	return func(c *config) { c.meta.description = desc }
}

// WithUnit sets the endpoint unit label.
func WithUnit(unit string) Option {
	return func(c *config) { c.meta.unit = unit }
}

// WithTags sets the endpoint behaviour tags.
func WithTags(tags Tag) Option {
	return func(c *config) { c.meta.tags |= tags }
}

// WithRange declares the numeric range and initial value.
func WithRange(min, max, init float64) Option {
	return func(c *config) {
		c.rng = Range{Min: min, Max: max, Init: init}
		c.hasRange = true
	}
}

// WithInit overrides only the initial value of the default range.
func WithInit(init float64) Option {
	return func(c *config) {
		c.rng.Init = init
		c.hasRange = true
	}
}

func makeConfig(name string, def Range, hasDefault bool, opts []Option) config {
	c := config{meta: Meta{name: name}, rng: def, hasRange: hasDefault}
	for _, o := range opts {
		o(&c)
	}
	return c
}
