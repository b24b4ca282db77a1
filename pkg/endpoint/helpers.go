package endpoint

// Concrete endpoint kinds. Persistent endpoints hold their value across
// ticks with no update flag; occasional endpoints pair the stored value
// with an updated flag; a bang is a payload-free pulse.

// Toggle is a persistent 0-or-1 integer endpoint.
type Toggle struct {
	Meta
	rng   Range
	state int64
}

// MakeToggle constructs a toggle named name with the default 0..1 range.
func MakeToggle(name string, opts ...Option) Toggle {
	c := makeConfig(name, Range{Min: 0, Max: 1}, true, opts)
	return Toggle{Meta: c.meta, rng: c.rng, state: int64(c.rng.Init)}
}

func (t *Toggle) Kind() Kind   { return KindInt }
func (t *Toggle) Size() int    { return 1 }
func (t *Toggle) Range() Range { return t.rng }

// Value returns the stored state.
func (t *Toggle) Value() int64 { return t.state }

// Set stores v.
func (t *Toggle) Set(v int64) { t.state = v }

// Button is an occasional 0-or-1 integer endpoint.
type Button struct {
	Meta
	rng     Range
	state   int64
	updated bool
}

// MakeButton constructs a button named name with the default 0..1 range.
func MakeButton(name string, opts ...Option) Button {
	c := makeConfig(name, Range{Min: 0, Max: 1}, true, opts)
	return Button{Meta: c.meta, rng: c.rng, state: int64(c.rng.Init)}
}

func (b *Button) Kind() Kind   { return KindInt }
func (b *Button) Size() int    { return 1 }
func (b *Button) Range() Range { return b.rng }

// Value returns the last stored state regardless of the flag.
func (b *Button) Value() int64 { return b.state }

// Set stores v and raises the update flag.
func (b *Button) Set(v int64) { b.state = v; b.updated = true }

func (b *Button) Updated() bool { return b.updated }
func (b *Button) ClearFlag()    { b.updated = false }

// Slider is a persistent floating-point endpoint with a declared range.
type Slider struct {
	Meta
	rng   Range
	state float32
}

// MakeSlider constructs a slider named name with the default 0..1 range.
func MakeSlider(name string, opts ...Option) Slider {
	c := makeConfig(name, Range{Min: 0, Max: 1}, true, opts)
	return Slider{Meta: c.meta, rng: c.rng, state: float32(c.rng.Init)}
}

func (s *Slider) Kind() Kind   { return KindFloat }
func (s *Slider) Size() int    { return 1 }
func (s *Slider) Range() Range { return s.rng }

// Value returns the stored state.
func (s *Slider) Value() float32 { return s.state }

// Set stores v.
func (s *Slider) Set(v float32) { s.state = v }

// FloatMessage is an occasional floating-point endpoint with a declared range.
type FloatMessage struct {
	Meta
	rng     Range
	state   float32
	updated bool
}

// MakeFloatMessage constructs an occasional float endpoint with the default 0..1 range.
func MakeFloatMessage(name string, opts ...Option) FloatMessage {
	c := makeConfig(name, Range{Min: 0, Max: 1}, true, opts)
	return FloatMessage{Meta: c.meta, rng: c.rng, state: float32(c.rng.Init)}
}

func (f *FloatMessage) Kind() Kind   { return KindFloat }
func (f *FloatMessage) Size() int    { return 1 }
func (f *FloatMessage) Range() Range { return f.rng }

// Value returns the last stored state regardless of the flag.
func (f *FloatMessage) Value() float32 { return f.state }

// Set stores v and raises the update flag.
func (f *FloatMessage) Set(v float32) { f.state = v; f.updated = true }

func (f *FloatMessage) Updated() bool { return f.updated }
func (f *FloatMessage) ClearFlag()    { f.updated = false }

// Text is a persistent string endpoint.
type Text struct {
	Meta
	state string
}

// MakeText constructs a persistent text endpoint.
func MakeText(name string, opts ...Option) Text {
	c := makeConfig(name, Range{}, false, opts)
	return Text{Meta: c.meta}
}

func (t *Text) Kind() Kind { return KindString }
func (t *Text) Size() int  { return 1 }

// Value returns the stored string.
func (t *Text) Value() string { return t.state }

// Set stores v.
func (t *Text) Set(v string) { t.state = v }

// TextMessage is an occasional string endpoint.
type TextMessage struct {
	Meta
	state   string
	updated bool
}

// MakeTextMessage constructs an occasional text endpoint.
func MakeTextMessage(name string, opts ...Option) TextMessage {
	c := makeConfig(name, Range{}, false, opts)
	return TextMessage{Meta: c.meta}
}

func (t *TextMessage) Kind() Kind { return KindString }
func (t *TextMessage) Size() int  { return 1 }

// Value returns the last stored string regardless of the flag.
func (t *TextMessage) Value() string { return t.state }

// Set stores v and raises the update flag.
func (t *TextMessage) Set(v string) { t.state = v; t.updated = true }

func (t *TextMessage) Updated() bool { return t.updated }
func (t *TextMessage) ClearFlag()    { t.updated = false }

// Array is a persistent fixed-length float vector endpoint.
type Array struct {
	Meta
	rng   Range
	state []float32
}

// MakeArray constructs a persistent array of n floats with the default 0..1 range.
func MakeArray(name string, n int, opts ...Option) Array {
	c := makeConfig(name, Range{Min: 0, Max: 1}, true, opts)
	a := Array{Meta: c.meta, rng: c.rng, state: make([]float32, n)}
	for i := range a.state {
		a.state[i] = float32(c.rng.Init)
	}
	return a
}

func (a *Array) Kind() Kind   { return KindFloat }
func (a *Array) Size() int    { return len(a.state) }
func (a *Array) Range() Range { return a.rng }

// Values returns the backing vector. Callers may mutate elements in place.
func (a *Array) Values() []float32 { return a.state }

// At returns element i.
func (a *Array) At(i int) float32 { return a.state[i] }

// SetAt stores v at element i.
func (a *Array) SetAt(i int, v float32) { a.state[i] = v }

// Set copies vs into the vector. Length mismatch is ignored beyond the
// shorter of the two.
func (a *Array) Set(vs []float32) {
	copy(a.state, vs)
}

// ArrayMessage is an occasional fixed-length float vector endpoint.
type ArrayMessage struct {
	Meta
	rng     Range
	state   []float32
	updated bool
}

// MakeArrayMessage constructs an occasional array of n floats with the default 0..1 range.
func MakeArrayMessage(name string, n int, opts ...Option) ArrayMessage {
	c := makeConfig(name, Range{Min: 0, Max: 1}, true, opts)
	a := ArrayMessage{Meta: c.meta, rng: c.rng, state: make([]float32, n)}
	for i := range a.state {
		a.state[i] = float32(c.rng.Init)
	}
	return a
}

func (a *ArrayMessage) Kind() Kind   { return KindFloat }
func (a *ArrayMessage) Size() int    { return len(a.state) }
func (a *ArrayMessage) Range() Range { return a.rng }

// Values returns the backing vector regardless of the flag.
func (a *ArrayMessage) Values() []float32 { return a.state }

// At returns element i.
func (a *ArrayMessage) At(i int) float32 { return a.state[i] }

// SetAt stores v at element i and raises the update flag.
func (a *ArrayMessage) SetAt(i int, v float32) { a.state[i] = v; a.updated = true }

// Set copies vs into the vector and raises the update flag.
func (a *ArrayMessage) Set(vs []float32) {
	copy(a.state, vs)
	a.updated = true
}

// SetUpdated raises the update flag without writing, for callers that
// mutated the vector through Values.
func (a *ArrayMessage) SetUpdated() { a.updated = true }

func (a *ArrayMessage) Updated() bool { return a.updated }
func (a *ArrayMessage) ClearFlag()    { a.updated = false }

// Bang is a payload-free pulse endpoint.
type Bang struct {
	Meta
	fired bool
}

// MakeBang constructs a bang endpoint.
func MakeBang(name string, opts ...Option) Bang {
	c := makeConfig(name, Range{}, false, opts)
	return Bang{Meta: c.meta}
}

func (b *Bang) Kind() Kind { return KindBang }
func (b *Bang) Size() int  { return 0 }

// Fire raises the flag.
func (b *Bang) Fire() { b.fired = true }

func (b *Bang) Updated() bool { return b.fired }
func (b *Bang) ClearFlag()    { b.fired = false }
