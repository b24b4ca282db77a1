package endpoint

import (
	"fmt"

	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Polymorphic accessors over the Endpoint interface. Bindings act on
// arbitrary component trees through these instead of the concrete types.

// ValueOf returns the endpoint's current value: int64 for integer kinds,
// float32 for float kinds, string for text kinds, []float32 for arrays,
// and the fired state (bool) for a bang.
func ValueOf(e Endpoint) any {
	switch v := e.(type) {
	case *Toggle:
		return v.Value()
	case *Button:
		return v.Value()
	case *Slider:
		return v.Value()
	case *FloatMessage:
		return v.Value()
	case *Text:
		return v.Value()
	case *TextMessage:
		return v.Value()
	case *Array:
		return v.Values()
	case *ArrayMessage:
		return v.Values()
	case *Bang:
		return v.Updated()
	}
	return nil
}

// SetValue writes v into the endpoint, coercing between numeric
// representations. For flagged endpoints the update flag is raised; for a
// bang any call fires it. Incompatible values return an error wrapping
// util.ErrTypeMismatch.
func SetValue(e Endpoint, v any) error {
	switch ep := e.(type) {
	case *Toggle:
		n, ok := toInt(v)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "int", fmt.Sprintf("%T", v))
		}
		ep.Set(n)
	case *Button:
		n, ok := toInt(v)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "int", fmt.Sprintf("%T", v))
		}
		ep.Set(n)
	case *Slider:
		f, ok := toFloat(v)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "float", fmt.Sprintf("%T", v))
		}
		ep.Set(f)
	case *FloatMessage:
		f, ok := toFloat(v)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "float", fmt.Sprintf("%T", v))
		}
		ep.Set(f)
	case *Text:
		s, ok := v.(string)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "text", fmt.Sprintf("%T", v))
		}
		ep.Set(s)
	case *TextMessage:
		s, ok := v.(string)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "text", fmt.Sprintf("%T", v))
		}
		ep.Set(s)
	case *Array:
		vs, ok := toFloats(v)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "array of float", fmt.Sprintf("%T", v))
		}
		ep.Set(vs)
	case *ArrayMessage:
		vs, ok := toFloats(v)
		if !ok {
			return util.NewTypeMismatchError(e.Name(), "array of float", fmt.Sprintf("%T", v))
		}
		ep.Set(vs)
	case *Bang:
		ep.Fire()
	default:
		return util.NewTypeMismatchError(e.Name(), "endpoint", fmt.Sprintf("%T", v))
	}
	return nil
}

// SetElement writes v into slot i of an array endpoint, raising the flag
// on the occasional variant.
func SetElement(e Endpoint, i int, v any) error {
	f, ok := toFloat(v)
	if !ok {
		return util.NewTypeMismatchError(e.Name(), "float", fmt.Sprintf("%T", v))
	}
	switch ep := e.(type) {
	case *Array:
		if i < 0 || i >= ep.Size() {
			return util.NewValidationError(fmt.Sprintf("index %d out of range for %q", i, e.Name()))
		}
		ep.SetAt(i, f)
	case *ArrayMessage:
		if i < 0 || i >= ep.Size() {
			return util.NewValidationError(fmt.Sprintf("index %d out of range for %q", i, e.Name()))
		}
		ep.SetAt(i, f)
	default:
		return util.NewTypeMismatchError(e.Name(), "array", fmt.Sprintf("%T", e))
	}
	return nil
}

// FlagOf returns the update flag, or false for unflagged endpoints.
func FlagOf(e Endpoint) bool {
	if f, ok := e.(Flagged); ok {
		return f.Updated()
	}
	return false
}

// ClearFlag resets the update flag, leaving the stored value intact.
// It is a no-op for unflagged endpoints.
func ClearFlag(e Endpoint) {
	if f, ok := e.(Flagged); ok {
		f.ClearFlag()
	}
}

// IsFlagged reports whether the endpoint carries an update flag.
func IsFlagged(e Endpoint) bool {
	_, ok := e.(Flagged)
	return ok
}

// HasRange reports whether the endpoint declares a numeric range.
func HasRange(e Endpoint) bool {
	_, ok := e.(Ranged)
	return ok
}

// RangeOf returns the declared range; ok is false for unranged endpoints.
func RangeOf(e Endpoint) (Range, bool) {
	if r, ok := e.(Ranged); ok {
		return r.Range(), true
	}
	return Range{}, false
}

// ApplyInit writes the range's initial value into a ranged endpoint
// without raising its update flag. Unranged endpoints are untouched.
func ApplyInit(e Endpoint) {
	r, ok := RangeOf(e)
	if !ok {
		return
	}
	switch ep := e.(type) {
	case *Toggle:
		ep.state = int64(r.Init)
	case *Button:
		ep.state = int64(r.Init)
	case *Slider:
		ep.state = float32(r.Init)
	case *FloatMessage:
		ep.state = float32(r.Init)
	case *Array:
		for i := range ep.state {
			ep.state[i] = float32(r.Init)
		}
	case *ArrayMessage:
		for i := range ep.state {
			ep.state[i] = float32(r.Init)
		}
	}
}

// Validate checks the endpoint's declared metadata for construction errors.
func Validate(e Endpoint) error {
	var v util.ValidationBuilder
	v.Add(e.Name() != "", "endpoint has no name")
	if r, ok := RangeOf(e); ok {
		if err := r.Validate(); err != nil {
			v.AddError(err.Error())
		}
	}
	return v.Build()
}

// DescribeKind renders the endpoint kind for display, such as
// "occasional int", "persistent float", "array of float" or "bang".
func DescribeKind(e Endpoint) string {
	switch e.(type) {
	case *Toggle:
		return "persistent int"
	case *Button:
		return "occasional int"
	case *Slider:
		return "persistent float"
	case *FloatMessage:
		return "occasional float"
	case *Text:
		return "persistent text"
	case *TextMessage:
		return "occasional text"
	case *Array:
		return "array of float"
	case *ArrayMessage:
		return "occasional array of float"
	case *Bang:
		return "bang"
	}
	return "unknown"
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case float32:
		return n, true
	case float64:
		return float32(n), true
	}
	return 0, false
}

func toFloats(v any) ([]float32, bool) {
	switch vs := v.(type) {
	case []float32:
		return vs, true
	case []float64:
		out := make([]float32, len(vs))
		for i, f := range vs {
			out[i] = float32(f)
		}
		return out, true
	case []any:
		out := make([]float32, len(vs))
		for i, x := range vs {
			f, ok := toFloat(x)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}
