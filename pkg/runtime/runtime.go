// Package runtime drives the component lifecycle over an instrument tree.
//
// One component-runtime is precomputed per component, in tree order. Each
// lifecycle method's parameter list is resolved once, at construction:
// *tree.Tree binds to the tree itself, and any other pointer parameter
// binds to the unique node of that type anywhere in the tree. The binding
// is constant for the lifetime of the instrument; the resolved references
// are kept in each argument pack and handed to the component for the
// duration of one call.
//
// Per tick, phases run in order over all components: external_sources
// (input flags cleared first), main, external_destinations; then output
// and input flags are cleared, so every flag is clear after a full tick.
// Init runs once, after range defaults are applied.
package runtime

import (
	"fmt"
	"reflect"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Lifecycle method names discovered on component pointer types.
const (
	phaseInit         = "Init"
	phaseSources      = "ExternalSources"
	phaseMain         = "Main"
	phaseDestinations = "ExternalDestinations"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type boundMethod struct {
	fn   reflect.Value
	args []reflect.Value
}

type componentRuntime struct {
	name         string
	init         *boundMethod
	sources      *boundMethod
	main         *boundMethod
	destinations *boundMethod
}

// Runtime owns the ordered component-runtimes for one instrument tree.
type Runtime struct {
	tree        *tree.Tree
	comps       []*componentRuntime
	initialized bool
}

// New precomputes the component-runtimes and their argument packs.
// Construction fails when a lifecycle parameter cannot be resolved to a
// unique node, or when a lifecycle method has an unsupported signature.
func New(t *tree.Tree) (*Runtime, error) {
	r := &Runtime{tree: t}
	for _, n := range t.Components() {
		cr := &componentRuntime{name: n.Name}
		cv := reflect.ValueOf(n.Value)
		var err error
		if cr.init, err = bind(t, cv, phaseInit); err != nil {
			return nil, fmt.Errorf("component %q: %w", n.Name, err)
		}
		if cr.sources, err = bind(t, cv, phaseSources); err != nil {
			return nil, fmt.Errorf("component %q: %w", n.Name, err)
		}
		if cr.main, err = bind(t, cv, phaseMain); err != nil {
			return nil, fmt.Errorf("component %q: %w", n.Name, err)
		}
		if cr.destinations, err = bind(t, cv, phaseDestinations); err != nil {
			return nil, fmt.Errorf("component %q: %w", n.Name, err)
		}
		r.comps = append(r.comps, cr)
	}
	return r, nil
}

// Tree returns the instrument tree the runtime was built for.
func (r *Runtime) Tree() *tree.Tree { return r.tree }

// Init applies each ranged endpoint's initial value, then invokes every
// component's Init in tree order. It runs at most once; Tick calls it on
// first use.
func (r *Runtime) Init() {
	if r.initialized {
		return
	}
	r.initialized = true
	for _, n := range r.tree.Endpoints() {
		endpoint.ApplyInit(n.Endpoint)
	}
	for _, c := range r.comps {
		c.call(c.init, phaseInit)
	}
}

// Tick runs one full pass of the lifecycle phases over the tree.
func (r *Runtime) Tick() {
	r.Init()

	for _, n := range r.tree.Inputs() {
		endpoint.ClearFlag(n.Endpoint)
	}
	for _, c := range r.comps {
		c.call(c.sources, phaseSources)
	}
	for _, c := range r.comps {
		c.call(c.main, phaseMain)
	}
	for _, c := range r.comps {
		c.call(c.destinations, phaseDestinations)
	}
	for _, n := range r.tree.Outputs() {
		endpoint.ClearFlag(n.Endpoint)
	}
	for _, n := range r.tree.Inputs() {
		endpoint.ClearFlag(n.Endpoint)
	}
}

// bind resolves the named lifecycle method's argument pack, or returns
// nil when the component does not define it.
func bind(t *tree.Tree, cv reflect.Value, name string) (*boundMethod, error) {
	m := cv.MethodByName(name)
	if !m.IsValid() {
		return nil, nil
	}
	mt := m.Type()
	if mt.NumOut() > 1 || (mt.NumOut() == 1 && !mt.Out(0).Implements(errorType)) {
		return nil, util.NewValidationError(fmt.Sprintf("%s must return nothing or error", name))
	}

	b := &boundMethod{fn: m}
	for i := 0; i < mt.NumIn(); i++ {
		pt := mt.In(i)
		if pt == reflect.TypeOf((*tree.Tree)(nil)) {
			b.args = append(b.args, reflect.ValueOf(t))
			continue
		}
		if pt.Kind() != reflect.Pointer {
			return nil, util.NewValidationError(fmt.Sprintf("%s parameter %d must be a pointer, got %s", name, i, pt))
		}
		n, err := t.FindType(pt)
		if err != nil {
			return nil, fmt.Errorf("%s parameter %d (%s): %w", name, i, pt, err)
		}
		b.args = append(b.args, reflect.ValueOf(n.Value))
	}
	return b, nil
}

// call invokes a bound lifecycle method. Errors and panics are logged and
// the tick proceeds with the next component.
func (c *componentRuntime) call(b *boundMethod, phase string) {
	if b == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			util.WithPhase(c.name, phase).Errorf("lifecycle call panicked: %v", rec)
		}
	}()
	out := b.fn.Call(b.args)
	if len(out) == 1 && !out[0].IsNil() {
		util.WithPhase(c.name, phase).Errorf("lifecycle call failed: %v", out[0].Interface().(error))
	}
}
