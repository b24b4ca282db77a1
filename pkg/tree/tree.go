// Package tree turns a statically-typed instrument assembly into a tagged
// node list. An assembly is a struct whose exported fields are components
// (types implementing Component) or nested assemblies; a component's
// exported Inputs and Outputs struct fields are its endpoint containers.
//
// The walk happens once, at instrument construction, using reflection.
// Node order is the depth-first field-declaration order of the assembly,
// and every endpoint receives its hierarchical OSC path at build time:
// /<component name>/<endpoint name>, spaces respelled to underscores.
// Nested assemblies contribute no path segments.
package tree

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/osc"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Component is implemented by every component aggregate. The name is a
// free-form human label; its snake-cased spelling becomes the component's
// path segment.
type Component interface {
	ComponentName() string
}

// NodeTag classifies a node in the traversal.
type NodeTag int

const (
	TagAssembly NodeTag = iota
	TagComponent
	TagInputsContainer
	TagOutputsContainer
	TagInputEndpoint
	TagOutputEndpoint
)

func (t NodeTag) String() string {
	switch t {
	case TagAssembly:
		return "assembly"
	case TagComponent:
		return "component"
	case TagInputsContainer:
		return "inputs_container"
	case TagOutputsContainer:
		return "outputs_container"
	case TagInputEndpoint:
		return "input_endpoint"
	case TagOutputEndpoint:
		return "output_endpoint"
	}
	return "unknown"
}

// Node is one entry of the tagged node list.
type Node struct {
	Tag  NodeTag
	Name string // source-level name; empty for assemblies and containers
	Path string // OSC path; empty for assemblies and containers

	// Value is a pointer to the node's aggregate or endpoint.
	Value any
	// Endpoint is non-nil for endpoint nodes.
	Endpoint endpoint.Endpoint
	// Component is the owning component; for component nodes, itself.
	Component Component
}

type nodeKey struct {
	p unsafe.Pointer
	t reflect.Type
}

// Tree is the traversal result: the ordered tagged node list plus lookup
// indices by path, by identity, and by static type.
type Tree struct {
	root   any
	nodes  []*Node
	byPath map[string]*Node
	byKey  map[nodeKey]*Node
	byType map[reflect.Type][]*Node
}

var (
	componentType = reflect.TypeOf((*Component)(nil)).Elem()
	endpointType  = reflect.TypeOf((*endpoint.Endpoint)(nil)).Elem()
)

// New walks root, which must be a non-nil pointer to an assembly struct,
// and returns the tree. Construction fails on unnamed components or
// endpoints, on duplicate paths, and on invalid endpoint ranges.
func New(root any) (*Tree, error) {
	rv := reflect.ValueOf(root)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, util.NewValidationError("tree root must be a non-nil pointer to a struct")
	}

	t := &Tree{
		root:   root,
		byPath: make(map[string]*Node),
		byKey:  make(map[nodeKey]*Node),
		byType: make(map[reflect.Type][]*Node),
	}
	t.add(&Node{Tag: TagAssembly, Value: root}, rv)
	if err := t.walkAssembly(rv); err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the assembly the tree was built from.
func (t *Tree) Root() any { return t.root }

// Nodes returns the full tagged node list in depth-first field order.
func (t *Tree) Nodes() []*Node { return t.nodes }

// ForEach visits every node carrying one of the given tags, in tree
// order. With no tags it visits every node.
func (t *Tree) ForEach(fn func(*Node), tags ...NodeTag) {
	for _, n := range t.nodes {
		if len(tags) == 0 {
			fn(n)
			continue
		}
		for _, tag := range tags {
			if n.Tag == tag {
				fn(n)
				break
			}
		}
	}
}

// Components returns the component nodes in tree order.
func (t *Tree) Components() []*Node { return t.filter(TagComponent) }

// Inputs returns the input endpoint nodes in tree order.
func (t *Tree) Inputs() []*Node { return t.filter(TagInputEndpoint) }

// Outputs returns the output endpoint nodes in tree order.
func (t *Tree) Outputs() []*Node { return t.filter(TagOutputEndpoint) }

// Endpoints returns every endpoint node in tree order.
func (t *Tree) Endpoints() []*Node { return t.filter(TagInputEndpoint, TagOutputEndpoint) }

// SessionData returns the endpoint nodes tagged session_data, in tree order.
func (t *Tree) SessionData() []*Node {
	var out []*Node
	for _, n := range t.Endpoints() {
		if n.Endpoint.Tags().Has(endpoint.TagSessionData) {
			out = append(out, n)
		}
	}
	return out
}

// At returns the node at the exact path.
func (t *Tree) At(path string) (*Node, bool) {
	n, ok := t.byPath[path]
	return n, ok
}

// Match returns the component and endpoint nodes whose path matches the
// OSC address pattern, in tree order.
func (t *Tree) Match(pattern string) []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if n.Path == "" {
			continue
		}
		if osc.Match(pattern, n.Path) {
			out = append(out, n)
		}
	}
	return out
}

// PathOf returns the path of the node identified by ptr, a pointer
// previously discovered by the walk (a component or an endpoint).
func (t *Tree) PathOf(ptr any) (string, bool) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return "", false
	}
	n, ok := t.byKey[nodeKey{p: rv.UnsafePointer(), t: rv.Type()}]
	if !ok || n.Path == "" {
		return "", false
	}
	return n.Path, true
}

// NodeOf returns the node for a pointer discovered by the walk.
func (t *Tree) NodeOf(ptr any) (*Node, bool) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	n, ok := t.byKey[nodeKey{p: rv.UnsafePointer(), t: rv.Type()}]
	return n, ok
}

// FindType returns the unique node whose value has the given pointer
// type. Zero or more than one match is an error.
func (t *Tree) FindType(pt reflect.Type) (*Node, error) {
	ns := t.byType[pt]
	if len(ns) != 1 {
		return nil, util.NewPathError("find", pt.String(), len(ns))
	}
	return ns[0], nil
}

// Find returns a reference to the unique node of static type T in the tree.
func Find[T any](t *Tree) (*T, error) {
	n, err := t.FindType(reflect.TypeOf((*T)(nil)))
	if err != nil {
		return nil, err
	}
	return n.Value.(*T), nil
}

func (t *Tree) filter(tags ...NodeTag) []*Node {
	var out []*Node
	t.ForEach(func(n *Node) { out = append(out, n) }, tags...)
	return out
}

func (t *Tree) add(n *Node, pv reflect.Value) {
	t.nodes = append(t.nodes, n)
	key := nodeKey{p: pv.UnsafePointer(), t: pv.Type()}
	t.byKey[key] = n
	t.byType[pv.Type()] = append(t.byType[pv.Type()], n)
}

func (t *Tree) walkAssembly(v reflect.Value) error {
	sv := v.Elem()
	st := sv.Type()
	for i := 0; i < sv.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := sv.Field(i)
		pv := fv
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				return util.NewValidationError(fmt.Sprintf("assembly field %s.%s is a nil pointer", st.Name(), f.Name))
			}
		} else {
			pv = fv.Addr()
		}
		switch {
		case pv.Type().Implements(componentType):
			if err := t.addComponent(pv); err != nil {
				return err
			}
		case pv.Type().Implements(endpointType):
			return util.NewValidationError(fmt.Sprintf("endpoint %s.%s declared outside a component", st.Name(), f.Name))
		case pv.Elem().Kind() == reflect.Struct:
			t.add(&Node{Tag: TagAssembly, Value: pv.Interface()}, pv)
			if err := t.walkAssembly(pv); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tree) addComponent(pv reflect.Value) error {
	comp := pv.Interface().(Component)
	name := comp.ComponentName()
	if name == "" {
		return util.NewValidationError(fmt.Sprintf("component of type %s has an empty name", pv.Type()))
	}
	path := "/" + util.SnakeCase(name)
	if _, dup := t.byPath[path]; dup {
		return util.NewValidationError(fmt.Sprintf("duplicate component path %s", path))
	}

	n := &Node{Tag: TagComponent, Name: name, Path: path, Value: pv.Interface(), Component: comp}
	t.add(n, pv)
	t.byPath[path] = n

	sv := pv.Elem()
	st := sv.Type()
	for i := 0; i < sv.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() || sv.Field(i).Kind() != reflect.Struct {
			continue
		}
		var ctag, etag NodeTag
		switch f.Name {
		case "Inputs":
			ctag, etag = TagInputsContainer, TagInputEndpoint
		case "Outputs":
			ctag, etag = TagOutputsContainer, TagOutputEndpoint
		default:
			continue
		}
		cv := sv.Field(i).Addr()
		t.add(&Node{Tag: ctag, Value: cv.Interface(), Component: comp}, cv)
		if err := t.addEndpoints(cv, comp, path, etag); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) addEndpoints(cv reflect.Value, comp Component, compPath string, etag NodeTag) error {
	sv := cv.Elem()
	st := sv.Type()
	for i := 0; i < sv.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		pv := sv.Field(i).Addr()
		if !pv.Type().Implements(endpointType) {
			continue
		}
		ep := pv.Interface().(endpoint.Endpoint)
		if err := endpoint.Validate(ep); err != nil {
			return fmt.Errorf("endpoint %s.%s: %w", st.Name(), f.Name, err)
		}
		path := compPath + "/" + util.SnakeCase(ep.Name())
		if _, dup := t.byPath[path]; dup {
			return util.NewValidationError(fmt.Sprintf("duplicate endpoint path %s", path))
		}
		n := &Node{Tag: etag, Name: ep.Name(), Path: path, Value: pv.Interface(), Endpoint: ep, Component: comp}
		t.add(n, pv)
		t.byPath[path] = n
	}
	return nil
}
