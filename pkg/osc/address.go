// Package osc provides the Open Sound Control surface of the framework:
// hierarchical address construction, type tag strings, OSC 1.0 address
// pattern matching, and a UDP wire codec for messages and bundles.
package osc

import (
	"strings"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Spell renders a free-form name into its URL-safe path spelling:
// ASCII spaces become underscores, everything else is untouched.
func Spell(name string) string {
	return util.SnakeCase(name)
}

// Address derives the OSC path for an endpoint inside a component.
func Address(componentName, endpointName string) string {
	return "/" + Spell(componentName) + "/" + Spell(endpointName)
}

// TypeTag derives the OSC type tag string for an endpoint: a comma
// followed by one character per value slot (i for integral, f for
// floating point, s for string-like). A bang has no value slots, so its
// type tag is just ",".
func TypeTag(e endpoint.Endpoint) string {
	if e.Kind() == endpoint.KindBang {
		return ","
	}
	var b strings.Builder
	b.WriteByte(',')
	c := e.Kind().TypeTagChar()
	for i := 0; i < e.Size(); i++ {
		b.WriteByte(c)
	}
	return b.String()
}
