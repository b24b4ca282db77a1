// Package outputlog implements the output-change logger binding: during
// external_destinations it prints the OSC path (and value) of every
// output endpoint that fired this tick or whose persistent value changed
// since it was last printed.
package outputlog

import (
	"fmt"
	"io"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
)

// Logger is the output-change logger component.
type Logger struct {
	out  io.Writer
	last map[string]string
}

// New constructs the logger writing to out.
func New(out io.Writer) *Logger {
	return &Logger{out: out, last: make(map[string]string)}
}

// ComponentName implements tree.Component.
func (l *Logger) ComponentName() string { return "Output Logger" }

// ExternalDestinations prints the outputs that changed this tick.
func (l *Logger) ExternalDestinations(t *tree.Tree) {
	for _, n := range t.Outputs() {
		if n.Endpoint.Tags().Has(endpoint.TagWriteOnly) {
			continue
		}
		switch {
		case n.Endpoint.Kind() == endpoint.KindBang:
			if endpoint.FlagOf(n.Endpoint) {
				fmt.Fprintln(l.out, n.Path)
			}
		case endpoint.IsFlagged(n.Endpoint):
			if endpoint.FlagOf(n.Endpoint) {
				fmt.Fprintf(l.out, "%s %v\n", n.Path, endpoint.ValueOf(n.Endpoint))
			}
		default:
			rendered := fmt.Sprintf("%v", endpoint.ValueOf(n.Endpoint))
			if l.last[n.Path] == rendered {
				continue
			}
			l.last[n.Path] = rendered
			fmt.Fprintf(l.out, "%s %s\n", n.Path, rendered)
		}
	}
}
