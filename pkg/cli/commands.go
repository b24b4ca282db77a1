package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
)

type helpCommand struct {
	cli *Cli
}

func (h *helpCommand) Name() string        { return "/help" }
func (h *helpCommand) Usage() string       { return "" }
func (h *helpCommand) Description() string { return "Describe the available commands and their usage" }

func (h *helpCommand) Run(out io.Writer, args []string, t *tree.Tree) int {
	for _, cmd := range h.cli.commands {
		if cmd.Usage() != "" {
			fmt.Fprintf(out, "%s %s\n", cmd.Name(), cmd.Usage())
		} else {
			fmt.Fprintln(out, cmd.Name())
		}
		fmt.Fprintf(out, "    %s\n", cmd.Description())
	}
	return 0
}

type listCommand struct{}

func (l *listCommand) Name() string        { return "/list" }
func (l *listCommand) Usage() string       { return "" }
func (l *listCommand) Description() string { return "List the paths of all available components" }

func (l *listCommand) Run(out io.Writer, args []string, t *tree.Tree) int {
	for _, n := range t.Components() {
		fmt.Fprintln(out, n.Path)
	}
	return 0
}

type describeCommand struct{}

func (d *describeCommand) Name() string  { return "/describe" }
func (d *describeCommand) Usage() string { return "<osc-pattern>" }
func (d *describeCommand) Description() string {
	return "Convey metadata about the components and endpoints matching the pattern"
}

func (d *describeCommand) Run(out io.Writer, args []string, t *tree.Tree) int {
	if len(args) != 1 {
		fmt.Fprintf(out, "usage: %s %s\n", d.Name(), d.Usage())
		return 2
	}
	matches := t.Match(args[0])
	if len(matches) == 0 {
		fmt.Fprintf(out, "nothing matches %q\n", args[0])
		return 2
	}
	for _, n := range matches {
		switch n.Tag {
		case tree.TagComponent:
			describeComponent(out, t, n)
		case tree.TagInputEndpoint, tree.TagOutputEndpoint:
			describeEndpoint(out, n, "endpoint: ", "")
		}
	}
	return 0
}

func describeComponent(out io.Writer, t *tree.Tree, c *tree.Node) {
	fmt.Fprintf(out, "component: %s\n", c.Path)
	fmt.Fprintf(out, "  name: %q\n", c.Name)
	fmt.Fprintf(out, "  type:  component\n")
	t.ForEach(func(n *tree.Node) {
		if n.Component != c.Component {
			return
		}
		heading := "input:   "
		if n.Tag == tree.TagOutputEndpoint {
			heading = "output:  "
		}
		describeEndpoint(out, n, heading, "  ")
	}, tree.TagInputEndpoint, tree.TagOutputEndpoint)
}

func describeEndpoint(out io.Writer, n *tree.Node, heading, indent string) {
	fmt.Fprintf(out, "%s%s%s\n", indent, heading, n.Path)
	fmt.Fprintf(out, "%s  name: %q\n", indent, n.Name)
	fmt.Fprintf(out, "%s  type:  %s\n", indent, endpoint.DescribeKind(n.Endpoint))
	if r, ok := endpoint.RangeOf(n.Endpoint); ok {
		fmt.Fprintf(out, "%s  range: %v to %v (init: %v)\n", indent, r.Min, r.Max, r.Init)
	}
	fmt.Fprintf(out, "%s  value: %s\n", indent, formatValue(n.Endpoint))
}

func formatValue(e endpoint.Endpoint) string {
	if e.Tags().Has(endpoint.TagWriteOnly) {
		return "WRITE ONLY"
	}
	if e.Kind() == endpoint.KindBang {
		if endpoint.FlagOf(e) {
			return "(bang!)"
		}
		return "()"
	}
	v := endpoint.ValueOf(e)
	if endpoint.IsFlagged(e) {
		if endpoint.FlagOf(e) {
			return fmt.Sprintf("(! %v !)", v)
		}
		return fmt.Sprintf("(%v)", v)
	}
	return fmt.Sprintf("%v", v)
}

type setCommand struct{}

func (s *setCommand) Name() string  { return "/set" }
func (s *setCommand) Usage() string { return "<endpoint-path> <value>..." }
func (s *setCommand) Description() string {
	return "Change the current value of the given endpoint"
}

func (s *setCommand) Run(out io.Writer, args []string, t *tree.Tree) int {
	if len(args) < 1 {
		fmt.Fprintf(out, "usage: %s %s\n", s.Name(), s.Usage())
		return 2
	}
	path := args[0]
	vals := args[1:]

	n, ok := t.At(path)
	if !ok || n.Endpoint == nil {
		fmt.Fprintf(out, "no endpoint at %q\n", path)
		return 2
	}
	e := n.Endpoint

	switch {
	case e.Kind() == endpoint.KindBang:
		if len(vals) != 0 {
			fmt.Fprintln(out, "no arguments are required to set a bang")
			return 2
		}
		if err := endpoint.SetValue(e, true); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			return 2
		}
	case e.Size() > 1:
		if len(vals) != e.Size() {
			fmt.Fprintf(out, "endpoint %s takes %d arguments, got %d\n", path, e.Size(), len(vals))
			return 2
		}
		vs := make([]float32, len(vals))
		for i, tok := range vals {
			f, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				fmt.Fprintf(out, "unable to parse token %q\n", tok)
				return 2
			}
			vs[i] = float32(f)
		}
		if err := endpoint.SetValue(e, vs); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			return 2
		}
	default:
		if len(vals) != 1 {
			fmt.Fprintf(out, "endpoint %s takes 1 argument, got %d\n", path, len(vals))
			return 2
		}
		v, err := parseScalar(e.Kind(), vals[0])
		if err != nil {
			fmt.Fprintf(out, "unable to parse token %q\n", vals[0])
			return 2
		}
		if err := endpoint.SetValue(e, v); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			return 2
		}
	}
	return 0
}

func parseScalar(k endpoint.Kind, tok string) (any, error) {
	switch k {
	case endpoint.KindInt:
		return strconv.ParseInt(tok, 10, 64)
	case endpoint.KindFloat:
		f, err := strconv.ParseFloat(tok, 32)
		return float32(f), err
	case endpoint.KindString:
		return tok, nil
	}
	return nil, fmt.Errorf("unsupported kind %v", k)
}
