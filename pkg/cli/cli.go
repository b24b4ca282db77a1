// Package cli implements the line-oriented CLI binding. The Cli component
// buffers bytes from a non-blocking reader during external_sources,
// tokenizes them on whitespace, and on newline dispatches the first token
// against the command table using the OSC pattern matcher.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sygaldry-dmi/sygaldry/pkg/osc"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
)

// Buffer limits. Exceeding either resets the line with a diagnostic.
const (
	MaxArgs    = 8
	BufferSize = 256
)

// Reader is a non-blocking byte source.
type Reader interface {
	// Ready reports whether a byte is available without blocking.
	Ready() bool
	// Next returns the next byte. Only valid after Ready reports true.
	Next() byte
}

// Command is one entry of the CLI command table.
type Command interface {
	// Name is the command's fixed path, such as "/set".
	Name() string
	Usage() string
	Description() string
	// Run executes the command over the tree. args excludes the command
	// token itself. The return value follows exit-code conventions:
	// 0 success, 2 usage or parse error.
	Run(out io.Writer, args []string, t *tree.Tree) int
}

// Cli is the CLI binding component.
type Cli struct {
	reader   Reader
	out      io.Writer
	commands []Command

	tokens   []string
	cur      []byte
	used     int
	lastExit int
}

// New constructs the CLI binding with the default command table and
// prints the boot banner and first prompt.
func New(r Reader, out io.Writer) *Cli {
	c := &Cli{reader: r, out: out}
	c.commands = []Command{&helpCommand{cli: c}, &listCommand{}, &describeCommand{}, &setCommand{}}
	fmt.Fprintln(out, "CLI enabled. Write `/help` for a list of available commands.")
	c.prompt()
	return c
}

// ComponentName implements tree.Component.
func (c *Cli) ComponentName() string { return "CLI" }

// LastExit returns the exit code of the most recently completed command.
func (c *Cli) LastExit() int { return c.lastExit }

// ExternalSources drains the reader and executes any completed lines.
func (c *Cli) ExternalSources(t *tree.Tree) {
	for c.reader.Ready() {
		c.process(c.reader.Next(), t)
	}
}

func (c *Cli) prompt() {
	fmt.Fprint(c.out, "> ")
}

func (c *Cli) reset() {
	c.tokens = nil
	c.cur = nil
	c.used = 0
	c.prompt()
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func (c *Cli) process(b byte, t *tree.Tree) {
	if isWhitespace(b) {
		if len(c.cur) > 0 {
			c.tokens = append(c.tokens, string(c.cur))
			c.cur = nil
		}
	} else {
		if len(c.cur) == 0 && len(c.tokens) == MaxArgs {
			fmt.Fprintln(c.out, "CLI argument list overflow!")
			c.reset()
			return
		}
		c.cur = append(c.cur, b)
	}

	c.used++
	if b == '\n' {
		if len(c.tokens) > 0 {
			c.lastExit = c.dispatch(t)
		}
		c.reset()
		return
	}
	if c.used == BufferSize {
		fmt.Fprintln(c.out, "CLI line buffer overflow!")
		c.reset()
	}
}

func (c *Cli) dispatch(t *tree.Tree) int {
	name := c.tokens[0]
	args := c.tokens[1:]
	for _, cmd := range c.commands {
		if osc.Match(name, cmd.Name()) {
			return cmd.Run(c.out, args, t)
		}
	}
	fmt.Fprintf(c.out, "no such command %q (try /help)\n", name)
	return 2
}

// StringReader feeds a fixed string, for tests and scripted input.
type StringReader struct {
	data []byte
	pos  int
}

// NewStringReader constructs a reader over s.
func NewStringReader(s string) *StringReader {
	return &StringReader{data: []byte(s)}
}

// Feed appends more input.
func (r *StringReader) Feed(s string) {
	r.data = append(r.data, s...)
}

func (r *StringReader) Ready() bool { return r.pos < len(r.data) }

func (r *StringReader) Next() byte {
	b := r.data[r.pos]
	r.pos++
	return b
}

// StdinReader pumps os.Stdin through a goroutine so that Ready never
// blocks the tick.
type StdinReader struct {
	ch chan byte
}

// NewStdinReader starts the pump goroutine.
func NewStdinReader() *StdinReader {
	r := &StdinReader{ch: make(chan byte, 1024)}
	go func() {
		br := bufio.NewReader(os.Stdin)
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(r.ch)
				return
			}
			r.ch <- b
		}
	}()
	return r
}

func (r *StdinReader) Ready() bool { return len(r.ch) > 0 }

func (r *StdinReader) Next() byte { return <-r.ch }
