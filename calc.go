package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"golang.org/x/text/message"
)

// Calc is the interpreter context: every piece of state the dispatch loop
// touches lives here, passed by reference, never in package globals.
type Calc struct {
	in  *bufio.Reader
	out writeFlusher

	logfn func(mess string, args ...interface{})

	st    *stack
	mem   map[string]float64
	scuts map[string]string
	stats statistics
	prec  int

	// program execution engine
	prog    []string
	labels  map[string]int
	rstack  []int
	running bool

	// active token sequence and cursor; either the live input line or the
	// program listing after an exc.
	seq []string
	cur int

	stackSize int
	statePath string
	progPath  string
	editor    string
	color     bool

	printer *message.Printer
	rand    *rand.Rand
}

func (c *Calc) logf(mess string, args ...interface{}) {
	if c.logfn != nil {
		c.logfn(mess, args...)
	}
}

const (
	ansiRed    = "\033[91m"
	ansiYellow = "\033[93m"
	ansiReset  = "\033[0m"
	ansiClear  = "\x1b[2J"
)

func (c *Calc) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// infof prints informational output, yellow on a terminal.
func (c *Calc) infof(format string, args ...interface{}) {
	if c.color {
		c.printf(ansiYellow+format+ansiReset, args...)
		return
	}
	c.printf(format, args...)
}

// alertf prints errors and emphasized output, red on a terminal.
func (c *Calc) alertf(format string, args ...interface{}) {
	if c.color {
		c.printf(ansiRed+format+ansiReset, args...)
		return
	}
	c.printf(format, args...)
}

func (c *Calc) clearScreen() {
	if c.color {
		c.printf("%s\n", ansiClear)
	}
}

// fixed renders a value at the display precision with locale grouping.
func (c *Calc) fixed(v float64) string {
	return c.printer.Sprintf(fmt.Sprintf("%%.%df", c.prec), v)
}

// full renders the complete internal value, grouping included.
func (c *Calc) full(v float64) string {
	return c.printer.Sprintf("%v", v)
}

func (c *Calc) run(ctx context.Context) error {
	if err := c.loadState(); err != nil {
		return err
	}
	if c.progPath != "" {
		if prog, err := loadListing(c.progPath); err != nil {
			c.alertf("%v\n", err)
		} else {
			c.prog = prog
		}
	}

	c.clearScreen()
	c.infof("Type 'help' for documentation.\n")
	c.infof("Type 'help op' for a list of available operators.\n")
	c.infof("Type 'help <oper>' (without braces) for specifics on an operator.\n")
	c.infof("Type 'scut' for a list of keyboard shortcuts.\n\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.showStack()
		line, err := c.readLine()
		if err != nil {
			return err
		}
		c.clearScreen()

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			// Bare ENTER duplicates x, as on the real machines.
			x := c.st.pull()
			c.st.push(x)
			c.st.push(x)
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "quit", "exit", "close":
			return c.saveState()
		}
		if err := c.evalLine(ctx, tokens); err != nil {
			return err
		}
	}
}

// evalLine drains one token sequence.  Recoverable errors are reported and
// the cursor moves on; line-fatal errors abandon the rest of the sequence
// because the stack can no longer be trusted.
func (c *Calc) evalLine(ctx context.Context, tokens []string) error {
	c.seq, c.cur = tokens, 0
	c.running = false
	for c.cur < len(c.seq) {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := c.exec1(ctx)
		if err != nil {
			c.alertf("%v\n\n", err)
			if lineFatal(err) {
				return nil
			}
		}
		c.cur = next
	}
	return nil
}

// showStack prints the register file bottom-up and leaves the x line open as
// the prompt.
func (c *Calc) showStack() {
	for i := c.st.depth() - 1; i >= 1; i-- {
		c.printf("%s %s\n", slotLabel(i), c.fixed(c.st.at(i)))
	}
	c.printf("%s %s ", slotLabel(0), c.fixed(c.st.at(0)))
}

func slotLabel(i int) string {
	switch i {
	case 0:
		return "x:"
	case 1:
		return "y:"
	case 2:
		return "z:"
	case 3:
		return "t:"
	}
	return fmt.Sprintf("s%d:", i)
}

// readLine flushes pending output (the prompt) before blocking on input.
func (c *Calc) readLine() (string, error) {
	if err := c.out.Flush(); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func (c *Calc) printStats() {
	sig, sq2, bar := "E", "^2", "(mn)"
	if c.color {
		sig, sq2, bar = "Σ", "²", "̄"
	}
	s := &c.stats
	c.infof("n:   %.0f\n", s.sums.N)
	c.infof("%sx:  %.4f\n", sig, s.sums.X)
	c.infof("%sy:  %.4f\n", sig, s.sums.Y)
	c.infof("%sx%s: %.4f\n", sig, sq2, s.sums.X2)
	c.infof("%sy%s: %.4f\n", sig, sq2, s.sums.Y2)
	c.infof("%sxy: %.4f\n", sig, s.sums.XY)
	if s.sums.N > 1 {
		c.infof("x%s:   %.4f\n", bar, s.meanX)
		c.infof("y%s:   %.4f\n", bar, s.meanY)
		c.infof("r:   %.4f\n", s.corr)
		c.infof("a:   %.4f\n", s.slope)
		c.infof("b:   %.4f\n", s.intercept)
	}
	c.infof("\n")
}

// pushNum pushes a computed result, rejecting non-finite values so a domain
// violation or overflow is surfaced instead of poisoning the stack.
func (c *Calc) pushNum(tok string, v float64) error {
	if !finite(v) {
		return domainError(tok)
	}
	c.st.push(v)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Error kinds.  Parse and domain failures are line-fatal: the stack state
// after one is unreliable, so the rest of the line is dropped.  Everything
// else is token-local and recoverable.
var (
	errDivZero   = errors.New("division by zero error")
	errNoProgram = errors.New("no program running; use EXC to start one")
)

type parseError string
type domainError string
type missingArgError string
type unknownRegisterError string
type unknownLabelError string
type unknownShortcutError string
type invalidTokenError string

func (tok parseError) Error() string        { return fmt.Sprintf("value error: %q", string(tok)) }
func (tok domainError) Error() string       { return fmt.Sprintf("domain error: %q", string(tok)) }
func (tok missingArgError) Error() string   { return fmt.Sprintf("%v expects an argument", string(tok)) }
func (name unknownRegisterError) Error() string { return fmt.Sprintf("Register %v not found.", string(name)) }
func (name unknownLabelError) Error() string    { return fmt.Sprintf("Label %v not found.", string(name)) }
func (key unknownShortcutError) Error() string  { return fmt.Sprintf("Shortcut %v not found.", string(key)) }
func (tok invalidTokenError) Error() string     { return fmt.Sprintf("Invalid Operator: %v", string(tok)) }

func lineFatal(err error) bool {
	if errors.Is(err, errDivZero) || errors.Is(err, errNoProgram) {
		return true
	}
	var pe parseError
	var de domainError
	return errors.As(err, &pe) || errors.As(err, &de)
}
