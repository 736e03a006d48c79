package main

import (
	"bytes"
	"io"
)

type Option interface{ apply(c *Calc) }

type options []Option

func (opts options) apply(c *Calc) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
}

func Options(opts ...Option) Option { return options(opts) }

var defaultOptions = Options(
	withInput(bytes.NewReader(nil)),
	withOutput(io.Discard),
	withStackSize(stackMin),
)

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(c *Calc) { c.logfn = logfn }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type stackSizeOption int
type statePathOption string
type progPathOption string
type editorOption string
type colorOption bool

func withInput(r io.Reader) inputOption      { return inputOption{r} }
func withOutput(w io.Writer) outputOption    { return outputOption{w} }
func withStackSize(n int) stackSizeOption    { return stackSizeOption(n) }
func withStatePath(p string) statePathOption { return statePathOption(p) }
func withProgPath(p string) progPathOption   { return progPathOption(p) }
func withEditor(e string) editorOption       { return editorOption(e) }
func withColor(on bool) colorOption          { return colorOption(on) }

func (i inputOption) apply(c *Calc) {
	c.in = newLineReader(i.Reader)
}

func (o outputOption) apply(c *Calc) {
	if c.out != nil {
		c.out.Flush()
	}
	c.out = newWriteFlusher(o.Writer)
}

func (n stackSizeOption) apply(c *Calc) { c.stackSize = int(n) }
func (p statePathOption) apply(c *Calc) { c.statePath = string(p) }
func (p progPathOption) apply(c *Calc)  { c.progPath = string(p) }
func (e editorOption) apply(c *Calc)    { c.editor = string(e) }
func (on colorOption) apply(c *Calc)    { c.color = bool(on) }
