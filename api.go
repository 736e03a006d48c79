package main

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Battleship-Potemkin-Village/RPN-Calculator/internal/panicerr"
)

func New(opts ...Option) *Calc {
	c := &Calc{
		mem:     make(map[string]float64),
		scuts:   defaultShortcuts(),
		prec:    4,
		printer: message.NewPrinter(language.English),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	defaultOptions.apply(c)
	Options(opts...).apply(c)
	c.st = newStack(c.stackSize)
	return c
}

func (c *Calc) Run(ctx context.Context) error {
	err := panicerr.Recover("calc", func() error {
		return c.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func WithInput(r io.Reader) Option       { return withInput(r) }
func WithOutput(w io.Writer) Option      { return withOutput(w) }
func WithStackSize(n int) Option         { return withStackSize(n) }
func WithStateFile(path string) Option   { return withStatePath(path) }
func WithProgramFile(path string) Option { return withProgPath(path) }
func WithEditor(editor string) Option    { return withEditor(editor) }
func WithColor(on bool) Option           { return withColor(on) }

func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }
