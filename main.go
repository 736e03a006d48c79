package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

func main() {
	ctx := context.Background()

	var timeout time.Duration
	var trace, noColor bool
	var stackSize int
	var statePath, progPath, editor string
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&noColor, "no-color", false, "disable ANSI colors and screen clearing")
	flag.IntVar(&stackSize, "stack", stackMin, "stack depth (minimum 4)")
	flag.StringVar(&statePath, "state", "rpn.mem", "calculator state file")
	flag.StringVar(&progPath, "prog", "rpn.txt", "program listing file")
	flag.StringVar(&editor, "editor", "", "editor for the edit command (default $EDITOR, then vi)")
	flag.Parse()

	var opts = []Option{
		WithInput(os.Stdin),
		WithOutput(os.Stdout),
		WithStackSize(stackSize),
		WithStateFile(statePath),
		WithProgramFile(progPath),
	}
	if editor != "" {
		opts = append(opts, WithEditor(editor))
	}
	if !noColor && isatty.IsTerminal(os.Stdout.Fd()) {
		opts = append(opts, WithColor(true))
	}
	if trace {
		opts = append(opts, WithLogf(log.Printf))
	}
	calc := New(opts...)

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := calc.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}
