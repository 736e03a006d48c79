package main

import (
	"bufio"
	"io"
)

// Output goes through a writeFlusher so the prompt can be forced out before
// the interpreter blocks on input.

type writeFlusher interface {
	io.Writer
	Flush() error
}

func newWriteFlusher(w io.Writer) writeFlusher {
	if w == io.Discard {
		return nopFlusher{w}
	}
	if wf, is := w.(writeFlusher); is {
		return wf
	}

	// in memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, do not need to be flushed
	type buffer interface {
		io.Writer
		Cap() int
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

func newLineReader(r io.Reader) *bufio.Reader {
	if br, is := r.(*bufio.Reader); is {
		return br
	}
	return bufio.NewReader(r)
}
