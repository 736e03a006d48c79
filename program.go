package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// The program listing is an external token stream the dispatcher can be
// pointed at.  exc scans it for labels, swaps it in as the active sequence
// and jumps; gto and gsb move within it; rtn pops back out.  Positions on
// the return-address stack are plain cursor values into the listing.

// loadListing reads a program file into tokens.  Anything after a '#' on a
// line is a comment.  A missing file is an empty listing, not an error.
func loadListing(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tokens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens, sc.Err()
}

// scanLabels maps each label name to the position just after it, which is
// where execution resumes on a jump.  A name defined twice keeps its last
// position, matching the original calculator's scan.
func scanLabels(listing []string) map[string]int {
	labels := make(map[string]int)
	for i := 0; i+1 < len(listing); i++ {
		if strings.EqualFold(listing[i], "lbl") {
			i++
			labels[listing[i]] = i + 1
		}
	}
	return labels
}

// execProgram handles exc: rescan labels, swap the listing in as the active
// sequence with a fresh return-address stack, and jump to the label.
func (c *Calc) execProgram(pos int) (int, error) {
	name, ok := c.arg(pos + 1)
	if !ok {
		return pos + 1, missingArgError("exc")
	}
	labels := scanLabels(c.prog)
	target, found := labels[name]
	if !found {
		return pos + 2, unknownLabelError(name)
	}
	c.labels = labels
	c.seq = c.prog
	c.rstack = c.rstack[:0]
	c.running = true
	return target, nil
}

// goTo jumps within a running program; outside of one there is no label map
// to consult, which is its own kind of error.
func (c *Calc) goTo(pos int) (int, error) {
	name, ok := c.arg(pos + 1)
	if !ok {
		return pos + 1, missingArgError("gto")
	}
	if !c.running || c.labels == nil {
		return pos + 2, errNoProgram
	}
	target, found := c.labels[name]
	if !found {
		return pos + 2, unknownLabelError(name)
	}
	return target, nil
}

// gosub is goTo plus a note of where to come back to: the token after the
// label argument.
func (c *Calc) gosub(pos int) (int, error) {
	name, ok := c.arg(pos + 1)
	if !ok {
		return pos + 1, missingArgError("gsb")
	}
	if !c.running || c.labels == nil {
		return pos + 2, errNoProgram
	}
	target, found := c.labels[name]
	if !found {
		return pos + 2, unknownLabelError(name)
	}
	c.rstack = append(c.rstack, pos+2)
	return target, nil
}

// ret pops a return address, or with none saved ends the program: the active
// sequence becomes two no-ops and control drains back to the prompt.
func (c *Calc) ret() (int, error) {
	if n := len(c.rstack); n > 0 {
		target := c.rstack[n-1]
		c.rstack = c.rstack[:n-1]
		return target, nil
	}
	c.seq = []string{"nop", "nop"}
	c.running = false
	return 0, nil
}

// pause blocks a running program on user acknowledgment.
func (c *Calc) pause() {
	c.infof("\nx: %s\n", c.fixed(c.st.peek()))
	c.infof("Press ENTER to continue.")
	if _, err := c.readLine(); err != nil {
		c.logf("pause interrupted: %v", err)
	}
}

func (c *Calc) printListing() {
	c.infof("Programming space:\n")
	var sb strings.Builder
	for _, tok := range c.prog {
		sb.WriteString(tok)
		if strings.EqualFold(tok, "rtn") {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	c.infof("%s\n", strings.TrimRight(sb.String(), " \n"))
}

// editListing hands the program file to an external editor and reloads the
// listing afterward.  The editor is a black box; only the reload matters.
func (c *Calc) editListing(ctx context.Context) error {
	if c.progPath == "" {
		return errors.New("no program file configured")
	}
	editor := c.editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.CommandContext(ctx, editor, c.progPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %v: %w", editor, err)
	}
	prog, err := loadListing(c.progPath)
	if err != nil {
		return err
	}
	c.prog = prog
	c.clearScreen()
	return nil
}
