package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLabels(t *testing.T) {
	listing := strings.Fields("lbl start 1 2 + rtn lbl Sub 3 rtn")
	labels := scanLabels(listing)
	assert.Equal(t, map[string]int{"start": 2, "Sub": 8}, labels)
}

func TestScanLabelsDuplicateLastWins(t *testing.T) {
	listing := strings.Fields("lbl a 1 rtn lbl a 2 rtn")
	labels := scanLabels(listing)
	assert.Equal(t, map[string]int{"a": 6}, labels)
}

func TestScanLabelsCaseInsensitiveMarker(t *testing.T) {
	labels := scanLabels(strings.Fields("LBL Start nop rtn"))
	assert.Equal(t, map[string]int{"Start": 2}, labels, "the marker folds case, the name does not")
}

func TestLoadListing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"lbl start   # entry point",
		"2 3 +",
		"# a full comment line",
		"rtn",
	}, "\n")), 0644))

	tokens, err := loadListing(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Fields("lbl start 2 3 + rtn"), tokens)
}

func TestLoadListingMissingFile(t *testing.T) {
	tokens, err := loadListing(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Nil(t, tokens, "a missing listing is empty, not an error")
}

func TestProgramExecution(t *testing.T) {
	calcTestCases{
		calcTest("exc runs from a label").
			withProg(strings.Fields("lbl start 2 3 + rtn")...).
			do("exc start").expectX(5),

		calcTest("gsb returns to the token after the call").
			withProg(strings.Fields("lbl start 2 3 + gsb sub 4 * rtn lbl sub 1 + rtn")...).
			do("exc start").expectX(24),

		calcTest("nested subroutines unwind in order").
			withProg(strings.Fields(
				"lbl start gsb a 100 + rtn lbl a gsb b 10 + rtn lbl b 1 rtn")...).
			do("exc start").expectX(111),

		calcTest("gto with a skip test loops").
			withProg(strings.Fields("lbl loop 1 - dup x>0? gto loop rtn")...).
			do("3 exc loop").expectX(0),

		calcTest("labels are inert in sequence").
			withProg(strings.Fields("lbl start 2 lbl mid 3 + rtn")...).
			do("exc start").expectX(5),

		calcTest("exc with unknown label stays on the line").
			withProg(strings.Fields("lbl start nop rtn")...).
			do("exc nope 7").expectOutput("Label nope not found.").expectX(7),

		calcTest("gto without a running program").
			do("gto foo 7").expectOutput("no program running"),

		calcTest("gto to unknown label inside a program").
			withProg(strings.Fields("lbl start gto nowhere 5 rtn")...).
			do("exc start").expectOutput("Label nowhere not found.").expectX(5),

		calcTest("rtn outside a subroutine ends the sequence").
			do("5 rtn 9").expectX(5),

		calcTest("pse waits for an acknowledgment").
			withProg(strings.Fields("lbl main 42 pse 1 + rtn")...).
			do("exc main", "").
			expectX(43).expectOutput("Press ENTER to continue."),
	}.run(t)
}

func TestProgramListingDump(t *testing.T) {
	calcTest("prog prints with breaks after rtn").
		withProg(strings.Fields("lbl start 1 rtn lbl sub 2 rtn")...).
		do("prog").
		expectOutput("Programming space:").
		expectOutput("lbl start 1 rtn\nlbl sub 2 rtn").
		run(t)
}
