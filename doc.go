/* Command RPN-Calculator is an interactive Reverse-Polish-Notation calculator
in the style of the classic HP scientific machines.

Numbers typed at the prompt are pushed onto a fixed-depth stack whose slots
are named x, y, z and t; operators pull their operands from the stack and
push their results back.  Tokens may be entered one per line or many per
line, separated by spaces:

	4 22 7 / +

divides 22 by 7 and adds 4 to the result.  Pushing lifts the whole stack
toward t, discarding t; pulling drops it, with t replicating itself into the
vacated slot.  That replication is deliberate: a constant parked in t keeps
feeding a chain of computations as the stack drops.

Beyond arithmetic, trig and unit conversions, the calculator has named
storage registers (sto/rcl/del), single-key shortcuts (scut/scutadd), a
two-variable statistics accumulator with linear regression (stat), and a
small programming facility: a token listing kept in an external text file
can define labels (lbl), be entered at a label (exc), jump (gto), call
subroutines (gsb/rtn), pause (pse), and branch by conditional skip tests
such as x>0? which skip the next two tokens when false.

Operator names are case-insensitive; register and label names are not.
Type "help" at the prompt for documentation, "help op" for the operator
list, and "scut" for the shortcut keys.  The "quit" operator saves the
stack, registers, shortcuts, display precision and statistic sums to the
state file, and they come back on the next run.
*/
package main
