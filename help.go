package main

import (
	"fmt"
	"sort"
	"strings"
)

const version = "RPN Calc version 1.08b"

const usageText = `Type in your equation using Reverse Polish Notation.  Numbers are added to the
stack. Operators act upon the values in the stack.  Values/operators can be
input individually (pressing ENTER after every number/operator) or by
separating the tokens with spaces.  Values get "pulled" from the stack when
operated upon.

For example: 4 22 7 / + will divide 22 by 7 then add 4 to the result.

A complete list of operators can be displayed by typing in: "help op"`

// opDocs is the help surface: one human-readable line per operator.  The
// dispatcher never consults it; help and "help op" read it, nothing writes it.
var opDocs = map[string]string{
	"+":       "Sums the contents of x and y.",
	"-":       "Subtracts x from y.",
	"*":       "Multiplies x times y.",
	"/":       "Divide y by x.",
	"xroot":   "The xth root of base y.",
	"r>p":     "Rectangular to polar (y = angle, x = magnitude)",
	"p>r":     "Polar to rectangular (y = angle, x = magnitude)",
	"%":       "x percent of y (y remains in stack).",
	"%c":      "Percentage change from y to x (y remains in stack).",
	"cnr":     "Combinations of x in y items.",
	"pnr":     "Permutations of x in y items.",
	"sqrt":    "Square root of x.",
	"sq":      "Square of x.",
	"e":       "e raised to the x (e^x).",
	"ln":      "Natural log of x.",
	"tx":      "Base 10 raised to the x (10^x).",
	"log":     "Base 10 log of x.",
	"inv":     "Inverse of x (1/x).",
	"chs":     "Change the current sign of x (+/-).",
	"abs":     "Absolute value of x (|x|).",
	"ceil":    "raises x to the next highest integer.",
	"floor":   "lowers x to the next lowest integer.",
	"!":       "Factorial of integer x (x!).",
	"gamma":   "The Gamma of x.",
	"frac":    "Fractional portion of x.",
	"int":     "Integer portion of x.",
	"rnd":     "Rounds x to the displayed value.",
	"ratio":   "Convert x to a ratio of 2 integers (y/x).",
	"sin":     "Sine of angle in x (x is in radians).",
	"cos":     "Cosine of angle in x (x is in radians).",
	"tan":     "Tangent of angle in x (x is in radians).",
	"asin":    "Arcsine of y/r ratio in x (returns angle in radians).",
	"acos":    "Arccosine of x/r ratio in x (returns angle in radians).",
	"atan":    "Arctangent of y/x ratio in x (returns angle in radians).",
	"sinh":    "Hyperbolic sine of angle in x (x in radians).",
	"cosh":    "Hyperbolic cosine of angle in x (x in radians).",
	"tanh":    "Hyperbolic tangent of angle in x (x in radians).",
	"asinh":   "Hyperbolic arcsine of ratio x (result in radians).",
	"acosh":   "Hyperbolic arccosine of ratio x (result in radian).",
	"atanh":   "Hyperbolic arctangent of ratio x (result in radians).",
	"atan2":   "Arctangent of y/x (considers signs of x & y).",
	"hyp":     "Hypotenuse of right sides x & y.",
	"rad":     "Converts degrees to radians.",
	"deg":     "Converts radians to degrees.",
	"in":      "Converts centimeters to inches.",
	"cm":      "Converts inches to centimeters.",
	"gal":     "Converts litres to gallons.",
	"ltr":     "Converts gallons to litres.",
	"lbs":     "Converts kilograms to lbs.",
	"kg":      "Converts lbs. to kilograms.",
	"c>f":     "Converts celsius to fahrenheit.",
	"f>c":     "Converts fahrenheit to celsius.",
	"pi":      "Returns an approximate value of pi.",
	"tau":     "Returns approximate value of 2pi.",
	"swap":    "Exchanges the values of x and y.",
	"dup":     "Duplicates the value x in y (lifting the stack).",
	"clr":     "Clears all values in the stack.",
	"rd":      "Rolls the contents of stack down one postition.",
	"ru":      "Rolls the contents of stack up one position.",
	"cs":      "Copy the sign of y to the x value.",
	"rand":    "Generate a random number between 0 and 1.",
	"fix":     "Set the # of decimal places displayed by the value that follows.",
	"show":    "Display the full value of x.",
	"sto":     "Save the value in x to a named register (STO <ab0>).",
	"rcl":     "Recall the value in a register (RCL <ab0>).",
	"mem":     "Display the storage registers and their contents.",
	"clrg":    "Clears the contents of all the registers.",
	"lbl":     "Designates a label name to follow (LBL <a>).",
	"exc":     "Executes a program starting at a label (EXC <a>).",
	"gsb":     "Branches program to subroutine a label (GSB <a>).",
	"gto":     "Sends program to a label (GTO <a>)",
	"rtn":     "Designates end of program or subroutine.",
	"pse":     "Pauses program and displays current result.",
	"nop":     "Takes up a space. Does nothing else.",
	"x=0?":    "Tests if x equals 0. Skips the next 2 objects if false.",
	"x!=0?":   "Tests if x does not equal 0. Skips the next 2 objects on false.",
	"x>0?":    "Tests if x is greater than 0. Skips the next 2 objects on false.",
	"x<0?":    "Tests if x is less than 0. Skips the next 2 objects on false.",
	"x>=0?":   "Tests if x is greater than or equal to 0. Skips the next 2 objects on false.",
	"x<=0?":   "Tests if x is less than or equal to 0. Skips then next 2 objects on false.",
	"x=y?":    "Tests if x is equal to y. Skips the next 2 objects on false.",
	"x!=y?":   "Tests if x is not equal to y. Skips the next 2 objects on false.",
	"x>y?":    "Tests if x is greater than y. Skips the next 2 objects on false.",
	"x<y?":    "Tests if x is less than y. Skips the next 2 objects on false.",
	"x>=y?":   "Tests if x is greater than or equal to y. Skips the next 2 objects on false.",
	"x<=y?":   "Tests if x is less than or equal to y. Skips the next 2 objects on false.",
	"del":     "Delete a register by name (DEL x).",
	"^":       "Raises y(base) to the x(exponent).",
	"quit":    "Exits the program and saves the contents of the stack and registers.",
	"ptr":     "Returns the value of the command line's pointer.",
	"dh":      "Converts h.mmss to decimal equivalent.",
	"hms":     "Convert decimal time to h.mmss.",
	"prog":    "Print programming memory.",
	"gcd":     "Greatest common divisor of integers x & y.",
	"cls":     "Clear screen of any messages.",
	"edit":    "Enter programming memory.",
	"scut":    "Displays keyboard shortcuts.",
	"scutadd": "Add a keyboard shortcut: scutadd <shortcut> <operator/value>",
	"scutdel": "Delete a keyboard shortcut: scutdel <shortcut>",
	"help": "I'm being repressed! Also: followed by an operator gives detailed info on " +
		"that operator, while 'op' will list all operators.",
	"version": "Display the current version number.",
	"stat": `When not followed by a modifier adds x & y to the data set.
Following with 'show' displays stat info without adding to it.
Following with 'undo' removes x & y from the data sets.
Following with 'clear' resets data to zero.
Following with 'store' copies the statistic registers to the user registers.
Following with 'est' uses 'x' to return an estimated 'y'.
Follow with 'n', 'Ex', 'Ey', 'Ex2', 'Ey2', 'Exy', 'x', 'y', 'r', 'a', or 'b'
    to return that value to the stack.`,
}

func (c *Calc) printHelp(topic string) {
	switch {
	case topic == "":
		c.infof("%s\n", usageText)
	case strings.EqualFold(topic, "op"):
		names := make([]string, 0, len(opDocs))
		for name := range opDocs {
			names = append(names, strings.ToUpper(name))
		}
		sort.Strings(names)
		var sb strings.Builder
		for _, name := range names {
			fmt.Fprintf(&sb, "'%s' ", name)
		}
		c.infof("Type 'help xxx' for specific help on an operator.\n")
		c.infof("Available operators are:\n")
		c.infof("%s\n", strings.TrimRight(sb.String(), " "))
		c.infof("Operators are not case sensitive.\n")
		c.infof("Type 'scut' for shortcut keys.\n\n")
	default:
		name := strings.ToLower(topic)
		doc, ok := opDocs[name]
		if !ok {
			c.alertf("Operator %s not found.\n\n", topic)
			return
		}
		if key, bound := shortcutFor(c.scuts, name); bound {
			c.infof("%s(%s): %s\n\n", strings.ToUpper(topic), key, doc)
		} else {
			c.infof("%s: %s\n\n", strings.ToUpper(topic), doc)
		}
	}
}
