package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calcTestCases []calcTestCase

func (tcs calcTestCases) run(t *testing.T) {
	for _, tc := range tcs {
		if !t.Run(tc.name, tc.run) {
			return
		}
	}
}

func calcTest(name string) (tc calcTestCase) {
	tc.name = name
	return tc
}

type calcTestCase struct {
	name   string
	lines  []string
	prog   []string
	opts   []Option
	expect []func(t *testing.T, c *Calc, out string)
}

func (tc calcTestCase) do(lines ...string) calcTestCase {
	tc.lines = append(tc.lines, lines...)
	return tc
}

func (tc calcTestCase) withProg(tokens ...string) calcTestCase {
	tc.prog = tokens
	return tc
}

func (tc calcTestCase) withOptions(opts ...Option) calcTestCase {
	tc.opts = append(tc.opts, opts...)
	return tc
}

func (tc calcTestCase) expectWith(fn func(t *testing.T, c *Calc, out string)) calcTestCase {
	tc.expect = append(tc.expect, fn)
	return tc
}

func (tc calcTestCase) expectSlot(i int, v float64) calcTestCase {
	return tc.expectWith(func(t *testing.T, c *Calc, _ string) {
		assert.InDelta(t, v, c.st.at(i), 1e-9, "stack slot %v", i)
	})
}

func (tc calcTestCase) expectX(v float64) calcTestCase { return tc.expectSlot(0, v) }

func (tc calcTestCase) expectOutput(substr string) calcTestCase {
	return tc.expectWith(func(t *testing.T, _ *Calc, out string) {
		assert.Contains(t, out, substr)
	})
}

func (tc calcTestCase) run(t *testing.T) {
	var out bytes.Buffer
	input := strings.Join(tc.lines, "\n") + "\n"
	opts := append([]Option{
		WithInput(strings.NewReader(input)),
		WithOutput(&out),
	}, tc.opts...)
	if testing.Verbose() {
		opts = append(opts, WithLogf(t.Logf))
	}
	c := New(opts...)
	c.prog = tc.prog
	require.NoError(t, c.Run(context.Background()))
	for _, expect := range tc.expect {
		expect(t, c, out.String())
	}
}

func TestArithmetic(t *testing.T) {
	calcTestCases{
		calcTest("divide then add").do("4 22 7 / +").expectX(4 + 22.0/7),
		calcTest("square via dup").do("5 dup *").expectX(25),
		calcTest("subtract is y minus x").do("10 3 -").expectX(7),
		calcTest("power is y to the x").do("2 10 ^").expectX(1024),
		calcTest("xth root of y").do("8 3 xroot").expectX(2),
		calcTest("inverse").do("4 inv").expectX(0.25),
		calcTest("change sign").do("5 chs").expectX(-5),
		calcTest("combinations").do("5 2 cnr").expectX(10),
		calcTest("permutations").do("5 2 pnr").expectX(20),
		calcTest("gcd").do("12 18 gcd").expectX(6),
		calcTest("factorial").do("5 !").expectX(120),
		calcTest("pi").do("pi").expectX(3.141592653589793),
		calcTest("tau").do("tau").expectX(6.283185307179586),
		calcTest("ten to the x").do("3 tx").expectX(1000),
		calcTest("ratio of a half").do("0.5 ratio").expectX(2).expectSlot(1, 1),
		calcTest("celsius to fahrenheit").do("100 c>f").expectX(212),
		calcTest("signed literal").do("-2.5 abs").expectX(2.5),
	}.run(t)
}

func TestPercentLeavesY(t *testing.T) {
	calcTestCases{
		calcTest("percent").do("200 10 %").expectX(20).expectSlot(1, 200),
		calcTest("percent change").do("200 150 %c").expectX(-25).expectSlot(1, 200),
	}.run(t)
}

func TestStackOperators(t *testing.T) {
	calcTestCases{
		calcTest("swap").do("1 2 swap").expectX(1).expectSlot(1, 2),
		calcTest("roll down").do("1 2 3 4 rd").
			expectX(3).expectSlot(1, 2).expectSlot(2, 1).expectSlot(3, 4),
		calcTest("roll up").do("1 2 3 4 ru").
			expectX(1).expectSlot(1, 4).expectSlot(2, 3).expectSlot(3, 2),
		calcTest("clear").do("1 2 3 clr").expectX(0).expectSlot(3, 0),
		calcTest("empty line duplicates x").do("5", "").expectX(5).expectSlot(1, 5),
		calcTest("copy sign of y").do("-3 7 cs").expectX(-7).expectSlot(1, -3),
		calcTest("pointer").do("nop nop ptr").expectX(2),
	}.run(t)
}

func TestConditionalSkips(t *testing.T) {
	calcTestCases{
		calcTest("true continues in sequence").do("5 x>0? 1 2 3").
			expectX(3).expectSlot(1, 2).expectSlot(2, 1).expectSlot(3, 5),
		calcTest("false skips next two tokens").do("0 x>0? 1 2 3").
			expectX(3).expectSlot(1, 0),
		calcTest("test does not consume x").do("5 x=0? nop nop").expectX(5),
		calcTest("test against y keeps both").do("4 7 x<y? 1 1").
			expectX(7).expectSlot(1, 4),
		calcTest("x<=y? true").do("7 4 x<=y? 9").expectX(9).expectSlot(1, 4),
		calcTest("shifted spelling resolves").do("5 x.0? 1 2 3").expectX(3),
	}.run(t)
}

func TestRegisters(t *testing.T) {
	calcTestCases{
		calcTest("store and recall").do("5 sto A clr rcl A").expectX(5),
		calcTest("bare name recalls").do("5 sto width clr width").expectX(5),
		calcTest("names are case sensitive").do("5 sto A rcl a").
			expectOutput("Register a not found.").expectX(5),
		calcTest("delete").do("5 sto A del A rcl A").
			expectOutput("Register A not found."),
		calcTest("delete unknown").do("del nope").expectOutput("Register nope not found."),
		calcTest("clear registers").do("5 sto A clrg rcl A").
			expectOutput("Registers cleared.").
			expectOutput("Register A not found."),
		calcTest("mem listing").do("5 sto A mem").
			expectOutput("Storage registers:").expectOutput("A: 5"),
		calcTest("missing argument recovers").do("3 sto").
			expectOutput("sto expects an argument").expectX(3),
	}.run(t)
}

func TestErrorPolicy(t *testing.T) {
	calcTestCases{
		calcTest("division by zero is line fatal").do("5 0 / 9").
			expectOutput("division by zero").expectX(0),
		calcTest("bad literal is line fatal").do("5 1..2 9").
			expectOutput("value error").expectX(5),
		calcTest("sqrt of negative is line fatal").do("-1 sqrt 9").
			expectOutput("domain error").expectX(0),
		calcTest("factorial of negative is line fatal").do("-3 ! 9").
			expectOutput("domain error"),
		calcTest("unknown token is token local").do("5 bogus 6").
			expectOutput("Invalid Operator: bogus").expectX(6).expectSlot(1, 5),
		calcTest("next line recovers after fatal").do("5 0 / 9", "7").expectX(7),
	}.run(t)
}

func TestShortcutOperators(t *testing.T) {
	calcTestCases{
		calcTest("default shortcut").do("9 r").expectX(3),
		calcTest("equals means plus").do("2 3 =").expectX(5),
		calcTest("python power spelling").do("2 3 **").expectX(8),
		calcTest("scutadd binds a key").do("scutadd ; dup", "5 ;").
			expectX(5).expectSlot(1, 5),
		calcTest("scutdel removes it").do("scutdel q", "5 q").
			expectOutput("Invalid Operator: q"),
		calcTest("scutdel unknown").do("scutdel zz").
			expectOutput("Shortcut zz not found."),
		calcTest("scut lists the table").do("scut").
			expectOutput("Keyboard shortcuts:").expectOutput("r:sqrt"),
	}.run(t)
}

func TestDisplayOperators(t *testing.T) {
	calcTestCases{
		calcTest("show full value").do("1234.5 show").expectOutput("1,234.5"),
		calcTest("fix sets precision").do("fix 2").
			expectWith(func(t *testing.T, c *Calc, _ string) {
				assert.Equal(t, 2, c.prec)
			}),
		calcTest("fix uses absolute value").do("fix -3").
			expectWith(func(t *testing.T, c *Calc, _ string) {
				assert.Equal(t, 3, c.prec)
			}),
		calcTest("rnd rounds to display precision").do("fix 2 2 3 /").do("rnd").expectX(0.67),
		calcTest("version").do("version").expectOutput(version),
	}.run(t)
}

func TestHelp(t *testing.T) {
	calcTestCases{
		calcTest("bare help prints usage").do("help").
			expectOutput("Reverse Polish Notation"),
		calcTest("help op lists operators").do("help op").
			expectOutput("'SQRT'").expectOutput("'XROOT'").
			expectOutput("Operators are not case sensitive."),
		calcTest("help on an operator").do("help sqrt").
			expectOutput("SQRT(r): Square root of x."),
		calcTest("help on unbound operator").do("help atan2").
			expectOutput("ATAN2: Arctangent of y/x"),
		calcTest("help on nonsense").do("help wat").
			expectOutput("Operator wat not found."),
	}.run(t)
}

func TestStatOperator(t *testing.T) {
	calcTestCases{
		calcTest("accumulate and query slope").
			do("2 1 stat", "4 3 stat", "stat a").
			expectX(1).expectOutput("n:   2"),
		calcTest("intercept").do("2 1 stat", "4 3 stat", "stat b").expectX(1),
		calcTest("estimate").do("2 1 stat", "4 3 stat", "5 stat est").expectX(6),
		calcTest("undo removes a pair").
			do("2 1 stat", "9 9 stat", "9 9 stat undo", "stat n").expectX(1),
		calcTest("clear zeroes the sums").
			do("2 1 stat", "stat clear", "stat n").expectX(0),
		calcTest("store copies into registers").
			do("2 1 stat", "4 3 stat", "stat store", "clr rcl Exy").expectX(14),
		calcTest("stat leaves the stack alone").
			do("2 1 stat").expectX(1).expectSlot(1, 2),
	}.run(t)
}
