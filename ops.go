package main

import (
	"context"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// opcode is the closed set of operator variants.  Tokens are resolved to an
// opcode exactly once, through opTable, and dispatch is a single switch over
// the variant rather than an open-ended chain of string comparisons.
type opcode int

const (
	opInvalid opcode = iota

	// binary arithmetic
	opAdd
	opSub
	opMul
	opDiv
	opPow
	opXRoot
	opRectPolar
	opPolarRect
	opPercent
	opPercentChange
	opCombin
	opPermut
	opGCD
	opAtan2
	opHyp
	opCopySign

	// unary arithmetic
	opSqrt
	opSquare
	opExp
	opLn
	opTenX
	opLog
	opInv
	opChs
	opAbs
	opCeil
	opFloor
	opFact
	opGamma
	opFrac
	opInt
	opRound
	opRatio

	// trig and hyperbolics
	opSin
	opCos
	opTan
	opAsin
	opAcos
	opAtan
	opSinh
	opCosh
	opTanh
	opAsinh
	opAcosh
	opAtanh

	// conversions
	opRad
	opDeg
	opInches
	opCm
	opGal
	opLtr
	opLbs
	opKg
	opCtoF
	opFtoC
	opDH
	opHMS

	// constants
	opPi
	opTau

	// stack manipulation
	opSwap
	opDup
	opClr
	opRollDn
	opRollUp

	// misc
	opPtr
	opRand
	opFix
	opShow
	opCls
	opVersion
	opHelp

	// register store
	opSto
	opRcl
	opDel
	opMem
	opClrg

	// shortcut table
	opScut
	opScutAdd
	opScutDel

	// programming
	opLbl
	opExc
	opGsb
	opGto
	opRtn
	opPse
	opNop
	opProg
	opEdit

	// conditional skip tests
	opTestEq0
	opTestNe0
	opTestGt0
	opTestLt0
	opTestGe0
	opTestLe0
	opTestEqY
	opTestNeY
	opTestGtY
	opTestLtY
	opTestGeY
	opTestLeY

	// statistics
	opStat
)

var opTable = map[string]opcode{
	"+":       opAdd,
	"-":       opSub,
	"*":       opMul,
	"/":       opDiv,
	"^":       opPow,
	"xroot":   opXRoot,
	"r>p":     opRectPolar,
	"p>r":     opPolarRect,
	"%":       opPercent,
	"%c":      opPercentChange,
	"cnr":     opCombin,
	"pnr":     opPermut,
	"gcd":     opGCD,
	"atan2":   opAtan2,
	"hyp":     opHyp,
	"cs":      opCopySign,
	"sqrt":    opSqrt,
	"sq":      opSquare,
	"e":       opExp,
	"ln":      opLn,
	"tx":      opTenX,
	"log":     opLog,
	"inv":     opInv,
	"chs":     opChs,
	"abs":     opAbs,
	"ceil":    opCeil,
	"floor":   opFloor,
	"!":       opFact,
	"gamma":   opGamma,
	"frac":    opFrac,
	"int":     opInt,
	"rnd":     opRound,
	"ratio":   opRatio,
	"sin":     opSin,
	"cos":     opCos,
	"tan":     opTan,
	"asin":    opAsin,
	"acos":    opAcos,
	"atan":    opAtan,
	"sinh":    opSinh,
	"cosh":    opCosh,
	"tanh":    opTanh,
	"asinh":   opAsinh,
	"acosh":   opAcosh,
	"atanh":   opAtanh,
	"rad":     opRad,
	"deg":     opDeg,
	"in":      opInches,
	"cm":      opCm,
	"gal":     opGal,
	"ltr":     opLtr,
	"lbs":     opLbs,
	"kg":      opKg,
	"c>f":     opCtoF,
	"f>c":     opFtoC,
	"dh":      opDH,
	"hms":     opHMS,
	"pi":      opPi,
	"tau":     opTau,
	"swap":    opSwap,
	"dup":     opDup,
	"clr":     opClr,
	"rd":      opRollDn,
	"ru":      opRollUp,
	"ptr":     opPtr,
	"rand":    opRand,
	"fix":     opFix,
	"show":    opShow,
	"cls":     opCls,
	"version": opVersion,
	"help":    opHelp,
	"sto":     opSto,
	"rcl":     opRcl,
	"del":     opDel,
	"mem":     opMem,
	"clrg":    opClrg,
	"scut":    opScut,
	"scutadd": opScutAdd,
	"scutdel": opScutDel,
	"lbl":     opLbl,
	"exc":     opExc,
	"gsb":     opGsb,
	"gto":     opGto,
	"rtn":     opRtn,
	"pse":     opPse,
	"nop":     opNop,
	"prog":    opProg,
	"edit":    opEdit,
	"x=0?":    opTestEq0,
	"x!=0?":   opTestNe0,
	"x>0?":    opTestGt0,
	"x<0?":    opTestLt0,
	"x>=0?":   opTestGe0,
	"x<=0?":   opTestLe0,
	"x=y?":    opTestEqY,
	"x!=y?":   opTestNeY,
	"x>y?":    opTestGtY,
	"x<y?":    opTestLtY,
	"x>=y?":   opTestGeY,
	"x<=y?":   opTestLeY,
	"stat":    opStat,
}

// isNumber reports whether a token should be parsed as a literal: it starts
// with a digit, or with a sign/point and at least one more character.  The
// length guard keeps a bare "+" or "-" classified as an operator.
func isNumber(token string) bool {
	if token == "" {
		return false
	}
	if token[0] >= '0' && token[0] <= '9' {
		return true
	}
	return strings.IndexByte(".+-", token[0]) >= 0 && len(token) > 1
}

// exec1 classifies and executes the token under the cursor and returns the
// absolute position of the next token.  The returned position is meaningful
// even when an error accompanies it: recoverable errors have already decided
// how many argument tokens they consumed.
func (c *Calc) exec1(ctx context.Context) (int, error) {
	pos := c.cur
	raw := c.seq[pos]
	token := resolveShortcut(c.scuts, strings.ToLower(raw))
	c.logf("exec @%v %q -- %v", pos, token, c.st.reg)

	if isNumber(token) {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return pos + 1, parseError(token)
		}
		c.st.push(v)
		return pos + 1, nil
	}

	op, known := opTable[token]
	if !known {
		// A bare register name recalls its value; case matters here.
		if v, ok := c.mem[raw]; ok {
			c.st.push(v)
			return pos + 1, nil
		}
		return pos + 1, invalidTokenError(token)
	}
	return c.dispatch(ctx, op, token, pos)
}

// arg fetches an operator's argument token verbatim; arguments keep their
// case and are never re-classified.
func (c *Calc) arg(pos int) (string, bool) {
	if pos < len(c.seq) {
		return c.seq[pos], true
	}
	return "", false
}

func (c *Calc) dispatch(ctx context.Context, op opcode, tok string, pos int) (int, error) {
	st := c.st
	switch op {

	case opAdd:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, x+y)
	case opSub:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, y-x)
	case opMul:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, x*y)
	case opDiv:
		x, y := st.pull(), st.pull()
		if x == 0 {
			return pos + 1, errDivZero
		}
		return pos + 1, c.pushNum(tok, y/x)
	case opPow:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, math.Pow(y, x))
	case opXRoot:
		x, y := st.pull(), st.pull()
		if x == 0 {
			return pos + 1, errDivZero
		}
		return pos + 1, c.pushNum(tok, math.Pow(y, 1/x))

	case opRectPolar:
		x, y := st.pull(), st.pull()
		angle, mag := math.Atan2(y, x), math.Hypot(x, y)
		st.push(angle)
		st.push(mag)
		c.infof("Angle(y): %.4f; Magnitude(x): %.4f\n\n", angle, mag)
		return pos + 1, nil
	case opPolarRect:
		mag, angle := st.pull(), st.pull()
		st.push(mag * math.Sin(angle))
		st.push(mag * math.Cos(angle))
		return pos + 1, nil

	case opPercent:
		// % and %c keep y on the stack so it can feed the next computation;
		// that is how the HP-15C does it.
		x, y := st.pull(), st.pull()
		st.push(y)
		return pos + 1, c.pushNum(tok, x/100*y)
	case opPercentChange:
		x, y := st.pull(), st.pull()
		st.push(y)
		if y == 0 {
			return pos + 1, errDivZero
		}
		return pos + 1, c.pushNum(tok, (x/y-1)*100)

	case opCombin:
		x, y := st.pull(), st.pull()
		fy, okY := factorial(int(y))
		fx, okX := factorial(int(x))
		fd, okD := factorial(int(y) - int(x))
		if !okY || !okX || !okD {
			return pos + 1, domainError(tok)
		}
		return pos + 1, c.pushNum(tok, fy/(fx*fd))
	case opPermut:
		x, y := st.pull(), st.pull()
		fy, okY := factorial(int(y))
		fd, okD := factorial(int(y) - int(x))
		if !okY || !okD {
			return pos + 1, domainError(tok)
		}
		return pos + 1, c.pushNum(tok, fy/fd)
	case opGCD:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, float64(gcd(int(x), int(y))))

	case opAtan2:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, math.Atan2(y, x))
	case opHyp:
		x, y := st.pull(), st.pull()
		return pos + 1, c.pushNum(tok, math.Hypot(x, y))
	case opCopySign:
		x, y := st.pull(), st.pull()
		st.push(y)
		st.push(math.Copysign(x, y))
		return pos + 1, nil

	case opSqrt:
		return pos + 1, c.pushNum(tok, math.Sqrt(st.pull()))
	case opSquare:
		x := st.pull()
		return pos + 1, c.pushNum(tok, x*x)
	case opExp:
		return pos + 1, c.pushNum(tok, math.Exp(st.pull()))
	case opLn:
		return pos + 1, c.pushNum(tok, math.Log(st.pull()))
	case opTenX:
		return pos + 1, c.pushNum(tok, math.Pow(10, st.pull()))
	case opLog:
		return pos + 1, c.pushNum(tok, math.Log10(st.pull()))
	case opInv:
		x := st.pull()
		if x == 0 {
			return pos + 1, errDivZero
		}
		return pos + 1, c.pushNum(tok, 1/x)
	case opChs:
		st.push(-st.pull())
		return pos + 1, nil
	case opAbs:
		st.push(math.Abs(st.pull()))
		return pos + 1, nil
	case opCeil:
		st.push(math.Ceil(st.pull()))
		return pos + 1, nil
	case opFloor:
		st.push(math.Floor(st.pull()))
		return pos + 1, nil
	case opFact:
		f, ok := factorial(int(st.pull()))
		if !ok {
			return pos + 1, domainError(tok)
		}
		return pos + 1, c.pushNum(tok, f)
	case opGamma:
		return pos + 1, c.pushNum(tok, math.Gamma(st.pull()))
	case opFrac:
		_, frac := math.Modf(st.pull())
		st.push(frac)
		return pos + 1, nil
	case opInt:
		ipart, _ := math.Modf(st.pull())
		st.push(ipart)
		return pos + 1, nil
	case opRound:
		st.push(roundTo(st.pull(), c.prec))
		return pos + 1, nil
	case opRatio:
		x := st.pull()
		rat := new(big.Rat).SetFloat64(x)
		if rat == nil {
			return pos + 1, domainError(tok)
		}
		num, _ := new(big.Float).SetInt(rat.Num()).Float64()
		den, _ := new(big.Float).SetInt(rat.Denom()).Float64()
		st.push(num)
		st.push(den)
		return pos + 1, nil

	case opSin:
		return pos + 1, c.pushNum(tok, math.Sin(st.pull()))
	case opCos:
		return pos + 1, c.pushNum(tok, math.Cos(st.pull()))
	case opTan:
		return pos + 1, c.pushNum(tok, math.Tan(st.pull()))
	case opAsin:
		return pos + 1, c.pushNum(tok, math.Asin(st.pull()))
	case opAcos:
		return pos + 1, c.pushNum(tok, math.Acos(st.pull()))
	case opAtan:
		return pos + 1, c.pushNum(tok, math.Atan(st.pull()))
	case opSinh:
		return pos + 1, c.pushNum(tok, math.Sinh(st.pull()))
	case opCosh:
		return pos + 1, c.pushNum(tok, math.Cosh(st.pull()))
	case opTanh:
		return pos + 1, c.pushNum(tok, math.Tanh(st.pull()))
	case opAsinh:
		return pos + 1, c.pushNum(tok, math.Asinh(st.pull()))
	case opAcosh:
		return pos + 1, c.pushNum(tok, math.Acosh(st.pull()))
	case opAtanh:
		return pos + 1, c.pushNum(tok, math.Atanh(st.pull()))

	case opRad:
		st.push(st.pull() * math.Pi / 180)
		return pos + 1, nil
	case opDeg:
		st.push(st.pull() * 180 / math.Pi)
		return pos + 1, nil
	case opInches:
		st.push(st.pull() / 2.54)
		return pos + 1, nil
	case opCm:
		st.push(st.pull() * 2.54)
		return pos + 1, nil
	case opGal:
		x := st.pull()
		return pos + 1, c.pushNum(tok, math.Pow(math.Pow(x*1000, 1.0/3)/2.54, 3)/231)
	case opLtr:
		st.push(st.pull() * 231 * 2.54 * 2.54 * 2.54 / 1000)
		return pos + 1, nil
	case opLbs:
		st.push(st.pull() * 2.204622622)
		return pos + 1, nil
	case opKg:
		st.push(st.pull() / 2.204622622)
		return pos + 1, nil
	case opCtoF:
		st.push(st.pull()*9/5 + 32)
		return pos + 1, nil
	case opFtoC:
		st.push((st.pull() - 32) * 5 / 9)
		return pos + 1, nil

	case opDH:
		// h.mmss -> decimal hours
		x := st.pull()
		h := math.Trunc(x)
		m := math.Trunc((x - h) * 100)
		s := roundTo((x-h-m/100)*10000, 4)
		c.infof("%vh:%vm:%vs\n\n", h, m, s)
		st.push(h + m/60 + s/3600)
		return pos + 1, nil
	case opHMS:
		// decimal hours -> h.mmss
		x := st.pull()
		h := math.Trunc(x)
		m := math.Trunc(math.Mod(x*60, 60))
		s := roundTo(math.Mod(x*3600, 60), 4)
		c.infof("%vh:%vm:%vs\n\n", h, m, s)
		st.push(h + m/100 + s/10000)
		return pos + 1, nil

	case opPi:
		st.push(math.Pi)
		return pos + 1, nil
	case opTau:
		st.push(2 * math.Pi)
		return pos + 1, nil

	case opSwap:
		x, y := st.pull(), st.pull()
		st.push(x)
		st.push(y)
		return pos + 1, nil
	case opDup:
		x := st.pull()
		st.push(x)
		st.push(x)
		return pos + 1, nil
	case opClr:
		st.clear()
		return pos + 1, nil
	case opRollDn:
		st.rollDown()
		return pos + 1, nil
	case opRollUp:
		st.rollUp()
		return pos + 1, nil

	case opPtr:
		st.push(float64(pos))
		return pos + 1, nil
	case opRand:
		st.push(c.rand.Float64())
		return pos + 1, nil
	case opFix:
		arg, ok := c.arg(pos + 1)
		if !ok {
			return pos + 1, missingArgError(tok)
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return pos + 2, parseError(arg)
		}
		if n < 0 {
			n = -n
		}
		c.prec = n
		return pos + 2, nil
	case opShow:
		c.infof("%s\n\n", c.full(st.peek()))
		return pos + 1, nil
	case opCls:
		c.clearScreen()
		return pos + 1, nil
	case opVersion:
		c.alertf("%s\n\n", version)
		return pos + 1, nil
	case opHelp:
		if topic, ok := c.arg(pos + 1); ok {
			c.printHelp(topic)
			return pos + 2, nil
		}
		c.printHelp("")
		return pos + 1, nil

	case opSto:
		arg, ok := c.arg(pos + 1)
		if !ok {
			return pos + 1, missingArgError(tok)
		}
		c.mem[arg] = st.peek()
		return pos + 2, nil
	case opRcl:
		arg, ok := c.arg(pos + 1)
		if !ok {
			return pos + 1, missingArgError(tok)
		}
		v, found := c.mem[arg]
		if !found {
			return pos + 2, unknownRegisterError(arg)
		}
		st.push(v)
		return pos + 2, nil
	case opDel:
		arg, ok := c.arg(pos + 1)
		if !ok {
			return pos + 1, missingArgError(tok)
		}
		if _, found := c.mem[arg]; !found {
			return pos + 2, unknownRegisterError(arg)
		}
		delete(c.mem, arg)
		return pos + 2, nil
	case opMem:
		c.printRegisters()
		return pos + 1, nil
	case opClrg:
		c.mem = make(map[string]float64)
		c.infof("Registers cleared.\n\n")
		return pos + 1, nil

	case opScut:
		c.printShortcuts()
		return pos + 1, nil
	case opScutAdd:
		key, ok := c.arg(pos + 1)
		if !ok {
			return pos + 1, missingArgError(tok)
		}
		target, ok := c.arg(pos + 2)
		if !ok {
			return pos + 2, missingArgError(tok)
		}
		c.scuts[key] = target
		return pos + 3, nil
	case opScutDel:
		key, ok := c.arg(pos + 1)
		if !ok {
			return pos + 1, missingArgError(tok)
		}
		if _, found := c.scuts[key]; !found {
			return pos + 2, unknownShortcutError(key)
		}
		delete(c.scuts, key)
		return pos + 2, nil

	case opLbl:
		// A label is inert when executed in sequence; step over its name.
		return pos + 2, nil
	case opExc:
		return c.execProgram(pos)
	case opGsb:
		return c.gosub(pos)
	case opGto:
		return c.goTo(pos)
	case opRtn:
		return c.ret()
	case opPse:
		c.pause()
		return pos + 1, nil
	case opNop:
		return pos + 1, nil
	case opProg:
		c.printListing()
		return pos + 1, nil
	case opEdit:
		return pos + 1, c.editListing(ctx)

	case opTestEq0:
		return c.skipTest(pos, c.testX(func(x float64) bool { return x == 0 }))
	case opTestNe0:
		return c.skipTest(pos, c.testX(func(x float64) bool { return x != 0 }))
	case opTestGt0:
		return c.skipTest(pos, c.testX(func(x float64) bool { return x > 0 }))
	case opTestLt0:
		return c.skipTest(pos, c.testX(func(x float64) bool { return x < 0 }))
	case opTestGe0:
		return c.skipTest(pos, c.testX(func(x float64) bool { return x >= 0 }))
	case opTestLe0:
		return c.skipTest(pos, c.testX(func(x float64) bool { return x <= 0 }))
	case opTestEqY:
		return c.skipTest(pos, c.testXY(func(x, y float64) bool { return x == y }))
	case opTestNeY:
		return c.skipTest(pos, c.testXY(func(x, y float64) bool { return x != y }))
	case opTestGtY:
		return c.skipTest(pos, c.testXY(func(x, y float64) bool { return x > y }))
	case opTestLtY:
		return c.skipTest(pos, c.testXY(func(x, y float64) bool { return x < y }))
	case opTestGeY:
		return c.skipTest(pos, c.testXY(func(x, y float64) bool { return x >= y }))
	case opTestLeY:
		return c.skipTest(pos, c.testXY(func(x, y float64) bool { return x <= y }))

	case opStat:
		return c.statOp(pos)
	}
	return pos + 1, invalidTokenError(tok)
}

// testX evaluates a predicate of x; the operand goes back on the stack
// untouched, tests never consume.
func (c *Calc) testX(pred func(x float64) bool) bool {
	x := c.st.pull()
	c.st.push(x)
	return pred(x)
}

func (c *Calc) testXY(pred func(x, y float64) bool) bool {
	x, y := c.st.pull(), c.st.pull()
	c.st.push(y)
	c.st.push(x)
	return pred(x, y)
}

// skipTest turns a predicate outcome into cursor control: continue on true,
// skip the next two tokens on false.
func (c *Calc) skipTest(pos int, ok bool) (int, error) {
	if ok {
		return pos + 1, nil
	}
	return pos + 3, nil
}

func (c *Calc) statOp(pos int) (int, error) {
	x, y := c.st.pull(), c.st.pull()
	c.st.push(y)
	c.st.push(x)

	next := pos + 1
	if mod, ok := c.arg(pos + 1); ok {
		// Any trailing token blocks accumulation; only the modifiers below
		// do anything beyond displaying the current state.
		next = pos + 2
		switch mod {
		case "clear":
			c.stats.clear()
		case "undo":
			c.stats.undo(x, y)
		case "store":
			for name, v := range c.stats.values() {
				c.mem[name] = v
			}
		case "est":
			c.st.push(c.stats.estimate(x))
		default:
			if v, known := c.stats.value(mod); known {
				c.st.push(v)
			}
		}
	} else {
		c.stats.add(x, y)
	}
	c.printStats()
	return next, nil
}

func (c *Calc) printRegisters() {
	names := make([]string, 0, len(c.mem))
	for name := range c.mem {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+c.full(c.mem[name]))
	}
	c.infof("Storage registers:\n%s\n\n", strings.Join(parts, ", "))
}

func (c *Calc) printShortcuts() {
	keys := make([]string, 0, len(c.scuts))
	for key := range c.scuts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+":"+c.scuts[key])
	}
	c.infof("Keyboard shortcuts:\n%s\n\n", strings.Join(parts, ", "))
}

func factorial(n int) (float64, bool) {
	if n < 0 {
		return 0, false
	}
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i) // overflow runs to +Inf and is caught on push
	}
	return f, true
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
