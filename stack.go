package main

// The calculator stack is a register file of fixed depth, not a growable
// list.  The first four slots are named x, y, z and t by HP convention, x
// being the working register.  Pushing shifts every value one slot toward t
// and discards whatever was in t; pulling shifts every value one slot toward
// x and leaves the last slot holding a copy of its former neighbor.  That
// padding rule is how the classic machines behave: a constant left in t
// replicates itself as the stack drops, which many keystroke programs rely
// on.

const stackMin = 4

type stack struct {
	reg []float64
}

func newStack(depth int) *stack {
	if depth < stackMin {
		depth = stackMin
	}
	return &stack{reg: make([]float64, depth)}
}

// restore adopts a persisted register file; the persisted depth wins so that
// a saved session round-trips exactly.
func (st *stack) restore(reg []float64) {
	if len(reg) >= stackMin {
		st.reg = append(st.reg[:0], reg...)
	}
}

func (st *stack) depth() int { return len(st.reg) }

// at reads a slot without disturbing the stack; index 0 is x.
func (st *stack) at(i int) float64 { return st.reg[i] }

func (st *stack) push(v float64) {
	for i := len(st.reg) - 1; i > 0; i-- {
		st.reg[i] = st.reg[i-1]
	}
	st.reg[0] = v
}

func (st *stack) pull() float64 {
	v := st.reg[0]
	for i := 0; i+1 < len(st.reg); i++ {
		st.reg[i] = st.reg[i+1]
	}
	return v
}

// peek returns x without dropping the stack.
func (st *stack) peek() float64 { return st.reg[0] }

func (st *stack) clear() {
	for i := range st.reg {
		st.reg[i] = 0
	}
}

// rollDown rotates the stack toward x: x goes to the last slot, everything
// else moves up one.
func (st *stack) rollDown() {
	v := st.reg[0]
	for i := 0; i+1 < len(st.reg); i++ {
		st.reg[i] = st.reg[i+1]
	}
	st.reg[len(st.reg)-1] = v
}

// rollUp rotates the stack away from x: the last slot comes back around to x.
func (st *stack) rollUp() {
	v := st.reg[len(st.reg)-1]
	for i := len(st.reg) - 1; i > 0; i-- {
		st.reg[i] = st.reg[i-1]
	}
	st.reg[0] = v
}

func (st *stack) snapshot() []float64 {
	out := make([]float64, len(st.reg))
	copy(out, st.reg)
	return out
}
