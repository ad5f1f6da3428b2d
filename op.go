package jinx

import (
	"fmt"
	"strconv"
)

// OpKind names one of the machine's operation kinds. The set is closed:
// programs reaching the machine hold only the opcodes below.
type OpKind uint8

const (
	OpPush      OpKind = iota // push    magnitude onto each of stacks 1..span
	OpAdd                     // add     combining fold, sum
	OpSub                     // sub     combining fold, difference
	OpMul                     // mul     combining fold, product
	OpDiv                     // div     combining fold, quotient
	OpToQueue                 // enq     pop stack span into the queue
	OpFromQueue               // deq     dequeue onto stack span
	OpSpread                  // spread  copy top of stack 1 onto stacks 2..span
	OpBranch                  // jnp     jump to magnitude if top of stack span is non-positive
	OpJump                    // jmp     jump to magnitude
	OpPutNum                  // putn    pop stack span, write decimal text
	OpPutChar                 // putc    pop stack span, write one code point
	OpGetNum                  // getn    read a numeric token onto stack span
	OpGetChar                 // getc    read one code point onto stack span
	OpHalt                    // halt    stop the machine

	opMax
)

var opNames = [opMax]string{
	OpPush:      "push",
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpDiv:       "div",
	OpToQueue:   "enq",
	OpFromQueue: "deq",
	OpSpread:    "spread",
	OpBranch:    "jnp",
	OpJump:      "jmp",
	OpPutNum:    "putn",
	OpPutChar:   "putc",
	OpGetNum:    "getn",
	OpGetChar:   "getc",
	OpHalt:      "halt",
}

// opKinds maps mnemonics back to opcodes, for the assembler.
var opKinds map[string]OpKind

func init() {
	opKinds = make(map[string]OpKind, opMax)
	for op, name := range opNames {
		if name == "" {
			panic(fmt.Sprintf("unnamed opcode %v", op))
		}
		opKinds[name] = OpKind(op)
	}
}

func (op OpKind) String() string {
	if op < opMax {
		return opNames[op]
	}
	return fmt.Sprintf("op%v", uint8(op))
}

// hasOperand ops take one operand token in assembly: a magnitude for push, a
// target for the jumps.
func (op OpKind) hasOperand() bool { return op == OpPush || op == OpBranch || op == OpJump }

// isJump ops treat their magnitude as an instruction index.
func (op OpKind) isJump() bool { return op == OpBranch || op == OpJump }

// Instruction is one decoded machine operation: an operation kind, the span
// of stacks it addresses, and a non-negative magnitude carrying a literal
// value or jump target. Origin indexes back into whatever source the
// instruction was decoded from; it is diagnostics only.
type Instruction struct {
	Op        OpKind
	Span      int
	Magnitude int
	Origin    int
}

func (in Instruction) String() string {
	s := in.Op.String() + "/" + strconv.Itoa(in.Span)
	if in.Op.hasOperand() {
		s += " " + strconv.Itoa(in.Magnitude)
	}
	return s
}
