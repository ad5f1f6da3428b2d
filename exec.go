package jinx

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// control is an op method's pointer update: advance past the instruction,
// jump to its magnitude, or halt the run.
type control uint8

const (
	controlAdvance control = iota
	controlJump
	controlHalt
)

// Result reports a completed run: the machine's curse counter and the
// number of instructions dispatched. After Resume both are cumulative
// across the machine's lifetime.
type Result struct {
	Curses uint64
	Steps  uint64
}

func (res Result) String() string {
	return fmt.Sprintf("completed with %v curses in %v steps", res.Curses, res.Steps)
}

// JumpError aborts a run: a jump instruction named a target outside the
// program. Unlike a curse this is never recovered, since a data-independent
// bad target means the program itself is malformed.
type JumpError struct {
	Index  int // the offending instruction
	Target int
}

func (err JumpError) Error() string {
	return fmt.Sprintf("invalid jump target %v at instruction %v", err.Target, err.Index)
}

// ErrStepLimit stops a run that exceeded the host-configured step budget.
// It is a host-level exit, not a language result; no jinx program can
// observe it.
var ErrStepLimit = errors.New("step limit exceeded")

func (vm *VM) run(ctx context.Context) error {
	if vm.logfn != nil {
		defer vm.withLogPrefix("\t")()
	}

	for {
		// the pointer walking off either end of the program is the normal
		// termination path
		if vm.pc < 0 || vm.pc >= vm.prog.Len() {
			vm.logf("=", "halt @%v", vm.pc)
			return nil
		}
		if vm.stepLimit != 0 && vm.steps >= vm.stepLimit {
			return ErrStepLimit
		}

		at := vm.pc
		in := vm.prog.At(at)
		vm.steps++
		if vm.logfn != nil {
			vm.logf(">", "exec @%v %v -- q:%v c:%v", at, in, len(vm.queue), vm.curses)
		}

		switch opTable[in.Op](vm, in) {
		case controlAdvance:
			vm.pc++
		case controlJump:
			if t := in.Magnitude; t < 0 || t > vm.prog.Len() {
				return JumpError{Index: at, Target: t}
			}
			vm.pc = in.Magnitude
		case controlHalt:
			vm.logf("=", "halt @%v", at)
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// opPush pushes a value equal to the magnitude onto each of stacks 1..span.
func (vm *VM) opPush(in Instruction) control {
	v := vm.numerics.FromInt(int64(in.Magnitude))
	for i := 1; i <= in.Span; i++ {
		vm.push(i, v)
	}
	return controlAdvance
}

// opCombine folds one arithmetic operator left to right across the span:
// the top of stack 1 is popped as the running left operand, stacks up to
// span-1 are popped as right operands in turn, and the top of stack span is
// the final right operand, read in place beneath the pushed result. Every
// empty read and every zero divisor charges one curse and substitutes the
// policy value for that step only; the fold always runs to completion.
// Spans below 2 fold nothing.
func (vm *VM) opCombine(op func(a, b Value) (Value, bool), in Instruction) control {
	if in.Span < 2 {
		return controlAdvance
	}
	acc, fault := vm.pop(1)
	if fault {
		vm.curse("pop from empty stack 1")
	}
	for i := 2; i < in.Span; i++ {
		r, fault := vm.pop(i)
		if fault {
			vm.curse(fmt.Sprintf("pop from empty stack %v", i))
		}
		if acc, fault = op(acc, r); fault {
			vm.curse(fmt.Sprintf("%v at stack %v", in.Op, i))
		}
	}
	r, fault := vm.peek(in.Span)
	if fault {
		vm.curse(fmt.Sprintf("peek at empty stack %v", in.Span))
	}
	if acc, fault = op(acc, r); fault {
		vm.curse(fmt.Sprintf("%v at stack %v", in.Op, in.Span))
	}
	vm.push(in.Span, acc)
	return controlAdvance
}

func (vm *VM) opAdd(in Instruction) control { return vm.opCombine(vm.numerics.Add, in) }
func (vm *VM) opSub(in Instruction) control { return vm.opCombine(vm.numerics.Sub, in) }
func (vm *VM) opMul(in Instruction) control { return vm.opCombine(vm.numerics.Mul, in) }
func (vm *VM) opDiv(in Instruction) control { return vm.opCombine(vm.numerics.Div, in) }

// opToQueue pops the top of stack span and enqueues it.
func (vm *VM) opToQueue(in Instruction) control {
	v, fault := vm.pop(in.Span)
	if fault {
		vm.curse(fmt.Sprintf("pop from empty stack %v", in.Span))
	}
	vm.enqueue(v)
	return controlAdvance
}

// opFromQueue dequeues one value and pushes it onto stack span.
func (vm *VM) opFromQueue(in Instruction) control {
	v, fault := vm.dequeue()
	if fault {
		vm.curse("dequeue from empty queue")
	}
	vm.push(in.Span, v)
	return controlAdvance
}

// opSpread peeks the top of stack 1 and pushes a copy onto each of stacks
// 2..span. Spans below 2 copy nothing and read nothing.
func (vm *VM) opSpread(in Instruction) control {
	if in.Span < 2 {
		return controlAdvance
	}
	v, fault := vm.peek(1)
	if fault {
		vm.curse("peek at empty stack 1")
	}
	for i := 2; i <= in.Span; i++ {
		vm.push(i, v)
	}
	return controlAdvance
}

// opBranch peeks the sign of stack span and jumps when it is non-positive.
// An empty peek reads as sign 0, so the branch is taken.
func (vm *VM) opBranch(in Instruction) control {
	sign, fault := vm.peekSign(in.Span)
	if fault {
		vm.curse(fmt.Sprintf("peek at empty stack %v", in.Span))
	}
	if sign <= 0 {
		return controlJump
	}
	return controlAdvance
}

func (vm *VM) opJump(Instruction) control { return controlJump }

// opPutNum pops the top of stack span and writes its decimal form; the
// policy value from an empty pop writes as "0".
func (vm *VM) opPutNum(in Instruction) control {
	v, fault := vm.pop(in.Span)
	if fault {
		vm.curse(fmt.Sprintf("pop from empty stack %v", in.Span))
	}
	vm.adapter.WriteText(v.String())
	return controlAdvance
}

// opPutChar pops the top of stack span and writes it as one code point.
// Values that are not a Unicode scalar -- fractions, negatives, surrogates,
// anything past 0x10FFFF -- charge one curse and write nothing.
func (vm *VM) opPutChar(in Instruction) control {
	v, fault := vm.pop(in.Span)
	if fault {
		vm.curse(fmt.Sprintf("pop from empty stack %v", in.Span))
		return controlAdvance
	}
	n, exact := v.Int()
	if !exact || n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
		vm.curse(fmt.Sprintf("%v is not a code point", v))
		return controlAdvance
	}
	vm.adapter.WriteCodePoint(rune(n))
	return controlAdvance
}

// opGetNum reads one numeric token and pushes its value onto stack span;
// end of input or a malformed token pushes the policy value.
func (vm *VM) opGetNum(in Instruction) control {
	token, ok := vm.adapter.ReadNumber()
	if !ok {
		vm.curse("read number at end of input")
		vm.push(in.Span, vm.numerics.Zero())
		return controlAdvance
	}
	v, fault := vm.numerics.Parse(token)
	if fault {
		vm.curse(fmt.Sprintf("unreadable number %q", token))
	}
	vm.push(in.Span, v)
	return controlAdvance
}

// opGetChar reads one code point and pushes its integer value onto stack
// span; end of input pushes the policy value.
func (vm *VM) opGetChar(in Instruction) control {
	r, ok := vm.adapter.ReadCodePoint()
	if !ok {
		vm.curse("read character at end of input")
		vm.push(in.Span, vm.numerics.Zero())
		return controlAdvance
	}
	vm.push(in.Span, vm.numerics.FromInt(int64(r)))
	return controlAdvance
}

func (vm *VM) opHalt(Instruction) control { return controlHalt }

var opTable [opMax]func(vm *VM, in Instruction) control

func init() {
	opTable = [opMax]func(vm *VM, in Instruction) control{
		OpPush:      (*VM).opPush,
		OpAdd:       (*VM).opAdd,
		OpSub:       (*VM).opSub,
		OpMul:       (*VM).opMul,
		OpDiv:       (*VM).opDiv,
		OpToQueue:   (*VM).opToQueue,
		OpFromQueue: (*VM).opFromQueue,
		OpSpread:    (*VM).opSpread,
		OpBranch:    (*VM).opBranch,
		OpJump:      (*VM).opJump,
		OpPutNum:    (*VM).opPutNum,
		OpPutChar:   (*VM).opPutChar,
		OpGetNum:    (*VM).opGetNum,
		OpGetChar:   (*VM).opGetChar,
		OpHalt:      (*VM).opHalt,
	}
	for op, fn := range opTable {
		if fn == nil {
			panic(fmt.Sprintf("no implementation for opcode %v", OpKind(op)))
		}
	}
}
