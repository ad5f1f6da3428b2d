package jinx

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// VM is one Jinx machine: a sparse bank of value stacks, a shared FIFO
// queue, and a curse counter, executing one program at a time. A VM is
// owned by a single run loop; it is not safe for concurrent use, and
// independent runs should each construct their own VM.
type VM struct {
	logging

	numerics Numerics
	adapter  Adapter

	prog *Program
	pc   int

	bank   map[int][]Value
	queue  []Value
	curses uint64

	steps     uint64
	stepLimit uint64

	closers []io.Closer
}

// Curses returns the number of faults charged so far.
func (vm *VM) Curses() uint64 { return vm.curses }

// Numerics returns the active arithmetic backend.
func (vm *VM) Numerics() Numerics { return vm.numerics }

func (vm *VM) Close() (err error) {
	for i := len(vm.closers) - 1; i >= 0; i-- {
		if cerr := vm.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reset discards all machine state, leaving configuration (numerics,
// adapter, logging) in place. Run resets implicitly; interactive hosts
// reset between Resume chains.
func (vm *VM) Reset() { vm.reset() }

// reset discards all machine state, leaving configuration (numerics,
// adapter, logging) in place. Every Run starts from here so that
// consecutive runs share nothing.
func (vm *VM) reset() {
	vm.prog = nil
	vm.pc = 0
	vm.bank = nil
	vm.queue = nil
	vm.curses = 0
	vm.steps = 0
}

// curse charges one recoverable fault.
func (vm *VM) curse(what string) {
	vm.curses++
	vm.logf("#", "curse %v: %v", vm.curses, what)
}

// push appends v onto stack i, creating the stack on first reference.
// Index 0 is never a valid stack; pushing there discards the value.
func (vm *VM) push(i int, v Value) {
	if i < 1 {
		return
	}
	if vm.bank == nil {
		vm.bank = make(map[int][]Value)
	}
	vm.bank[i] = append(vm.bank[i], v)
}

// pop removes and returns the top of stack i; an absent or empty stack
// yields the policy value with fault set.
func (vm *VM) pop(i int) (Value, bool) {
	st := vm.bank[i]
	if i < 1 || len(st) == 0 {
		return vm.numerics.Zero(), true
	}
	v := st[len(st)-1]
	vm.bank[i] = st[:len(st)-1]
	return v, false
}

// peek returns the top of stack i without removing it; an absent or empty
// stack yields the policy value with fault set.
func (vm *VM) peek(i int) (Value, bool) {
	st := vm.bank[i]
	if i < 1 || len(st) == 0 {
		return vm.numerics.Zero(), true
	}
	return st[len(st)-1], false
}

// peekSign projects peek down to -1/0/1; an empty peek reads as 0.
func (vm *VM) peekSign(i int) (int, bool) {
	v, fault := vm.peek(i)
	return v.Sign(), fault
}

// enqueue appends v at the back of the queue.
func (vm *VM) enqueue(v Value) {
	vm.queue = append(vm.queue, v)
}

// dequeue removes the front of the queue; an empty queue yields the policy
// value with fault set.
func (vm *VM) dequeue() (Value, bool) {
	if len(vm.queue) == 0 {
		return vm.numerics.Zero(), true
	}
	v := vm.queue[0]
	vm.queue = vm.queue[1:]
	return v, false
}

// stackIndices returns the indices of all created stacks in order.
func (vm *VM) stackIndices() []int {
	if len(vm.bank) == 0 {
		return nil
	}
	ids := make([]int, 0, len(vm.bank))
	for i := range vm.bank {
		ids = append(ids, i)
	}
	sort.Ints(ids)
	return ids
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
