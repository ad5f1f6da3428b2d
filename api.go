package jinx

import (
	"context"

	"github.com/jcorbin/gojinx/internal/panicerr"
)

// Version of the jinx machine and its tools.
const Version = "0.1.0"

// New builds a VM: bounded numerics, empty input, and discarded output
// unless options say otherwise.
func New(opts ...Option) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	Options(opts...).apply(&vm)
	return &vm
}

// Run executes prog from a fresh machine state: empty bank and queue, zero
// curses. It returns the run's Result, or a JumpError when the program
// jumped outside itself, ErrStepLimit when it outran the configured step
// budget, or the context's error on cancellation. Engine panics surface as
// ordinary errors rather than crashing the host.
func (vm *VM) Run(ctx context.Context, prog *Program) (Result, error) {
	vm.reset()
	return vm.Resume(ctx, prog)
}

// Resume executes prog on top of whatever machine state the last run left
// behind: stacks, queue, and curse count all carry over. This is the
// continuation path for interactive sessions; Result totals are cumulative.
func (vm *VM) Resume(ctx context.Context, prog *Program) (Result, error) {
	vm.prog, vm.pc = prog, 0
	err := panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
	if err == nil {
		err = vm.flush()
	}
	return Result{Curses: vm.curses, Steps: vm.steps}, err
}

// flush pushes buffered program output out and surfaces any io error the
// adapter swallowed mid-run.
func (vm *VM) flush() error {
	type errFlusher interface {
		Flush() error
		Err() error
	}
	if ef, ok := vm.adapter.(errFlusher); ok {
		if err := ef.Flush(); err != nil {
			return err
		}
		return ef.Err()
	}
	return nil
}
