package jinx

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gojinx/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name      string
	opts      []interface{}
	source    string
	ops       []Instruction
	seeds     []func(t *testing.T, vm *VM)
	expect    []func(t *testing.T, vm *VM)
	timeout   time.Duration
	wantErr   error
	wantAbort *JumpError

	exclusive   bool
	nextInputID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withSource(source string) vmTestCase {
	vmt.source = source
	return vmt
}

func (vmt vmTestCase) withOps(ops ...Instruction) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...Option) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withNumerics(num Numerics) vmTestCase {
	vmt.opts = append(vmt.opts, WithNumerics(num))
	return vmt
}

func (vmt vmTestCase) withStepLimit(n uint64) vmTestCase {
	vmt.opts = append(vmt.opts, WithStepLimit(n))
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) Option {
		name := t.Name() + "/input"
		if id := vmt.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		vmt.nextInputID++
		return WithInput(NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

func (vmt vmTestCase) withNamedInput(name string, input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) Option {
		return WithInput(NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

// withStack seeds stack i bottom to top before the program runs.
func (vmt vmTestCase) withStack(i int, values ...string) vmTestCase {
	vmt.seeds = append(vmt.seeds, func(t *testing.T, vm *VM) {
		for _, v := range parseValues(t, vm, values) {
			vm.push(i, v)
		}
	})
	return vmt
}

// withQueue seeds the queue front to back before the program runs.
func (vmt vmTestCase) withQueue(values ...string) vmTestCase {
	vmt.seeds = append(vmt.seeds, func(t *testing.T, vm *VM) {
		for _, v := range parseValues(t, vm, values) {
			vm.enqueue(v)
		}
	})
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) Option {
		lw := &logio.Writer{Logf: func(mess string, args ...interface{}) {
			t.Logf("out: "+mess, args...)
		}}
		return WithTee(lw)
	})
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectAbort(index int, target int) vmTestCase {
	vmt.wantAbort = &JumpError{Index: index, Target: target}
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectStack(i int, values ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []string{}
		}
		assert.Equal(t, values, valueStrings(vm.bank[i]), "expected stack %v values", i)
	})
	return vmt
}

func (vmt vmTestCase) expectQueue(values ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []string{}
		}
		assert.Equal(t, values, valueStrings(vm.queue), "expected queue values")
	})
	return vmt
}

func (vmt vmTestCase) expectCurses(n uint64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, n, vm.curses, "expected curse count")
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(t))
	}) {
		vm := vmt.buildVM(t)
		WithLogf(t.Logf).apply(vm)
		vmt.runVMTest(context.Background(), t, vm)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	for _, seed := range vmt.seeds {
		seed(t, vm)
	}

	_, err := vm.Resume(ctx, vmt.buildProg(t))
	if cerr := vm.Close(); err == nil {
		err = cerr
	}

	if vmt.wantAbort != nil {
		var jerr JumpError
		if assert.True(t, errors.As(err, &jerr), "expected abort, got: %+v", err) {
			assert.Equal(t, *vmt.wantAbort, jerr, "expected abort condition")
		}
	} else if vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	var vm VM
	defaultOptions.apply(&vm)

	var opt Option
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) Option:
			opt = Options(opt, impl(&vmt, t))
		case Option:
			opt = Options(opt, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	if opt != nil {
		opt.apply(&vm)
	}

	return &vm
}

func (vmt vmTestCase) buildProg(t *testing.T) *Program {
	if vmt.source != "" {
		prog, err := AssembleString(t.Name(), vmt.source)
		require.NoError(t, err, "must assemble test program")
		return prog
	}
	return NewProgram(t.Name(), vmt.ops)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vm.Dump(&lw)
}

//// utilities

func parseValues(t *testing.T, vm *VM, tokens []string) []Value {
	values := make([]Value, len(tokens))
	for i, token := range tokens {
		v, fault := vm.numerics.Parse(token)
		require.False(t, fault, "must parse seed value %q", token)
		values[i] = v
	}
	return values
}

func valueStrings(values []Value) []string {
	ss := make([]string, len(values))
	for i, v := range values {
		ss[i] = v.String()
	}
	return ss
}

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
