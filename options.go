package jinx

import (
	"io"

	"github.com/jcorbin/gojinx/internal/flushio"
)

// Option configures a VM under New.
type Option interface{ apply(vm *VM) }

var defaultOptions = options{
	numericsOption{Bounded()},
	optionFunc(func(vm *VM) { vm.adapter = NewStreamAdapter(nil, nil) }),
}

type optionFunc func(vm *VM)

func (f optionFunc) apply(vm *VM) { f(vm) }

// Options combines any number of options into one; nils are skipped.
func Options(opts ...Option) Option { return options(opts) }

type options []Option

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

// WithNumerics selects the arithmetic backend, Bounded or Big.
func WithNumerics(num Numerics) Option { return numericsOption{num} }

// WithAdapter supplies the io boundary wholesale, displacing any stream
// built up by WithInput/WithOutput/WithTee.
func WithAdapter(adapter Adapter) Option { return adapterOption{adapter} }

// WithInput reads program input from r.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithOutput writes program output to w.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithTee copies program output into w as well.
func WithTee(w io.Writer) Option { return teeOption{w} }

// WithStepLimit bounds a run to at most n dispatched instructions;
// exceeding it stops the run with ErrStepLimit. Zero means unlimited.
func WithStepLimit(n uint64) Option { return stepLimitOption(n) }

// WithLogf enables trace logging through the given printf-ish function.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithCloser arranges for c to be closed by VM.Close.
func WithCloser(c io.Closer) Option { return closerOption{c} }

type numericsOption struct{ num Numerics }
type adapterOption struct{ adapter Adapter }
type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type stepLimitOption uint64
type withLogfn func(mess string, args ...interface{})
type closerOption struct{ io.Closer }

func (o numericsOption) apply(vm *VM) { vm.numerics = o.num }

func (o adapterOption) apply(vm *VM) { vm.adapter = o.adapter }

func (o inputOption) apply(vm *VM) {
	vm.stream().setInput(o.Reader)
	if cl, ok := o.Reader.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

func (o outputOption) apply(vm *VM) {
	sa := vm.stream()
	sa.out.Flush()
	sa.setOutput(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	sa := vm.stream()
	sa.out = flushio.WriteFlushers(sa.out, flushio.NewWriteFlusher(o.Writer))
}

func (lim stepLimitOption) apply(vm *VM) { vm.stepLimit = uint64(lim) }

func (logfn withLogfn) apply(vm *VM) { vm.logfn = logfn }

func (o closerOption) apply(vm *VM) { vm.closers = append(vm.closers, o.Closer) }

// stream returns the VM's StreamAdapter for piecewise reconfiguration,
// replacing any foreign adapter with a fresh stream.
func (vm *VM) stream() *StreamAdapter {
	sa, ok := vm.adapter.(*StreamAdapter)
	if !ok {
		sa = NewStreamAdapter(nil, nil)
		vm.adapter = sa
	}
	return sa
}
