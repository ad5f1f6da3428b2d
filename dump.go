package jinx

import (
	"fmt"
	"io"
	"strconv"
)

// Dump writes a readable snapshot of the machine's state into w.
func (vm *VM) Dump(w io.Writer) {
	vmDumper{vm: vm, out: w}.dump()
}

// vmDumper writes a readable snapshot of machine state: program position,
// curse count, queue, and every created stack in index order. Failing tests
// and the repl's :dump command both print through here.
type vmDumper struct {
	vm  *VM
	out io.Writer
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  numerics: %v\n", dump.vm.numerics.Name())
	dump.dumpProg()
	fmt.Fprintf(dump.out, "  curses: %v\n", dump.vm.curses)
	fmt.Fprintf(dump.out, "  steps: %v\n", dump.vm.steps)
	dump.dumpQueue()
	dump.dumpBank()
}

func (dump vmDumper) dumpProg() {
	prog := dump.vm.prog
	if prog == nil {
		fmt.Fprintf(dump.out, "  prog: <none>\n")
		return
	}
	name := prog.Name()
	if name == "" {
		name = "<unnamed>"
	}
	fmt.Fprintf(dump.out, "  prog: %v @%v/%v\n", name, dump.vm.pc, prog.Len())
}

func (dump vmDumper) dumpQueue() {
	fmt.Fprintf(dump.out, "  queue: %v\n", formatValues(dump.vm.queue))
}

func (dump vmDumper) dumpBank() {
	ids := dump.vm.stackIndices()
	fmt.Fprintf(dump.out, "# Stack Bank (%v stacks)\n", len(ids))
	width := 1
	if n := len(ids); n > 0 {
		width = len(strconv.Itoa(ids[n-1]))
	}
	for _, i := range ids {
		fmt.Fprintf(dump.out, "  @% *v %v\n", width, i, formatValues(dump.vm.bank[i]))
	}
}

// formatValues renders bottom-to-top, so the last element is the top of a
// stack or the back of the queue.
func formatValues(values []Value) string {
	if len(values) == 0 {
		return "[]"
	}
	s := "["
	for i, v := range values {
		if i > 0 {
			s += " "
		}
		s += v.String()
	}
	return s + "]"
}
