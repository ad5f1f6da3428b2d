package jinx

import (
	"fmt"
	"sort"
)

// Program is an immutable sequence of decoded instructions, executed from
// index 0. Labels optionally name instruction indices; they carry no runtime
// meaning, serving dumps, disassembly, and error messages only.
type Program struct {
	name   string
	ops    []Instruction
	labels map[string]int
}

// NewProgram copies ops into a fresh Program. The name shows up in dumps and
// trace logs.
func NewProgram(name string, ops []Instruction) *Program {
	return &Program{name: name, ops: append([]Instruction(nil), ops...)}
}

// Name returns the program's name.
func (p *Program) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ops)
}

// At returns the instruction at index i; i must be in [0, Len).
func (p *Program) At(i int) Instruction { return p.ops[i] }

// Label resolves a label name to its instruction index.
func (p *Program) Label(name string) (int, bool) {
	i, defined := p.labels[name]
	return i, defined
}

// Labels returns a copy of the label table.
func (p *Program) Labels() map[string]int {
	if len(p.labels) == 0 {
		return nil
	}
	labels := make(map[string]int, len(p.labels))
	for name, i := range p.labels {
		labels[name] = i
	}
	return labels
}

// labelsAt inverts the label table: for each labeled index, its names in
// sorted order.
func (p *Program) labelsAt() map[int][]string {
	if len(p.labels) == 0 {
		return nil
	}
	at := make(map[int][]string, len(p.labels))
	for name, i := range p.labels {
		at[i] = append(at[i], name)
	}
	for _, names := range at {
		sort.Strings(names)
	}
	return at
}

// validate checks that every instruction is well formed: a known opcode,
// non-negative span and magnitude, jump targets and labels within [0, Len].
// Data loaded from disk goes through here so that malformed records cannot
// reach the machine.
func (p *Program) validate() error {
	for i, in := range p.ops {
		if in.Op >= opMax {
			return fmt.Errorf("program %q: invalid opcode %v at %v", p.name, uint8(in.Op), i)
		}
		if in.Span < 0 {
			return fmt.Errorf("program %q: negative span %v at %v", p.name, in.Span, i)
		}
		if in.Magnitude < 0 {
			return fmt.Errorf("program %q: negative magnitude %v at %v", p.name, in.Magnitude, i)
		}
	}
	for name, i := range p.labels {
		if i < 0 || i > len(p.ops) {
			return fmt.Errorf("program %q: label %q out of range at %v", p.name, name, i)
		}
	}
	return nil
}
