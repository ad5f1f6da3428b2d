package jinx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jcorbin/gojinx/internal/fileinput"
	"github.com/jcorbin/gojinx/internal/runeio"
)

// Assemble reads textual assembly from the given sources, in order, into
// one named Program.
//
// Tokens are whitespace delimited; a ";" comments to end of line. Each
// instruction is a mnemonic with an optional span suffix, "add/3", span 1
// when absent. "push" takes a magnitude operand: a decimal integer, a rune
// literal like 'A', or a control word like <NL> or ^J. "jmp" and "jnp" take
// an absolute index or a label; "name:" defines a label at the next
// instruction. Labels resolve across source boundaries in a second pass.
func Assemble(name string, sources ...io.Reader) (*Program, error) {
	asm := assembler{labels: make(map[string]int)}
	asm.in.Queue = append(asm.in.Queue, sources...)
	if err := asm.scanAll(); err != nil {
		return nil, err
	}
	if err := asm.resolve(); err != nil {
		return nil, err
	}
	prog := &Program{name: name, ops: asm.ops, labels: asm.labels}
	if err := prog.validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

// AssembleString assembles a single in-memory source.
func AssembleString(name, source string) (*Program, error) {
	return Assemble(name, NamedReader(name, strings.NewReader(source)))
}

type assembler struct {
	in     fileinput.Input
	ops    []Instruction
	labels map[string]int
	defs   map[string]fileinput.Location
	fixups []fixup
}

// fixup is a jump operand awaiting its label's index.
type fixup struct {
	op    int
	label string
	loc   fileinput.Location
}

func (asm *assembler) scanAll() error {
	for {
		token, loc, err := asm.scan()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if strings.HasSuffix(token, ":") {
			if err := asm.defineLabel(token[:len(token)-1], loc); err != nil {
				return err
			}
			continue
		}

		if err := asm.instruction(token, loc); err != nil {
			return err
		}
	}
}

func (asm *assembler) defineLabel(name string, loc fileinput.Location) error {
	if name == "" {
		return fmt.Errorf("%v: empty label name", loc)
	}
	if prior, defined := asm.defs[name]; defined {
		return fmt.Errorf("%v: label %q already defined at %v", loc, name, prior)
	}
	if asm.defs == nil {
		asm.defs = make(map[string]fileinput.Location)
	}
	asm.defs[name] = loc
	asm.labels[name] = len(asm.ops)
	return nil
}

func (asm *assembler) instruction(token string, loc fileinput.Location) error {
	base, spanStr, hasSpan := strings.Cut(token, "/")
	op, known := opKinds[base]
	if !known {
		return fmt.Errorf("%v: unknown instruction %q", loc, base)
	}

	span := 1
	if hasSpan {
		n, err := strconv.Atoi(spanStr)
		if err != nil || n < 0 {
			return fmt.Errorf("%v: invalid span %q for %v", loc, spanStr, base)
		}
		span = n
	}

	in := Instruction{Op: op, Span: span, Origin: loc.Line}
	if op.hasOperand() {
		operand, oloc, err := asm.scan()
		if err == io.EOF {
			return fmt.Errorf("%v: missing operand for %v", loc, base)
		} else if err != nil {
			return err
		}
		if op.isJump() {
			if n, err := strconv.Atoi(operand); err == nil {
				if n < 0 {
					return fmt.Errorf("%v: negative jump target %v", oloc, n)
				}
				in.Magnitude = n
			} else {
				asm.fixups = append(asm.fixups, fixup{len(asm.ops), operand, oloc})
			}
		} else {
			n, err := parseMagnitude(operand)
			if err != nil {
				return fmt.Errorf("%v: invalid magnitude %q: %v", oloc, operand, err)
			}
			in.Magnitude = n
		}
	}

	asm.ops = append(asm.ops, in)
	return nil
}

func (asm *assembler) resolve() error {
	for _, fix := range asm.fixups {
		target, defined := asm.labels[fix.label]
		if !defined {
			return fmt.Errorf("%v: undefined label %q", fix.loc, fix.label)
		}
		asm.ops[fix.op].Magnitude = target
	}
	return nil
}

// parseMagnitude reads a push operand: a non-negative decimal integer or a
// rune literal whose code point becomes the magnitude.
func parseMagnitude(token string) (int, error) {
	if isDigits(token) {
		return strconv.Atoi(token)
	}
	r, err := runeio.UnquoteRune(token)
	if err != nil {
		return 0, err
	}
	return int(r), nil
}

// scan returns the next token along with the location it started at;
// io.EOF once the source queue runs dry. A token opening with a single
// quote runs to its closing quote regardless of any whitespace between,
// honoring backslash escapes.
func (asm *assembler) scan() (string, fileinput.Location, error) {
	var loc fileinput.Location
	r, err := asm.skip()
	if err != nil {
		return "", loc, err
	}
	loc = asm.in.Scan.Location

	var sb strings.Builder
	sb.WriteRune(r)
	if r == '\'' {
		err := asm.scanQuoted(&sb)
		return sb.String(), loc, err
	}
	for {
		r, _, err := asm.in.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", loc, err
		} else if unicode.IsSpace(r) {
			break
		} else if r == ';' {
			err := asm.skipComment()
			if err != nil && err != io.EOF {
				return "", loc, err
			}
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), loc, nil
}

// skip consumes whitespace and comments, returning the first token rune.
func (asm *assembler) skip() (rune, error) {
	for {
		r, _, err := asm.in.ReadRune()
		if err != nil {
			return 0, err
		}
		if r == ';' {
			if err := asm.skipComment(); err != nil {
				return 0, err
			}
			continue
		}
		if !unicode.IsSpace(r) {
			return r, nil
		}
	}
}

func (asm *assembler) skipComment() error {
	for {
		r, _, err := asm.in.ReadRune()
		if err != nil {
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

func (asm *assembler) scanQuoted(sb *strings.Builder) error {
	loc := asm.in.Scan.Location
	escaped := false
	for {
		r, _, err := asm.in.ReadRune()
		if err == io.EOF {
			return fmt.Errorf("%v: unterminated rune literal", loc)
		} else if err != nil {
			return err
		}
		sb.WriteRune(r)
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '\'':
			return nil
		}
	}
}

// Disassemble writes prog as round-trippable assembly text: one
// instruction per line, label definitions ahead of their targets, and
// labels synthesized for any jump target that has none.
func Disassemble(w io.Writer, prog *Program) error {
	names := make(map[int]string, len(prog.labels))
	for i, defs := range prog.labelsAt() {
		names[i] = defs[0]
	}
	for i := 0; i < prog.Len(); i++ {
		if in := prog.At(i); in.Op.isJump() {
			if _, labeled := names[in.Magnitude]; !labeled {
				names[in.Magnitude] = "L" + strconv.Itoa(in.Magnitude)
			}
		}
	}

	for i := 0; i <= prog.Len(); i++ {
		if name, labeled := names[i]; labeled {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
		}
		if i == prog.Len() {
			break
		}

		in := prog.At(i)
		line := "\t" + in.Op.String()
		if in.Span != 1 {
			line += "/" + strconv.Itoa(in.Span)
		}
		if in.Op.hasOperand() {
			if in.Op.isJump() {
				line += " " + names[in.Magnitude]
			} else {
				line += " " + strconv.Itoa(in.Magnitude)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
