package jinx

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Program images are a small CBOR envelope: magic, format version, then
// the program's name, instructions, and label table. Canonical encoding
// keeps images byte-for-byte reproducible for identical programs.

const (
	imageMagic   = "jinximg"
	imageVersion = 1
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("jinx: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type imageEnvelope struct {
	Magic   string         `cbor:"magic"`
	Version int            `cbor:"version"`
	Name    string         `cbor:"name"`
	Ops     []imageOp      `cbor:"ops"`
	Labels  map[string]int `cbor:"labels,omitempty"`
}

type imageOp struct {
	Op        uint8 `cbor:"op"`
	Span      int   `cbor:"span"`
	Magnitude int   `cbor:"mag"`
	Origin    int   `cbor:"origin,omitempty"`
}

// WriteImage serializes prog into w.
func WriteImage(w io.Writer, prog *Program) error {
	env := imageEnvelope{
		Magic:   imageMagic,
		Version: imageVersion,
		Name:    prog.Name(),
		Ops:     make([]imageOp, prog.Len()),
		Labels:  prog.Labels(),
	}
	for i := range env.Ops {
		in := prog.At(i)
		env.Ops[i] = imageOp{uint8(in.Op), in.Span, in.Magnitude, in.Origin}
	}
	data, err := cborEncMode.Marshal(&env)
	if err != nil {
		return fmt.Errorf("jinx: marshal image: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("jinx: write image: %w", err)
	}
	return nil
}

// ReadImage deserializes a Program from r, rejecting foreign or malformed
// data: wrong magic or version, unknown opcodes, negative spans or
// magnitudes, and out-of-range labels all fail here rather than reaching
// the machine.
func ReadImage(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("jinx: read image: %w", err)
	}
	var env imageEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("jinx: unmarshal image: %w", err)
	}
	if env.Magic != imageMagic {
		return nil, fmt.Errorf("jinx: not a program image (magic %q)", env.Magic)
	}
	if env.Version != imageVersion {
		return nil, fmt.Errorf("jinx: unsupported image version %v", env.Version)
	}

	prog := &Program{
		name:   env.Name,
		ops:    make([]Instruction, len(env.Ops)),
		labels: env.Labels,
	}
	for i, op := range env.Ops {
		prog.ops[i] = Instruction{OpKind(op.Op), op.Span, op.Magnitude, op.Origin}
	}
	if err := prog.validate(); err != nil {
		return nil, err
	}
	return prog, nil
}
