package jinx

import (
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/gojinx/internal/flushio"
	"github.com/jcorbin/gojinx/internal/runeio"
)

// Adapter is the machine's whole view of the outside world: two reads and
// two writes, all synchronous. A false ok means end of input. The adapter
// owns buffering, encoding, and stream lifecycle; the machine never sees an
// io error directly, it only observes input running dry.
type Adapter interface {
	// ReadNumber returns the next whitespace-delimited token.
	ReadNumber() (token string, ok bool)
	// ReadCodePoint returns the next code point.
	ReadCodePoint() (r rune, ok bool)
	WriteText(s string)
	WriteCodePoint(r rune)
}

// StreamAdapter adapts a reader/writer pair into an Adapter. Output is
// flushed before every read so that prompts written by a program appear
// before it blocks on input. The first io error sticks: writes become
// no-ops and reads report end of input, with the error held for the host
// to collect through Err.
type StreamAdapter struct {
	in  io.RuneReader
	out flushio.WriteFlusher
	err error
}

// NewStreamAdapter wraps r and w; either may be nil for an empty input or
// discarded output.
func NewStreamAdapter(r io.Reader, w io.Writer) *StreamAdapter {
	sa := &StreamAdapter{}
	sa.setInput(r)
	sa.setOutput(w)
	return sa
}

func (sa *StreamAdapter) setInput(r io.Reader) {
	if r == nil {
		r = strings.NewReader("")
	}
	sa.in = runeio.NewReader(r)
}

func (sa *StreamAdapter) setOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	sa.out = flushio.NewWriteFlusher(w)
}

// Err returns the sticky io error, if any. io.EOF is not an error here:
// input merely ran out.
func (sa *StreamAdapter) Err() error {
	if sa.err == io.EOF {
		return nil
	}
	return sa.err
}

// Flush flushes buffered output.
func (sa *StreamAdapter) Flush() error {
	if err := sa.out.Flush(); err != nil && sa.err == nil {
		sa.err = err
	}
	return sa.Err()
}

func (sa *StreamAdapter) Close() error {
	return sa.Flush()
}

func (sa *StreamAdapter) readRune() (rune, bool) {
	if sa.err != nil {
		return 0, false
	}
	if err := sa.out.Flush(); err != nil {
		sa.err = err
		return 0, false
	}
	r, _, err := sa.in.ReadRune()
	if err != nil {
		sa.err = err
		return 0, false
	}
	return r, true
}

func (sa *StreamAdapter) ReadNumber() (string, bool) {
	var sb strings.Builder
	for {
		r, ok := sa.readRune()
		if !ok {
			return "", false
		}
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
			break
		}
	}
	for {
		r, ok := sa.readRune()
		if !ok || unicode.IsSpace(r) {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), true
}

func (sa *StreamAdapter) ReadCodePoint() (rune, bool) {
	return sa.readRune()
}

func (sa *StreamAdapter) WriteText(s string) {
	if sa.err != nil {
		return
	}
	if _, err := runeio.WriteString(sa.out, s); err != nil {
		sa.err = err
	}
}

func (sa *StreamAdapter) WriteCodePoint(r rune) {
	if sa.err != nil {
		return
	}
	if _, err := runeio.WriteRune(sa.out, r); err != nil {
		sa.err = err
	}
}

// NamedReader attaches a name to a reader, so that input sources show up
// usefully in assembler locations and logs.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
