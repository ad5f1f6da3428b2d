package runeio

import (
	"errors"
	"strconv"
	"strings"
)

// C0Names gives the conventional mnemonic for each ASCII control character,
// indexed by code point.
var C0Names = [32]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "NL", "VT", "NP", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// ControlWords maps control mnemonic tokens like "<NL>" and caret forms like
// "^J" to their runes. Space and delete get the usual "<SP>" and "<DEL>"
// pseudo mnemonics.
var ControlWords map[string]rune

func init() {
	ControlWords = make(map[string]rune, 3*(len(C0Names)+2))
	for i, name := range C0Names {
		addControlWord(name, rune(i))
	}
	addControlWord("SP", 0x20)
	addControlWord("DEL", 0x7F)
}

func addControlWord(name string, r rune) {
	ControlWords["<"+strings.ToUpper(name)+">"] = r
	ControlWords["<"+strings.ToLower(name)+">"] = r
	if caret := CaretForm(r); caret != "" {
		ControlWords[caret] = r
	}
}

// CaretForm computes the ^-escaped printable form of a C0 control rune, ^@
// through ^_ plus ^? for delete; other runes have none.
func CaretForm(r rune) string {
	if r < 0x20 || r == 0x7f {
		return "^" + string(r^0x40)
	}
	return ""
}

var errInvalidRune = errors.New(`rune literal must be 'X', "^X", or "<NAME>"`)

// UnquoteRune parses a rune literal token: a single-quoted character with
// standard Go escapes, a caret form like ^J, or a control mnemonic like <NL>.
func UnquoteRune(token string) (rune, error) {
	if r, defined := ControlWords[token]; defined {
		return r, nil
	}
	if len(token) < 3 || token[0] != '\'' || token[len(token)-1] != '\'' {
		return 0, errInvalidRune
	}
	value, _, tail, err := strconv.UnquoteChar(token[1:len(token)-1], '\'')
	if err != nil {
		return 0, err
	}
	if tail != "" {
		return 0, errInvalidRune
	}
	return value, nil
}
