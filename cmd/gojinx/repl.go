package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jcorbin/gojinx"
	"github.com/jcorbin/gojinx/internal/logio"
)

const historyFile = ".gojinx_history"

var banner = fmt.Sprintf(`jinx %s repl
Each line assembles and runs against the persistent machine; stacks, queue,
and curses carry over. End a line with \ to continue it. Ctrl+C cancels
input, Ctrl+D exits.
Commands: :dump :reset :quit`, jinx.Version)

func cmdRepl(elog *logio.Logger, args []string) {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	vm := jinx.New(jinx.WithOutput(os.Stdout))
	ctx := context.Background()

	for seq := 1; ; seq++ {
		code, ok := readSnippet(ln, fmt.Sprintf("jinx[%v]> ", vm.Curses()))
		if !ok {
			fmt.Println()
			return
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(code) {
			case ":quit":
				return
			case ":reset":
				vm.Reset()
			case ":dump":
				vm.Dump(os.Stdout)
			default:
				fmt.Println("unknown command; one of :dump :reset :quit")
			}
			continue
		}

		prog, err := jinx.AssembleString(fmt.Sprintf("repl-%v", seq), code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if _, err := vm.Resume(ctx, prog); err != nil {
			var jerr jinx.JumpError
			if errors.As(err, &jerr) {
				fmt.Fprintf(os.Stderr, "aborted: %v\n", jerr)
			} else {
				fmt.Fprintf(os.Stderr, "%+v\n", err)
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readSnippet prompts for one snippet, continuing across lines while the
// last line ends with a backslash. A false ok means the session is over.
func readSnippet(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt("... ")
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if cont := strings.TrimSuffix(line, "\\"); cont != line {
			b.WriteString(cont)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(line)
		return b.String(), true
	}
}
