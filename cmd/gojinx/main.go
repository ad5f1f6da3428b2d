package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcorbin/gojinx"
	"github.com/jcorbin/gojinx/internal/logio"
	"github.com/jcorbin/gojinx/manifest"
)

const appName = "gojinx"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	elog := &logio.Logger{}
	elog.SetOutput(os.Stderr)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "run":
		cmdRun(elog, args)
	case "build":
		cmdBuild(elog, args)
	case "dis":
		cmdDis(elog, args)
	case "repl":
		cmdRepl(elog, args)
	case "version":
		fmt.Println(jinx.Version)
		return
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
	os.Exit(elog.ExitCode())
}

func usage() {
	fmt.Printf(`jinx %s

Usage:
  %s run [flags] [prog.jnx|prog.jimg]    Run a program (jinx.toml supplies defaults)
  %s build -o prog.jimg src.jnx...       Assemble sources into a program image
  %s dis prog.jimg                       Disassemble a program image
  %s repl                                Run an interactive session
  %s version                             Print the version

`, jinx.Version, appName, appName, appName, appName, appName)
}

func cmdRun(elog *logio.Logger, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var (
		backend = fs.String("backend", "", "numeric backend: bounded or big")
		timeout = fs.Duration("timeout", 0, "specify a time limit")
		steps   = fs.Uint64("steps", 0, "specify a step limit")
		trace   = fs.Bool("trace", false, "enable trace logging")
		input   = fs.String("input", "", "read program input from a file")
	)
	fs.Parse(args)

	progPath := fs.Arg(0)
	outPath := ""
	if progPath == "" {
		m, err := manifest.FindAndLoad(".")
		if err != nil {
			elog.Errorf("%v", err)
			return
		}
		if m == nil {
			elog.Errorf("no program argument and no jinx.toml found")
			return
		}
		progPath = m.ProgramPath()
		if *backend == "" {
			*backend = m.Run.Backend
		}
		if *steps == 0 {
			*steps = m.Run.Steps
		}
		if *input == "" {
			*input = m.InputPath()
		}
		*trace = *trace || m.Run.Trace
		outPath = m.OutputPath()
	}

	prog, err := loadProgram(progPath)
	if err != nil {
		elog.Errorf("%v", err)
		return
	}

	num, err := numericsFor(*backend)
	if err != nil {
		elog.Errorf("%v", err)
		return
	}

	opts := []jinx.Option{
		jinx.WithNumerics(num),
		jinx.WithInput(os.Stdin),
		jinx.WithOutput(os.Stdout),
	}
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			elog.Errorf("%v", err)
			return
		}
		opts = append(opts, jinx.WithInput(f))
	}
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			elog.Errorf("%v", err)
			return
		}
		opts = append(opts, jinx.WithOutput(f), jinx.WithCloser(f))
	}
	if *steps != 0 {
		opts = append(opts, jinx.WithStepLimit(*steps))
	}
	if *trace {
		opts = append(opts, jinx.WithLogf(log.Printf))
	}

	ctx := context.Background()
	if *timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	vm := jinx.New(opts...)
	res, err := vm.Run(ctx, prog)
	elog.ErrorIf(vm.Close())
	if err != nil {
		elog.Errorf("%+v", err)
		return
	}
	if *trace || res.Curses > 0 {
		elog.Printf(appName, "%v", res)
	}
}

func cmdBuild(elog *logio.Logger, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "image file to write (required)")
	fs.Parse(args)

	if *output == "" || fs.NArg() == 0 {
		elog.Errorf("usage: %s build -o prog.jimg src.jnx...", appName)
		return
	}

	var sources []io.Reader
	for _, name := range fs.Args() {
		f, err := os.Open(name)
		if err != nil {
			elog.Errorf("%v", err)
			return
		}
		defer f.Close()
		sources = append(sources, f)
	}

	name := strings.TrimSuffix(filepath.Base(*output), filepath.Ext(*output))
	prog, err := jinx.Assemble(name, sources...)
	if err != nil {
		elog.Errorf("%v", err)
		return
	}

	f, err := os.Create(*output)
	if err != nil {
		elog.Errorf("%v", err)
		return
	}
	if err := jinx.WriteImage(f, prog); err != nil {
		f.Close()
		elog.Errorf("%v", err)
		return
	}
	elog.ErrorIf(f.Close())
}

func cmdDis(elog *logio.Logger, args []string) {
	fs := flag.NewFlagSet("dis", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		elog.Errorf("usage: %s dis prog.jimg", appName)
		return
	}

	prog, err := loadProgram(fs.Arg(0))
	if err != nil {
		elog.Errorf("%v", err)
		return
	}
	elog.ErrorIf(jinx.Disassemble(os.Stdout, prog))
}

// loadProgram reads a program from disk: .jimg files deserialize, anything
// else assembles as text.
func loadProgram(path string) (*jinx.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if filepath.Ext(path) == ".jimg" {
		return jinx.ReadImage(f)
	}
	return jinx.Assemble(name, f)
}

func numericsFor(name string) (jinx.Numerics, error) {
	switch name {
	case "", "bounded":
		return jinx.Bounded(), nil
	case "big":
		return jinx.Big(), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want bounded or big)", name)
}
