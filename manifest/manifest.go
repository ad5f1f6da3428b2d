// Package manifest handles jinx.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jcorbin/gojinx"
)

// Manifest represents a jinx.toml project file: which program to run and
// how to run it.
type Manifest struct {
	Project Project `toml:"project"`
	Run     Run     `toml:"run"`

	// Dir is the directory containing the jinx.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Run configures program execution.
type Run struct {
	Program string `toml:"program"`
	Backend string `toml:"backend"`
	Trace   bool   `toml:"trace"`
	Steps   uint64 `toml:"steps"`
	Input   string `toml:"input"`
	Output  string `toml:"output"`
}

// Load parses a jinx.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "jinx.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if m.Run.Backend == "" {
		m.Run.Backend = "bounded"
	}

	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a jinx.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "jinx.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) validate(path string) error {
	if m.Run.Program == "" {
		return fmt.Errorf("%s: run.program is required", path)
	}
	if _, err := m.Numerics(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Numerics resolves the configured backend name.
func (m *Manifest) Numerics() (jinx.Numerics, error) {
	switch m.Run.Backend {
	case "bounded":
		return jinx.Bounded(), nil
	case "big":
		return jinx.Big(), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want bounded or big)", m.Run.Backend)
}

// ProgramPath returns the absolute path of the configured program.
func (m *Manifest) ProgramPath() string {
	return m.join(m.Run.Program)
}

// InputPath returns the absolute path of the configured input redirection,
// empty when none is configured.
func (m *Manifest) InputPath() string { return m.join(m.Run.Input) }

// OutputPath returns the absolute path of the configured output
// redirection, empty when none is configured.
func (m *Manifest) OutputPath() string { return m.join(m.Run.Output) }

func (m *Manifest) join(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
