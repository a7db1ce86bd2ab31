package designspace

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Names of the embedded design spaces.
const (
	// BuiltinFull is the design space between BERT-Tiny and BERT-Small.
	BuiltinFull = "full"
	// BuiltinTesting is the reduced design space used for testing.
	BuiltinTesting = "testing"
)

const builtinDir = "spaces"

//go:embed spaces/*.yaml
var builtinFS embed.FS

// BuiltinNames lists the embedded design spaces in sorted order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, builtinDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// BuiltinDocument returns the raw YAML of an embedded design space.
func BuiltinDocument(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile(path.Join(builtinDir, name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownBuiltin, name, strings.Join(BuiltinNames(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("reading built-in design space %q: %w", name, err)
	}
	return data, nil
}

// Builtin parses an embedded design space.
func Builtin(name string) (*Catalog, error) {
	data, err := BuiltinDocument(name)
	if err != nil {
		return nil, err
	}
	return Parse("builtin:"+name, data)
}
