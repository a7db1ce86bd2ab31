package designspace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/bert-design-space/internal/logging"
)

var errMultipleDocuments = errors.New("expected a single YAML document")

// Parse decodes and validates a design space document. name identifies the
// document in errors and logs. Any violation rejects the whole document:
// either a complete Catalog or a *SchemaError is returned, never both.
func Parse(name string, data []byte) (*Catalog, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, &SchemaError{Source: name, Cause: err}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errMultipleDocuments
		}
		return nil, &SchemaError{Source: name, Cause: err}
	}

	doc, errs, err := decodeDocument(&root)
	if err != nil {
		return nil, &SchemaError{Source: name, Cause: err}
	}
	if len(errs) > 0 {
		return nil, &SchemaError{Source: name, Errs: errs}
	}

	catalog, err := NewCatalog(name, doc)
	if err != nil {
		return nil, err
	}

	ctrl.Log.V(logging.DEBUG).Info("Parsed design space",
		append([]any{"name", name}, catalog.Summary().KeysAndValues()...)...)
	return catalog, nil
}

// Load reads and parses the design space document at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design space %s: %w", path, err)
	}
	return Parse(path, data)
}
