// Package source reads design space documents from the places a catalog can
// live: a file, the embedded built-ins, a ConfigMap or a DesignSpace resource.
package source

import "errors"

var (
	errNoClient      = errors.New("a Kubernetes client is required for this source kind")
	errNoDocumentKey = errors.New("no ConfigMap key holds a design space document")
	errKeyNotFound   = errors.New("ConfigMap key not found")
	errDuplicateName = errors.New("duplicate source name")
	errNoSources     = errors.New("no sources given")
)

// Name prefixes of the non-file sources.
const (
	prefixBuiltin     = "builtin:"
	prefixConfigMap   = "configmap:"
	prefixDesignSpace = "designspace:"
)
