/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package source

import (
	"context"
	"fmt"
	"time"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/llm-d/bert-design-space/internal/config"
	"github.com/llm-d/bert-design-space/internal/designspace"
	"github.com/llm-d/bert-design-space/internal/logging"
	"github.com/llm-d/bert-design-space/internal/metrics"
)

// Source is the interface for pluggable design space sources.
// Implementations include FileSource, BuiltinSource, ConfigMapSource and
// DesignSpaceSource.
type Source interface {
	// Name returns the unique name of this source (e.g., "builtin:full",
	// "configmap:default/bert-space").
	Name() string

	// Load reads and validates the document. A malformed document yields an
	// error matching designspace.ErrInvalidSchema; any other error means the
	// document could not be read.
	Load(ctx context.Context) (*designspace.Catalog, error)
}

// NewSource builds the source selected by cfg. c is only used by the
// Kubernetes kinds and may be nil otherwise.
func NewSource(cfg config.SourceConfig, c client.Client) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case config.SourceFile:
		return &FileSource{Path: cfg.Path}, nil
	case config.SourceBuiltin:
		return &BuiltinSource{BuiltinName: cfg.Name}, nil
	case config.SourceConfigMap:
		if c == nil {
			return nil, errNoClient
		}
		return &ConfigMapSource{Client: c, Namespace: cfg.Namespace, ConfigMapName: cfg.Name, Key: cfg.Key}, nil
	case config.SourceDesignSpace:
		if c == nil {
			return nil, errNoClient
		}
		return &DesignSpaceSource{Client: c, Namespace: cfg.Namespace, ResourceName: cfg.Name, UpdateStatus: true}, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownSourceKind, cfg.Kind)
	}
}

// Loader loads sources, logging and recording every attempt.
type Loader struct {
	// Recorder receives one observation per load. May be nil.
	Recorder *metrics.Recorder
}

// Load loads a single source.
func (l *Loader) Load(ctx context.Context, s Source) (*designspace.Catalog, error) {
	logger := ctrl.LoggerFrom(ctx).WithValues("source", s.Name())
	start := time.Now()

	catalog, err := s.Load(ctx)
	l.Recorder.ObserveLoad(s.Name(), catalog, err)
	if err != nil {
		logger.Error(err, "Failed to load design space")
		return nil, err
	}

	if debug := logger.V(logging.DEBUG); debug.Enabled() {
		debug.Info("Loaded design space",
			append([]any{"cardinality", catalog.CardinalityString(), "duration", time.Since(start)},
				catalog.Summary().KeysAndValues()...)...)
	}
	return catalog, nil
}

// LoadAll loads every source and returns the catalogs keyed by source name.
// The first failure aborts; no partial result is returned.
func (l *Loader) LoadAll(ctx context.Context, sources ...Source) (map[string]*designspace.Catalog, error) {
	if len(sources) == 0 {
		return nil, errNoSources
	}
	catalogs := make(map[string]*designspace.Catalog, len(sources))
	for _, s := range sources {
		if _, ok := catalogs[s.Name()]; ok {
			return nil, fmt.Errorf("%w %q", errDuplicateName, s.Name())
		}
		catalog, err := l.Load(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("loading design space from %s: %w", s.Name(), err)
		}
		catalogs[s.Name()] = catalog
	}
	return catalogs, nil
}

// LoadAll loads every source, recording on the default metrics recorder.
func LoadAll(ctx context.Context, sources ...Source) (map[string]*designspace.Catalog, error) {
	l := &Loader{Recorder: metrics.Default()}
	return l.LoadAll(ctx, sources...)
}
