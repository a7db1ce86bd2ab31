/*
Copyright 2025 The llm-d Authors.

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

// Package metrics records design space loads as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/llm-d/bert-design-space/internal/designspace"
)

const namespace = "designspace"

// Load results.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Label names.
const (
	LabelSource = "source"
	LabelResult = "result"
	LabelField  = "field"
)

// Recorder holds the design space collectors.
type Recorder struct {
	loads       *prometheus.CounterVec
	violations  *prometheus.CounterVec
	cardinality *prometheus.GaugeVec
	values      *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Design space loads by source and result.",
		}, []string{LabelSource, LabelResult}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_violations_total",
			Help:      "Schema violations found in rejected design space documents.",
		}, []string{LabelSource}),
		cardinality: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_cardinality",
			Help:      "Approximate number of candidate architectures the loaded design space admits.",
		}, []string{LabelSource}),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_values",
			Help:      "Number of permitted values per design space field.",
		}, []string{LabelSource, LabelField}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.loads, r.violations, r.cardinality, r.values} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering design space metrics: %w", err)
		}
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns the recorder registered on the controller-runtime metrics registry.
func Default() *Recorder {
	defaultOnce.Do(func() {
		r, err := NewRecorder(ctrlmetrics.Registry)
		if err != nil {
			// Already registered elsewhere; keep recording on unregistered collectors.
			r, _ = NewRecorder(nil)
		}
		defaultRecorder = r
	})
	return defaultRecorder
}

// ObserveLoad records the outcome of loading source. cat is ignored unless err is nil.
func (r *Recorder) ObserveLoad(source string, cat *designspace.Catalog, err error) {
	if r == nil {
		return
	}
	switch {
	case err == nil && cat != nil:
		r.loads.WithLabelValues(source, ResultSuccess).Inc()
		r.cardinality.WithLabelValues(source).Set(cat.ApproxCardinality())
		for field, n := range cat.Summary().Fields() {
			r.values.WithLabelValues(source, field).Set(float64(n))
		}
	case errors.Is(err, designspace.ErrInvalidSchema):
		r.loads.WithLabelValues(source, ResultInvalid).Inc()
		var schemaErr *designspace.SchemaError
		n := 1
		if errors.As(err, &schemaErr) && len(schemaErr.Errs) > 0 {
			n = len(schemaErr.Errs)
		}
		r.violations.WithLabelValues(source).Add(float64(n))
		r.forget(source)
	default:
		r.loads.WithLabelValues(source, ResultError).Inc()
		r.forget(source)
	}
}

// forget drops the gauges of source so a failed reload does not report a stale catalog.
func (r *Recorder) forget(source string) {
	r.cardinality.DeleteLabelValues(source)
	r.values.DeletePartialMatch(prometheus.Labels{LabelSource: source})
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
