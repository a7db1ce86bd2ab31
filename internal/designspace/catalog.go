package designspace

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Catalog is a validated design space. It is immutable: every accessor
// returns a freshly allocated, sorted slice, so a Catalog may be shared by
// any number of goroutines without synchronization.
type Catalog struct {
	name string

	datasets          sets.Set[string]
	hiddenSizes       sets.Set[int]
	numHeads          sets.Set[int]
	encoderLayers     sets.Set[int]
	operationTypes    sets.Set[OperationType]
	feedForwardStacks sets.Set[int]
	feedForwardHidden sets.Set[int]

	attentionKernels   sets.Set[string]
	transformKernels   sets.Set[string]
	convolutionKernels sets.Set[int]
}

// NewCatalog validates doc and builds a Catalog from it. The document is
// copied; later changes to doc do not affect the catalog.
func NewCatalog(name string, doc *Document) (*Catalog, error) {
	if errs := Validate(doc); len(errs) > 0 {
		return nil, &SchemaError{Source: name, Errs: errs}
	}
	arch := doc.Architecture
	return &Catalog{
		name:               name,
		datasets:           sets.New(doc.Datasets...),
		hiddenSizes:        sets.New(arch.HiddenSize...),
		numHeads:           sets.New(arch.NumHeads...),
		encoderLayers:      sets.New(arch.EncoderLayers...),
		operationTypes:     sets.New(arch.OperationTypes...),
		feedForwardStacks:  sets.New(arch.FeedForwardStacks...),
		feedForwardHidden:  sets.New(arch.FeedForwardHidden...),
		attentionKernels:   sets.New(arch.OperationParameters.SelfAttention...),
		transformKernels:   sets.New(arch.OperationParameters.Linear...),
		convolutionKernels: sets.New(arch.OperationParameters.Convolution...),
	}, nil
}

// Name returns the source name the catalog was loaded from.
func (c *Catalog) Name() string { return c.name }

func (c *Catalog) Datasets() []string { return sets.List(c.datasets) }
func (c *Catalog) HiddenSizes() []int { return sets.List(c.hiddenSizes) }
func (c *Catalog) NumHeads() []int { return sets.List(c.numHeads) }
func (c *Catalog) EncoderLayers() []int { return sets.List(c.encoderLayers) }
func (c *Catalog) FeedForwardStacks() []int { return sets.List(c.feedForwardStacks) }
func (c *Catalog) FeedForwardHidden() []int { return sets.List(c.feedForwardHidden) }
func (c *Catalog) AttentionKernels() []string { return sets.List(c.attentionKernels) }
func (c *Catalog) TransformKernels() []string { return sets.List(c.transformKernels) }
func (c *Catalog) ConvolutionKernels() []int { return sets.List(c.convolutionKernels) }
func (c *Catalog) HasDataset(name string) bool { return c.datasets.Has(name) }
func (c *Catalog) HasOperation(op OperationType) bool { return c.operationTypes.Has(op) }

// OperationTypes returns the selectable operation types in canonical order (sa, l, c).
func (c *Catalog) OperationTypes() []OperationType {
	ops := make([]OperationType, 0, c.operationTypes.Len())
	for _, op := range KnownOperationTypes {
		if c.operationTypes.Has(op) {
			ops = append(ops, op)
		}
	}
	return ops
}

// ParameterCount returns how many sub-parameter values op may take.
// It is zero for an operation type the catalog does not list.
func (c *Catalog) ParameterCount(op OperationType) int {
	if !c.operationTypes.Has(op) {
		return 0
	}
	switch op {
	case OperationSelfAttention:
		return c.attentionKernels.Len()
	case OperationLinear:
		return c.transformKernels.Len()
	case OperationConvolution:
		return c.convolutionKernels.Len()
	default:
		return 0
	}
}

// Document returns the canonical wire form: numbers ascending, strings
// lexically sorted, operation types in canonical order.
func (c *Catalog) Document() *Document {
	return &Document{
		Datasets: c.Datasets(),
		Architecture: ArchitectureDocument{
			HiddenSize:        c.HiddenSizes(),
			NumHeads:          c.NumHeads(),
			EncoderLayers:     c.EncoderLayers(),
			OperationTypes:    c.OperationTypes(),
			FeedForwardStacks: c.FeedForwardStacks(),
			FeedForwardHidden: c.FeedForwardHidden(),
			OperationParameters: OperationParameters{
				SelfAttention: nilIfEmpty(c.AttentionKernels()),
				Linear:        nilIfEmpty(c.TransformKernels()),
				Convolution:   nilIfEmpty(c.ConvolutionKernels()),
			},
		},
	}
}

// Marshal renders the canonical document as YAML. Parsing the output yields
// a catalog Equal to c.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Document()); err != nil {
		return nil, fmt.Errorf("encoding design space %q: %w", c.name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding design space %q: %w", c.name, err)
	}
	return buf.Bytes(), nil
}

// Equal reports whether both catalogs permit exactly the same values in
// every field. Names are not compared.
func (c *Catalog) Equal(other *Catalog) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.datasets.Equal(other.datasets) &&
		c.hiddenSizes.Equal(other.hiddenSizes) &&
		c.numHeads.Equal(other.numHeads) &&
		c.encoderLayers.Equal(other.encoderLayers) &&
		c.operationTypes.Equal(other.operationTypes) &&
		c.feedForwardStacks.Equal(other.feedForwardStacks) &&
		c.feedForwardHidden.Equal(other.feedForwardHidden) &&
		c.attentionKernels.Equal(other.attentionKernels) &&
		c.transformKernels.Equal(other.transformKernels) &&
		c.convolutionKernels.Equal(other.convolutionKernels)
}

// IsSubsetOf reports whether every value c permits is also permitted by other.
func (c *Catalog) IsSubsetOf(other *Catalog) bool {
	return other.datasets.IsSuperset(c.datasets) &&
		other.hiddenSizes.IsSuperset(c.hiddenSizes) &&
		other.numHeads.IsSuperset(c.numHeads) &&
		other.encoderLayers.IsSuperset(c.encoderLayers) &&
		other.operationTypes.IsSuperset(c.operationTypes) &&
		other.feedForwardStacks.IsSuperset(c.feedForwardStacks) &&
		other.feedForwardHidden.IsSuperset(c.feedForwardHidden) &&
		other.attentionKernels.IsSuperset(c.attentionKernels) &&
		other.transformKernels.IsSuperset(c.transformKernels) &&
		other.convolutionKernels.IsSuperset(c.convolutionKernels)
}

// IsStrictSubsetOf reports whether c is a subset of other and differs from it.
func (c *Catalog) IsStrictSubsetOf(other *Catalog) bool {
	return c.IsSubsetOf(other) && !c.Equal(other)
}

// Summary counts the values of each field.
type Summary struct {
	Datasets           int
	HiddenSizes        int
	NumHeads           int
	EncoderLayers      int
	OperationTypes     int
	FeedForwardStacks  int
	FeedForwardHidden  int
	AttentionKernels   int
	TransformKernels   int
	ConvolutionKernels int
}

func (c *Catalog) Summary() Summary {
	return Summary{
		Datasets:           c.datasets.Len(),
		HiddenSizes:        c.hiddenSizes.Len(),
		NumHeads:           c.numHeads.Len(),
		EncoderLayers:      c.encoderLayers.Len(),
		OperationTypes:     c.operationTypes.Len(),
		FeedForwardStacks:  c.feedForwardStacks.Len(),
		FeedForwardHidden:  c.feedForwardHidden.Len(),
		AttentionKernels:   c.attentionKernels.Len(),
		TransformKernels:   c.transformKernels.Len(),
		ConvolutionKernels: c.convolutionKernels.Len(),
	}
}

// Fields returns the summary keyed by document field name.
func (s Summary) Fields() map[string]int {
	params := keyOperationParameters + "."
	return map[string]int{
		keyDatasets:                             s.Datasets,
		keyHiddenSize:                           s.HiddenSizes,
		keyNumHeads:                             s.NumHeads,
		keyEncoderLayers:                        s.EncoderLayers,
		keyOperationTypes:                       s.OperationTypes,
		keyFeedForwardStacks:                    s.FeedForwardStacks,
		keyFeedForwardHidden:                    s.FeedForwardHidden,
		params + string(OperationSelfAttention): s.AttentionKernels,
		params + string(OperationLinear):        s.TransformKernels,
		params + string(OperationConvolution):   s.ConvolutionKernels,
	}
}

// KeysAndValues flattens the summary into logr key/value pairs.
func (s Summary) KeysAndValues() []any {
	return []any{
		"datasets", s.Datasets,
		"hiddenSizes", s.HiddenSizes,
		"numHeads", s.NumHeads,
		"encoderLayers", s.EncoderLayers,
		"operationTypes", s.OperationTypes,
		"feedForwardStacks", s.FeedForwardStacks,
		"feedForwardHidden", s.FeedForwardHidden,
	}
}

func nilIfEmpty[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	return values
}
