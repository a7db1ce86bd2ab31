package designspace

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// OperationType is the category of computation an encoder layer performs.
type OperationType string

const (
	// OperationSelfAttention is multi-head self-attention.
	OperationSelfAttention OperationType = "sa"
	// OperationLinear is a linear transform (Fourier or cosine) replacing attention.
	OperationLinear OperationType = "l"
	// OperationConvolution is a span-based dynamic convolution.
	OperationConvolution OperationType = "c"
)

// KnownOperationTypes lists the operation types in canonical document order.
var KnownOperationTypes = []OperationType{
	OperationSelfAttention,
	OperationLinear,
	OperationConvolution,
}

// Sub-parameter vocabularies for the string-valued operation types.
const (
	// AttentionScaledDotProduct is scaled dot-product similarity.
	AttentionScaledDotProduct = "sdp"
	// AttentionWeightedMultiplicative is weighted multiplicative similarity.
	AttentionWeightedMultiplicative = "wma"

	// TransformFourier is the discrete Fourier transform.
	TransformFourier = "dft"
	// TransformCosine is the discrete cosine transform.
	TransformCosine = "dct"
)

var (
	attentionVocabulary = sets.New(AttentionScaledDotProduct, AttentionWeightedMultiplicative)
	transformVocabulary = sets.New(TransformFourier, TransformCosine)
	knownOperationSet   = sets.New(KnownOperationTypes...)
)

// Document keys. These are the exact keys of the on-disk schema.
const (
	keyDatasets            = "datasets"
	keyArchitecture        = "architecture"
	keyHiddenSize          = "hidden_size"
	keyNumHeads            = "num_heads"
	keyEncoderLayers       = "encoder_layers"
	keyOperationTypes      = "operation_types"
	keyFeedForwardStacks   = "number_of_feed-forward_stacks"
	keyFeedForwardHidden   = "feed-forward_hidden"
	keyOperationParameters = "operation_parameters"
)

// Document is the wire form of a design space.
type Document struct {
	// Datasets names the downstream evaluation tasks. Order carries no meaning.
	Datasets []string `yaml:"datasets" json:"datasets"`

	// Architecture bounds the legal hyperparameter values.
	Architecture ArchitectureDocument `yaml:"architecture" json:"architecture"`
}

// ArchitectureDocument maps each architectural hyperparameter to its legal values.
type ArchitectureDocument struct {
	HiddenSize     []int           `yaml:"hidden_size" json:"hidden_size"`
	NumHeads       []int           `yaml:"num_heads" json:"num_heads"`
	EncoderLayers  []int           `yaml:"encoder_layers" json:"encoder_layers"`
	OperationTypes []OperationType `yaml:"operation_types" json:"operation_types"`

	// FeedForwardStacks is how many feed-forward sub-blocks follow each operation.
	FeedForwardStacks []int `yaml:"number_of_feed-forward_stacks" json:"number_of_feed-forward_stacks"`

	// FeedForwardHidden is the hidden width of each feed-forward stack.
	FeedForwardHidden []int `yaml:"feed-forward_hidden" json:"feed-forward_hidden"`

	OperationParameters OperationParameters `yaml:"operation_parameters" json:"operation_parameters"`
}

// OperationParameters holds the sub-parameter choices of each operation type.
type OperationParameters struct {
	// SelfAttention is the similarity kernel of self-attention layers (sdp, wma).
	SelfAttention []string `yaml:"sa,omitempty" json:"sa,omitempty"`

	// Linear is the transform kind of linear layers (dft, dct).
	Linear []string `yaml:"l,omitempty" json:"l,omitempty"`

	// Convolution is the kernel size of convolution layers.
	Convolution []int `yaml:"c,omitempty" json:"c,omitempty"`
}

// isEmpty reports whether no operation type has parameters.
func (p OperationParameters) isEmpty() bool {
	return len(p.SelfAttention) == 0 && len(p.Linear) == 0 && len(p.Convolution) == 0
}
