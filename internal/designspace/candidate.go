package designspace

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"
)

// Candidate is one fully specified architecture. The number of layers is
// the encoder depth.
type Candidate struct {
	Layers []LayerSpec `json:"layers"`
}

// LayerSpec is the configuration of a single encoder layer.
type LayerSpec struct {
	HiddenSize int           `json:"hidden_size"`
	NumHeads   int           `json:"num_heads"`
	Operation  OperationType `json:"operation_type"`

	// Parameter is the operation's sub-parameter: a kernel name for sa and l,
	// an integer kernel size for c.
	Parameter intstr.IntOrString `json:"operation_parameter"`

	// FeedForward lists the hidden width of each feed-forward stack; its
	// length is the stack count.
	FeedForward []int `json:"feed-forward_hidden"`
}

// ParseCandidate decodes a candidate from YAML or JSON. Unknown fields are rejected.
func ParseCandidate(data []byte) (*Candidate, error) {
	var c Candidate
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("decoding candidate: %w", err)
	}
	return &c, nil
}

// ValidateCandidate checks that every choice of cand is permitted by the
// catalog and that each layer's hidden size splits evenly across its heads.
func (c *Catalog) ValidateCandidate(cand *Candidate) error {
	path := field.NewPath("layers")
	var errs field.ErrorList
	if cand == nil || len(cand.Layers) == 0 {
		errs = append(errs, field.Required(path, "at least one layer is required"))
		return &CandidateError{Catalog: c.name, Errs: errs}
	}

	if !c.encoderLayers.Has(len(cand.Layers)) {
		errs = append(errs, field.Invalid(path, len(cand.Layers),
			fmt.Sprintf("encoder depth must be one of %v", c.EncoderLayers())))
	}
	for i := range cand.Layers {
		errs = append(errs, c.validateLayer(&cand.Layers[i], path.Index(i))...)
	}

	if len(errs) > 0 {
		return &CandidateError{Catalog: c.name, Errs: errs}
	}
	return nil
}

func (c *Catalog) validateLayer(layer *LayerSpec, path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validateMember(layer.HiddenSize, c.hiddenSizes, path.Child(keyHiddenSize))...)
	errs = append(errs, validateMember(layer.NumHeads, c.numHeads, path.Child(keyNumHeads))...)
	if layer.NumHeads > 0 && layer.HiddenSize%layer.NumHeads != 0 {
		errs = append(errs, field.Invalid(path.Child(keyNumHeads), layer.NumHeads,
			fmt.Sprintf("hidden_size %d is not a multiple of num_heads", layer.HiddenSize)))
	}

	opPath := path.Child("operation_type")
	if !c.operationTypes.Has(layer.Operation) {
		errs = append(errs, field.NotSupported(opPath, string(layer.Operation), operationNames(c.OperationTypes())))
	} else {
		errs = append(errs, c.validateParameter(layer.Operation, layer.Parameter, path.Child("operation_parameter"))...)
	}

	ffPath := path.Child(keyFeedForwardHidden)
	if !c.feedForwardStacks.Has(len(layer.FeedForward)) {
		errs = append(errs, field.Invalid(ffPath, len(layer.FeedForward),
			fmt.Sprintf("number of feed-forward stacks must be one of %v", c.FeedForwardStacks())))
	}
	for j, width := range layer.FeedForward {
		errs = append(errs, validateMember(width, c.feedForwardHidden, ffPath.Index(j))...)
	}
	return errs
}

func (c *Catalog) validateParameter(op OperationType, param intstr.IntOrString, path *field.Path) field.ErrorList {
	switch op {
	case OperationSelfAttention, OperationLinear:
		allowed := c.attentionKernels
		if op == OperationLinear {
			allowed = c.transformKernels
		}
		if param.Type != intstr.String {
			return field.ErrorList{field.Invalid(path, param.String(),
				fmt.Sprintf("must be one of %v", sets.List(allowed)))}
		}
		if !allowed.Has(param.StrVal) {
			return field.ErrorList{field.NotSupported(path, param.StrVal, sets.List(allowed))}
		}
	case OperationConvolution:
		if param.Type != intstr.Int {
			return field.ErrorList{field.Invalid(path, param.String(), "convolution kernel size must be an integer")}
		}
		return validateMember(param.IntValue(), c.convolutionKernels, path)
	}
	return nil
}

func validateMember(v int, allowed sets.Set[int], path *field.Path) field.ErrorList {
	if allowed.Has(v) {
		return nil
	}
	valid := sets.List(allowed)
	names := make([]string, len(valid))
	for i, a := range valid {
		names[i] = fmt.Sprint(a)
	}
	return field.ErrorList{field.NotSupported(path, v, names)}
}

func operationNames(ops []OperationType) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

// ModelConfig is the per-layer list form consumed by the modular BERT model.
type ModelConfig struct {
	NumHiddenLayers    int                  `json:"num_hidden_layers"`
	HiddenDimList      []int                `json:"hidden_dim_list"`
	AttentionHeadsList []int                `json:"attention_heads_list"`
	AttentionType      []OperationType      `json:"attention_type"`
	SimilarityList     []intstr.IntOrString `json:"similarity_list"`
	FFDimList          [][]int              `json:"ff_dim_list"`
}

// ModelConfig flattens the candidate into per-layer lists.
func (c *Candidate) ModelConfig() *ModelConfig {
	n := len(c.Layers)
	mc := &ModelConfig{
		NumHiddenLayers:    n,
		HiddenDimList:      make([]int, n),
		AttentionHeadsList: make([]int, n),
		AttentionType:      make([]OperationType, n),
		SimilarityList:     make([]intstr.IntOrString, n),
		FFDimList:          make([][]int, n),
	}
	for i, layer := range c.Layers {
		mc.HiddenDimList[i] = layer.HiddenSize
		mc.AttentionHeadsList[i] = layer.NumHeads
		mc.AttentionType[i] = layer.Operation
		mc.SimilarityList[i] = layer.Parameter
		mc.FFDimList[i] = append([]int(nil), layer.FeedForward...)
	}
	return mc
}

// ProjectionLayers returns the indices of layers whose output must be
// projected because the next layer has a different hidden size.
func (m *ModelConfig) ProjectionLayers() []int {
	var layers []int
	for i := 0; i+1 < len(m.HiddenDimList); i++ {
		if m.HiddenDimList[i] != m.HiddenDimList[i+1] {
			layers = append(layers, i)
		}
	}
	return layers
}
