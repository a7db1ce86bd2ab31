package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DesignSpaceSpec is the design space document: the evaluation datasets and
// the legal values of every architectural hyperparameter. Field names match
// the on-disk YAML schema.
type DesignSpaceSpec struct {
	// Datasets names the downstream evaluation tasks.
	// +kubebuilder:validation:MinItems=1
	// +listType=set
	Datasets []string `json:"datasets"`

	// Architecture bounds the legal hyperparameter values.
	// +kubebuilder:validation:Required
	Architecture ArchitectureSpec `json:"architecture"`
}

// ArchitectureSpec maps each architectural hyperparameter to its legal values.
type ArchitectureSpec struct {
	// +kubebuilder:validation:MinItems=1
	// +listType=set
	HiddenSize []int `json:"hidden_size"`

	// +kubebuilder:validation:MinItems=1
	// +listType=set
	NumHeads []int `json:"num_heads"`

	// EncoderLayers is the set of permitted encoder depths.
	// +kubebuilder:validation:MinItems=1
	// +listType=set
	EncoderLayers []int `json:"encoder_layers"`

	// OperationTypes is the set of permitted per-layer operations.
	// +kubebuilder:validation:MinItems=1
	// +kubebuilder:validation:items:Enum=sa;l;c
	// +listType=set
	OperationTypes []string `json:"operation_types"`

	// FeedForwardStacks is how many feed-forward sub-blocks may follow each operation.
	// +kubebuilder:validation:MinItems=1
	// +listType=set
	FeedForwardStacks []int `json:"number_of_feed-forward_stacks"`

	// FeedForwardHidden is the set of permitted feed-forward widths.
	// +kubebuilder:validation:MinItems=1
	// +listType=set
	FeedForwardHidden []int `json:"feed-forward_hidden"`

	// OperationParameters holds the sub-parameter choices of each operation type.
	// +kubebuilder:validation:MinProperties=1
	OperationParameters OperationParametersSpec `json:"operation_parameters"`
}

// OperationParametersSpec holds the sub-parameter choices of each operation type.
type OperationParametersSpec struct {
	// SelfAttention lists the similarity kernels of self-attention layers.
	// +kubebuilder:validation:items:Enum=sdp;wma
	// +optional
	SelfAttention []string `json:"sa,omitempty"`

	// Linear lists the transform kinds of linear layers.
	// +kubebuilder:validation:items:Enum=dft;dct
	// +optional
	Linear []string `json:"l,omitempty"`

	// Convolution lists the kernel sizes of convolution layers.
	// +optional
	Convolution []int `json:"c,omitempty"`
}

// DesignSpaceStatus is the outcome of validating the spec.
type DesignSpaceStatus struct {
	// ObservedGeneration is the generation the status was computed for.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Cardinality is the decimal number of candidate architectures the
	// design space admits. It is a string because it regularly exceeds int64.
	// +optional
	Cardinality string `json:"cardinality,omitempty"`

	// Conditions represent the latest available observations of the DesignSpace's state
	// +kubebuilder:validation:Optional
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=ds
// +kubebuilder:printcolumn:name="Cardinality",type=string,JSONPath=".status.cardinality"
// +kubebuilder:printcolumn:name="Validated",type=string,JSONPath=".status.conditions[?(@.type=='Validated')].status"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// DesignSpace is the Schema for the designspaces API.
type DesignSpace struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DesignSpaceSpec   `json:"spec,omitempty"`
	Status DesignSpaceStatus `json:"status,omitempty"`
}

// DesignSpaceList contains a list of DesignSpace resources.
// +kubebuilder:object:root=true
type DesignSpaceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []DesignSpace `json:"items"`
}

func init() {
	SchemeBuilder.Register(&DesignSpace{}, &DesignSpaceList{})
}

// Condition Types for DesignSpace
const (
	// TypeValidated indicates whether the spec is a valid design space
	TypeValidated = "Validated"
)

// Condition Reasons for Validated
const (
	// ReasonSchemaValid indicates every field of the spec passed validation
	ReasonSchemaValid = "SchemaValid"
	// ReasonSchemaInvalid indicates the spec violates the design space schema
	ReasonSchemaInvalid = "SchemaInvalid"
)
