package designspace

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Validate checks the semantic rules of a design space document and returns
// every violation found. An empty list means the document is valid.
func Validate(doc *Document) field.ErrorList {
	if doc == nil {
		return field.ErrorList{
			field.Required(field.NewPath(keyDatasets), ""),
			field.Required(field.NewPath(keyArchitecture), ""),
		}
	}
	errs := validateDatasets(doc.Datasets, field.NewPath(keyDatasets))
	errs = append(errs, validateArchitecture(&doc.Architecture, field.NewPath(keyArchitecture))...)
	return errs
}

func validateDatasets(datasets []string, path *field.Path) field.ErrorList {
	if len(datasets) == 0 {
		return field.ErrorList{field.Required(path, "at least one dataset is required")}
	}
	var errs field.ErrorList
	seen := sets.New[string]()
	for i, name := range datasets {
		p := path.Index(i)
		if strings.TrimSpace(name) == "" {
			errs = append(errs, field.Invalid(p, name, "dataset name must be non-empty"))
			continue
		}
		if seen.Has(name) {
			errs = append(errs, field.Duplicate(p, name))
			continue
		}
		seen.Insert(name)
	}
	return errs
}

func validateArchitecture(arch *ArchitectureDocument, path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, validatePositiveInts(arch.HiddenSize, path.Child(keyHiddenSize))...)
	errs = append(errs, validatePositiveInts(arch.NumHeads, path.Child(keyNumHeads))...)
	errs = append(errs, validatePositiveInts(arch.EncoderLayers, path.Child(keyEncoderLayers))...)
	errs = append(errs, validatePositiveInts(arch.FeedForwardStacks, path.Child(keyFeedForwardStacks))...)
	errs = append(errs, validatePositiveInts(arch.FeedForwardHidden, path.Child(keyFeedForwardHidden))...)
	errs = append(errs, validateOperationTypes(arch.OperationTypes, path.Child(keyOperationTypes))...)
	errs = append(errs, validateOperationParameters(arch.OperationParameters, sets.New(arch.OperationTypes...),
		path.Child(keyOperationParameters))...)
	return errs
}

func validatePositiveInts(values []int, path *field.Path) field.ErrorList {
	if len(values) == 0 {
		return field.ErrorList{field.Required(path, "must contain at least one value")}
	}
	var errs field.ErrorList
	seen := sets.New[int]()
	for i, v := range values {
		p := path.Index(i)
		if v <= 0 {
			errs = append(errs, field.Invalid(p, v, "must be a positive integer"))
			continue
		}
		if seen.Has(v) {
			errs = append(errs, field.Duplicate(p, v))
			continue
		}
		seen.Insert(v)
	}
	return errs
}

func validateOperationTypes(types []OperationType, path *field.Path) field.ErrorList {
	if len(types) == 0 {
		return field.ErrorList{field.Required(path, "must contain at least one value")}
	}
	var errs field.ErrorList
	seen := sets.New[OperationType]()
	for i, op := range types {
		p := path.Index(i)
		if !knownOperationSet.Has(op) {
			errs = append(errs, field.NotSupported(p, string(op), knownOperationNames()))
			continue
		}
		if seen.Has(op) {
			errs = append(errs, field.Duplicate(p, string(op)))
			continue
		}
		seen.Insert(op)
	}
	return errs
}

func validateOperationParameters(params OperationParameters, declared sets.Set[OperationType], path *field.Path) field.ErrorList {
	if params.isEmpty() {
		return field.ErrorList{field.Required(path, "must define parameters for at least one operation type")}
	}
	var errs field.ErrorList
	if len(params.SelfAttention) > 0 {
		errs = append(errs, requireDeclared(declared, OperationSelfAttention, path)...)
		errs = append(errs, validateVocabulary(params.SelfAttention, attentionVocabulary,
			path.Child(string(OperationSelfAttention)))...)
	}
	if len(params.Linear) > 0 {
		errs = append(errs, requireDeclared(declared, OperationLinear, path)...)
		errs = append(errs, validateVocabulary(params.Linear, transformVocabulary,
			path.Child(string(OperationLinear)))...)
	}
	if len(params.Convolution) > 0 {
		errs = append(errs, requireDeclared(declared, OperationConvolution, path)...)
		errs = append(errs, validatePositiveInts(params.Convolution, path.Child(string(OperationConvolution)))...)
	}
	return errs
}

// requireDeclared enforces that an operation_parameters key is also an operation type.
func requireDeclared(declared sets.Set[OperationType], op OperationType, path *field.Path) field.ErrorList {
	if declared.Has(op) {
		return nil
	}
	return field.ErrorList{field.Invalid(path.Child(string(op)), string(op),
		"operation type is not listed in operation_types")}
}

func validateVocabulary(values []string, vocabulary sets.Set[string], path *field.Path) field.ErrorList {
	var errs field.ErrorList
	seen := sets.New[string]()
	for i, v := range values {
		p := path.Index(i)
		if !vocabulary.Has(v) {
			errs = append(errs, field.NotSupported(p, v, sets.List(vocabulary)))
			continue
		}
		if seen.Has(v) {
			errs = append(errs, field.Duplicate(p, v))
			continue
		}
		seen.Insert(v)
	}
	return errs
}
