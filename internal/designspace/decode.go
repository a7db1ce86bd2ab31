package designspace

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const (
	tagNull = "!!null"
	tagInt  = "!!int"
	tagStr  = "!!str"
)

// decodeDocument converts a YAML tree into a Document. It checks structure
// only: required and unknown keys, and the kind of every value. Semantic rules
// live in Validate.
func decodeDocument(root *yaml.Node) (*Document, field.ErrorList, error) {
	node := documentContent(root)
	if node == nil {
		return nil, field.ErrorList{
			field.Required(field.NewPath(keyDatasets), ""),
			field.Required(field.NewPath(keyArchitecture), ""),
		}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, errNotMapping
	}

	entries, errs := mappingEntries(node, nil)
	errs = append(errs, unknownKeys(entries, nil, keyDatasets, keyArchitecture)...)

	doc := &Document{}
	datasets, fieldErrs := decodeStringSequence(entries[keyDatasets], field.NewPath(keyDatasets))
	doc.Datasets = datasets
	errs = append(errs, fieldErrs...)

	arch, fieldErrs := decodeArchitecture(entries[keyArchitecture], field.NewPath(keyArchitecture))
	doc.Architecture = arch
	errs = append(errs, fieldErrs...)

	return doc, errs, nil
}

func decodeArchitecture(node *yaml.Node, path *field.Path) (ArchitectureDocument, field.ErrorList) {
	var arch ArchitectureDocument
	if node == nil || isNull(node) {
		return arch, field.ErrorList{field.Required(path, "")}
	}
	if node.Kind != yaml.MappingNode {
		return arch, field.ErrorList{field.Invalid(path, describe(node), "must be a mapping")}
	}

	entries, errs := mappingEntries(node, path)
	errs = append(errs, unknownKeys(entries, path,
		keyHiddenSize, keyNumHeads, keyEncoderLayers, keyOperationTypes,
		keyFeedForwardStacks, keyFeedForwardHidden, keyOperationParameters)...)

	ints := []struct {
		key string
		dst *[]int
	}{
		{keyHiddenSize, &arch.HiddenSize},
		{keyNumHeads, &arch.NumHeads},
		{keyEncoderLayers, &arch.EncoderLayers},
		{keyFeedForwardStacks, &arch.FeedForwardStacks},
		{keyFeedForwardHidden, &arch.FeedForwardHidden},
	}
	for _, f := range ints {
		values, fieldErrs := decodeIntSequence(entries[f.key], path.Child(f.key))
		*f.dst = values
		errs = append(errs, fieldErrs...)
	}

	names, fieldErrs := decodeStringSequence(entries[keyOperationTypes], path.Child(keyOperationTypes))
	errs = append(errs, fieldErrs...)
	declared := sets.New[OperationType]()
	for _, name := range names {
		arch.OperationTypes = append(arch.OperationTypes, OperationType(name))
		declared.Insert(OperationType(name))
	}
	// Validate does not run after a structural error, so an unknown
	// operation type reused as a parameter key is reported here.
	if len(fieldErrs) == 0 {
		errs = append(errs, validateOperationTypes(arch.OperationTypes, path.Child(keyOperationTypes))...)
	}

	params, fieldErrs := decodeOperationParameters(entries[keyOperationParameters], path.Child(keyOperationParameters), declared)
	arch.OperationParameters = params
	errs = append(errs, fieldErrs...)

	return arch, errs
}

func decodeOperationParameters(node *yaml.Node, path *field.Path, declared sets.Set[OperationType]) (OperationParameters, field.ErrorList) {
	var params OperationParameters
	if node == nil || isNull(node) {
		return params, field.ErrorList{field.Required(path, "")}
	}
	if node.Kind != yaml.MappingNode {
		return params, field.ErrorList{field.Invalid(path, describe(node), "must be a mapping")}
	}
	if len(node.Content) == 0 {
		return params, field.ErrorList{field.Required(path, "must define parameters for at least one operation type")}
	}

	entries, errs := mappingEntries(node, path)
	for _, key := range sortedKeys(entries) {
		value, p := entries[key], path.Child(key)
		var fieldErrs field.ErrorList
		switch OperationType(key) {
		case OperationSelfAttention:
			params.SelfAttention, fieldErrs = decodeStringSequence(value, p)
		case OperationLinear:
			params.Linear, fieldErrs = decodeStringSequence(value, p)
		case OperationConvolution:
			params.Convolution, fieldErrs = decodeIntSequence(value, p)
		default:
			if !declared.Has(OperationType(key)) {
				fieldErrs = field.ErrorList{field.Invalid(p, key, "operation type is not listed in operation_types")}
			} else {
				fieldErrs = field.ErrorList{field.NotSupported(p, key, knownOperationNames())}
			}
		}
		errs = append(errs, fieldErrs...)
	}
	return params, errs
}

func decodeIntSequence(node *yaml.Node, path *field.Path) ([]int, field.ErrorList) {
	items, errs := sequenceItems(node, path, "integers")
	if len(errs) > 0 {
		return nil, errs
	}
	values := make([]int, 0, len(items))
	for i, item := range items {
		if item.Kind != yaml.ScalarNode || item.ShortTag() != tagInt {
			errs = append(errs, field.Invalid(path.Index(i), describe(item), "must be an integer"))
			continue
		}
		var v int
		if err := item.Decode(&v); err != nil {
			errs = append(errs, field.Invalid(path.Index(i), item.Value, err.Error()))
			continue
		}
		values = append(values, v)
	}
	return values, errs
}

func decodeStringSequence(node *yaml.Node, path *field.Path) ([]string, field.ErrorList) {
	items, errs := sequenceItems(node, path, "strings")
	if len(errs) > 0 {
		return nil, errs
	}
	values := make([]string, 0, len(items))
	for i, item := range items {
		if item.Kind != yaml.ScalarNode || item.ShortTag() != tagStr {
			errs = append(errs, field.Invalid(path.Index(i), describe(item), "must be a string"))
			continue
		}
		values = append(values, item.Value)
	}
	return values, errs
}

// sequenceItems returns the resolved items of a non-empty sequence node.
func sequenceItems(node *yaml.Node, path *field.Path, what string) ([]*yaml.Node, field.ErrorList) {
	if node == nil || isNull(node) {
		return nil, field.ErrorList{field.Required(path, "")}
	}
	if node.Kind != yaml.SequenceNode {
		return nil, field.ErrorList{field.Invalid(path, describe(node), "must be a sequence of "+what)}
	}
	if len(node.Content) == 0 {
		return nil, field.ErrorList{field.Required(path, "must contain at least one value")}
	}
	items := make([]*yaml.Node, len(node.Content))
	for i, item := range node.Content {
		items[i] = resolve(item)
	}
	return items, nil
}

// mappingEntries indexes a mapping node by key. Duplicate and non-scalar keys
// are reported; null values are dropped so they read as missing.
func mappingEntries(node *yaml.Node, path *field.Path) (map[string]*yaml.Node, field.ErrorList) {
	var errs field.ErrorList
	entries := make(map[string]*yaml.Node, len(node.Content)/2)
	seen := sets.New[string]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := resolve(node.Content[i]), resolve(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			name := fmt.Sprintf("<%s key at line %d>", kindName(key), key.Line)
			errs = append(errs, field.Invalid(childPath(path, name), describe(key), "mapping keys must be strings"))
			continue
		}
		if seen.Has(key.Value) {
			errs = append(errs, field.Duplicate(childPath(path, key.Value), key.Value))
			continue
		}
		seen.Insert(key.Value)
		if isNull(value) {
			continue
		}
		entries[key.Value] = value
	}
	return entries, errs
}

func unknownKeys(entries map[string]*yaml.Node, path *field.Path, allowed ...string) field.ErrorList {
	known := sets.New(allowed...)
	var errs field.ErrorList
	for _, key := range sortedKeys(entries) {
		if !known.Has(key) {
			errs = append(errs, field.NotSupported(childPath(path, key), key, allowed))
		}
	}
	return errs
}

func documentContent(root *yaml.Node) *yaml.Node {
	if root == nil || root.Kind == 0 {
		return nil
	}
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	node = resolve(node)
	if isNull(node) {
		return nil
	}
	return node
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() == tagNull
}

func describe(node *yaml.Node) string {
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	return kindName(node)
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "node"
	}
}

func childPath(parent *field.Path, name string) *field.Path {
	if parent == nil {
		return field.NewPath(name)
	}
	return parent.Child(name)
}

func sortedKeys(entries map[string]*yaml.Node) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func knownOperationNames() []string {
	return operationNames(KnownOperationTypes)
}
