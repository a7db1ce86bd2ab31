package designspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const validDocument = `
datasets: [cola, sst2]
architecture:
  hidden_size: [128, 256]
  num_heads: [2, 4]
  encoder_layers: [2]
  operation_types: [sa, l, c]
  number_of_feed-forward_stacks: [1, 2]
  feed-forward_hidden: [512, 1024]
  operation_parameters:
    sa: [sdp, wma]
    l: [dft, dct]
    c: [5, 9]
`

// schemaErrors asserts err is a *SchemaError and returns its field errors.
func schemaErrors(err error) field.ErrorList {
	GinkgoHelper()
	Expect(err).To(HaveOccurred())
	Expect(errors.Is(err, ErrInvalidSchema)).To(BeTrue())
	var schemaErr *SchemaError
	Expect(errors.As(err, &schemaErr)).To(BeTrue())
	return schemaErr.Errs
}

// withReplaced returns document with the first occurrence of old replaced.
func withReplaced(document, old, replacement string) string {
	return strings.Replace(document, old, replacement, 1)
}

func fieldPaths(errs field.ErrorList) []string {
	paths := make([]string, len(errs))
	for i, e := range errs {
		paths[i] = e.Field
	}
	return paths
}

var _ = Describe("Builtin", func() {
	It("should embed the full and testing design spaces", func() {
		Expect(BuiltinNames()).To(Equal([]string{BuiltinFull, BuiltinTesting}))
	})

	It("should load the full design space", func() {
		catalog, err := Builtin(BuiltinFull)
		Expect(err).NotTo(HaveOccurred())

		Expect(catalog.Name()).To(Equal("builtin:full"))
		Expect(catalog.Datasets()).To(Equal([]string{"cola", "mnli", "mrpc", "qnli", "qqp", "rte", "sst2", "stsb", "wnli"}))
		Expect(catalog.HiddenSizes()).To(Equal([]int{128, 256, 512}))
		Expect(catalog.NumHeads()).To(Equal([]int{2, 4, 8}))
		Expect(catalog.EncoderLayers()).To(Equal([]int{2, 4}))
		Expect(catalog.OperationTypes()).To(Equal([]OperationType{OperationSelfAttention, OperationLinear, OperationConvolution}))
		Expect(catalog.FeedForwardStacks()).To(Equal([]int{1, 2, 3}))
		Expect(catalog.FeedForwardHidden()).To(Equal([]int{512, 1024, 2048}))
		Expect(catalog.AttentionKernels()).To(Equal([]string{"sdp", "wma"}))
		Expect(catalog.TransformKernels()).To(Equal([]string{"dct", "dft"}))
		Expect(catalog.ConvolutionKernels()).To(Equal([]int{5, 9, 13}))
	})

	It("should load the testing design space", func() {
		catalog, err := Builtin(BuiltinTesting)
		Expect(err).NotTo(HaveOccurred())

		Expect(catalog.Datasets()).To(Equal([]string{"cola", "sst2"}))
		Expect(catalog.HiddenSizes()).To(Equal([]int{128, 256}))
		Expect(catalog.EncoderLayers()).To(Equal([]int{2}))
		Expect(catalog.ConvolutionKernels()).To(Equal([]int{5, 9}))
		Expect(catalog.HasDataset("sst2")).To(BeTrue())
		Expect(catalog.HasDataset("mnli")).To(BeFalse())
	})

	It("should reject an unknown name", func() {
		_, err := Builtin("huge")
		Expect(err).To(MatchError(ErrUnknownBuiltin))
		Expect(err.Error()).To(ContainSubstring("full, testing"))
	})
})

var _ = Describe("Parse", func() {
	It("should accept a valid document", func() {
		catalog, err := Parse("inline", []byte(validDocument))
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Name()).To(Equal("inline"))
		Expect(catalog.HiddenSizes()).To(Equal([]int{128, 256}))
	})

	It("should treat field values as sets", func() {
		catalog, err := Parse("unordered", []byte(`
datasets: [sst2, cola]
architecture:
  hidden_size: [256, 128]
  num_heads: [4, 2]
  encoder_layers: [2]
  operation_types: [c, l, sa]
  number_of_feed-forward_stacks: [2, 1]
  feed-forward_hidden: [1024, 512]
  operation_parameters:
    c: [9, 5]
    l: [dct, dft]
    sa: [wma, sdp]
`))
		Expect(err).NotTo(HaveOccurred())

		reduced, err := Builtin(BuiltinTesting)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Equal(reduced)).To(BeTrue())
		Expect(catalog.OperationTypes()).To(Equal([]OperationType{OperationSelfAttention, OperationLinear, OperationConvolution}))
	})

	It("should accept an operation type without parameters", func() {
		catalog, err := Parse("no-conv-params", []byte(`
datasets: [cola]
architecture:
  hidden_size: [128]
  num_heads: [2]
  encoder_layers: [2]
  operation_types: [sa, c]
  number_of_feed-forward_stacks: [1]
  feed-forward_hidden: [512]
  operation_parameters:
    sa: [sdp]
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.HasOperation(OperationConvolution)).To(BeTrue())
		Expect(catalog.ParameterCount(OperationConvolution)).To(Equal(0))
		Expect(catalog.ParameterCount(OperationSelfAttention)).To(Equal(1))
		Expect(catalog.ParameterCount(OperationLinear)).To(Equal(0))
	})

	DescribeTable("should reject invalid documents with field paths",
		func(document string, wantPaths ...string) {
			catalog, err := Parse("invalid", []byte(document))
			Expect(catalog).To(BeNil())
			Expect(fieldPaths(schemaErrors(err))).To(ConsistOf(wantPaths))
		},
		Entry("empty document", ``,
			"datasets", "architecture"),
		Entry("missing architecture", `datasets: [cola]`,
			"architecture"),
		Entry("null datasets", withReplaced(validDocument, "datasets: [cola, sst2]", "datasets:"),
			"datasets"),
		Entry("empty datasets", withReplaced(validDocument, "datasets: [cola, sst2]", "datasets: []"),
			"datasets"),
		Entry("duplicate dataset", withReplaced(validDocument, "[cola, sst2]", "[cola, sst2, cola]"),
			"datasets[2]"),
		Entry("blank dataset name", withReplaced(validDocument, "[cola, sst2]", `[cola, " "]`),
			"datasets[1]"),
		Entry("unknown top-level key", validDocument+"notes: [draft]\n",
			"notes"),
		Entry("unknown architecture key", withReplaced(validDocument, "  encoder_layers: [2]", "  encoder_layers: [2]\n  dropout: [0]"),
			"architecture.dropout"),
		Entry("duplicate key", withReplaced(validDocument, "  encoder_layers: [2]", "  encoder_layers: [2]\n  encoder_layers: [4]"),
			"architecture.encoder_layers"),
		Entry("string in an integer field", withReplaced(validDocument, "[128, 256]", "[128, big]"),
			"architecture.hidden_size[1]"),
		Entry("float in an integer field", withReplaced(validDocument, "[128, 256]", "[128, 256.5]"),
			"architecture.hidden_size[1]"),
		Entry("scalar instead of sequence", withReplaced(validDocument, "[2, 4]", "4"),
			"architecture.num_heads"),
		Entry("non-positive value", withReplaced(validDocument, "encoder_layers: [2]", "encoder_layers: [0]"),
			"architecture.encoder_layers[0]"),
		Entry("duplicate integer", withReplaced(validDocument, "[512, 1024]", "[512, 512]"),
			"architecture.feed-forward_hidden[1]"),
		Entry("unknown operation type", withReplaced(validDocument, "[sa, l, c]", "[sa, l, c, rnn]"),
			"architecture.operation_types[3]"),
		Entry("duplicate operation type", withReplaced(validDocument, "[sa, l, c]", "[sa, l, c, l]"),
			"architecture.operation_types[3]"),
		Entry("parameter key not listed in operation types", withReplaced(validDocument, "    c: [5, 9]", "    c: [5, 9]\n    x: [1]"),
			"architecture.operation_parameters.x"),
		Entry("unknown operation type used as a parameter key",
			withReplaced(withReplaced(validDocument, "[sa, l, c]", "[sa, l, c, x]"), "    c: [5, 9]", "    c: [5, 9]\n    x: [1]"),
			"architecture.operation_types[3]", "architecture.operation_parameters.x"),
		Entry("parameters for an undeclared operation type", withReplaced(validDocument, "[sa, l, c]", "[l, c]"),
			"architecture.operation_parameters.sa"),
		Entry("empty operation parameters", withReplaced(validDocument,
			"  operation_parameters:\n    sa: [sdp, wma]\n    l: [dft, dct]\n    c: [5, 9]\n", "  operation_parameters: {}\n"),
			"architecture.operation_parameters"),
		Entry("unknown attention kernel", withReplaced(validDocument, "[sdp, wma]", "[sdp, cosine]"),
			"architecture.operation_parameters.sa[1]"),
		Entry("quoted convolution kernel", withReplaced(validDocument, "[5, 9]", `[5, "9"]`),
			"architecture.operation_parameters.c[1]"),
		Entry("several violations", withReplaced(withReplaced(validDocument, "[cola, sst2]", "[cola, cola]"), "[2, 4]", "[-2, 4]"),
			"datasets[1]", "architecture.num_heads[0]"),
	)

	DescribeTable("should reject documents that are not a single mapping",
		func(document string, cause error) {
			_, err := Parse("invalid", []byte(document))
			Expect(err).To(MatchError(ErrInvalidSchema))
			Expect(schemaErrors(err)).To(BeEmpty())
			if cause != nil {
				Expect(err).To(MatchError(cause))
			}
		},
		Entry("sequence root", "[1, 2]\n", errNotMapping),
		Entry("scalar root", "design space\n", errNotMapping),
		Entry("multiple documents", validDocument+"---\n"+validDocument, errMultipleDocuments),
		Entry("malformed YAML", "datasets: [cola\n", nil),
	)

	It("should name the source in the error message", func() {
		_, err := Parse("space.yaml", []byte(`datasets: [cola]`))
		Expect(err).To(MatchError(ContainSubstring(`design space "space.yaml"`)))
		Expect(err).To(MatchError(ContainSubstring("architecture")))
	})
})

var _ = Describe("Load", func() {
	It("should read a document from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "design_space.yaml")
		Expect(os.WriteFile(path, []byte(validDocument), 0o600)).To(Succeed())

		catalog, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Name()).To(Equal(path))
	})

	It("should report a missing file without a schema error", func() {
		_, err := Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(MatchError(os.ErrNotExist))
		Expect(errors.Is(err, ErrInvalidSchema)).To(BeFalse())
	})
})
