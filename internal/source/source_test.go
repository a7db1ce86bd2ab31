package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/llm-d/bert-design-space/api/v1alpha1"
	"github.com/llm-d/bert-design-space/internal/config"
	"github.com/llm-d/bert-design-space/internal/designspace"
	"github.com/llm-d/bert-design-space/internal/metrics"
)

const testNamespace = "test-ns"

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = clientgoscheme.AddToScheme(scheme)
	_ = v1alpha1.AddToScheme(scheme)
	return scheme
}

func newClient(objects ...client.Object) client.Client {
	return fake.NewClientBuilder().
		WithScheme(newScheme()).
		WithObjects(objects...).
		WithStatusSubresource(&v1alpha1.DesignSpace{}).
		Build()
}

func builtinDocument(name string) string {
	GinkgoHelper()
	data, err := designspace.BuiltinDocument(name)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

func makeConfigMap(name string, data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: testNamespace},
		Data:       data,
	}
}

func makeDesignSpace(name string, spec v1alpha1.DesignSpaceSpec) *v1alpha1.DesignSpace {
	return &v1alpha1.DesignSpace{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: testNamespace, Generation: 2},
		Spec:       spec,
	}
}

// hugeDepthDocument is valid but admits 2^4000000000 candidates.
const hugeDepthDocument = `
datasets: [cola]
architecture:
  hidden_size: [128, 256]
  num_heads: [2]
  encoder_layers: [4000000000]
  operation_types: [sa]
  number_of_feed-forward_stacks: [1]
  feed-forward_hidden: [512]
  operation_parameters:
    sa: [sdp]
`

// loadPromptly runs load and fails the spec if it does not return in time.
func loadPromptly(load func() (*designspace.Catalog, error)) (*designspace.Catalog, error) {
	GinkgoHelper()
	var (
		catalog *designspace.Catalog
		err     error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		catalog, err = load()
	}()
	Eventually(done).WithTimeout(10 * time.Second).Should(BeClosed())
	return catalog, err
}

func testingSpec() v1alpha1.DesignSpaceSpec {
	GinkgoHelper()
	catalog, err := designspace.Builtin(designspace.BuiltinTesting)
	Expect(err).NotTo(HaveOccurred())
	return SpecFromCatalog(catalog)
}

var _ = Describe("FileSource", func() {
	It("should load a document from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "design_space.yaml")
		Expect(os.WriteFile(path, []byte(builtinDocument(designspace.BuiltinTesting)), 0o600)).To(Succeed())

		src := &FileSource{Path: path}
		catalog, err := src.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Name()).To(Equal(path))
		Expect(catalog.CardinalityString()).To(Equal("20736"))
	})

	It("should honor a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := (&FileSource{Path: "unused.yaml"}).Load(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("BuiltinSource", func() {
	It("should serve the embedded documents", func() {
		src := &BuiltinSource{BuiltinName: designspace.BuiltinFull}
		catalog, err := src.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Name()).To(Equal("builtin:full"))
		Expect(catalog.EncoderLayers()).To(Equal([]int{2, 4}))
	})

	It("should reject an unknown name", func() {
		_, err := (&BuiltinSource{BuiltinName: "tiny"}).Load(context.Background())
		Expect(err).To(MatchError(designspace.ErrUnknownBuiltin))
	})
})

var _ = Describe("ConfigMapSource", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should pick the first document-looking key in sorted order", func() {
		cm := makeConfigMap("bert-space", map[string]string{
			"README":       "not a document",
			"testing.yaml": builtinDocument(designspace.BuiltinTesting),
			"z-full.yaml":  builtinDocument(designspace.BuiltinFull),
		})
		src := &ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space"}

		catalog, err := src.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Name()).To(Equal("configmap:test-ns/bert-space"))
		Expect(catalog.Name()).To(Equal("configmap:test-ns/bert-space[testing.yaml]"))
		Expect(catalog.HiddenSizes()).To(Equal([]int{128, 256}))
	})

	It("should read an explicit key", func() {
		cm := makeConfigMap("bert-space", map[string]string{
			"testing.yaml": builtinDocument(designspace.BuiltinTesting),
			"design_space": builtinDocument(designspace.BuiltinFull),
		})
		src := &ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space", Key: "design_space"}

		catalog, err := src.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.HiddenSizes()).To(Equal([]int{128, 256, 512}))
	})

	It("should fail when the explicit key is missing", func() {
		cm := makeConfigMap("bert-space", map[string]string{"testing.yaml": builtinDocument(designspace.BuiltinTesting)})
		src := &ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space", Key: "full.yaml"}

		_, err := src.Load(ctx)
		Expect(err).To(MatchError(errKeyNotFound))
	})

	It("should fail when no key looks like a document", func() {
		cm := makeConfigMap("bert-space", map[string]string{"notes.txt": "hello"})
		src := &ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space"}

		_, err := src.Load(ctx)
		Expect(err).To(MatchError(errNoDocumentKey))
	})

	It("should report schema violations", func() {
		cm := makeConfigMap("bert-space", map[string]string{"space.yml": "datasets: [cola]\n"})
		src := &ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space"}

		_, err := src.Load(ctx)
		Expect(err).To(MatchError(designspace.ErrInvalidSchema))
	})

	It("should surface a missing ConfigMap as NotFound", func() {
		src := &ConfigMapSource{Client: newClient(), Namespace: testNamespace, ConfigMapName: "missing"}

		_, err := src.Load(ctx)
		Expect(apierrors.IsNotFound(err)).To(BeTrue())
	})
})

var _ = Describe("DesignSpaceSource", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	getStatus := func(c client.Client, name string) v1alpha1.DesignSpaceStatus {
		GinkgoHelper()
		ds := &v1alpha1.DesignSpace{}
		Expect(c.Get(ctx, client.ObjectKey{Namespace: testNamespace, Name: name}, ds)).To(Succeed())
		return ds.Status
	}

	It("should load the resource spec and mark it validated", func() {
		c := newClient(makeDesignSpace("bert", testingSpec()))
		src := &DesignSpaceSource{Client: c, Namespace: testNamespace, ResourceName: "bert", UpdateStatus: true}

		catalog, err := src.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Name()).To(Equal("designspace:test-ns/bert"))

		reduced, err := designspace.Builtin(designspace.BuiltinTesting)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Equal(reduced)).To(BeTrue())

		status := getStatus(c, "bert")
		Expect(status.Cardinality).To(Equal("20736"))
		Expect(status.ObservedGeneration).To(Equal(int64(2)))
		cond := meta.FindStatusCondition(status.Conditions, v1alpha1.TypeValidated)
		Expect(cond).NotTo(BeNil())
		Expect(cond.Status).To(Equal(metav1.ConditionTrue))
		Expect(cond.Reason).To(Equal(v1alpha1.ReasonSchemaValid))
	})

	It("should record schema violations in the status", func() {
		spec := testingSpec()
		spec.Datasets = append(spec.Datasets, "cola")
		spec.Architecture.OperationTypes = []string{"sa", "rnn"}
		c := newClient(makeDesignSpace("broken", spec))
		src := &DesignSpaceSource{Client: c, Namespace: testNamespace, ResourceName: "broken", UpdateStatus: true}

		_, err := src.Load(ctx)
		Expect(err).To(MatchError(designspace.ErrInvalidSchema))

		status := getStatus(c, "broken")
		Expect(status.Cardinality).To(BeEmpty())
		cond := meta.FindStatusCondition(status.Conditions, v1alpha1.TypeValidated)
		Expect(cond).NotTo(BeNil())
		Expect(cond.Status).To(Equal(metav1.ConditionFalse))
		Expect(cond.Reason).To(Equal(v1alpha1.ReasonSchemaInvalid))
		Expect(cond.Message).To(ContainSubstring("datasets[2]"))
		Expect(cond.Message).To(ContainSubstring("architecture.operation_types[1]"))
	})

	It("should report an oversized cardinality in the status", func() {
		spec := testingSpec()
		spec.Architecture.EncoderLayers = []int{4000000000}
		c := newClient(makeDesignSpace("deep", spec))
		src := &DesignSpaceSource{Client: c, Namespace: testNamespace, ResourceName: "deep", UpdateStatus: true}

		catalog, err := loadPromptly(func() (*designspace.Catalog, error) { return src.Load(ctx) })
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.EncoderLayers()).To(Equal([]int{4000000000}))

		status := getStatus(c, "deep")
		Expect(status.Cardinality).To(Equal(">2^4096"))
		cond := meta.FindStatusCondition(status.Conditions, v1alpha1.TypeValidated)
		Expect(cond).NotTo(BeNil())
		Expect(cond.Status).To(Equal(metav1.ConditionTrue))
	})

	It("should leave the status alone unless asked", func() {
		c := newClient(makeDesignSpace("bert", testingSpec()))
		src := &DesignSpaceSource{Client: c, Namespace: testNamespace, ResourceName: "bert"}

		_, err := src.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(getStatus(c, "bert").Conditions).To(BeEmpty())
	})

	It("should surface a missing resource as NotFound", func() {
		src := &DesignSpaceSource{Client: newClient(), Namespace: testNamespace, ResourceName: "missing"}

		_, err := src.Load(ctx)
		Expect(apierrors.IsNotFound(err)).To(BeTrue())
	})

	It("should round-trip a catalog through a DesignSpace spec", func() {
		full, err := designspace.Builtin(designspace.BuiltinFull)
		Expect(err).NotTo(HaveOccurred())

		back, err := designspace.NewCatalog("spec", DocumentFromSpec(ptr.To(SpecFromCatalog(full))))
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Equal(full)).To(BeTrue())
	})
})

var _ = Describe("NewSource", func() {
	DescribeTable("should build the source for each kind",
		func(cfg config.SourceConfig, withClient bool, wantName string) {
			var c client.Client
			if withClient {
				c = newClient()
			}
			src, err := NewSource(cfg, c)
			Expect(err).NotTo(HaveOccurred())
			Expect(src.Name()).To(Equal(wantName))
		},
		Entry("file", config.SourceConfig{Kind: config.SourceFile, Path: "space.yaml"}, false, "space.yaml"),
		Entry("builtin", config.SourceConfig{Kind: config.SourceBuiltin, Name: "testing"}, false, "builtin:testing"),
		Entry("configmap", config.SourceConfig{Kind: config.SourceConfigMap, Name: "cm", Namespace: "ns"}, true, "configmap:ns/cm"),
		Entry("designspace", config.SourceConfig{Kind: config.SourceDesignSpace, Name: "ds", Namespace: "ns"}, true, "designspace:ns/ds"),
	)

	It("should require a client for Kubernetes kinds", func() {
		_, err := NewSource(config.SourceConfig{Kind: config.SourceConfigMap, Name: "cm", Namespace: "ns"}, nil)
		Expect(err).To(MatchError(errNoClient))
	})

	It("should reject an invalid configuration", func() {
		_, err := NewSource(config.SourceConfig{Kind: "s3"}, nil)
		Expect(err).To(MatchError(config.ErrUnknownSourceKind))
	})
})

var _ = Describe("Loader", func() {
	var (
		ctx    context.Context
		reg    *prometheus.Registry
		loader *Loader
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg = prometheus.NewRegistry()
		recorder, err := metrics.NewRecorder(reg)
		Expect(err).NotTo(HaveOccurred())
		loader = &Loader{Recorder: recorder}
	})

	It("should return every catalog keyed by source name", func() {
		cm := makeConfigMap("bert-space", map[string]string{"space.yaml": builtinDocument(designspace.BuiltinFull)})
		catalogs, err := loader.LoadAll(ctx,
			&BuiltinSource{BuiltinName: designspace.BuiltinTesting},
			&ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalogs).To(HaveLen(2))
		Expect(catalogs).To(HaveKey("builtin:testing"))
		Expect(catalogs["builtin:testing"].IsStrictSubsetOf(catalogs["configmap:test-ns/bert-space"])).To(BeTrue())
	})

	It("should abort on the first failure without a partial result", func() {
		catalogs, err := loader.LoadAll(ctx,
			&BuiltinSource{BuiltinName: designspace.BuiltinTesting},
			&BuiltinSource{BuiltinName: "tiny"},
			&BuiltinSource{BuiltinName: designspace.BuiltinFull},
		)
		Expect(err).To(MatchError(designspace.ErrUnknownBuiltin))
		Expect(err).To(MatchError(ContainSubstring("builtin:tiny")))
		Expect(catalogs).To(BeNil())
	})

	It("should reject duplicate source names", func() {
		_, err := loader.LoadAll(ctx,
			&BuiltinSource{BuiltinName: designspace.BuiltinTesting},
			&BuiltinSource{BuiltinName: designspace.BuiltinTesting},
		)
		Expect(errors.Is(err, errDuplicateName)).To(BeTrue())
	})

	It("should load a document of huge encoder depth", func() {
		path := filepath.Join(GinkgoT().TempDir(), "deep.yaml")
		Expect(os.WriteFile(path, []byte(hugeDepthDocument), 0o600)).To(Succeed())

		catalog, err := loadPromptly(func() (*designspace.Catalog, error) {
			return loader.Load(ctx, &FileSource{Path: path})
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.EncoderLayers()).To(Equal([]int{4000000000}))

		var buf bytes.Buffer
		Expect(metrics.WriteText(&buf, reg)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`designspace_catalog_cardinality{source="` + path + `"} +Inf`))
	})

	It("should reject an empty source list", func() {
		_, err := loader.LoadAll(ctx)
		Expect(err).To(MatchError(errNoSources))
	})

	It("should record every load", func() {
		cm := makeConfigMap("bert-space", map[string]string{"space.yaml": "datasets: [cola]\n"})
		_, err := loader.Load(ctx, &BuiltinSource{BuiltinName: designspace.BuiltinTesting})
		Expect(err).NotTo(HaveOccurred())
		_, err = loader.Load(ctx, &ConfigMapSource{Client: newClient(cm), Namespace: testNamespace, ConfigMapName: "bert-space"})
		Expect(err).To(HaveOccurred())

		Expect(testutil.GatherAndCount(reg, "designspace_catalog_loads_total")).To(Equal(2))

		var buf bytes.Buffer
		Expect(metrics.WriteText(&buf, reg)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`designspace_catalog_loads_total{result="success",source="builtin:testing"} 1`))
		Expect(buf.String()).To(ContainSubstring(`designspace_catalog_loads_total{result="invalid",source="configmap:test-ns/bert-space"} 1`))
		Expect(buf.String()).To(ContainSubstring(`designspace_schema_violations_total{source="configmap:test-ns/bert-space"} 1`))
		Expect(buf.String()).To(ContainSubstring(`designspace_catalog_cardinality{source="builtin:testing"} 20736`))
	})
})
