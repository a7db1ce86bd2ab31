package source

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/llm-d/bert-design-space/api/v1alpha1"
	"github.com/llm-d/bert-design-space/internal/designspace"
	"github.com/llm-d/bert-design-space/internal/logging"
)

// DesignSpaceSource reads a design space from a DesignSpace resource.
type DesignSpaceSource struct {
	Client       client.Client
	Namespace    string
	ResourceName string

	// UpdateStatus writes the validation outcome back to the resource status.
	UpdateStatus bool
}

func (s *DesignSpaceSource) Name() string {
	return prefixDesignSpace + s.Namespace + "/" + s.ResourceName
}

func (s *DesignSpaceSource) Load(ctx context.Context) (*designspace.Catalog, error) {
	ds := &v1alpha1.DesignSpace{}
	if err := s.Client.Get(ctx, client.ObjectKey{Namespace: s.Namespace, Name: s.ResourceName}, ds); err != nil {
		return nil, fmt.Errorf("getting DesignSpace %s/%s: %w", s.Namespace, s.ResourceName, err)
	}

	catalog, err := designspace.NewCatalog(s.Name(), DocumentFromSpec(&ds.Spec))
	if err != nil && !errors.Is(err, designspace.ErrInvalidSchema) {
		return nil, err
	}

	if s.UpdateStatus {
		if statusErr := s.updateStatus(ctx, ds, catalog, err); statusErr != nil {
			ctrl.LoggerFrom(ctx).Error(statusErr, "Failed to update DesignSpace status",
				"namespace", s.Namespace,
				"name", s.ResourceName)
		}
	}
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *DesignSpaceSource) updateStatus(ctx context.Context, ds *v1alpha1.DesignSpace, catalog *designspace.Catalog, loadErr error) error {
	cond := metav1.Condition{
		Type:               v1alpha1.TypeValidated,
		ObservedGeneration: ds.Generation,
	}
	if loadErr != nil {
		cond.Status = metav1.ConditionFalse
		cond.Reason = v1alpha1.ReasonSchemaInvalid
		cond.Message = loadErr.Error()
		ds.Status.Cardinality = ""
	} else {
		cond.Status = metav1.ConditionTrue
		cond.Reason = v1alpha1.ReasonSchemaValid
		cond.Message = "design space is valid"
		ds.Status.Cardinality = catalog.CardinalityString()
	}
	ds.Status.ObservedGeneration = ds.Generation
	meta.SetStatusCondition(&ds.Status.Conditions, cond)

	if err := s.Client.Status().Update(ctx, ds); err != nil {
		return fmt.Errorf("updating status of DesignSpace %s/%s: %w", ds.Namespace, ds.Name, err)
	}
	ctrl.LoggerFrom(ctx).V(logging.DEBUG).Info("Updated DesignSpace status",
		"namespace", ds.Namespace,
		"name", ds.Name,
		"reason", cond.Reason,
		"cardinality", ds.Status.Cardinality)
	return nil
}

// DocumentFromSpec converts a DesignSpace spec into the wire document.
func DocumentFromSpec(spec *v1alpha1.DesignSpaceSpec) *designspace.Document {
	arch := spec.Architecture
	ops := make([]designspace.OperationType, len(arch.OperationTypes))
	for i, op := range arch.OperationTypes {
		ops[i] = designspace.OperationType(op)
	}
	return &designspace.Document{
		Datasets: append([]string(nil), spec.Datasets...),
		Architecture: designspace.ArchitectureDocument{
			HiddenSize:        append([]int(nil), arch.HiddenSize...),
			NumHeads:          append([]int(nil), arch.NumHeads...),
			EncoderLayers:     append([]int(nil), arch.EncoderLayers...),
			OperationTypes:    ops,
			FeedForwardStacks: append([]int(nil), arch.FeedForwardStacks...),
			FeedForwardHidden: append([]int(nil), arch.FeedForwardHidden...),
			OperationParameters: designspace.OperationParameters{
				SelfAttention: append([]string(nil), arch.OperationParameters.SelfAttention...),
				Linear:        append([]string(nil), arch.OperationParameters.Linear...),
				Convolution:   append([]int(nil), arch.OperationParameters.Convolution...),
			},
		},
	}
}

// SpecFromCatalog renders a catalog in canonical order as a DesignSpace spec.
func SpecFromCatalog(c *designspace.Catalog) v1alpha1.DesignSpaceSpec {
	doc := c.Document()
	arch := doc.Architecture
	ops := make([]string, len(arch.OperationTypes))
	for i, op := range arch.OperationTypes {
		ops[i] = string(op)
	}
	return v1alpha1.DesignSpaceSpec{
		Datasets: doc.Datasets,
		Architecture: v1alpha1.ArchitectureSpec{
			HiddenSize:        arch.HiddenSize,
			NumHeads:          arch.NumHeads,
			EncoderLayers:     arch.EncoderLayers,
			OperationTypes:    ops,
			FeedForwardStacks: arch.FeedForwardStacks,
			FeedForwardHidden: arch.FeedForwardHidden,
			OperationParameters: v1alpha1.OperationParametersSpec{
				SelfAttention: arch.OperationParameters.SelfAttention,
				Linear:        arch.OperationParameters.Linear,
				Convolution:   arch.OperationParameters.Convolution,
			},
		},
	}
}
