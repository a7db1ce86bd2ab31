package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/llm-d/bert-design-space/internal/designspace"
	"github.com/llm-d/bert-design-space/internal/logging"
)

// ConfigMapSource reads a design space document from a ConfigMap.
type ConfigMapSource struct {
	Client        client.Client
	Namespace     string
	ConfigMapName string

	// Key is the data key holding the document. When empty the first
	// design-space-looking key in sorted order is used.
	Key string
}

func (s *ConfigMapSource) Name() string {
	return prefixConfigMap + s.Namespace + "/" + s.ConfigMapName
}

func (s *ConfigMapSource) Load(ctx context.Context) (*designspace.Catalog, error) {
	cm := &corev1.ConfigMap{}
	if err := s.Client.Get(ctx, client.ObjectKey{Namespace: s.Namespace, Name: s.ConfigMapName}, cm); err != nil {
		return nil, fmt.Errorf("getting ConfigMap %s/%s: %w", s.Namespace, s.ConfigMapName, err)
	}

	key, err := s.documentKey(cm)
	if err != nil {
		return nil, err
	}
	ctrl.LoggerFrom(ctx).V(logging.TRACE).Info("Reading design space from ConfigMap",
		"namespace", s.Namespace,
		"configMap", s.ConfigMapName,
		"key", key)

	return designspace.Parse(s.Name()+"["+key+"]", []byte(cm.Data[key]))
}

func (s *ConfigMapSource) documentKey(cm *corev1.ConfigMap) (string, error) {
	if s.Key != "" {
		if _, ok := cm.Data[s.Key]; !ok {
			return "", fmt.Errorf("%w: %q in %s/%s", errKeyNotFound, s.Key, cm.Namespace, cm.Name)
		}
		return s.Key, nil
	}

	// sorted keys for deterministic selection
	keys := make([]string, 0, len(cm.Data))
	for key := range cm.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if isDesignSpaceKey(key) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w in %s/%s", errNoDocumentKey, cm.Namespace, cm.Name)
}

// isDesignSpaceKey checks if a ConfigMap data key likely holds a design space document.
func isDesignSpaceKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, ".yaml") ||
		strings.HasSuffix(lower, ".yml") ||
		lower == "design_space" ||
		lower == "designspace"
}
