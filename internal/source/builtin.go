package source

import (
	"context"

	"github.com/llm-d/bert-design-space/internal/designspace"
)

// BuiltinSource serves one of the embedded design spaces.
type BuiltinSource struct {
	BuiltinName string
}

func (s *BuiltinSource) Name() string { return prefixBuiltin + s.BuiltinName }

func (s *BuiltinSource) Load(ctx context.Context) (*designspace.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return designspace.Builtin(s.BuiltinName)
}
