package source

import (
	"context"

	"github.com/llm-d/bert-design-space/internal/designspace"
)

// FileSource reads a design space document from disk.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Load(ctx context.Context) (*designspace.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return designspace.Load(s.Path)
}
