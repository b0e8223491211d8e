package render

import (
	"context"

	"github.com/goliatone/go-controlbox/pkg/controlbox"
)

// Renderer converts a box, in its current state, into a byte representation
// (HTML, a terminal session transcript, JSON...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, box *controlbox.Box, options RenderOptions) ([]byte, error)
}
