package hooks

import (
	"strings"

	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// Shebang moves a leading `#!` line out of the fragment body into
// CodeBlock.Header, so it is emitted once in tangled output rather than
// wrapped by the annotation markers (spec.md §4.5).
type Shebang struct{ Base }

func (Shebang) Name() string { return "shebang" }

func (Shebang) Priority() int { return 20 }

func (Shebang) OnRead(_ config.Config, block *refs.CodeBlock) error {
	moveLeadingLine(block, func(l string) bool { return strings.HasPrefix(l, "#!") })
	return nil
}
