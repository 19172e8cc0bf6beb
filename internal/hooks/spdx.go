package hooks

import (
	"strings"

	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// SPDXLicense moves a leading `SPDX-License-Identifier` comment line out of
// the fragment body into CodeBlock.Header (spec.md §4.5).
type SPDXLicense struct{ Base }

func (SPDXLicense) Name() string { return "spdx_license" }

func (SPDXLicense) Priority() int { return 20 }

func (SPDXLicense) OnRead(_ config.Config, block *refs.CodeBlock) error {
	moveLeadingLine(block, func(l string) bool { return strings.Contains(l, "SPDX-License-Identifier") })
	return nil
}
