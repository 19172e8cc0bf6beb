package hooks

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/refs"
)

// QuartoAttributes consumes consecutive leading lines of a block's source
// matching `<comment_open>|` (the Quarto "hash-pipe" convention, e.g. `#|`
// for Python), parses the collected body as a YAML mapping, and turns it
// into Id/Class/Attribute properties (spec.md §4.5). It must run before
// name/target resolution, hence the low priority.
type QuartoAttributes struct{ Base }

func (QuartoAttributes) Name() string { return "quarto_attributes" }

func (QuartoAttributes) Priority() int { return 10 }

func (QuartoAttributes) OnRead(cfg config.Config, block *refs.CodeBlock) error {
	if block.Language == nil {
		return nil
	}
	lang, ok := cfg.Language(*block.Language)
	if !ok || lang.Comment.Open == "" {
		return nil
	}
	prefix := lang.Comment.Open + "|"

	lines := refs.SplitLines(block.Source)
	n := 0
	for n < len(lines) && strings.HasPrefix(strings.TrimLeft(lines[n], " \t"), prefix) {
		n++
	}
	if n == 0 {
		return nil
	}

	var body strings.Builder
	for i := 0; i < n; i++ {
		trimmed := strings.TrimPrefix(strings.TrimLeft(lines[i], " \t"), prefix)
		body.WriteString(trimmed)
		body.WriteByte('\n')
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(body.String()), &data); err != nil {
		return &apperr.ParseError{Location: block.Origin, Msg: "invalid quarto attribute comment: " + err.Error()}
	}

	applyQuartoAttributes(block, data)

	consumed := strings.Join(lines[:n], "\n") + "\n"
	block.OpenLine += consumed
	rest := lines[n:]
	if len(rest) == 0 {
		block.Source = ""
	} else {
		block.Source = strings.Join(rest, "\n") + "\n"
	}
	return nil
}

func applyQuartoAttributes(block *refs.CodeBlock, data map[string]any) {
	if id, ok := data["id"].(string); ok {
		block.Properties = append(block.Properties, refs.ID(id))
	}
	switch classes := data["classes"].(type) {
	case []any:
		for _, c := range classes {
			if s, ok := c.(string); ok {
				block.Properties = append(block.Properties, refs.Class(s))
			}
		}
	case string:
		block.Properties = append(block.Properties, refs.Class(classes))
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "id" || k == "classes" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		block.Properties = append(block.Properties, refs.Attribute(k, data[k]))
	}
}
