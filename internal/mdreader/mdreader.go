// Package mdreader implements the Markdown half of the reference model's
// construction (spec.md §3, §4.2): tokenizing a document into plain text
// and fenced code blocks (skipping anything inside an ignore fence),
// extracting the per-document YAML header, resolving each block's
// namespace and name, running the OnRead hook pipeline, and registering
// the result into a ReferenceMap.
package mdreader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/entangled/entangled-go/internal/apperr"
	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/hooks"
	"github.com/entangled/entangled-go/internal/properties"
	"github.com/entangled/entangled-go/internal/refs"
)

const frontmatterDelimiter = "---"

// Result is what reading one Markdown document produces: its ordered
// content list (for later Render/Stitch), the effective config after
// merging the document's own header overlay, and the header itself (so a
// caller can preserve unrelated top-level YAML keys when stitching).
type Result struct {
	Content []refs.Content
	Header  config.DocumentHeader
	Config  config.Config

	// HasHeader and HeaderText let a caller reattach the document's YAML
	// header verbatim when reconstructing the file for stitch, rather than
	// re-serializing Header.Raw and risking a reordered or reformatted
	// header on documents that were never actually edited.
	HasHeader bool
	HeaderText string
}

// Read tokenizes text (the contents of filename) against baseConfig,
// registering every code block it finds into rm and running hs's OnRead
// callback on each one before registration.
func Read(baseConfig config.Config, hs []hooks.Hook, rm *refs.ReferenceMap, filename string, text string) (Result, error) {
	headerBody, hasHeader, body := splitFrontmatter(text)

	header := config.DocumentHeader{}
	cfg := baseConfig
	if hasHeader {
		var err error
		header, err = config.ParseDocumentHeader([]byte(headerBody))
		if err != nil {
			return Result{}, err
		}
		cfg = config.Merge(baseConfig, header.Entangled)
	}

	fallbackNamespace := cfg.Namespace
	if fallbackNamespace == nil && cfg.NamespaceDefault == config.Private {
		fallbackNamespace = []string{filename}
	}

	markers := cfg.Markers.Compile()

	lines := strings.Split(body, "\n")
	// strings.Split never drops the trailing empty element that a final
	// newline produces; track it so plain-text runs don't gain a spurious
	// blank line the source didn't have.
	trailingNewline := strings.HasSuffix(body, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	var content []refs.Content
	var plain strings.Builder
	flushPlain := func() {
		if plain.Len() > 0 {
			content = append(content, refs.PlainText(plain.String()))
			plain.Reset()
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]

		if markers.BeginIgnore.MatchString(line) {
			plain.WriteString(line)
			plain.WriteByte('\n')
			i++
			for i < len(lines) {
				plain.WriteString(lines[i])
				plain.WriteByte('\n')
				if markers.EndIgnore.MatchString(lines[i]) {
					i++
					break
				}
				i++
			}
			continue
		}

		if m := markers.Open.FindStringSubmatch(line); m != nil {
			indent := namedGroup(markers.Open, m, "indent")
			propsText := namedGroup(markers.Open, m, "properties")

			block := refs.CodeBlock{
				Indent:    indent,
				Origin:    refs.TextLocation{Filename: filename, Line: i + 1},
				Namespace: fallbackNamespace,
			}
			block.Properties = properties.Parse(propsText)
			if lang, ok := firstClass(block.Properties); ok {
				block.Language = &lang
			}
			if m, ok := refs.GetAttribute(block.Properties, "mode"); ok {
				if mode, ok := parseMode(m); ok {
					block.Mode = &mode
				} else {
					return Result{}, &apperr.CodeAttributeError{Origin: block.Origin, Msg: "mode attribute must be an octal file permission"}
				}
			}

			openLine := line + "\n"
			var fragLines []string
			j := i + 1
			closed := false
			for j < len(lines) {
				if cm := markers.Close.FindStringSubmatch(lines[j]); cm != nil {
					closed = true
					block.CloseLine = strings.TrimPrefix(lines[j], indent) + "\n"
					break
				}
				fragLines = append(fragLines, strings.TrimPrefix(lines[j], indent))
				j++
			}
			if !closed {
				return Result{}, &apperr.ParseError{
					Location: block.Origin,
					Msg:      "unterminated code fence",
				}
			}
			block.OpenLine = strings.TrimPrefix(openLine, indent)
			if len(fragLines) == 0 {
				block.Source = ""
			} else {
				block.Source = strings.Join(fragLines, "\n") + "\n"
			}

			if err := hooks.OnRead(hs, cfg, &block); err != nil {
				return Result{}, err
			}

			name := resolveName(block, filename, fallbackNamespace)
			id := rm.NewID(filename, name)
			block.Namespace = name.Namespace
			if err := rm.Set(id, &block); err != nil {
				return Result{}, err
			}
			flushPlain()
			content = append(content, refs.Reference(id))

			i = j + 1
			continue
		}

		plain.WriteString(line)
		plain.WriteByte('\n')
		i++
	}
	flushPlain()

	if !trailingNewline && len(content) > 0 {
		last := &content[len(content)-1]
		if last.Kind == refs.ContentPlainText {
			last.Text = strings.TrimSuffix(last.Text, "\n")
		}
	}

	return Result{
		Content:    content,
		Header:     header,
		Config:     cfg,
		HasHeader:  hasHeader,
		HeaderText: headerBody,
	}, nil
}

// resolveName picks the reference name a block registers under: its `#id`
// property if present, otherwise its `file=` attribute taken verbatim as an
// unqualified name, otherwise a synthetic name unique to its position.
func resolveName(block refs.CodeBlock, filename string, fallback []string) refs.ReferenceName {
	if id, ok := refs.GetID(block.Properties); ok {
		return refs.ParseReferenceName(id, fallback)
	}
	if file, ok := refs.GetAttributeString(block.Properties, "file"); ok {
		return refs.ReferenceName{Namespace: fallback, Name: file}
	}
	return refs.ReferenceName{
		Namespace: fallback,
		Name:      "unnamed-" + filename + "-" + strconv.Itoa(block.Origin.Line),
	}
}

// firstClass returns the first `.class` property, which by Pandoc fence
// convention is the block's language identifier.
func firstClass(props []refs.Property) (string, bool) {
	classes := refs.GetClasses(props)
	if len(classes) == 0 {
		return "", false
	}
	return classes[0], true
}

func parseMode(v any) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case string:
		n, err := strconv.ParseInt(t, 8, 32)
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// namedGroup extracts a named capture group's value from a FindStringSubmatch
// result, returning "" if the group didn't participate in the match.
func namedGroup(re *regexp.Regexp, m []string, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name && i < len(m) {
			return m[i]
		}
	}
	return ""
}

// splitFrontmatter splits text into a leading `---`-delimited YAML header
// and the remaining body, grounded on the same "find the next line-leading
// delimiter" approach as a plain two-dash frontmatter split: a document
// with no header returns hasHeader=false and the whole text as body.
func splitFrontmatter(text string) (header string, hasHeader bool, body string) {
	if !strings.HasPrefix(text, frontmatterDelimiter) {
		return "", false, text
	}
	afterFirst := text[len(frontmatterDelimiter):]
	if !(strings.HasPrefix(afterFirst, "\n") || afterFirst == "") {
		// "---" followed by something other than a newline is a horizontal
		// rule or a fence, not a header delimiter.
		return "", false, text
	}
	rest := strings.TrimPrefix(afterFirst, "\n")
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", false, text
	}
	headerBody := rest[:idx]
	remainder := rest[idx+len("\n"+frontmatterDelimiter):]
	remainder = strings.TrimPrefix(remainder, "\n")
	return headerBody, true, remainder
}
