package refs

import "strings"

// CodeBlock holds everything distilled from one fenced code block.
type CodeBlock struct {
	Properties []Property
	Indent     string
	OpenLine   string
	CloseLine  string
	Source     string
	Origin     TextLocation
	Language   *string // identifier resolved to a config.Language by the caller
	Header     string
	Mode       *int
	Namespace  []string
}

// Text is the unindented text that should be identical to the text the
// code block was extracted from: the opening fence, any header line moved
// out by a hook, the source body, then the closing fence.
func (c CodeBlock) Text() string {
	return c.OpenLine + c.Header + c.Source + c.CloseLine
}

// IndentedText re-applies the block's original indentation prefix.
func (c CodeBlock) IndentedText() string {
	return Indent(c.Indent, c.Text())
}

// SplitLines splits text on "\n" the way the round-trip law in spec.md §8
// requires: a trailing newline never produces a trailing empty element,
// but an embedded blank line is preserved.
//
//	SplitLines("a\nb\n") == []string{"a", "b"}
//	SplitLines("a\nb")   == []string{"a", "b"}
//	SplitLines("a\n\nb") == []string{"a", "", "b"}
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(text, "\n")
	return strings.Split(trimmed, "\n")
}

// Indent prefixes every non-blank line of text with prefix. Blank lines
// (zero-length, including the implicit one before a trailing newline)
// remain blank, per spec.md §4.3's indentation rule.
func Indent(prefix string, text string) string {
	if prefix == "" {
		return text
	}
	endsInNewline := strings.HasSuffix(text, "\n")
	lines := SplitLines(text)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	if endsInNewline {
		b.WriteByte('\n')
	}
	return b.String()
}
