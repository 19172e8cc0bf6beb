package refs

// ContentKind distinguishes the two shapes of a document's content list.
type ContentKind int

const (
	ContentPlainText ContentKind = iota
	ContentReference
)

// Content is one element of a Markdown document's ordered content list:
// either a run of plain text, or a reference to a code block stored in the
// ReferenceMap. Reconstructing the original Markdown is a fold over this
// list (spec.md §3).
type Content struct {
	Kind ContentKind
	Text string      // set when Kind == ContentPlainText
	Ref  ReferenceId // set when Kind == ContentReference
}

func PlainText(s string) Content {
	return Content{Kind: ContentPlainText, Text: s}
}

func Reference(id ReferenceId) Content {
	return Content{Kind: ContentReference, Ref: id}
}

// ToText reconstructs a single content element's original text using the
// reference map it came from.
func ToText(r *ReferenceMap, c Content) string {
	if c.Kind == ContentPlainText {
		return c.Text
	}
	block, ok := r.Get(c.Ref)
	if !ok {
		return ""
	}
	return block.IndentedText()
}

// Render folds a full content list back into document text.
func Render(r *ReferenceMap, content []Content) string {
	var out string
	for _, c := range content {
		out += ToText(r, c)
	}
	return out
}
