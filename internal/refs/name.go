package refs

import (
	"strconv"
	"strings"
)

// ReferenceName combines a namespace path and a short name. Its textual
// form is "a::b::c" where all but the last segment are the namespace.
type ReferenceName struct {
	Namespace []string
	Name      string
}

func (n ReferenceName) String() string {
	if len(n.Namespace) == 0 {
		return n.Name
	}
	return strings.Join(n.Namespace, "::") + "::" + n.Name
}

// ParseReferenceName splits a textual reference such as "a::b::c" into a
// ReferenceName. An unqualified name (no "::") inherits the supplied
// fallback namespace, as required when resolving `<<name>>` inside a block.
func ParseReferenceName(text string, fallbackNamespace []string) ReferenceName {
	parts := strings.Split(text, "::")
	if len(parts) == 1 {
		return ReferenceName{Namespace: fallbackNamespace, Name: parts[0]}
	}
	ns := append([]string(nil), parts[:len(parts)-1]...)
	return ReferenceName{Namespace: ns, Name: parts[len(parts)-1]}
}

func (n ReferenceName) key() string {
	return strings.Join(n.Namespace, "\x00") + "\x01" + n.Name
}

// ReferenceId uniquely identifies a single code block: its name, the
// markup file it came from, and its 0-based ordinal among same-named
// blocks in that file.
type ReferenceId struct {
	Name ReferenceName
	File string
	Ord  int
}

func (id ReferenceId) String() string {
	return id.Name.String() + "[" + strconv.Itoa(id.Ord) + "]"
}
