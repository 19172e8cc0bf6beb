// Package refs implements the reference model from spec.md §3: named,
// ordered code fragments with attributes, keyed by (name, file, ordinal)
// and indexed by name and by target path.
package refs

import "fmt"

// TextLocation identifies a 1-based line in a path-normalized POSIX file.
type TextLocation struct {
	Filename string
	Line     int
}

func (l TextLocation) String() string {
	return fmt.Sprintf("%s:%d", l.Filename, l.Line)
}
