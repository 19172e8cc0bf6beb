package tangle

import "regexp"

// referenceLinePattern matches a line that is nothing but `<<name>>`,
// capturing its leading indent and the referenced name (spec.md §6:
// `<<name>>` alone on a line, names matching `[\w:-]+`).
func referenceLinePattern() *regexp.Regexp {
	return regexp.MustCompile(`^(\s*)<<([\w:-]+)>>\s*$`)
}
