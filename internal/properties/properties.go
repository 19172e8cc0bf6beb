// Package properties parses the Pandoc-style attribute grammar used inside
// a fenced code block's `{...}` brace: a whitespace-separated list of
// `.class`, `#id`, and `key="quoted"` | `key=bareword` tokens (spec.md §6).
package properties

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/entangled/entangled-go/internal/refs"
)

var tokenPattern = regexp.MustCompile(
	`(?:` +
		`#(?P<id>[^\s{}]+)` +
		`|\.(?P<class>[^\s{}]+)` +
		`|(?P<akey1>[A-Za-z_][\w-]*)\s*=\s*"(?P<aval1>(?:[^"\\]|\\.)*)"` +
		`|(?P<akey2>[A-Za-z_][\w-]*)\s*=\s*(?P<aval2>\S+)` +
		`)`,
)

// Parse reads the content of a `{...}` attribute brace into an ordered
// list of Property values, in the order the tokens appeared.
//
//	Parse(`.python #foo file=bar.py`) ==
//	    []Property{Class("python"), Id("foo"), Attribute("file", "bar.py")}
func Parse(input string) []refs.Property {
	names := tokenPattern.SubexpNames()
	matches := tokenPattern.FindAllStringSubmatchIndex(input, -1)

	props := make([]refs.Property, 0, len(matches))
	for _, m := range matches {
		group := func(name string) (string, bool) {
			for i, n := range names {
				if n != name {
					continue
				}
				start, end := m[2*i], m[2*i+1]
				if start < 0 {
					return "", false
				}
				return input[start:end], true
			}
			return "", false
		}

		if v, ok := group("id"); ok {
			props = append(props, refs.ID(v))
			continue
		}
		if v, ok := group("class"); ok {
			props = append(props, refs.Class(v))
			continue
		}
		if k, ok := group("akey1"); ok {
			v, _ := group("aval1")
			props = append(props, refs.Attribute(k, unescapeQuoted(v)))
			continue
		}
		if k, ok := group("akey2"); ok {
			v, _ := group("aval2")
			props = append(props, refs.Attribute(k, inferScalar(v)))
			continue
		}
	}
	return props
}

func unescapeQuoted(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

// inferScalar types an unquoted attribute value: true/false become bool,
// all-digit values become int64, `[a,b,c]` becomes a list, anything else
// stays a string. Quoted values are never inferred — they stay strings,
// which is how `mode="0755"` keeps its leading zero and octal shape
// instead of becoming the integer 755.
func inferScalar(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(v, "["), "]")
		if inner == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return v
}
