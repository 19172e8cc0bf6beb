package config

import "regexp"

// Markers holds the regular expressions that delimit code blocks and
// ignore blocks in a Markdown document.
type Markers struct {
	Open        string
	Close       string
	BeginIgnore string
	EndIgnore   string
}

// Compiled markers for the DEFAULT style: Pandoc-style `{.class #id key=val}`
// attribute braces.
const (
	defaultOpenPattern  = "^(?P<indent>\\s*)```\\s*\\{(?P<properties>[^{}]*)\\}\\s*$"
	defaultClosePattern = "^(?P<indent>\\s*)```\\s*$"
)

// Compiled markers for the BASIC style: a bare language identifier, no
// attribute braces (quarto_attributes supplies the rest).
const (
	basicOpenPattern  = "^(?P<indent>\\s*)```(?P<properties>.*)$"
	basicClosePattern = "^(?P<indent>\\s*)```\\s*$"
)

const (
	beginIgnorePattern = "^\\s*~~~markdown\\s*$"
	endIgnorePattern   = "^\\s*~~~\\s*$"
)

func defaultMarkers() Markers {
	return Markers{
		Open:        defaultOpenPattern,
		Close:       defaultClosePattern,
		BeginIgnore: beginIgnorePattern,
		EndIgnore:   endIgnorePattern,
	}
}

func basicMarkers() Markers {
	return Markers{
		Open:        basicOpenPattern,
		Close:       basicClosePattern,
		BeginIgnore: beginIgnorePattern,
		EndIgnore:   endIgnorePattern,
	}
}

// CompiledMarkers is the regexp-compiled form of Markers, handed to the
// Markdown reader.
type CompiledMarkers struct {
	Open        *regexp.Regexp
	Close       *regexp.Regexp
	BeginIgnore *regexp.Regexp
	EndIgnore   *regexp.Regexp
}

// Compile compiles every pattern in m. It panics on an invalid regexp since
// Markers only ever come from built-in presets or validated config, never
// directly from untrusted input.
func (m Markers) Compile() CompiledMarkers {
	return CompiledMarkers{
		Open:        regexp.MustCompile(m.Open),
		Close:       regexp.MustCompile(m.Close),
		BeginIgnore: regexp.MustCompile(m.BeginIgnore),
		EndIgnore:   regexp.MustCompile(m.EndIgnore),
	}
}
