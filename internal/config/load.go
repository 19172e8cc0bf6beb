package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigError wraps an invalid configuration shape or value (spec.md §7).
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Msg, e.Err)
	}
	return "config: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DocumentHeader is the per-document YAML header delimited by `---` at the
// very top of a Markdown file. Only the `entangled:` sub-key is meaningful
// to this module; the whole decoded header is kept in Raw so callers
// can round-trip it (the Markdown reader never needs to look at it).
type DocumentHeader struct {
	Entangled ConfigUpdate
	Present   bool
	Raw       map[string]any
}

// ParseDocumentHeader decodes the YAML body found between a document's
// leading `---` delimiters. An empty body is a valid, empty header.
func ParseDocumentHeader(body []byte) (DocumentHeader, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return DocumentHeader{Present: true}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return DocumentHeader{}, &ConfigError{Msg: "malformed YAML header", Err: err}
	}

	header := DocumentHeader{Present: true, Raw: raw}

	entangledRaw, ok := raw["entangled"]
	if !ok {
		return header, nil
	}

	// Round-trip through yaml.Marshal/Unmarshal to decode the dynamically
	// typed map into our strongly typed overlay shape.
	encoded, err := yaml.Marshal(entangledRaw)
	if err != nil {
		return DocumentHeader{}, &ConfigError{Msg: "invalid entangled header", Err: err}
	}
	var wire yamlUpdate
	if err := yaml.Unmarshal(encoded, &wire); err != nil {
		return DocumentHeader{}, &ConfigError{Msg: "invalid entangled header", Err: err}
	}
	update, err := wire.toUpdate()
	if err != nil {
		return DocumentHeader{}, &ConfigError{Msg: "invalid entangled header", Err: err}
	}
	header.Entangled = update
	return header, nil
}

// Load decodes a project-level config overlay (already read from disk by
// an external collaborator, see spec.md §1) expressed as YAML, and merges
// it onto Default().
func Load(raw []byte) (Config, error) {
	return LoadOnto(Default(), raw)
}

// LoadOnto merges a YAML-encoded ConfigUpdate onto an existing base config,
// letting tests construct a base other than Default().
func LoadOnto(base Config, raw []byte) (Config, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return base, nil
	}
	var wire yamlUpdate
	if err := yaml.Unmarshal(raw, &wire); err != nil {
		return Config{}, &ConfigError{Msg: "malformed config", Err: err}
	}
	update, err := wire.toUpdate()
	if err != nil {
		return Config{}, &ConfigError{Msg: "malformed config", Err: err}
	}
	return Merge(base, update), nil
}
