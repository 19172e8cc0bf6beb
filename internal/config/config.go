// Package config resolves the immutable Config value the rest of the core
// is threaded through. Loading the on-disk TOML project file is an external
// collaborator's job (see spec.md §1); this package knows how to merge a
// ConfigUpdate overlay onto a Config, how to decode a project-level YAML
// overlay (Load), and how to decode the per-document YAML header overlay
// described in spec.md §4.1.
package config

// Config is an immutable resolved configuration value. Every reader,
// tangler and hook pipeline in the core is handed one explicitly rather
// than reaching for a global.
type Config struct {
	Version          Version
	Languages        []Language
	Markers          Markers
	Annotation       AnnotationMethod
	Style            StylePreset
	Hooks            []string
	HookConfig       map[string]map[string]any
	WatchList        []string
	IgnoreList       []string
	NamespaceDefault NamespaceDefault
	Namespace        []string
}

// Default returns the baseline Config: DEFAULT style, the built-in language
// table, STANDARD annotation, no namespace.
func Default() Config {
	preset := resolveStyle(DefaultStyle)
	return Config{
		Version:          Version{1, 0},
		Languages:        builtinLanguages(),
		Markers:          preset.Markers,
		Annotation:       STANDARD,
		Style:            DefaultStyle,
		Hooks:            append([]string(nil), preset.Hooks...),
		HookConfig:       map[string]map[string]any{},
		WatchList:        []string{"**/*.md"},
		IgnoreList:       nil,
		NamespaceDefault: Global,
	}
}

// Language looks up a fence-class identifier against the configured
// language table, preferring the most recently added match.
func (c Config) Language(identifier string) (Language, bool) {
	return lookupLanguage(c.Languages, identifier)
}

// HasHook reports whether a hook name is enabled in this config.
func (c Config) HasHook(name string) bool {
	for _, h := range c.Hooks {
		if h == name {
			return true
		}
	}
	return false
}

// ConfigUpdate is a sparse overlay. Nil slices/maps/pointers mean "not
// present in this overlay, leave the base value untouched." For the
// wholesale-replacement fields (WatchList, IgnoreList, Namespace) a non-nil
// empty slice is a deliberate replacement with nothing; an empty Languages
// or Hooks overlay leaves the base value unchanged.
type ConfigUpdate struct {
	Version          *Version
	Languages        []Language
	Markers          *Markers
	Annotation       *AnnotationMethod
	Style            *StylePreset
	Hooks            []string // entries prefixed with "~" remove instead of add
	HookConfig       map[string]map[string]any
	WatchList        []string
	IgnoreList        []string
	NamespaceDefault *NamespaceDefault
	Namespace        []string
}

// Merge applies u on top of base, implementing spec.md §4.1's merge rules:
// style presets resolve first so explicit fields still win, list fields are
// either replaced wholesale or merged additively, and the language table is
// re-indexed after concatenation.
func Merge(base Config, u ConfigUpdate) Config {
	result := base

	if u.Style != nil {
		preset := resolveStyle(*u.Style)
		result.Style = *u.Style
		result.Markers = preset.Markers
		result.Hooks = append([]string(nil), preset.Hooks...)
	}

	if u.Version != nil {
		result.Version = result.Version.Max(*u.Version)
	}
	if len(u.Languages) > 0 {
		result.Languages = mergeLanguages(result.Languages, u.Languages)
	}
	if u.Markers != nil {
		result.Markers = *u.Markers
	}
	if u.Annotation != nil {
		result.Annotation = *u.Annotation
	}
	if u.NamespaceDefault != nil {
		result.NamespaceDefault = *u.NamespaceDefault
	}
	if u.Namespace != nil {
		result.Namespace = u.Namespace
	}
	if u.WatchList != nil {
		result.WatchList = u.WatchList
	}
	if u.IgnoreList != nil {
		result.IgnoreList = u.IgnoreList
	}
	if len(u.Hooks) > 0 {
		result.Hooks = applyHookOverlay(result.Hooks, u.Hooks)
	}
	if u.HookConfig != nil {
		result.HookConfig = mergeHookConfig(result.HookConfig, u.HookConfig)
	}

	return result
}

// applyHookOverlay appends new hook names and removes any entry prefixed
// with "~", preserving order and avoiding duplicates.
func applyHookOverlay(base []string, overlay []string) []string {
	result := append([]string(nil), base...)
	for _, entry := range overlay {
		if len(entry) > 0 && entry[0] == '~' {
			name := entry[1:]
			result = removeIdentifier(result, name)
			continue
		}
		found := false
		for _, existing := range result {
			if existing == entry {
				found = true
				break
			}
		}
		if !found {
			result = append(result, entry)
		}
	}
	return result
}

func mergeHookConfig(base, overlay map[string]map[string]any) map[string]map[string]any {
	result := make(map[string]map[string]any, len(base)+len(overlay))
	for k, v := range base {
		result[k] = v
	}
	for name, cfg := range overlay {
		merged := make(map[string]any, len(result[name])+len(cfg))
		for k, v := range result[name] {
			merged[k] = v
		}
		for k, v := range cfg {
			merged[k] = v
		}
		result[name] = merged
	}
	return result
}
