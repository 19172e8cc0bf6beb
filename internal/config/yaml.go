package config

import "fmt"

// UnmarshalYAML lets AnnotationMethod be written as a bare string
// ("naked", "standard", "supplemented") in a config file or YAML header.
func (a *AnnotationMethod) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "naked":
		*a = NAKED
	case "standard":
		*a = STANDARD
	case "supplemented":
		*a = SUPPLEMENTED
	default:
		return fmt.Errorf("unknown annotation method %q", s)
	}
	return nil
}

// UnmarshalYAML lets StylePreset be written as "default" or "basic".
func (s *StylePreset) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "default":
		*s = DefaultStyle
	case "basic":
		*s = BasicStyle
	default:
		return fmt.Errorf("unknown style preset %q", name)
	}
	return nil
}

// UnmarshalYAML lets NamespaceDefault be written as "global" or "private".
func (n *NamespaceDefault) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "global":
		*n = Global
	case "private":
		*n = Private
	default:
		return fmt.Errorf("unknown namespace default %q", name)
	}
	return nil
}

// yamlUpdate is the wire shape of a ConfigUpdate, as read from a project
// config file or a per-document `entangled:` YAML header. Field names use
// the same snake_case keys as the original Python implementation so
// existing entangled.toml/markdown headers need no translation.
type yamlUpdate struct {
	Version          string              `yaml:"version,omitempty"`
	Languages        []Language          `yaml:"languages,omitempty"`
	Annotation       *AnnotationMethod   `yaml:"annotation,omitempty"`
	Style            *StylePreset        `yaml:"style,omitempty"`
	Hooks            []string            `yaml:"hooks,omitempty"`
	Hook             map[string]map[string]any `yaml:"hook,omitempty"`
	WatchList        []string            `yaml:"watch_list,omitempty"`
	IgnoreList       []string            `yaml:"ignore_list,omitempty"`
	NamespaceDefault *NamespaceDefault   `yaml:"namespace_default,omitempty"`
	Namespace        []string            `yaml:"namespace,omitempty"`
}

// toUpdate converts the wire representation into a ConfigUpdate.
func (y yamlUpdate) toUpdate() (ConfigUpdate, error) {
	u := ConfigUpdate{
		Languages:        y.Languages,
		Annotation:       y.Annotation,
		Style:            y.Style,
		Hooks:            y.Hooks,
		HookConfig:       y.Hook,
		WatchList:        y.WatchList,
		IgnoreList:       y.IgnoreList,
		NamespaceDefault: y.NamespaceDefault,
		Namespace:        y.Namespace,
	}
	if y.Version != "" {
		v, err := ParseVersion(y.Version)
		if err != nil {
			return ConfigUpdate{}, err
		}
		u.Version = &v
	}
	return u, nil
}
