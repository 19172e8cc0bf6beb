package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := Default()

	if cfg.Annotation != STANDARD {
		t.Errorf("Default().Annotation = %v, want STANDARD", cfg.Annotation)
	}
	if cfg.Style != DefaultStyle {
		t.Errorf("Default().Style = %v, want DefaultStyle", cfg.Style)
	}
	if cfg.NamespaceDefault != Global {
		t.Errorf("Default().NamespaceDefault = %v, want Global", cfg.NamespaceDefault)
	}
	if _, ok := cfg.Language("python"); !ok {
		t.Error("Default() language table missing python")
	}
}

func TestMergeStylePresetAppliesBeforeExplicitFields(t *testing.T) {
	t.Parallel()
	base := Default()
	basic := BasicStyle
	naked := NAKED

	got := Merge(base, ConfigUpdate{Style: &basic, Annotation: &naked})

	if got.Style != BasicStyle {
		t.Fatalf("Style = %v, want BasicStyle", got.Style)
	}
	if !got.HasHook("quarto_attributes") {
		t.Error("BasicStyle should enable quarto_attributes by default")
	}
	if got.Annotation != NAKED {
		t.Errorf("explicit Annotation override lost: got %v, want NAKED", got.Annotation)
	}
}

func TestMergeLanguagesShadowOnIdentifierCollision(t *testing.T) {
	t.Parallel()
	base := Config{Languages: []Language{
		{Name: "Python", Identifiers: []string{"python", "py"}, Comment: Comment{Open: "#"}},
	}}
	overlay := ConfigUpdate{Languages: []Language{
		{Name: "MyPython", Identifiers: []string{"py"}, Comment: Comment{Open: ";;"}},
	}}

	got := Merge(base, overlay)

	lang, ok := got.Language("py")
	if !ok || lang.Name != "MyPython" {
		t.Fatalf("expected py to resolve to the overlay's MyPython, got %+v (ok=%v)", lang, ok)
	}
	lang, ok = got.Language("python")
	if !ok || lang.Name != "Python" {
		t.Fatalf("expected python to still resolve to the base Python, got %+v (ok=%v)", lang, ok)
	}
}

func TestMergeHooksAdditiveWithTildeRemoval(t *testing.T) {
	t.Parallel()
	base := Config{Hooks: []string{"shebang", "spdx_license"}}

	got := Merge(base, ConfigUpdate{Hooks: []string{"brei", "~spdx_license"}})

	want := map[string]bool{"shebang": true, "brei": true}
	if len(got.Hooks) != len(want) {
		t.Fatalf("Hooks = %v, want exactly %v", got.Hooks, want)
	}
	for _, h := range got.Hooks {
		if !want[h] {
			t.Errorf("unexpected hook %q survived merge", h)
		}
	}
}

func TestMergeVersionTakesMax(t *testing.T) {
	t.Parallel()
	base := Config{Version: Version{1, 0}}
	newer := Version{1, 5}

	got := Merge(base, ConfigUpdate{Version: &newer})
	if got.Version.Compare(newer) != 0 {
		t.Errorf("Version = %v, want %v", got.Version, newer)
	}

	older := Version{0, 9}
	got = Merge(got, ConfigUpdate{Version: &older})
	if got.Version.Compare(newer) != 0 {
		t.Errorf("merging an older version should not lower Version: got %v", got.Version)
	}
}

func TestParseDocumentHeaderEntangledKey(t *testing.T) {
	t.Parallel()
	body := []byte("title: Example\nentangled:\n  annotation: naked\n  namespace: [foo, bar]\n")

	header, err := ParseDocumentHeader(body)
	if err != nil {
		t.Fatalf("ParseDocumentHeader() error: %v", err)
	}
	if header.Entangled.Annotation == nil || *header.Entangled.Annotation != NAKED {
		t.Errorf("Entangled.Annotation = %v, want NAKED", header.Entangled.Annotation)
	}
	if got := header.Entangled.Namespace; len(got) != 2 || got[0] != "foo" || got[1] != "bar" {
		t.Errorf("Entangled.Namespace = %v, want [foo bar]", got)
	}
}

func TestParseDocumentHeaderEmptyBody(t *testing.T) {
	t.Parallel()
	header, err := ParseDocumentHeader([]byte("  \n"))
	if err != nil {
		t.Fatalf("ParseDocumentHeader() error: %v", err)
	}
	if !header.Present {
		t.Error("expected Present=true for an empty-but-present header")
	}
}
