package config

// Comment holds the open and, for block comments, close delimiter used to
// wrap annotation markers emitted around tangled fragments.
type Comment struct {
	Open  string
	Close string // empty means the language has no closing delimiter
}

// Language describes a fenced-code-block class and the comment syntax used
// to annotate tangled output in that language.
type Language struct {
	Name        string
	Identifiers []string
	Comment     Comment
}

// builtinLanguages is the default language table, covering the languages
// the fixtures and examples in this module exercise plus the common set a
// literate-programming tool needs out of the box.
func builtinLanguages() []Language {
	return []Language{
		{Name: "Python", Identifiers: []string{"python", "py"}, Comment: Comment{Open: "#"}},
		{Name: "C", Identifiers: []string{"c"}, Comment: Comment{Open: "//"}},
		{Name: "C++", Identifiers: []string{"cpp", "c++"}, Comment: Comment{Open: "//"}},
		{Name: "Rust", Identifiers: []string{"rust", "rs"}, Comment: Comment{Open: "//"}},
		{Name: "Go", Identifiers: []string{"go", "golang"}, Comment: Comment{Open: "//"}},
		{Name: "JavaScript", Identifiers: []string{"javascript", "js"}, Comment: Comment{Open: "//"}},
		{Name: "TypeScript", Identifiers: []string{"typescript", "ts"}, Comment: Comment{Open: "//"}},
		{Name: "Java", Identifiers: []string{"java"}, Comment: Comment{Open: "//"}},
		{Name: "C#", Identifiers: []string{"csharp", "c#", "cs"}, Comment: Comment{Open: "//"}},
		{Name: "Ruby", Identifiers: []string{"ruby", "rb"}, Comment: Comment{Open: "#"}},
		{Name: "Haskell", Identifiers: []string{"haskell", "hs"}, Comment: Comment{Open: "--"}},
		{Name: "OCaml", Identifiers: []string{"ocaml", "ml"}, Comment: Comment{Open: "(*", Close: "*)"}},
		{Name: "Bash", Identifiers: []string{"bash", "sh", "shell"}, Comment: Comment{Open: "#"}},
		{Name: "YAML", Identifiers: []string{"yaml", "yml"}, Comment: Comment{Open: "#"}},
		{Name: "TOML", Identifiers: []string{"toml"}, Comment: Comment{Open: "#"}},
		{Name: "JSON", Identifiers: []string{"json"}, Comment: Comment{Open: "//"}},
		{Name: "HTML", Identifiers: []string{"html"}, Comment: Comment{Open: "<!--", Close: "-->"}},
		{Name: "CSS", Identifiers: []string{"css"}, Comment: Comment{Open: "/*", Close: "*/"}},
		{Name: "Make", Identifiers: []string{"make", "makefile"}, Comment: Comment{Open: "#"}},
		{Name: "Dockerfile", Identifiers: []string{"dockerfile", "docker"}, Comment: Comment{Open: "#"}},
		{Name: "SQL", Identifiers: []string{"sql"}, Comment: Comment{Open: "--"}},
		{Name: "Lua", Identifiers: []string{"lua"}, Comment: Comment{Open: "--"}},
		{Name: "Scheme", Identifiers: []string{"scheme", "scm"}, Comment: Comment{Open: ";;"}},
	}
}

// lookupLanguage finds the language whose Identifiers contain id, preferring
// the last match in table (later entries shadow earlier ones, matching the
// config merge rule for identifier collisions).
func lookupLanguage(table []Language, id string) (Language, bool) {
	var found Language
	ok := false
	for _, lang := range table {
		for _, ident := range lang.Identifiers {
			if ident == id {
				found = lang
				ok = true
			}
		}
	}
	return found, ok
}

// mergeLanguages concatenates base and extra, with later entries shadowing
// earlier ones whenever they share an identifier.
func mergeLanguages(base, extra []Language) []Language {
	combined := make([]Language, 0, len(base)+len(extra))
	combined = append(combined, base...)
	combined = append(combined, extra...)

	seen := make(map[string]int) // identifier -> index of last owner in result
	result := make([]Language, 0, len(combined))
	for _, lang := range combined {
		idx := len(result)
		result = append(result, lang)
		for _, ident := range lang.Identifiers {
			if prev, ok := seen[ident]; ok {
				result[prev].Identifiers = removeIdentifier(result[prev].Identifiers, ident)
			}
			seen[ident] = idx
		}
	}

	filtered := result[:0]
	for _, lang := range result {
		if len(lang.Identifiers) > 0 {
			filtered = append(filtered, lang)
		}
	}
	return filtered
}

func removeIdentifier(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
