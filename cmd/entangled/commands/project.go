package commands

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/entangled/entangled-go/internal/config"
	"github.com/entangled/entangled-go/internal/filedb"
	"github.com/entangled/entangled-go/internal/txn"
)

// loadProjectConfig resolves the effective Config for the project rooted at
// root: config.Default() overlaid with the file viper found during
// initConfig, if any.
func loadProjectConfig(root string) (config.Config, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return config.Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(raw)
}

// openTransaction opens the project's FileDB at root/.entangled/filedb.json
// and returns a Transaction over it in the given mode.
func openTransaction(root string, mode txn.Mode) (*filedb.FileDB, *txn.Transaction, error) {
	db, err := filedb.Load(filepath.Join(root, ".entangled", "filedb.json"))
	if err != nil {
		return nil, nil, err
	}
	return db, txn.New(db, root, mode), nil
}

// discoverSources walks root and returns every relative path matching
// cfg.WatchList and none of cfg.IgnoreList, sorted by filepath.WalkDir's
// natural lexical order.
func discoverSources(root string, cfg config.Config) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel != "." && strings.HasPrefix(filepath.Base(rel), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(cfg.WatchList, rel) || matchesAny(cfg.IgnoreList, rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if globMatch(p, path) {
			return true
		}
	}
	return false
}

// globMatch reports whether path matches a doublestar-flavored glob
// pattern: "**" stands for any number of path segments, "*" for any run of
// characters within one segment. There is no ecosystem glob matcher among
// this project's dependencies, so this stays a small regexp translation
// rather than a hand-rolled segment walker.
func globMatch(pattern, path string) bool {
	var b strings.Builder
	b.WriteString("^")
	i := 0
	for i < len(pattern) {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString("[^/]*")
			i++
		case pattern[i] == '?':
			b.WriteString("[^/]")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

// colorize wraps s in an ANSI color code, unless --no-color was set or
// stdout is not a terminal — the same isatty-gated decision the rest of
// this project's dependency stack makes for colored CLI output.
func colorize(code, s string) string {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, s)
}

func printReport(r *txn.Report) {
	for _, a := range r.Actions {
		fmt.Println(strings.TrimRight(reportLine(a), "\n"))
	}
	for _, c := range r.Conflicts {
		fmt.Println(colorize("31", fmt.Sprintf("conflict: %s: %s", c.Target, c.Reason)))
	}
}

func reportLine(a txn.Action) string {
	switch a.Kind {
	case txn.Create:
		return colorize("32", fmt.Sprintf("create %s", a.Target))
	case txn.Write:
		return colorize("33", fmt.Sprintf("write  %s", a.Target))
	case txn.Delete:
		return colorize("31", fmt.Sprintf("delete %s", a.Target))
	default:
		return a.Target
	}
}

// notifyInterrupt wires ch to receive SIGINT/SIGTERM, the shutdown signals
// `sync --watch` waits on before stopping its loop.
func notifyInterrupt(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}

func modeFromFlags(force, reset bool) txn.Mode {
	switch {
	case reset:
		return txn.ResetDB
	case force:
		return txn.Force
	default:
		return txn.Fail
	}
}
