package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/entangled/entangled-go/internal/document"
	"github.com/entangled/entangled-go/internal/txn"
)

var (
	tangleForce bool
	tangleReset bool
)

var tangleCmd = &cobra.Command{
	Use:   "tangle [files...]",
	Short: "Expand Markdown code blocks into their generated source files",
	Long: `Tangle reads every Markdown file matched by the project's watch list (or
the files given explicitly) and writes out the source files their code
blocks are named for, clearing any previously generated file a source no
longer produces.`,
	RunE: runTangle,
}

func init() {
	rootCmd.AddCommand(tangleCmd)
	tangleCmd.Flags().BoolVar(&tangleForce, "force", false, "overwrite even when the target has drifted since the last run")
	tangleCmd.Flags().BoolVar(&tangleReset, "reset-db", false, "rewrite the file database to match this run without touching disk")
}

func runTangle(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadProjectConfig(root)
	if err != nil {
		return err
	}

	sources := args
	if len(sources) == 0 {
		sources, err = discoverSources(root, cfg)
		if err != nil {
			return err
		}
	}

	doc := document.New(cfg)
	for _, path := range sources {
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := doc.LoadSource(path, string(text)); err != nil {
			return err
		}
	}

	db, tx, err := openTransaction(root, modeFromFlags(tangleForce, tangleReset))
	if err != nil {
		return err
	}
	if db.Drifted {
		fmt.Println(colorize("33", "warning: file database version has drifted, consider --reset-db"))
	}
	for _, p := range db.Undead(root) {
		fmt.Println(colorize("33", fmt.Sprintf("warning: %s is tracked but missing on disk", p)))
	}

	for _, target := range doc.Targets() {
		result, err := doc.Tangle(target)
		if err != nil {
			return err
		}
		if err := tx.WriteTarget(target, result.Text, sortedKeys(result.Sources), nil); err != nil {
			return err
		}
	}
	if err := doc.RunHooks(tx); err != nil {
		return err
	}
	for _, src := range doc.Sources() {
		tx.MarkRead(src)
	}
	tx.ClearOrphans()

	report, err := tx.Commit()
	if err != nil {
		var ce *txn.ConflictsError
		if errors.As(err, &ce) {
			printReport(report)
			return fmt.Errorf("tangle aborted: %d conflict(s); re-run with --force to override", len(ce.Conflicts))
		}
		return err
	}
	printReport(report)
	return nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
