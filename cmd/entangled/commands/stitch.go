package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entangled/entangled-go/internal/document"
	"github.com/entangled/entangled-go/internal/txn"
)

var stitchForce bool

var stitchCmd = &cobra.Command{
	Use:   "stitch [files...]",
	Short: "Fold edits made to tangled files back into their Markdown sources",
	Long: `Stitch loads every Markdown file matched by the project's watch list to
rebuild the reference model, reads the current content of every tangled
target, and rewrites each Markdown source so its code blocks reflect any
edits made directly to the generated files.`,
	RunE: runStitch,
}

func init() {
	rootCmd.AddCommand(stitchCmd)
	stitchCmd.Flags().BoolVar(&stitchForce, "force", false, "overwrite even when a source has drifted since the last run")
}

func runStitch(cmd *cobra.Command, args []string) error {
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

	for _, target := range doc.Targets() {
		text, err := os.ReadFile(target)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := doc.LoadCode(target, string(text)); err != nil {
			return err
		}
	}

	_, tx, err := openTransaction(root, modeFromFlags(stitchForce, false))
	if err != nil {
		return err
	}

	for _, path := range sources {
		text, err := doc.Stitch(path)
		if err != nil {
			return err
		}
		if err := tx.WriteSource(path, text, nil); err != nil {
			return err
		}
	}

	report, err := tx.Commit()
	if err != nil {
		var ce *txn.ConflictsError
		if errors.As(err, &ce) {
			printReport(report)
			return fmt.Errorf("stitch aborted: %d conflict(s); re-run with --force to override", len(ce.Conflicts))
		}
		return err
	}
	printReport(report)
	return nil
}
