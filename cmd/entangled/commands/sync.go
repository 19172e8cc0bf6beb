package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/entangled/entangled-go/internal/document"
	"github.com/entangled/entangled-go/internal/filedb"
	"github.com/entangled/entangled-go/internal/syncdecision"
	"github.com/entangled/entangled-go/internal/txn"
)

var (
	syncWatch    bool
	syncInterval time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Tangle or stitch each source/target pair, whichever side changed",
	Long: `Sync compares every Markdown source and the targets it tangles to against
what was last recorded: a changed source is tangled, a changed target is
stitched back in, a pair changed on both sides is reported as a conflict
and left untouched. With --watch it repeats this on an interval instead of
running once.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep syncing on an interval instead of running once")
	syncCmd.Flags().DurationVar(&syncInterval, "interval", 2*time.Second, "polling interval for --watch")
}

func runSync(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	tick := func(ctx context.Context) error {
		return syncOnce(root)
	}

	if !syncWatch {
		return tick(cmd.Context())
	}

	loop := syncdecision.NewLoop(syncInterval)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	loop.Start(ctx, tick)
	defer loop.Stop()

	sigCh := make(chan os.Signal, 1)
	notifyInterrupt(sigCh)
	<-sigCh
	return nil
}

func syncOnce(root string) error {
	cfg, err := loadProjectConfig(root)
	if err != nil {
		return err
	}
	sourcePaths, err := discoverSources(root, cfg)
	if err != nil {
		return err
	}

	doc := document.New(cfg)
	for _, path := range sourcePaths {
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := doc.LoadSource(path, string(text)); err != nil {
			return err
		}
	}

	targetResults := make(map[string]string) // target -> tangled text
	targetsBySource := make(map[string][]string)
	for _, target := range doc.Targets() {
		result, err := doc.Tangle(target)
		if err != nil {
			return err
		}
		targetResults[target] = result.Text
		for src := range result.Sources {
			targetsBySource[src] = append(targetsBySource[src], target)
		}
	}

	db, tx, err := openTransaction(root, txn.Force)
	if err != nil {
		return err
	}

	var conflicts []string
	for _, src := range sourcePaths {
		srcText, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		srcObs := syncdecision.Observation{Path: src, Present: true, Digest: filedb.Digest(srcText)}

		targets := targetsBySource[src]
		targetObs := make([]syncdecision.Observation, 0, len(targets))
		targetText := make(map[string]string, len(targets))
		for _, t := range targets {
			text, present, err := readIfExists(t)
			if err != nil {
				return err
			}
			targetText[t] = text
			targetObs = append(targetObs, syncdecision.Observation{Path: t, Present: present, Digest: filedb.Digest([]byte(text))})
		}

		switch syncdecision.Decide(db, srcObs, targetObs) {
		case syncdecision.Tangle:
			for _, t := range targets {
				if err := tx.WriteTarget(t, targetResults[t], []string{src}, nil); err != nil {
					return err
				}
			}
			tx.MarkRead(src)
		case syncdecision.Stitch:
			for _, t := range targets {
				if err := doc.LoadCode(t, targetText[t]); err != nil {
					return err
				}
			}
			text, err := doc.Stitch(src)
			if err != nil {
				return err
			}
			if err := tx.WriteSource(src, text, nil); err != nil {
				return err
			}
		case syncdecision.Conflict:
			conflicts = append(conflicts, src)
		case syncdecision.Nothing:
			tx.MarkRead(src)
		}
	}

	report, err := tx.Commit()
	if err != nil {
		return err
	}
	printReport(report)
	for _, c := range conflicts {
		fmt.Println(colorize("31", fmt.Sprintf("conflict: %s changed on both sides, skipped", c)))
	}
	return nil
}

func readIfExists(path string) (string, bool, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(text), true, nil
}
