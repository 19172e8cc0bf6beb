package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/entangled/entangled-go/internal/document"
	"github.com/entangled/entangled-go/internal/filedb"
	"github.com/entangled/entangled-go/internal/syncdecision"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which Markdown sources and targets have drifted",
	Long: `Status loads the project the same way sync does but only reports what it
would do for each source/target pair, without writing anything.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
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

	targetsBySource := make(map[string][]string)
	for _, target := range doc.Targets() {
		result, err := doc.Tangle(target)
		if err != nil {
			return err
		}
		for src := range result.Sources {
			targetsBySource[src] = append(targetsBySource[src], target)
		}
	}
	for _, targets := range targetsBySource {
		sort.Strings(targets)
	}

	db, err := filedb.Load(filepath.Join(root, ".entangled", "filedb.json"))
	if err != nil {
		return err
	}
	if db.Drifted {
		fmt.Println(colorize("33", "warning: file database version has drifted, consider --reset-db"))
	}
	for _, p := range db.Undead(root) {
		fmt.Println(colorize("33", fmt.Sprintf("warning: %s is tracked but missing on disk", p)))
	}

	sort.Strings(sourcePaths)
	for _, src := range sourcePaths {
		srcText, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		srcObs := syncdecision.Observation{Path: src, Present: true, Digest: filedb.Digest(srcText)}

		targets := targetsBySource[src]
		targetObs := make([]syncdecision.Observation, 0, len(targets))
		for _, t := range targets {
			text, present, err := readIfExists(t)
			if err != nil {
				return err
			}
			targetObs = append(targetObs, syncdecision.Observation{Path: t, Present: present, Digest: filedb.Digest([]byte(text))})
		}

		action := syncdecision.Decide(db, srcObs, targetObs)
		if action == syncdecision.Nothing {
			continue
		}
		fmt.Printf("%-10s %s -> %v\n", action, src, targets)
	}
	return nil
}
