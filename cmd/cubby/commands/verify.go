package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/cubby/internal/cli/output"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/marmos91/cubby/pkg/vault"
	"github.com/marmos91/cubby/pkg/vault/journal"
	"github.com/spf13/cobra"
)

var (
	verifyHash          bool
	verifyOutput        string
	verifyPruneDangling bool
	verifyRemoveOrphans bool
	verifyClearIntents  bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify catalog and storage consistency",
	Long: `Reconcile the catalog database against the storage directory.

The verification pass reports catalog rows whose payload file is missing
(dangling rows), payload files no catalog row points at (orphaned files),
and journal records left behind by interrupted operations (stale intents).
With --hash, every payload is re-read and its SHA-256 compared against the
stored hash.

Verification is read-only. Pass one or more repair flags to fix what the
pass finds:

  --prune-dangling   delete catalog rows whose payload is gone
  --remove-orphans   delete payload files no catalog row points at
  --clear-intents    drop stale journal records

Examples:
  # Report inconsistencies
  cubby verify

  # Full verification including payload hashes
  cubby verify --hash

  # Fix everything the pass finds
  cubby verify --prune-dangling --remove-orphans --clear-intents

  # Machine-readable report
  cubby verify --output json`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyHash, "hash", false, "Re-read every payload and compare its SHA-256 against the catalog")
	verifyCmd.Flags().BoolVar(&verifyPruneDangling, "prune-dangling", false, "Delete catalog rows whose payload file is missing")
	verifyCmd.Flags().BoolVar(&verifyRemoveOrphans, "remove-orphans", false, "Delete payload files no catalog row points at")
	verifyCmd.Flags().BoolVar(&verifyClearIntents, "clear-intents", false, "Drop stale journal records")
	verifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(verifyOutput)
	if err != nil {
		return err
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	catalog, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog store: %w", err)
	}
	defer func() { _ = catalog.Close() }()

	var jnl *journal.Journal
	if cfg.Journal.IsEnabled() {
		jnl, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open intent journal: %w", err)
		}
		defer func() { _ = jnl.Close() }()
	}

	vlt, err := vault.New(catalog, vault.Config{
		StorageRoot:    cfg.Storage.Root,
		MaxPayloadSize: int64(cfg.Storage.MaxUploadSize),
		Journal:        jnl,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	repair := verifyPruneDangling || verifyRemoveOrphans || verifyClearIntents

	if repair {
		report, result, err := vlt.Repair(ctx, vault.RepairOptions{
			PruneDangling: verifyPruneDangling,
			RemoveOrphans: verifyRemoveOrphans,
			ClearIntents:  verifyClearIntents,
		})
		if err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}
		return printRepairResult(format, report, result)
	}

	report, err := vlt.Verify(ctx, vault.VerifyOptions{CheckHashes: verifyHash})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if err := printVerifyReport(format, report); err != nil {
		return err
	}

	if !report.Clean() {
		issues := len(report.DanglingRows) + len(report.OrphanedFiles) + len(report.StaleIntents) + len(report.HashMismatches)
		return fmt.Errorf("verification found %d issue(s)", issues)
	}
	return nil
}

func printVerifyReport(format output.Format, report *vault.VerifyReport) error {
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, report)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, report)
	}

	fmt.Printf("Checked %d catalog row(s)\n", report.FilesChecked)

	if report.Clean() {
		fmt.Println("No inconsistencies found")
		return nil
	}

	if len(report.DanglingRows) > 0 {
		fmt.Printf("\nDangling rows (payload missing): %d\n", len(report.DanglingRows))
		for _, file := range report.DanglingRows {
			fmt.Printf("  %s (id %d)\n", file.FilePath, file.ID)
		}
	}
	if len(report.OrphanedFiles) > 0 {
		fmt.Printf("\nOrphaned files (no catalog row): %d\n", len(report.OrphanedFiles))
		for _, path := range report.OrphanedFiles {
			fmt.Printf("  %s\n", path)
		}
	}
	if len(report.StaleIntents) > 0 {
		fmt.Printf("\nStale intents (interrupted operations): %d\n", len(report.StaleIntents))
		for _, intent := range report.StaleIntents {
			fmt.Printf("  %s %s %s (started %s)\n", intent.ID, intent.Op, intent.Path, intent.StartedAt.Format("2006-01-02 15:04:05"))
		}
	}
	if len(report.HashMismatches) > 0 {
		fmt.Printf("\nHash mismatches (payload modified): %d\n", len(report.HashMismatches))
		for _, file := range report.HashMismatches {
			fmt.Printf("  %s (id %d)\n", file.FilePath, file.ID)
		}
	}

	fmt.Println("\nRun with --prune-dangling, --remove-orphans or --clear-intents to repair")
	return nil
}

func printRepairResult(format output.Format, report *vault.VerifyReport, result *vault.RepairResult) error {
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, struct {
			Report *vault.VerifyReport `json:"report"`
			Result *vault.RepairResult `json:"result"`
		}{report, result})
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, struct {
			Report *vault.VerifyReport `json:"report" yaml:"report"`
			Result *vault.RepairResult `json:"result" yaml:"result"`
		}{report, result})
	}

	fmt.Printf("Checked %d catalog row(s)\n", report.FilesChecked)
	fmt.Printf("Pruned %d dangling row(s)\n", result.PrunedRows)
	fmt.Printf("Removed %d orphaned file(s)\n", result.RemovedFiles)
	fmt.Printf("Cleared %d stale intent(s)\n", result.ClearedIntents)

	remaining := len(report.DanglingRows) - result.PrunedRows +
		len(report.OrphanedFiles) - result.RemovedFiles +
		len(report.StaleIntents) - result.ClearedIntents
	if remaining > 0 {
		fmt.Printf("\n%d issue(s) remain; re-run 'cubby verify' for details\n", remaining)
	}
	return nil
}
