package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX statement files",
		Long: `Post every entry of OFX or QFX statements exported from your bank as an
expense. Entries already imported are skipped, so re-running on an
overlapping statement is safe.

Examples:
  # Import one statement into the Groceries category, paid by Pix
  expenses import-ofx ~/Downloads/nubank_mar.ofx --category Groceries --payment-type Pix

  # Preview a batch without posting anything
  expenses import-ofx ~/Downloads/*.qfx --category Misc --payment-type Debit --bank Itaú --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("category", "", "category of every imported expense (name or id)")
	cmd.Flags().String("payment-type", "", "payment type of every imported expense (name or id)")
	cmd.Flags().String("bank", "", "bank of every imported expense (name or id)")
	cmd.Flags().String("store", "", "store of every imported expense (name or id)")
	cmd.Flags().Bool("personal", false, "mark imported expenses as personal")
	cmd.Flags().BoolP("dry-run", "d", false, "preview the import without posting")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("payment-type")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	entries, err := parseStatements(ctx, files)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found in any file.")
		return nil
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			common.LogError(err, "failed to close local database", nil)
		}
	}()

	defaults, err := resolveDefaults(ctx, a.client, cmd)
	if err != nil {
		return err
	}
	importer := ofx.NewImporter(a.client, a.store, defaults)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		printPreview(out, importer, entries)
		return nil
	}

	bar := newImportBar(out, len(entries))
	res, err := importer.Import(ctx, entries, func(done int) {
		if err := bar.Set(done); err != nil {
			common.LogDebug("failed to update progress bar", common.Fields{"error": err.Error()})
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n✓ %d created, %d already imported, %d duplicates on the server, %d failed\n",
		res.Created, res.Skipped, res.Conflict, res.Failed)
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  - %v\n", e)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d entries failed to import", res.Failed)
	}
	return nil
}

// collectFiles expands glob patterns; a pattern without matches is kept
// when it names an existing file.
func collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				common.LogInfo("no files found matching pattern", common.Fields{"pattern": pattern})
				continue
			}
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// parseStatements parses every file, dropping entries repeated across
// overlapping statements. A file that fails to parse is logged and skipped.
func parseStatements(ctx context.Context, files []string) ([]ofx.Entry, error) {
	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var entries []ofx.Entry

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed, err := parseFile(ctx, parser, path)
		if err != nil {
			common.LogError(err, "failed to parse statement", common.Fields{"file": filepath.Base(path)})
			continue
		}

		for _, e := range parsed {
			key := e.AccountID + "/" + e.FitID
			if e.FitID != "" && seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

// Lister reads a whole lookup collection.
type Lister interface {
	All(ctx context.Context, resource model.Resource) ([]model.Entity, error)
}

// resolveDefaults turns the lookup flags into ids, fetching the four lookup
// collections concurrently.
func resolveDefaults(ctx context.Context, lister Lister, cmd *cobra.Command) (ofx.Defaults, error) {
	flags := []struct {
		name     string
		resource model.Resource
	}{
		{"category", model.Categories},
		{"payment-type", model.PaymentTypes},
		{"bank", model.Banks},
		{"store", model.Stores},
	}

	values := make([]string, len(flags))
	found := make([]model.Entity, len(flags))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range flags {
		value, _ := cmd.Flags().GetString(f.name)
		values[i] = strings.TrimSpace(value)
		if values[i] == "" {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			entities, err := lister.All(gctx, f.resource)
			if err != nil {
				return err
			}
			e, ok := findEntity(entities, values[i])
			if !ok {
				return common.NewValidationError(f.name, fmt.Sprintf("Unknown %s %q", strings.ToLower(f.resource.Label()), values[i]))
			}
			found[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ofx.Defaults{}, err
	}

	personal, _ := cmd.Flags().GetBool("personal")
	return ofx.Defaults{
		CategoryID:    found[0].ID,
		PaymentTypeID: found[1].ID,
		BankID:        found[2].ID,
		StoreID:       found[3].ID,
		RequiresBank:  found[1].HasStatement,
		Personal:      personal,
	}, nil
}

// findEntity matches an id or a case-insensitive label.
func findEntity(entities []model.Entity, value string) (model.Entity, bool) {
	for _, e := range entities {
		if e.ID == value || strings.EqualFold(e.Label(), value) {
			return e, true
		}
	}
	return model.Entity{}, false
}

func newImportBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing expenses...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printPreview(w io.Writer, importer *ofx.Importer, entries []ofx.Entry) {
	fmt.Fprintf(w, "📁 %d entries would be imported:\n", len(entries))
	for _, e := range entries {
		p := importer.Expense(e)
		fmt.Fprintf(w, "  %s  %-32s %s\n", p.Date, p.Description, model.FormatSignedAmount(p.Amount, p.Type))
	}
}
