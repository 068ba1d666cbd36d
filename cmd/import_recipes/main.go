package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"recipebook/internal/config"
	"recipebook/internal/db"
	"recipebook/internal/db/mock"
	applog "recipebook/internal/log"
	"recipebook/internal/recipes"
	"recipebook/internal/store"
)

type options struct {
	dryRun  bool
	useMock bool
}

type summary struct {
	Created int
	Skipped int
}

var (
	loadConfigFunc = config.Load
	openDatabase   = func(ctx context.Context, cfg config.Config, useMock bool) (*gorm.DB, error) {
		if useMock || cfg.Database.UseMock {
			return mock.New(ctx)
		}
		return db.Configure(cfg.Database)
	}
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "import_recipes FILE...",
		Short: "Import recipes from CSV or PDF sheets",
		Long: `Read recipe sheets and create each recipe with its ingredients.

Each row holds: recipe, description, servings, ingredient, amount, unit.
Rows naming the same recipe are merged. Recipes whose name already exists
are skipped.`,
		Example: `  # Import a sheet into the configured database
  import_recipes breakfast.csv

  # Check a PDF sheet without writing anything
  import_recipes --dry-run menu.pdf`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := run(cmd.Context(), opts, args)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), opts, result)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse the files and report without writing")
	cmd.Flags().BoolVar(&opts.useMock, "mock", false, "import into a seeded in-memory database")
	return cmd
}

func run(ctx context.Context, opts options, paths []string) (summary, error) {
	var drafts []recipeDraft
	for _, path := range paths {
		parsed, err := readFile(path)
		if err != nil {
			return summary{}, fmt.Errorf("read %s: %w", path, err)
		}
		applog.Debug(ctx, "import file parsed", "path", path, "recipes", len(parsed))
		drafts = append(drafts, parsed...)
	}

	if opts.dryRun {
		return summary{Created: len(drafts)}, nil
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		return summary{}, fmt.Errorf("load config: %w", err)
	}

	database, err := openDatabase(ctx, cfg, opts.useMock)
	if err != nil {
		return summary{}, fmt.Errorf("open database: %w", err)
	}

	engine, err := openEngine(ctx, database)
	if err != nil {
		return summary{}, err
	}
	return importDrafts(ctx, engine, drafts)
}

// openEngine restores the persisted store and writes every change back.
func openEngine(ctx context.Context, database *gorm.DB) (*recipes.Engine, error) {
	snapshot, err := db.LoadSnapshot(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	s := store.New(store.WithCommitter(db.SnapshotCommitter{DB: database}))
	if err := s.Import(snapshot); err != nil {
		return nil, fmt.Errorf("restore store: %w", err)
	}
	return recipes.NewEngine(s), nil
}

func importDrafts(ctx context.Context, engine *recipes.Engine, drafts []recipeDraft) (summary, error) {
	logger := applog.With("component", "import_recipes")
	var result summary
	for _, draft := range drafts {
		_, err := engine.CreateRecipeWithIngredients(ctx, draft.Recipe, draft.Lines)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, recipes.ErrConflict):
			logger.WarnContext(ctx, "recipe skipped", "name", draft.Recipe.Name, "reason", err)
			result.Skipped++
		default:
			return result, fmt.Errorf("create %q: %w", draft.Recipe.Name, err)
		}
	}
	logger.InfoContext(ctx, "import finished", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func printSummary(w io.Writer, opts options, result summary) error {
	if opts.dryRun {
		_, err := fmt.Fprintf(w, "%d recipes parsed (dry run)\n", result.Created)
		return err
	}
	_, err := fmt.Fprintf(w, "%d recipes imported, %d skipped\n", result.Created, result.Skipped)
	return err
}
