package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/open-prophetdb/ontology-matcher/internal/matcher"
	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/dedup"
	"github.com/open-prophetdb/ontology-matcher/pkg/formatter"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ontology-matcher",
		Short: "Convert biomedical identifiers to canonical databases and deduplicate entities",
		Long: `ontology-matcher normalizes biomedical entity identifiers (diseases, genes,
compounds, symptoms, metabolites) onto one canonical database per entity
kind, and collapses duplicate entity records across runs.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", a.version, a.commit, a.date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&a.config.Verbose, "verbose", a.config.Verbose, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.config.Quiet, "quiet", a.config.Quiet, "only log errors")

	root.AddCommand(
		a.newOntologyCommand(),
		a.newDedupCommand(),
		a.newIDTypesCommand(),
		a.newTemplateCommand(),
	)
	return root
}

// newOntologyCommand builds the conversion command.
func (a *App) newOntologyCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		kind       string
		strategy   string
		batchSize  int
		sleepSecs  int
		noEnrich   bool
	)

	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Convert a table of prefixed identifiers to the canonical database",
		Long: `Reads a TSV/CSV entity table, converts its id column onto the entity
kind's canonical database, and writes the formatted table, a sibling
*.failed.tsv with per-row failure reasons, and a conversion snapshot. When a
snapshot already exists for the output path, it is reformatted instead of
re-querying the external services.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := ontology.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			result, err := a.matcher.Run(cmd.Context(), matcher.RunOptions{
				Kind:       kind,
				InputPath:  inputPath,
				OutputPath: outputPath,
				Strategy:   parsed,
				BatchSize:  batchSize,
				SleepTime:  time.Duration(sleepSecs) * time.Second,
				Enrich:     !noEnrich,
			})
			if err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"", "Count"})
			t.AppendRows([]table.Row{
				{"Converted ids", result.Converted},
				{"Failed ids", result.Failed},
				{"Formatted rows", result.Formatted},
				{"Failed rows", result.FailedRows},
			})
			t.Render()
			if result.Reformatted {
				fmt.Fprintln(cmd.OutOrStdout(), "Reformatted from existing snapshot:", formatter.SnapshotPath(outputPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input entity table (.tsv or .csv)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for the formatted table")
	cmd.Flags().StringVarP(&kind, "ontology-type", "O", "", "entity kind (see the idtypes command)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(ontology.StrategyMixture), "ambiguity strategy: Unique or Mixture")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", constants.DefaultBatchSize, "identifiers per service call")
	cmd.Flags().IntVar(&sleepSecs, "sleep-time", int(constants.DefaultSleepTime/time.Second), "seconds to pause between batches")
	cmd.Flags().BoolVar(&noEnrich, "disable-enrichment", false, "skip the metadata enrichment pass")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("ontology-type")
	return cmd
}

// newDedupCommand builds the deduplication command.
func (a *App) newDedupCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Collapse duplicate entities in a formatted table",
		Long: `Reads a formatted entity table, merges rows carrying non-canonical
identifiers into the canonical rows they cross-reference, and writes the
merged table plus sibling *.remaining.tsv and *.aggregated.tsv tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := formatter.ReadTable(inputPath)
			if err != nil {
				return err
			}

			engine := dedup.New(a.matcher.Registry().DefaultDatabases())
			result := engine.Dedup(rows)

			if err := formatter.WriteTable(outputPath, result.Full, false); err != nil {
				return err
			}
			if err := formatter.WriteTable(siblingPath(outputPath, ".remaining.tsv"), result.Remaining, false); err != nil {
				return err
			}
			if err := formatter.WriteTable(siblingPath(outputPath, ".aggregated.tsv"), result.Aggregated, false); err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"", "Rows"})
			t.AppendRows([]table.Row{
				{"Input", len(rows)},
				{"Merged table", len(result.Full)},
				{"Remaining (unmerged)", len(result.Remaining)},
				{"Aggregated", len(result.Aggregated)},
			})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "formatted entity table")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for the merged table")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// newIDTypesCommand lists the supported entity kinds and their databases.
func (a *App) newIDTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "idtypes",
		Short: "List supported entity kinds and their identifier databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable(cmd)
			t.AppendHeader(table.Row{"Kind", "Default", "Databases"})
			for _, kind := range a.matcher.Registry().Kinds() {
				entry, err := a.matcher.Registry().Get(kind)
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{
					entry.Ontology.Kind,
					entry.Ontology.Default,
					strings.Join(entry.Ontology.Choices, ", "),
				})
			}
			t.Render()
			return nil
		},
	}
}

// newTemplateCommand writes an empty input table with the expected header.
func (a *App) newTemplateCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a template input table",
		Long: `Writes an empty table carrying the required and optional input columns.
Fill the id column with prefixed identifiers (for example DOID:7402) and the
label column with the entity kind before running the ontology command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := formatter.WriteTable(outputPath, nil, false); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote template to", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (.tsv or .csv)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func siblingPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
