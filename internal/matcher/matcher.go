// Package matcher assembles the conversion pipeline: it wires the registry,
// the HTTP transport and the per-service resolvers together and drives one
// convert-format-write run end to end.
package matcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/internal/resolvers/biothings"
	"github.com/open-prophetdb/ontology-matcher/internal/resolvers/ols4"
	"github.com/open-prophetdb/ontology-matcher/internal/resolvers/oxo"
	"github.com/open-prophetdb/ontology-matcher/internal/transport"
	"github.com/open-prophetdb/ontology-matcher/pkg/converter"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/formatter"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontologies"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Matcher runs conversions for any registered entity kind over one shared
// transport.
type Matcher struct {
	registry *ontologies.Registry
	client   *transport.Client
	logger   *zerolog.Logger
}

// New creates a Matcher.
func New(registry *ontologies.Registry, client *transport.Client) *Matcher {
	return &Matcher{registry: registry, client: client, logger: logging.Default()}
}

// Registry exposes the entity kind configuration.
func (m *Matcher) Registry() *ontologies.Registry { return m.registry }

// Resolver builds the resolver backing one entity kind.
func (m *Matcher) Resolver(entry ontologies.Entry) (converter.Resolver, error) {
	switch entry.Service {
	case ontologies.ServiceMyGene:
		return biothings.NewMyGene(m.client, entry.Ontology), nil
	case ontologies.ServiceMyChem:
		return biothings.NewMyChem(m.client, entry.Ontology), nil
	case ontologies.ServiceMyDisease:
		return biothings.NewMyDisease(m.client, entry.Ontology), nil
	case ontologies.ServiceOXO:
		enricher, err := m.enricher(entry)
		if err != nil {
			return nil, err
		}
		return oxo.New(m.client, entry.Ontology, enricher), nil
	default:
		return nil, errors.NewNotFoundError("resolver service", entry.Service)
	}
}

func (m *Matcher) enricher(entry ontologies.Entry) (oxo.Enricher, error) {
	switch entry.Enricher {
	case "":
		return nil, nil
	case ontologies.ServiceMyDisease:
		return biothings.NewMyDisease(m.client, entry.Ontology), nil
	case ontologies.ServiceOLS4:
		return ols4.New(m.client), nil
	default:
		return nil, errors.NewNotFoundError("enricher service", entry.Enricher)
	}
}

// RunOptions parameterize one conversion run.
type RunOptions struct {
	Kind       string
	InputPath  string
	OutputPath string
	Strategy   ontology.Strategy
	BatchSize  int
	SleepTime  time.Duration
	Enrich     bool
}

// RunResult summarizes one completed run.
type RunResult struct {
	Converted   int
	Failed      int
	Formatted   int
	FailedRows  int
	Reformatted bool
}

// Run executes one conversion end to end: read the input table, convert its
// ids (or reuse an existing snapshot), format, and write the output tables
// plus the snapshot. An existing snapshot for the output path short-circuits
// conversion entirely; two runs never both query for the same output.
func (m *Matcher) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	entry, err := m.registry.Get(opts.Kind)
	if err != nil {
		return nil, err
	}

	rows, err := formatter.ReadTable(opts.InputPath)
	if err != nil {
		return nil, err
	}

	var result *ontology.ConversionResult
	reformatted := false
	if formatter.SnapshotExists(opts.OutputPath) {
		snapshot, err := formatter.LoadSnapshot(formatter.SnapshotPath(opts.OutputPath))
		if err != nil {
			return nil, err
		}
		result = snapshot.ConversionResult
		reformatted = true
		m.logger.Info().
			Str("snapshot", formatter.SnapshotPath(opts.OutputPath)).
			Msg("Reusing existing conversion snapshot")
	} else {
		result, err = m.convert(ctx, entry, rows, opts)
		if err != nil {
			return nil, err
		}
	}

	fmtr := formatter.New(entry.Ontology)
	formatted, failed, err := fmtr.Format(result, rows)
	if err != nil {
		return nil, err
	}

	output := &formatter.Output{
		Result:    result,
		Data:      rows,
		Formatted: formatted,
		Failed:    failed,
		Filepath:  opts.InputPath,
	}
	if err := output.Write(opts.OutputPath); err != nil {
		return nil, err
	}

	return &RunResult{
		Converted:   len(result.ConvertedIDs),
		Failed:      len(result.FailedIDs),
		Formatted:   len(formatted),
		FailedRows:  len(failed),
		Reformatted: reformatted,
	}, nil
}

func (m *Matcher) convert(ctx context.Context, entry ontologies.Entry, rows []formatter.Row, opts RunOptions) (*ontology.ConversionResult, error) {
	resolver, err := m.Resolver(entry)
	if err != nil {
		return nil, err
	}

	options := []converter.Option{
		Strategy(opts.Strategy),
		converter.WithMetadataEnrichment(opts.Enrich),
	}
	if opts.BatchSize > 0 {
		options = append(options, converter.WithBatchSize(opts.BatchSize))
	}
	if opts.SleepTime > 0 {
		options = append(options, converter.WithSleepTime(opts.SleepTime))
	}

	conv, err := converter.New(entry.Ontology, resolver, options...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return conv.Convert(ctx, ids)
}

// Strategy wraps converter.WithStrategy, tolerating the zero value.
func Strategy(s ontology.Strategy) converter.Option {
	if s == "" {
		s = ontology.StrategyMixture
	}
	return converter.WithStrategy(s)
}
