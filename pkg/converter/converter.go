// Package converter drives batched identifier conversion against an
// external namespace-mapping resolver. It validates and groups the caller's
// prefixed identifiers, feeds them to the resolver in submission order,
// applies the declared ambiguity strategy to every candidate set, and
// accumulates ConvertedID/FailedID records without losing positional
// correspondence to the input.
package converter

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
	"github.com/open-prophetdb/ontology-matcher/pkg/ontology"
)

// Converter converts a homogeneous list of prefixed identifiers into a
// ConversionResult. Batches are processed strictly sequentially, never in
// parallel: downstream consumers rely on stable positional indices that are
// only recoverable when batch N completes before batch N+1 begins.
type Converter struct {
	ontology  ontology.OntologyType
	resolver  Resolver
	strategy  ontology.Strategy
	batchSize int
	sleepTime time.Duration
	enrich    bool
	logger    *zerolog.Logger
}

// New creates a Converter for one entity kind backed by the given resolver.
func New(ot ontology.OntologyType, resolver Resolver, opts ...Option) (*Converter, error) {
	c := &Converter{
		ontology:  ot,
		resolver:  resolver,
		strategy:  ontology.StrategyMixture,
		batchSize: constants.DefaultBatchSize,
		sleepTime: constants.DefaultSleepTime,
		enrich:    true,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Strategy returns the configured ambiguity strategy.
func (c *Converter) Strategy() ontology.Strategy { return c.strategy }

// Convert validates, groups and converts rawIDs into a ConversionResult.
// Per-identifier problems become FailedID records; malformed input, an empty
// resolver batch, or retry exhaustion aborts the whole run, because silently
// losing a batch would corrupt positional alignment.
func (c *Converter) Convert(ctx context.Context, rawIDs []string) (*ontology.ConversionResult, error) {
	ids, err := ontology.ValidateIDs(rawIDs, c.ontology)
	if err != nil {
		return nil, err
	}

	result := &ontology.ConversionResult{
		IDs:             identifierStrings(ids),
		Strategy:        c.strategy,
		DefaultDatabase: c.ontology.Default,
		Databases:       c.ontology.Choices,
		DatabaseURL:     c.resolver.URL(),
	}

	total := len(ids)
	for start := 0; start < total; start += c.batchSize {
		end := start + c.batchSize
		if end > total {
			end = total
		}
		if err := c.convertBatch(ctx, ids[start:end], start, result); err != nil {
			return nil, err
		}

		c.logger.Info().
			Str("service", c.resolver.ID()).
			Int("done", end).
			Int("total", total).
			Msg("Finished batch")

		if err := c.pause(ctx); err != nil {
			return nil, err
		}
	}

	if c.enrich {
		if err := c.enrichMetadata(ctx, result.ConvertedIDs); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// convertBatch resolves one batch and classifies every identifier in it.
func (c *Converter) convertBatch(ctx context.Context, batch []ontology.Identifier, offset int, result *ontology.ConversionResult) error {
	matches, err := c.resolver.Lookup(ctx, batch)
	if err != nil {
		return err
	}

	byID := make(map[string]Match, len(matches))
	for _, m := range matches {
		byID[m.Query.String()] = m
	}

	for i, id := range batch {
		idx := offset + i
		raw := id.String()

		// Validation already rejects unknown prefixes, but a resolver fed
		// through the reformat path may carry ids from an older database set.
		if !c.ontology.HasDatabase(id.Database) {
			result.FailedIDs = append(result.FailedIDs, ontology.FailedID{
				Index:  idx,
				ID:     raw,
				Reason: ontology.ReasonInvalidPrefix(c.ontology.Choices),
			})
			continue
		}

		match, found := byID[raw]
		if !found || !hasCandidates(match.Values) {
			result.FailedIDs = append(result.FailedIDs, ontology.FailedID{
				Index:  idx,
				ID:     raw,
				Reason: ontology.ReasonNoResults,
			})
			continue
		}

		if reason := ontology.Resolve(match.Values, c.strategy, c.ontology.Default); reason != "" {
			// Never emit a half-populated ConvertedID: the whole candidate
			// set is discarded along with it.
			result.FailedIDs = append(result.FailedIDs, ontology.FailedID{
				Index:  idx,
				ID:     raw,
				Reason: reason,
			})
			continue
		}

		result.ConvertedIDs = append(result.ConvertedIDs, c.buildConvertedID(idx, id, match))
	}
	return nil
}

// buildConvertedID assembles the per-database value map for one accepted
// identifier. The identifier's own database maps to the raw id; every other
// configured database maps to its candidates, or nil when nothing matched.
func (c *Converter) buildConvertedID(idx int, id ontology.Identifier, match Match) *ontology.ConvertedID {
	databases := make(map[string][]string, len(c.ontology.Choices))
	databases[id.Database] = []string{id.String()}
	for _, db := range c.ontology.Choices {
		if db == id.Database {
			continue
		}
		databases[db] = match.Values[db]
	}

	converted := &ontology.ConvertedID{
		Index:     idx,
		RawID:     id.String(),
		Databases: databases,
	}
	converted.UpdateMetadata(match.Metadata)
	return converted
}

// enrichMetadata groups converted ids by the target database that actually
// holds a usable (singular) value and performs one batched lookup per group.
// Identifiers for which no metadata is found keep an absent metadata field.
func (c *Converter) enrichMetadata(ctx context.Context, converted []*ontology.ConvertedID) error {
	groups := make(map[string][]*ontology.ConvertedID)
	for _, cid := range converted {
		db := c.usableDatabase(cid)
		if db == "" {
			continue
		}
		groups[db] = append(groups[db], cid)
	}

	for _, db := range c.ontology.Choices {
		group := groups[db]
		if len(group) == 0 {
			continue
		}
		c.logger.Debug().
			Str("database", db).
			Int("ids", len(group)).
			Msg("Enriching metadata")
		if err := c.resolver.EnrichMetadata(ctx, group, db); err != nil {
			return err
		}
	}
	return nil
}

// usableDatabase picks the database whose value can key a metadata lookup:
// the default database when it holds exactly one value, otherwise the first
// configured database holding exactly one.
func (c *Converter) usableDatabase(cid *ontology.ConvertedID) string {
	if len(cid.Values(c.ontology.Default)) == 1 {
		return c.ontology.Default
	}
	for _, db := range c.ontology.Choices {
		if len(cid.Values(db)) == 1 {
			return db
		}
	}
	return ""
}

// pause sleeps between batches. This fixed pacing is the only scheduling
// primitive; there is no backpressure signal beyond it and the resolver's
// own retry policy.
func (c *Converter) pause(ctx context.Context) error {
	if c.sleepTime <= 0 {
		return nil
	}
	timer := time.NewTimer(c.sleepTime)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func identifierStrings(ids []ontology.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func hasCandidates(values map[string][]string) bool {
	for _, v := range values {
		if len(v) > 0 {
			return true
		}
	}
	return false
}
