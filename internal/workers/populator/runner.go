// Package populator drives the generate -> enrich -> dedupe -> persist loop
// that fills the market directory for a commodity.
package populator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
	"marketdir/internal/services/dedupe"
)

// Run states, logged as the run progresses. One run is a single logical
// thread of control; batches and candidates are processed sequentially on
// purpose because the per-candidate delay is the upstream throttle.
const (
	stateGenerating = "generating"
	stateEnriching  = "enriching"
	stateDeduping   = "deduping"
	statePersisting = "persisting"
)

// ErrAborted is returned when the circuit breaker trips. The RunResult
// returned alongside still carries the tally accumulated so far.
var ErrAborted = errors.New("run aborted: upstream failure threshold exceeded")

// Enricher resolves one candidate into a persistence-ready record, or nil
// when the candidate cannot be verified.
type Enricher interface {
	Enrich(ctx context.Context, candidate domain.Candidate) (*domain.EnrichedCompany, error)
}

type Runner struct {
	generator   ports.NameGenerator
	enricher    Enricher
	repo        ports.ParticipantRepository
	log         *zap.Logger
	batchSize   int
	maxFailures int
}

func New(generator ports.NameGenerator, enricher Enricher, repo ports.ParticipantRepository, batchSize, maxFailures int, log *zap.Logger) *Runner {
	if batchSize < 1 {
		batchSize = 10
	}
	if maxFailures < 1 {
		maxFailures = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		generator:   generator,
		enricher:    enricher,
		repo:        repo,
		log:         log,
		batchSize:   batchSize,
		maxFailures: maxFailures,
	}
}

// Run populates the directory for a commodity until target new records are
// persisted, the batch budget runs out, or the circuit breaker trips. The
// returned tally is valid in every case, including abort. The runner holds no
// cross-run state: re-running the same commodity is safe because dedup
// recognizes earlier insertions.
func (r *Runner) Run(ctx context.Context, commodity string, target int) (domain.RunResult, error) {
	result := domain.RunResult{Commodity: commodity}

	label, ok := domain.CommodityLabel(commodity)
	if !ok {
		return result, fmt.Errorf("unsupported commodity %q", commodity)
	}
	if target < 1 {
		return result, fmt.Errorf("target count must be positive, got %d", target)
	}

	runID := uuid.NewString()
	log := r.log.With(zap.String("run_id", runID), zap.String("commodity", commodity))
	log.Info("population run started", zap.Int("target", target), zap.Int("batch_size", r.batchSize))

	// Bounded attempts: a generator that keeps failing or returning known
	// names must not loop forever. The slack of maxFailures batches leaves
	// room for the circuit breaker to be the one that trips on bad upstreams.
	maxBatches := 3*((target+r.batchSize-1)/r.batchSize) + r.maxFailures

	failures := 0
	for batch := 1; result.Added < target; batch++ {
		if err := ctx.Err(); err != nil {
			r.finish(log, result)
			return result, err
		}
		if batch > maxBatches {
			log.Warn("batch budget exhausted before reaching target",
				zap.Int("batches", maxBatches), zap.Int("added", result.Added))
			break
		}

		remaining := target - result.Added
		want := r.batchSize
		if remaining < want {
			want = remaining
		}

		log.Debug("state", zap.String("state", stateGenerating), zap.Int("batch", batch))
		candidates, err := r.generator.Generate(ctx, label, want)
		if err != nil {
			// Fatal to this batch attempt only. Candidates are never
			// fabricated from malformed output.
			failures++
			log.Warn("generation failed", zap.Int("batch", batch), zap.Error(err))
			if failures >= r.maxFailures {
				result.Aborted = true
				r.finish(log, result)
				return result, fmt.Errorf("%w: %v", ErrAborted, err)
			}
			continue
		}
		result.Generated += len(candidates)

		// Snapshot is reloaded every batch so this batch sees insertions made
		// by earlier batches of the same run.
		snapshot, err := r.repo.Snapshot(ctx)
		if err != nil {
			result.Aborted = true
			r.finish(log, result)
			return result, fmt.Errorf("load existing participants: %w", err)
		}

		log.Debug("state", zap.String("state", stateEnriching), zap.Int("candidates", len(candidates)))
		enriched := make([]domain.EnrichedCompany, 0, len(candidates))
		for _, candidate := range candidates {
			rec, err := r.enricher.Enrich(ctx, candidate)
			if err != nil {
				failures++
				result.Failed++
				log.Warn("enrichment failed",
					zap.String("candidate", candidate.Name), zap.Error(err))
				if failures >= r.maxFailures {
					result.Aborted = true
					r.finish(log, result)
					return result, fmt.Errorf("%w: %v", ErrAborted, err)
				}
				continue
			}
			if rec == nil {
				result.Failed++
				continue
			}
			enriched = append(enriched, *rec)
		}
		result.Enriched += len(enriched)

		log.Debug("state", zap.String("state", stateDeduping))
		fresh, duplicates := dedupe.Filter(enriched, snapshot)
		result.Duplicates += duplicates

		log.Debug("state", zap.String("state", statePersisting), zap.Int("fresh", len(fresh)))
		for _, rec := range fresh {
			participant := domain.Participant{
				ID:              uuid.NewString(),
				Commodities:     []string{commodity},
				CreatedAt:       time.Now().UTC(),
				EnrichedCompany: rec,
			}
			err := r.repo.Insert(ctx, participant)
			switch {
			case errors.Is(err, ports.ErrDuplicate):
				// A concurrent run beat us to this domain. Benign.
				result.Duplicates++
			case err != nil:
				failures++
				result.Failed++
				log.Warn("insert failed", zap.String("name", rec.Name), zap.Error(err))
				if failures >= r.maxFailures {
					result.Aborted = true
					r.finish(log, result)
					return result, fmt.Errorf("%w: %v", ErrAborted, err)
				}
			default:
				result.Added++
			}
		}

		log.Info("batch complete",
			zap.Int("batch", batch),
			zap.Int("generated", result.Generated),
			zap.Int("enriched", result.Enriched),
			zap.Int("added", result.Added),
			zap.Int("duplicates", result.Duplicates),
			zap.Int("failed", result.Failed))
	}

	r.finish(log, result)
	return result, nil
}

// finish emits the final tally. Always called, completed or aborted, so
// partial progress stays observable from logs alone.
func (r *Runner) finish(log *zap.Logger, result domain.RunResult) {
	log.Info("population run finished",
		zap.Int("generated", result.Generated),
		zap.Int("enriched", result.Enriched),
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("failed", result.Failed),
		zap.Bool("aborted", result.Aborted))
}
