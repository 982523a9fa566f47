package recommend

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/metrics"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// DefaultThreshold is the minimum confidence a match must reach to be
// persisted.
const DefaultThreshold = 0.7

// Service runs recommendation batches for a job against the candidate
// worker pool.
type Service struct {
	jobs            *repo.Jobs
	workers         *repo.Workers
	workerSkills    *repo.WorkerSkills
	recommendations *repo.Recommendations
	generator       Generator
	threshold       float64
}

// NewService creates a recommendation service. A non-positive threshold
// falls back to DefaultThreshold.
func NewService(
	jobs *repo.Jobs,
	workers *repo.Workers,
	workerSkills *repo.WorkerSkills,
	recommendations *repo.Recommendations,
	g Generator,
	threshold float64,
) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		jobs:            jobs,
		workers:         workers,
		workerSkills:    workerSkills,
		recommendations: recommendations,
		generator:       g,
		threshold:       threshold,
	}
}

// ForJob scores every candidate worker against the job, keeps matches at
// or above the confidence threshold, and persists them with a shared batch
// identifier. Workers are processed sequentially in stored order; one
// worker's generation failure is logged and skipped, never aborting the
// batch. Only job lookup and storage failures propagate.
func (s *Service) ForJob(ctx context.Context, jobID int64) ([]domain.Recommendation, error) {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.workers.List()
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	batchID := "rec-" + uuid.New().String()[:8]
	var kept []domain.Recommendation

	for _, worker := range candidates {
		skillNames, err := s.workerSkills.NamesByWorker(worker.ID)
		if err != nil {
			return nil, fmt.Errorf("load skills for worker %d: %w", worker.ID, err)
		}

		match, err := Score(ctx, s.generator, job, worker, skillNames)
		if err != nil {
			log.Printf("[recommend] batch %s: worker %d skipped: %v", batchID, worker.ID, err)
			metrics.RecommendationsSkipped.Inc()
			continue
		}

		if match.Confidence < s.threshold {
			metrics.RecommendationsBelowThreshold.Inc()
			continue
		}

		rec, err := s.recommendations.Create(domain.Recommendation{
			BatchID:    batchID,
			JobID:      job.ID,
			WorkerID:   worker.ID,
			Confidence: match.Confidence,
			Reason:     match.Reason,
		})
		if err != nil {
			return nil, fmt.Errorf("save recommendation for worker %d: %w", worker.ID, err)
		}
		metrics.RecommendationsKept.Inc()
		kept = append(kept, rec)
	}

	return kept, nil
}

// Threshold returns the configured confidence threshold.
func (s *Service) Threshold() float64 { return s.threshold }
