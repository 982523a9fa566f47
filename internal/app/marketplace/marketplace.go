// Package marketplace handles job posting. Posting is where the AI
// incentive is computed from the requester's subsidy balance and frozen
// into the job record — it is never recomputed on read.
package marketplace

import (
	"fmt"

	"github.com/digital-guild/guild/internal/app/incentive"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/metrics"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// Service posts and amends jobs.
type Service struct {
	jobs       *repo.Jobs
	requesters *repo.Requesters
	incentives *incentive.Service
}

// NewService creates a marketplace service.
func NewService(jobs *repo.Jobs, requesters *repo.Requesters, incentives *incentive.Service) *Service {
	return &Service{jobs: jobs, requesters: requesters, incentives: incentives}
}

// PostJob validates the requester, computes the frozen incentive and
// persists the job.
func (s *Service) PostJob(job domain.Job) (domain.Job, error) {
	if job.Reward < 0 {
		return domain.Job{}, fmt.Errorf("job reward must be non-negative, got %d", job.Reward)
	}
	if _, err := s.requesters.GetByID(job.RequesterID); err != nil {
		return domain.Job{}, err
	}

	bonus, err := s.incentives.ForJob(job.RequesterID, job.Reward)
	if err != nil {
		return domain.Job{}, fmt.Errorf("compute incentive: %w", err)
	}
	job.AIIncentiveReward = bonus

	created, err := s.jobs.Create(job)
	if err != nil {
		return domain.Job{}, err
	}
	metrics.IncentivesAwarded.Add(float64(bonus))
	return created, nil
}
