// Package incentive computes the AI incentive reward added on top of a
// job's base reward, funded by the requester's subsidy balance. The amount
// is computed once at job creation and frozen into the job record.
package incentive

import (
	"fmt"
	"math"

	"github.com/digital-guild/guild/internal/infra/repo"
)

// IncentiveRate is the fraction of the subsidy balance granted per job
// (0.5%). CapRatio bounds the incentive at half the job's base reward.
const (
	IncentiveRate = 0.005
	CapRatio      = 0.5
)

// Amount computes the incentive for one job. A non-positive subsidy
// balance or base reward yields 0; otherwise the result is
// floor(min(balance*IncentiveRate, reward*CapRatio)). The result is
// always a non-negative integer currency amount.
func Amount(subsidyBalance, jobReward int64) int64 {
	if subsidyBalance <= 0 || jobReward <= 0 {
		return 0
	}
	bonus := float64(subsidyBalance) * IncentiveRate
	limit := float64(jobReward) * CapRatio
	return int64(math.Floor(math.Min(bonus, limit)))
}

// Service answers subsidy-balance and incentive queries over the store.
type Service struct {
	subsidies *repo.Subsidies
}

// NewService creates an incentive service.
func NewService(subsidies *repo.Subsidies) *Service {
	return &Service{subsidies: subsidies}
}

// Balance returns the requester's subsidy balance: the sum of all grants.
func (s *Service) Balance(requesterID int64) (int64, error) {
	grants, err := s.subsidies.ByRequester(requesterID)
	if err != nil {
		return 0, fmt.Errorf("load subsidies for requester %d: %w", requesterID, err)
	}
	var total int64
	for _, g := range grants {
		total += g.Amount
	}
	return total, nil
}

// ForJob computes the frozen incentive for a new job posted by the
// requester with the given base reward.
func (s *Service) ForJob(requesterID, jobReward int64) (int64, error) {
	balance, err := s.Balance(requesterID)
	if err != nil {
		return 0, err
	}
	return Amount(balance, jobReward), nil
}
