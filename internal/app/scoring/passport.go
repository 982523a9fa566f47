package scoring

import (
	"fmt"
	"strconv"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/metrics"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// PassportService recomputes and persists trust passports. The passport is
// derived state: the engagement history is the source of truth and the
// stored score is only a snapshot of the formula over it.
type PassportService struct {
	undertaken *repo.UndertakenJobs
	passports  *repo.TrustPassports
}

// NewPassportService creates a passport service.
func NewPassportService(undertaken *repo.UndertakenJobs, passports *repo.TrustPassports) *PassportService {
	return &PassportService{undertaken: undertaken, passports: passports}
}

// Recompute recalculates the worker's trust score from their engagement
// history and writes it to their passport, creating one if needed.
func (s *PassportService) Recompute(workerID int64) (domain.TrustPassport, error) {
	history, err := s.undertaken.ByWorker(workerID)
	if err != nil {
		return domain.TrustPassport{}, fmt.Errorf("load history for worker %d: %w", workerID, err)
	}

	score := TrustScore(history)
	passport, err := s.passports.UpsertScore(workerID, score)
	if err != nil {
		return domain.TrustPassport{}, fmt.Errorf("save passport for worker %d: %w", workerID, err)
	}
	metrics.TrustScoreGauge.WithLabelValues(strconv.FormatInt(workerID, 10)).Set(float64(score))
	return passport, nil
}

// Lookup returns the worker's stored passport and its rank tier.
func (s *PassportService) Lookup(workerID int64) (domain.TrustPassport, domain.Rank, error) {
	passport, err := s.passports.ByWorker(workerID)
	if err != nil {
		return domain.TrustPassport{}, "", err
	}
	return passport, RankForTrustScore(passport.TrustScore), nil
}
