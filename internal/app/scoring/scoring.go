// Package scoring implements the trust score formula and rank tiers.
// The trust score is a 0-100 reputation number derived from a worker's
// completed-job count and average requester rating:
//
//	questPoints = min(completed, 50)
//	evalPoints  = min(avgRating * 10, 50)
//	trustScore  = floor(questPoints + evalPoints), capped at 100
package scoring

import (
	"math"

	"github.com/digital-guild/guild/internal/domain"
)

// MaxQuestPoints caps the completed-job contribution.
const MaxQuestPoints = 50

// MaxEvalPoints caps the rating contribution.
const MaxEvalPoints = 50

// TrustScore computes a worker's trust score from their full engagement
// history. The input need not be pre-filtered; only completed records
// count, and only present (1-5) ratings enter the average. Empty input
// yields 0. The result is always in [0, 100].
func TrustScore(history []domain.UndertakenJob) int {
	completed := 0
	ratingSum := 0
	ratingCount := 0

	for _, u := range history {
		if u.Status != domain.StatusCompleted {
			continue
		}
		completed++
		if u.Rated() {
			ratingSum += u.RequesterEvalScore
			ratingCount++
		}
	}

	questPoints := float64(completed)
	if questPoints > MaxQuestPoints {
		questPoints = MaxQuestPoints
	}

	avgEval := 0.0
	if ratingCount > 0 {
		avgEval = float64(ratingSum) / float64(ratingCount)
	}
	evalPoints := avgEval * 10
	if evalPoints > MaxEvalPoints {
		evalPoints = MaxEvalPoints
	}

	score := int(math.Floor(questPoints + evalPoints))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// RankForTrustScore maps a worker's trust score to a tier. Thresholds are
// strictly-greater-than: 80 exactly is Gold, not Platinum.
func RankForTrustScore(score int) domain.Rank {
	switch {
	case score > 80:
		return domain.RankPlatinum
	case score > 70:
		return domain.RankGold
	case score > 60:
		return domain.RankSilver
	default:
		return domain.RankBronze
	}
}

// RankForConfidence maps a 0-100 match-quality score (a 0-1 recommendation
// confidence times 100) to a tier. Thresholds are greater-or-equal: 90
// exactly is Platinum. This scale is independent of RankForTrustScore and
// the two must not be interchanged — boundary values differ.
func RankForConfidence(score float64) domain.Rank {
	switch {
	case score >= 90:
		return domain.RankPlatinum
	case score >= 80:
		return domain.RankGold
	case score >= 70:
		return domain.RankSilver
	default:
		return domain.RankBronze
	}
}
