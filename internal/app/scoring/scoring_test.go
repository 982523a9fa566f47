package scoring_test

import (
	"testing"

	"github.com/digital-guild/guild/internal/app/scoring"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/store"
)

// completedJobs builds n completed records carrying the given ratings.
// Ratings beyond n are ignored; records past the ratings stay unrated.
func completedJobs(n int, ratings ...int) []domain.UndertakenJob {
	jobs := make([]domain.UndertakenJob, n)
	for i := range jobs {
		jobs[i] = domain.UndertakenJob{Status: domain.StatusCompleted}
		if i < len(ratings) {
			jobs[i].RequesterEvalScore = ratings[i]
		}
	}
	return jobs
}

func TestTrustScore_EmptyHistory(t *testing.T) {
	if got := scoring.TrustScore(nil); got != 0 {
		t.Errorf("empty history: got %d, want 0", got)
	}
}

func TestTrustScore_IgnoresNonCompleted(t *testing.T) {
	history := []domain.UndertakenJob{
		{Status: domain.StatusApplied},
		{Status: domain.StatusInProgress},
		{Status: domain.StatusCanceled},
		{Status: domain.StatusCompletionReported},
	}
	if got := scoring.TrustScore(history); got != 0 {
		t.Errorf("no completed jobs: got %d, want 0", got)
	}
}

func TestTrustScore_UnratedCompletionsCountQuestPointsOnly(t *testing.T) {
	history := completedJobs(10)
	if got := scoring.TrustScore(history); got != 10 {
		t.Errorf("10 unrated completions: got %d, want 10", got)
	}
}

func TestTrustScore_MaxedOut(t *testing.T) {
	// 50+ completions all rated 5 saturate both halves.
	ratings := make([]int, 60)
	for i := range ratings {
		ratings[i] = 5
	}
	history := completedJobs(60, ratings...)
	if got := scoring.TrustScore(history); got != 100 {
		t.Errorf("saturated history: got %d, want 100", got)
	}
}

func TestTrustScore_WorkedExample(t *testing.T) {
	// 10 completed, ratings avg 4.3: quest 10 + eval floor(43) = 53.
	history := completedJobs(10, 5, 5, 5, 4, 4, 4, 3, 3, 5, 5)
	got := scoring.TrustScore(history)
	if got != 53 {
		t.Errorf("worked example: got %d, want 53", got)
	}
	if rank := scoring.RankForTrustScore(got); rank != domain.RankBronze {
		t.Errorf("score 53 rank: got %s, want bronze", rank)
	}
}

func TestTrustScore_AdversarialRatings(t *testing.T) {
	// Out-of-range ratings are treated as absent, never pushing the
	// score outside [0,100].
	history := []domain.UndertakenJob{
		{Status: domain.StatusCompleted, RequesterEvalScore: -3},
		{Status: domain.StatusCompleted, RequesterEvalScore: 99},
		{Status: domain.StatusCompleted},
	}
	got := scoring.TrustScore(history)
	if got != 3 {
		t.Errorf("adversarial ratings: got %d, want 3 (quest points only)", got)
	}
}

func TestTrustScore_AlwaysInRange(t *testing.T) {
	cases := [][]domain.UndertakenJob{
		nil,
		completedJobs(1000),
		completedJobs(7, 1, 1, 1, 1, 1, 1, 1),
		completedJobs(200, 5, 5, 5),
	}
	for i, history := range cases {
		got := scoring.TrustScore(history)
		if got < 0 || got > 100 {
			t.Errorf("case %d: score %d out of [0,100]", i, got)
		}
	}
}

func TestTrustScore_MonotoneInCompletions(t *testing.T) {
	prev := -1
	for n := 0; n <= 60; n += 5 {
		got := scoring.TrustScore(completedJobs(n))
		if got < prev {
			t.Fatalf("score decreased at %d completions: %d -> %d", n, prev, got)
		}
		prev = got
	}
}

func TestTrustScore_MonotoneInAverageRating(t *testing.T) {
	prev := -1
	for rating := 1; rating <= 5; rating++ {
		got := scoring.TrustScore(completedJobs(5, rating, rating, rating, rating, rating))
		if got < prev {
			t.Fatalf("score decreased at rating %d: %d -> %d", rating, prev, got)
		}
		prev = got
	}
}

func TestRankForTrustScore_StrictThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  domain.Rank
	}{
		{0, domain.RankBronze},
		{60, domain.RankBronze}, // boundary: 60 is NOT silver
		{61, domain.RankSilver},
		{70, domain.RankSilver}, // boundary: 70 is NOT gold
		{71, domain.RankGold},
		{80, domain.RankGold}, // boundary: 80 is NOT platinum
		{81, domain.RankPlatinum},
		{100, domain.RankPlatinum},
	}
	for _, tc := range cases {
		if got := scoring.RankForTrustScore(tc.score); got != tc.want {
			t.Errorf("trust score %d: got %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestRankForConfidence_InclusiveThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.Rank
	}{
		{0, domain.RankBronze},
		{69.9, domain.RankBronze},
		{70, domain.RankSilver}, // boundary: 70 IS silver on this scale
		{80, domain.RankGold},   // boundary: 80 IS gold
		{89.9, domain.RankGold},
		{90, domain.RankPlatinum}, // boundary: 90 IS platinum
		{100, domain.RankPlatinum},
	}
	for _, tc := range cases {
		if got := scoring.RankForConfidence(tc.score); got != tc.want {
			t.Errorf("confidence score %v: got %s, want %s", tc.score, got, tc.want)
		}
	}
}

// The two rank scales disagree between thresholds; unifying them would
// silently change behavior there.
func TestRankScales_NotInterchangeable(t *testing.T) {
	cases := []float64{65, 75, 85}
	for _, score := range cases {
		trust := scoring.RankForTrustScore(int(score))
		conf := scoring.RankForConfidence(score)
		if trust == conf {
			t.Errorf("score %v: scales unexpectedly agree on %s", score, trust)
		}
	}
}

// ─── PassportService ────────────────────────────────────────────────────────

func testRepos(t *testing.T) *repo.Registry {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return repo.NewRegistry(s)
}

func TestPassport_RecomputeCreatesAndUpdates(t *testing.T) {
	repos := testRepos(t)
	svc := scoring.NewPassportService(repos.UndertakenJobs, repos.TrustPassports)

	worker, err := repos.Workers.Create(domain.Worker{Name: "test"})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}

	p, err := svc.Recompute(worker.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if p.TrustScore != 0 {
		t.Errorf("empty history score: got %d, want 0", p.TrustScore)
	}

	for i := 0; i < 3; i++ {
		_, err := repos.UndertakenJobs.Create(domain.UndertakenJob{
			WorkerID:           worker.ID,
			JobID:              1,
			Status:             domain.StatusCompleted,
			RequesterEvalScore: 5,
		})
		if err != nil {
			t.Fatalf("create undertaken: %v", err)
		}
	}

	p2, err := svc.Recompute(worker.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// quest 3 + eval 50
	if p2.TrustScore != 53 {
		t.Errorf("recomputed score: got %d, want 53", p2.TrustScore)
	}
	if p2.ID != p.ID {
		t.Errorf("recompute created a second passport: %d vs %d", p2.ID, p.ID)
	}
}
