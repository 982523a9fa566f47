package marketplace_test

import (
	"errors"
	"testing"
	"time"

	"github.com/digital-guild/guild/internal/app/incentive"
	"github.com/digital-guild/guild/internal/app/marketplace"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/store"
)

func newMarket(t *testing.T) (*marketplace.Service, *repo.Registry) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	repos := repo.NewRegistry(s)
	return marketplace.NewService(repos.Jobs, repos.Requesters, incentive.NewService(repos.Subsidies)), repos
}

func TestPostJob_FreezesIncentive(t *testing.T) {
	market, repos := newMarket(t)

	rq, err := repos.Requesters.Create(domain.Requester{Name: "Machiya Guesthouse"})
	if err != nil {
		t.Fatalf("create requester: %v", err)
	}
	_, err = repos.Subsidies.Create(domain.Subsidy{
		RequesterID: rq.ID, Amount: 1_200_000, GrantedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create subsidy: %v", err)
	}

	job, err := market.PostJob(domain.Job{RequesterID: rq.ID, Title: "delivery run", Reward: 20_000})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if job.AIIncentiveReward != 6_000 {
		t.Errorf("incentive: got %d, want 6000", job.AIIncentiveReward)
	}

	// The incentive is frozen at posting time: a later subsidy change
	// must not affect the stored job.
	_, err = repos.Subsidies.Create(domain.Subsidy{
		RequesterID: rq.ID, Amount: 10_000_000, GrantedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("extra subsidy: %v", err)
	}
	stored, err := repos.Jobs.GetByID(job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.AIIncentiveReward != 6_000 {
		t.Errorf("frozen incentive changed: got %d", stored.AIIncentiveReward)
	}
}

func TestPostJob_NoSubsidyMeansNoIncentive(t *testing.T) {
	market, repos := newMarket(t)
	rq, err := repos.Requesters.Create(domain.Requester{Name: "Midori Farms"})
	if err != nil {
		t.Fatalf("create requester: %v", err)
	}
	job, err := market.PostJob(domain.Job{RequesterID: rq.ID, Title: "weeding", Reward: 5_000})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if job.AIIncentiveReward != 0 {
		t.Errorf("incentive without subsidy: got %d, want 0", job.AIIncentiveReward)
	}
}

func TestPostJob_UnknownRequester(t *testing.T) {
	market, _ := newMarket(t)
	_, err := market.PostJob(domain.Job{RequesterID: 42, Title: "ghost job", Reward: 1_000})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPostJob_NegativeReward(t *testing.T) {
	market, _ := newMarket(t)
	if _, err := market.PostJob(domain.Job{RequesterID: 1, Title: "bad", Reward: -1}); err == nil {
		t.Error("negative reward must be rejected")
	}
}
