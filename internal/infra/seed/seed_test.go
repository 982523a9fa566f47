package seed_test

import (
	"testing"

	"github.com/digital-guild/guild/internal/app/incentive"
	"github.com/digital-guild/guild/internal/app/marketplace"
	"github.com/digital-guild/guild/internal/app/wallet"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/seed"
	"github.com/digital-guild/guild/internal/infra/store"
)

func seedFixture(t *testing.T) (*store.Store, *repo.Registry, *wallet.Service, *marketplace.Service) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	repos := repo.NewRegistry(s)
	w := wallet.NewService(repos.Transactions)
	market := marketplace.NewService(repos.Jobs, repos.Requesters, incentive.NewService(repos.Subsidies))
	return s, repos, w, market
}

func TestLoad_PopulatesDemoData(t *testing.T) {
	s, repos, w, market := seedFixture(t)

	ran, err := seed.Load(s, repos, w, market)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ran {
		t.Fatal("first load must run")
	}

	workers, err := repos.Workers.List()
	if err != nil {
		t.Fatalf("workers: %v", err)
	}
	if len(workers) != 3 {
		t.Errorf("workers: got %d, want 3", len(workers))
	}

	jobs, err := repos.Jobs.List()
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs: got %d, want 2", len(jobs))
	}
	// Seed subsidies are 1.2M per requester, so the raw bonus is 6000 for
	// both jobs. The 12k job also sits exactly at the half-reward cap.
	for _, j := range jobs {
		if j.AIIncentiveReward != 6_000 {
			t.Errorf("job %q incentive: got %d, want 6000", j.Title, j.AIIncentiveReward)
		}
	}

	// Every worker gets an empty passport.
	for _, wk := range workers {
		p, err := repos.TrustPassports.ByWorker(wk.ID)
		if err != nil {
			t.Errorf("passport for %q: %v", wk.Name, err)
			continue
		}
		if p.TrustScore != 0 {
			t.Errorf("seed passport for %q: score %d, want 0", wk.Name, p.TrustScore)
		}
	}

	// Requester wallets are funded.
	bal, err := w.Balance(wallet.RequesterAccount(1))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != 2_000_000 {
		t.Errorf("requester 1 balance: got %d, want 2000000", bal)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	s, repos, w, market := seedFixture(t)

	if _, err := seed.Load(s, repos, w, market); err != nil {
		t.Fatalf("first load: %v", err)
	}
	ran, err := seed.Load(s, repos, w, market)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if ran {
		t.Error("second load must be a no-op")
	}

	workers, err := repos.Workers.List()
	if err != nil {
		t.Fatalf("workers: %v", err)
	}
	if len(workers) != 3 {
		t.Errorf("workers after double load: got %d, want 3", len(workers))
	}
}

func TestLoaded_Sentinel(t *testing.T) {
	s, repos, w, market := seedFixture(t)

	done, err := seed.Loaded(s)
	if err != nil {
		t.Fatalf("loaded: %v", err)
	}
	if done {
		t.Error("fresh store must not report seeded")
	}

	if _, err := seed.Load(s, repos, w, market); err != nil {
		t.Fatalf("load: %v", err)
	}
	done, err = seed.Loaded(s)
	if err != nil {
		t.Fatalf("loaded: %v", err)
	}
	if !done {
		t.Error("seeded store must report the sentinel")
	}
}
