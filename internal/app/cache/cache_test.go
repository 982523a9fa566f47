package cache_test

import (
	"errors"
	"testing"

	"github.com/digital-guild/guild/internal/app/cache"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/store"
)

func newSession(t *testing.T) (*cache.Session, *repo.Registry) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	repos := repo.NewRegistry(s)
	return cache.NewSession(repos), repos
}

func TestMirror_LoadsOnceUntilInvalidated(t *testing.T) {
	calls := 0
	m := cache.NewMirror(func() ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	})

	for i := 0; i < 3; i++ {
		items, err := m.All()
		if err != nil {
			t.Fatalf("all: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("items: got %d, want 3", len(items))
		}
	}
	if calls != 1 {
		t.Errorf("list calls before invalidate: got %d, want 1", calls)
	}

	m.Invalidate()
	if _, err := m.All(); err != nil {
		t.Fatalf("all after invalidate: %v", err)
	}
	if calls != 2 {
		t.Errorf("list calls after invalidate: got %d, want 2", calls)
	}
}

func TestMirror_PropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	m := cache.NewMirror(func() ([]int, error) { return nil, boom })
	if _, err := m.All(); !errors.Is(err, boom) {
		t.Errorf("got %v, want load error", err)
	}
}

func TestSession_CreateJobWritesThrough(t *testing.T) {
	session, repos := newSession(t)

	created, err := session.CreateJob(domain.Job{Title: "roof repair", RequesterID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The mirror sees the new job without an explicit refresh.
	jobs, err := session.Jobs.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != created.ID {
		t.Errorf("mirrored jobs: %+v", jobs)
	}

	// And so does the repository.
	if _, err := repos.Jobs.GetByID(created.ID); err != nil {
		t.Errorf("repository lookup: %v", err)
	}
}

func TestSession_StaleUntilInvalidated(t *testing.T) {
	session, repos := newSession(t)

	if _, err := session.Jobs.All(); err != nil {
		t.Fatalf("prime mirror: %v", err)
	}
	// Write behind the mirror's back.
	if _, err := repos.Jobs.Create(domain.Job{Title: "direct write"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	jobs, err := session.Jobs.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("mirror must serve the cached copy, got %d jobs", len(jobs))
	}

	session.InvalidateAll()
	jobs, err = session.Jobs.All()
	if err != nil {
		t.Fatalf("all after invalidate: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("reloaded mirror: got %d jobs, want 1", len(jobs))
	}
}

func TestSession_DerivedGetters(t *testing.T) {
	session, repos := newSession(t)

	for _, j := range []domain.Job{
		{Title: "a", RequesterID: 1},
		{Title: "b", RequesterID: 2},
		{Title: "c", RequesterID: 1},
	} {
		if _, err := repos.Jobs.Create(j); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}
	if _, err := repos.UndertakenJobs.Create(domain.UndertakenJob{WorkerID: 5, JobID: 1, Status: domain.StatusApplied}); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	if _, err := repos.TrustPassports.Create(domain.TrustPassport{WorkerID: 5, TrustScore: 61}); err != nil {
		t.Fatalf("create passport: %v", err)
	}

	byReq, err := session.JobsByRequester(1)
	if err != nil {
		t.Fatalf("jobs by requester: %v", err)
	}
	if len(byReq) != 2 {
		t.Errorf("requester 1 jobs: got %d, want 2", len(byReq))
	}

	engagements, err := session.UndertakenByJobID(1)
	if err != nil {
		t.Fatalf("undertaken by job: %v", err)
	}
	if len(engagements) != 1 || engagements[0].WorkerID != 5 {
		t.Errorf("job 1 engagements: %+v", engagements)
	}

	passport, ok, err := session.PassportByWorker(5)
	if err != nil {
		t.Fatalf("passport: %v", err)
	}
	if !ok || passport.TrustScore != 61 {
		t.Errorf("passport for worker 5: ok=%v %+v", ok, passport)
	}
	if _, ok, _ := session.PassportByWorker(99); ok {
		t.Error("unknown worker must have no passport")
	}
}
