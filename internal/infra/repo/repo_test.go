package repo_test

import (
	"errors"
	"testing"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/store"
)

func testRegistry(t *testing.T) *repo.Registry {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return repo.NewRegistry(s)
}

func TestCreate_AssignsSystemFields(t *testing.T) {
	repos := testRegistry(t)

	created, err := repos.Jobs.Create(domain.Job{Title: "fence painting", Reward: 8000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("first id: got %d, want 1", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped")
	}

	got, err := repos.Jobs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != created.Title || got.Reward != created.Reward || got.ID != created.ID {
		t.Errorf("get after create: got %+v, want %+v", got, created)
	}
}

func TestCreate_IDIsMaxPlusOne(t *testing.T) {
	repos := testRegistry(t)

	for i := 0; i < 3; i++ {
		if _, err := repos.Jobs.Create(domain.Job{Title: "job"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// Deleting the middle record must not cause id reuse of the max.
	if err := repos.Jobs.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	next, err := repos.Jobs.Create(domain.Job{Title: "job"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if next.ID != 4 {
		t.Errorf("id after delete: got %d, want 4 (max+1)", next.ID)
	}
}

func TestGetByID_Missing(t *testing.T) {
	repos := testRegistry(t)
	_, err := repos.Jobs.GetByID(99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	repos := testRegistry(t)
	created, err := repos.Jobs.Create(domain.Job{
		Title:       "fence painting",
		Description: "Paint the fence.",
		Reward:      8000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newReward := int64(9000)
	updated, err := repos.Jobs.Update(created.ID, repo.JobUpdate{Reward: &newReward})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Reward != 9000 {
		t.Errorf("reward: got %d, want 9000", updated.Reward)
	}
	if updated.Title != "fence painting" || updated.Description != "Paint the fence." {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.ID != created.ID || updated.CreatedAt != created.CreatedAt {
		t.Error("system fields must survive updates")
	}
	// Equal timestamps are possible on a coarse clock; only a backwards
	// move is a failure.
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("update timestamp moved backwards")
	}
}

func TestUpdate_Missing(t *testing.T) {
	repos := testRegistry(t)
	title := "x"
	_, err := repos.Jobs.Update(7, repo.JobUpdate{Title: &title})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDelete_StrictPolicy(t *testing.T) {
	repos := testRegistry(t)
	created, err := repos.Jobs.Create(domain.Job{Title: "one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repos.Jobs.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	all, err := repos.Jobs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, j := range all {
		if j.ID == created.ID {
			t.Error("deleted id still listed")
		}
	}
	if _, err := repos.Jobs.GetByID(created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get deleted: got %v, want ErrNotFound", err)
	}
	// Second delete fails under the strict policy.
	if err := repos.Jobs.Delete(created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestDelete_IdempotentPolicy(t *testing.T) {
	repos := testRegistry(t)
	created, err := repos.BookmarkJobs.Create(domain.BookmarkJob{WorkerID: 1, JobID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repos.BookmarkJobs.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Bookmarks are idempotent: deleting again silently no-ops.
	if err := repos.BookmarkJobs.Delete(created.ID); err != nil {
		t.Errorf("idempotent double delete: %v", err)
	}
	if err := repos.BookmarkJobs.Delete(9999); err != nil {
		t.Errorf("idempotent delete of never-existing id: %v", err)
	}
}

func TestList_EmptyCollection(t *testing.T) {
	repos := testRegistry(t)
	all, err := repos.Workers.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("empty collection: got %d records", len(all))
	}
}

func TestTrustPassports_UpsertScore(t *testing.T) {
	repos := testRegistry(t)

	p1, err := repos.TrustPassports.UpsertScore(7, 42)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p1.TrustScore != 42 || p1.WorkerID != 7 {
		t.Errorf("first upsert: %+v", p1)
	}

	p2, err := repos.TrustPassports.UpsertScore(7, 55)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if p2.ID != p1.ID {
		t.Errorf("upsert created duplicate passport: %d vs %d", p2.ID, p1.ID)
	}
	if p2.TrustScore != 55 {
		t.Errorf("score: got %d, want 55", p2.TrustScore)
	}

	all, err := repos.TrustPassports.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("passport count: got %d, want 1", len(all))
	}
}

func TestWorkerSkills_NamesByWorker(t *testing.T) {
	repos := testRegistry(t)
	for _, name := range []string{"delivery", "gardening"} {
		_, err := repos.WorkerSkills.Create(domain.WorkerSkill{WorkerID: 1, SkillName: name})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := repos.WorkerSkills.Create(domain.WorkerSkill{WorkerID: 2, SkillName: "welding"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	names, err := repos.WorkerSkills.NamesByWorker(1)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "delivery" || names[1] != "gardening" {
		t.Errorf("got %v, want [delivery gardening]", names)
	}
}
