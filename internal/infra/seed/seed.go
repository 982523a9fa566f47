// Package seed loads demo data into an empty store. A sentinel collection
// key makes the load idempotent across restarts.
package seed

import (
	"fmt"
	"log"
	"time"

	"github.com/digital-guild/guild/internal/app/marketplace"
	"github.com/digital-guild/guild/internal/app/wallet"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/store"
)

// SentinelKey marks a store that has already been seeded.
const SentinelKey = "seed_loaded"

// Loaded reports whether the store carries seed data.
func Loaded(s *store.Store) (bool, error) {
	_, ok, err := s.GetCollection(SentinelKey)
	return ok, err
}

// Load populates demo data unless the sentinel is present. Returns true if
// seeding ran.
func Load(s *store.Store, repos *repo.Registry, w *wallet.Service, market *marketplace.Service) (bool, error) {
	done, err := Loaded(s)
	if err != nil {
		return false, fmt.Errorf("check sentinel: %w", err)
	}
	if done {
		return false, nil
	}

	if err := load(repos, w, market); err != nil {
		return false, err
	}

	if err := s.PutCollection(SentinelKey, []byte(`"v1"`)); err != nil {
		return false, fmt.Errorf("write sentinel: %w", err)
	}
	log.Printf("[seed] demo data loaded")
	return true, nil
}

func load(repos *repo.Registry, w *wallet.Service, market *marketplace.Service) error {
	skills := []string{"delivery", "gardening", "carpentry", "translation", "photography"}
	for _, name := range skills {
		if _, err := repos.Skills.Create(domain.Skill{Name: name}); err != nil {
			return fmt.Errorf("seed skill %q: %w", name, err)
		}
	}

	workers := []domain.Worker{
		{Name: "Aoi Tanaka", BirthDate: time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC), Address: "Shibuya, Tokyo"},
		{Name: "Kenji Sato", BirthDate: time.Date(1988, 11, 3, 0, 0, 0, 0, time.UTC), Address: "Naha, Okinawa"},
		{Name: "Yui Kobayashi", BirthDate: time.Date(2001, 7, 29, 0, 0, 0, 0, time.UTC), Address: "Sapporo, Hokkaido"},
	}
	workerSkills := [][]string{
		{"delivery", "photography"},
		{"gardening", "carpentry"},
		{"translation", "delivery"},
	}
	for i, wk := range workers {
		created, err := repos.Workers.Create(wk)
		if err != nil {
			return fmt.Errorf("seed worker %q: %w", wk.Name, err)
		}
		for _, skill := range workerSkills[i] {
			_, err := repos.WorkerSkills.Create(domain.WorkerSkill{
				WorkerID:  created.ID,
				SkillName: skill,
			})
			if err != nil {
				return fmt.Errorf("seed worker skill: %w", err)
			}
		}
		if _, err := repos.TrustPassports.Create(domain.TrustPassport{WorkerID: created.ID}); err != nil {
			return fmt.Errorf("seed passport: %w", err)
		}
	}

	requesters := []domain.Requester{
		{Name: "Machiya Guesthouse", Address: "Kanazawa, Ishikawa"},
		{Name: "Midori Farms", Address: "Furano, Hokkaido"},
	}
	for _, rq := range requesters {
		created, err := repos.Requesters.Create(rq)
		if err != nil {
			return fmt.Errorf("seed requester %q: %w", rq.Name, err)
		}
		_, err = repos.Subsidies.Create(domain.Subsidy{
			RequesterID: created.ID,
			Amount:      1_200_000,
			GrantedAt:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("seed subsidy: %w", err)
		}
		acct := wallet.RequesterAccount(created.ID)
		if err := w.Deposit(acct, 2_000_000, "seed funding"); err != nil {
			return fmt.Errorf("seed wallet deposit: %w", err)
		}
	}

	jobs := []domain.Job{
		{
			RequesterID: 1,
			Title:       "Weekend parcel delivery",
			Description: "Deliver parcels around the old town on Saturday mornings.",
			Location:    "Kanazawa, Ishikawa",
			Tags:        []string{"delivery"},
			Reward:      20_000,
		},
		{
			RequesterID: 2,
			Title:       "Greenhouse repair",
			Description: "Replace broken panels and reinforce the frame before winter.",
			Location:    "Furano, Hokkaido",
			Tags:        []string{"carpentry", "gardening"},
			Reward:      12_000,
		},
	}
	for _, j := range jobs {
		if _, err := market.PostJob(j); err != nil {
			return fmt.Errorf("seed job %q: %w", j.Title, err)
		}
	}

	return nil
}
