package repo

import (
	"time"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/store"
)

// Collection keys. One per entity, matching the original client's storage
// layout.
const (
	KeyJobs            = "jobs"
	KeyWorkers         = "workers"
	KeyRequesters      = "requesters"
	KeyUndertakenJobs  = "undertaken_jobs"
	KeySubsidies       = "subsidies"
	KeyTrustPassports  = "trust_passports"
	KeySkills          = "skills"
	KeyWorkerSkills    = "worker_skills"
	KeyBookmarkJobs    = "bookmark_jobs"
	KeyTransactions    = "transactions"
	KeyNotifications   = "notifications"
	KeyRecommendations = "recommendations"
)

// Registry bundles all entity repositories over one store.
type Registry struct {
	Jobs            *Jobs
	Workers         *Workers
	Requesters      *Requesters
	UndertakenJobs  *UndertakenJobs
	Subsidies       *Subsidies
	TrustPassports  *TrustPassports
	Skills          *Skills
	WorkerSkills    *WorkerSkills
	BookmarkJobs    *BookmarkJobs
	Transactions    *Transactions
	Notifications   *Notifications
	Recommendations *Recommendations
}

// NewRegistry wires every repository against the store. Delete policy is
// strict everywhere except bookmarks and notifications, whose deletes are
// fire-and-forget from the client's point of view.
func NewRegistry(s *store.Store) *Registry {
	return &Registry{
		Jobs:            NewJobs(s),
		Workers:         NewWorkers(s),
		Requesters:      NewRequesters(s),
		UndertakenJobs:  NewUndertakenJobs(s),
		Subsidies:       NewSubsidies(s),
		TrustPassports:  NewTrustPassports(s),
		Skills:          NewSkills(s),
		WorkerSkills:    NewWorkerSkills(s),
		BookmarkJobs:    NewBookmarkJobs(s),
		Transactions:    NewTransactions(s),
		Notifications:   NewNotifications(s),
		Recommendations: NewRecommendations(s),
	}
}

// ─── Jobs ───────────────────────────────────────────────────────────────────

// Jobs stores posted tasks.
type Jobs struct {
	*Collection[domain.Job]
}

func NewJobs(s *store.Store) *Jobs {
	return &Jobs{NewCollection(s, KeyJobs, DeleteStrict, Hooks[domain.Job]{
		ID:      func(j *domain.Job) int64 { return j.ID },
		SetID:   func(j *domain.Job, id int64) { j.ID = id },
		Created: func(j *domain.Job, t time.Time) { j.CreatedAt = t },
		Updated: func(j *domain.Job, t time.Time) { j.UpdatedAt = t },
	})}
}

// JobUpdate enumerates the mutable job fields. RequesterID and the frozen
// AIIncentiveReward are system-managed and deliberately absent.
type JobUpdate struct {
	Title       *string
	Description *string
	Location    *string
	Tags        *[]string
	Reward      *int64
}

// Update merges the command over the stored record.
func (r *Jobs) Update(id int64, u JobUpdate) (domain.Job, error) {
	return r.Apply(id, func(j *domain.Job) error {
		if u.Title != nil {
			j.Title = *u.Title
		}
		if u.Description != nil {
			j.Description = *u.Description
		}
		if u.Location != nil {
			j.Location = *u.Location
		}
		if u.Tags != nil {
			j.Tags = *u.Tags
		}
		if u.Reward != nil {
			j.Reward = *u.Reward
		}
		return nil
	})
}

// ByRequester returns all jobs posted by the requester.
func (r *Jobs) ByRequester(requesterID int64) ([]domain.Job, error) {
	return r.Select(func(j *domain.Job) bool { return j.RequesterID == requesterID })
}

// ─── Workers ────────────────────────────────────────────────────────────────

type Workers struct {
	*Collection[domain.Worker]
}

func NewWorkers(s *store.Store) *Workers {
	return &Workers{NewCollection(s, KeyWorkers, DeleteStrict, Hooks[domain.Worker]{
		ID:      func(w *domain.Worker) int64 { return w.ID },
		SetID:   func(w *domain.Worker, id int64) { w.ID = id },
		Created: func(w *domain.Worker, t time.Time) { w.CreatedAt = t },
		Updated: func(w *domain.Worker, t time.Time) { w.UpdatedAt = t },
	})}
}

// WorkerUpdate enumerates the mutable worker fields.
type WorkerUpdate struct {
	Name      *string
	BirthDate *time.Time
	Address   *string
}

func (r *Workers) Update(id int64, u WorkerUpdate) (domain.Worker, error) {
	return r.Apply(id, func(w *domain.Worker) error {
		if u.Name != nil {
			w.Name = *u.Name
		}
		if u.BirthDate != nil {
			w.BirthDate = *u.BirthDate
		}
		if u.Address != nil {
			w.Address = *u.Address
		}
		return nil
	})
}

// ─── Requesters ─────────────────────────────────────────────────────────────

type Requesters struct {
	*Collection[domain.Requester]
}

func NewRequesters(s *store.Store) *Requesters {
	return &Requesters{NewCollection(s, KeyRequesters, DeleteStrict, Hooks[domain.Requester]{
		ID:      func(r *domain.Requester) int64 { return r.ID },
		SetID:   func(r *domain.Requester, id int64) { r.ID = id },
		Created: func(r *domain.Requester, t time.Time) { r.CreatedAt = t },
		Updated: func(r *domain.Requester, t time.Time) { r.UpdatedAt = t },
	})}
}

// RequesterUpdate enumerates the mutable requester fields.
type RequesterUpdate struct {
	Name    *string
	Address *string
}

func (r *Requesters) Update(id int64, u RequesterUpdate) (domain.Requester, error) {
	return r.Apply(id, func(rec *domain.Requester) error {
		if u.Name != nil {
			rec.Name = *u.Name
		}
		if u.Address != nil {
			rec.Address = *u.Address
		}
		return nil
	})
}

// ─── Undertaken jobs ────────────────────────────────────────────────────────

type UndertakenJobs struct {
	*Collection[domain.UndertakenJob]
}

func NewUndertakenJobs(s *store.Store) *UndertakenJobs {
	return &UndertakenJobs{NewCollection(s, KeyUndertakenJobs, DeleteStrict, Hooks[domain.UndertakenJob]{
		ID:      func(u *domain.UndertakenJob) int64 { return u.ID },
		SetID:   func(u *domain.UndertakenJob, id int64) { u.ID = id },
		Created: func(u *domain.UndertakenJob, t time.Time) { u.CreatedAt = t },
		Updated: func(u *domain.UndertakenJob, t time.Time) { u.UpdatedAt = t },
	})}
}

// ByWorker returns the worker's full engagement history.
func (r *UndertakenJobs) ByWorker(workerID int64) ([]domain.UndertakenJob, error) {
	return r.Select(func(u *domain.UndertakenJob) bool { return u.WorkerID == workerID })
}

// ByJob returns all engagements for a job.
func (r *UndertakenJobs) ByJob(jobID int64) ([]domain.UndertakenJob, error) {
	return r.Select(func(u *domain.UndertakenJob) bool { return u.JobID == jobID })
}

// ─── Subsidies ──────────────────────────────────────────────────────────────

type Subsidies struct {
	*Collection[domain.Subsidy]
}

func NewSubsidies(s *store.Store) *Subsidies {
	return &Subsidies{NewCollection(s, KeySubsidies, DeleteStrict, Hooks[domain.Subsidy]{
		ID:      func(g *domain.Subsidy) int64 { return g.ID },
		SetID:   func(g *domain.Subsidy, id int64) { g.ID = id },
		Created: func(g *domain.Subsidy, t time.Time) { g.CreatedAt = t },
	})}
}

// ByRequester returns all grants for the requester.
func (r *Subsidies) ByRequester(requesterID int64) ([]domain.Subsidy, error) {
	return r.Select(func(g *domain.Subsidy) bool { return g.RequesterID == requesterID })
}

// ─── Trust passports ────────────────────────────────────────────────────────

type TrustPassports struct {
	*Collection[domain.TrustPassport]
}

func NewTrustPassports(s *store.Store) *TrustPassports {
	return &TrustPassports{NewCollection(s, KeyTrustPassports, DeleteStrict, Hooks[domain.TrustPassport]{
		ID:      func(p *domain.TrustPassport) int64 { return p.ID },
		SetID:   func(p *domain.TrustPassport, id int64) { p.ID = id },
		Created: func(p *domain.TrustPassport, t time.Time) { p.CreatedAt = t },
		Updated: func(p *domain.TrustPassport, t time.Time) { p.UpdatedAt = t },
	})}
}

// ByWorker returns the worker's passport, or ErrNotFound if none exists yet.
func (r *TrustPassports) ByWorker(workerID int64) (domain.TrustPassport, error) {
	recs, err := r.Select(func(p *domain.TrustPassport) bool { return p.WorkerID == workerID })
	if err != nil {
		return domain.TrustPassport{}, err
	}
	if len(recs) == 0 {
		return domain.TrustPassport{}, domain.ErrNotFound
	}
	return recs[0], nil
}

// UpsertScore writes the worker's recomputed trust score, creating the
// passport on first write.
func (r *TrustPassports) UpsertScore(workerID int64, score int) (domain.TrustPassport, error) {
	existing, err := r.ByWorker(workerID)
	if err == nil {
		return r.Apply(existing.ID, func(p *domain.TrustPassport) error {
			p.TrustScore = score
			return nil
		})
	}
	return r.Create(domain.TrustPassport{WorkerID: workerID, TrustScore: score})
}

// ─── Skills ─────────────────────────────────────────────────────────────────

type Skills struct {
	*Collection[domain.Skill]
}

func NewSkills(s *store.Store) *Skills {
	return &Skills{NewCollection(s, KeySkills, DeleteStrict, Hooks[domain.Skill]{
		ID:      func(k *domain.Skill) int64 { return k.ID },
		SetID:   func(k *domain.Skill, id int64) { k.ID = id },
		Created: func(k *domain.Skill, t time.Time) { k.CreatedAt = t },
	})}
}

type WorkerSkills struct {
	*Collection[domain.WorkerSkill]
}

func NewWorkerSkills(s *store.Store) *WorkerSkills {
	return &WorkerSkills{NewCollection(s, KeyWorkerSkills, DeleteStrict, Hooks[domain.WorkerSkill]{
		ID:      func(k *domain.WorkerSkill) int64 { return k.ID },
		SetID:   func(k *domain.WorkerSkill, id int64) { k.ID = id },
		Created: func(k *domain.WorkerSkill, t time.Time) { k.CreatedAt = t },
	})}
}

// NamesByWorker returns the worker's accumulated skill names.
func (r *WorkerSkills) NamesByWorker(workerID int64) ([]string, error) {
	recs, err := r.Select(func(k *domain.WorkerSkill) bool { return k.WorkerID == workerID })
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(recs))
	for _, k := range recs {
		names = append(names, k.SkillName)
	}
	return names, nil
}

// ─── Bookmarks ──────────────────────────────────────────────────────────────

type BookmarkJobs struct {
	*Collection[domain.BookmarkJob]
}

func NewBookmarkJobs(s *store.Store) *BookmarkJobs {
	return &BookmarkJobs{NewCollection(s, KeyBookmarkJobs, DeleteIdempotent, Hooks[domain.BookmarkJob]{
		ID:      func(b *domain.BookmarkJob) int64 { return b.ID },
		SetID:   func(b *domain.BookmarkJob, id int64) { b.ID = id },
		Created: func(b *domain.BookmarkJob, t time.Time) { b.CreatedAt = t },
	})}
}

// ByWorker returns the worker's bookmarks.
func (r *BookmarkJobs) ByWorker(workerID int64) ([]domain.BookmarkJob, error) {
	return r.Select(func(b *domain.BookmarkJob) bool { return b.WorkerID == workerID })
}

// ─── Transactions ───────────────────────────────────────────────────────────

type Transactions struct {
	*Collection[domain.Transaction]
}

func NewTransactions(s *store.Store) *Transactions {
	return &Transactions{NewCollection(s, KeyTransactions, DeleteStrict, Hooks[domain.Transaction]{
		ID:      func(tx *domain.Transaction) int64 { return tx.ID },
		SetID:   func(tx *domain.Transaction, id int64) { tx.ID = id },
		Created: func(tx *domain.Transaction, t time.Time) { tx.CreatedAt = t },
	})}
}

// ByAccount returns all ledger entries for an account, in stored order.
func (r *Transactions) ByAccount(account string) ([]domain.Transaction, error) {
	return r.Select(func(tx *domain.Transaction) bool { return tx.Account == account })
}

// ─── Notifications ──────────────────────────────────────────────────────────

type Notifications struct {
	*Collection[domain.Notification]
}

func NewNotifications(s *store.Store) *Notifications {
	return &Notifications{NewCollection(s, KeyNotifications, DeleteIdempotent, Hooks[domain.Notification]{
		ID:      func(n *domain.Notification) int64 { return n.ID },
		SetID:   func(n *domain.Notification, id int64) { n.ID = id },
		Created: func(n *domain.Notification, t time.Time) { n.CreatedAt = t },
	})}
}

// ByWorker returns a worker's notifications.
func (r *Notifications) ByWorker(workerID int64) ([]domain.Notification, error) {
	return r.Select(func(n *domain.Notification) bool { return n.WorkerID == workerID })
}

// MarkRead flags a notification as read.
func (r *Notifications) MarkRead(id int64) (domain.Notification, error) {
	return r.Apply(id, func(n *domain.Notification) error {
		n.Read = true
		return nil
	})
}

// ─── Recommendations ────────────────────────────────────────────────────────

type Recommendations struct {
	*Collection[domain.Recommendation]
}

func NewRecommendations(s *store.Store) *Recommendations {
	return &Recommendations{NewCollection(s, KeyRecommendations, DeleteStrict, Hooks[domain.Recommendation]{
		ID:      func(rec *domain.Recommendation) int64 { return rec.ID },
		SetID:   func(rec *domain.Recommendation, id int64) { rec.ID = id },
		Created: func(rec *domain.Recommendation, t time.Time) { rec.CreatedAt = t },
		Updated: func(rec *domain.Recommendation, t time.Time) { rec.UpdatedAt = t },
	})}
}

// ByJob returns all persisted recommendations for a job.
func (r *Recommendations) ByJob(jobID int64) ([]domain.Recommendation, error) {
	return r.Select(func(rec *domain.Recommendation) bool { return rec.JobID == jobID })
}
