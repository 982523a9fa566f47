// Package cache mirrors repository data in memory for read-heavy paths.
// Each mirror is a session-scoped copy of one entity collection. Writers
// must go through the repository and then refresh the mirror; nothing else
// mutates cached state.
package cache

import (
	"sync"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// Mirror caches one collection, loading it on first read.
type Mirror[T any] struct {
	mu     sync.RWMutex
	loaded bool
	items  []T
	list   func() ([]T, error)
}

// NewMirror creates a mirror over a repository list function.
func NewMirror[T any](list func() ([]T, error)) *Mirror[T] {
	return &Mirror[T]{list: list}
}

// All returns the cached items, loading from the repository on first use.
func (m *Mirror[T]) All() ([]T, error) {
	m.mu.RLock()
	if m.loaded {
		items := m.items
		m.mu.RUnlock()
		return items, nil
	}
	m.mu.RUnlock()
	return m.refresh()
}

// Refresh reloads the mirror from the repository.
func (m *Mirror[T]) Refresh() error {
	_, err := m.refresh()
	return err
}

func (m *Mirror[T]) refresh() ([]T, error) {
	items, err := m.list()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.items = items
	m.loaded = true
	m.mu.Unlock()
	return items, nil
}

// Invalidate drops the cached copy; the next read reloads.
func (m *Mirror[T]) Invalidate() {
	m.mu.Lock()
	m.loaded = false
	m.items = nil
	m.mu.Unlock()
}

// Session bundles the mirrors one client session works with, plus the
// derived getters the dashboards need.
type Session struct {
	Jobs       *Mirror[domain.Job]
	Workers    *Mirror[domain.Worker]
	Undertaken *Mirror[domain.UndertakenJob]
	Passports  *Mirror[domain.TrustPassport]

	repos *repo.Registry
}

// NewSession creates a session cache over the repositories.
func NewSession(r *repo.Registry) *Session {
	return &Session{
		Jobs:       NewMirror(r.Jobs.List),
		Workers:    NewMirror(r.Workers.List),
		Undertaken: NewMirror(r.UndertakenJobs.List),
		Passports:  NewMirror(r.TrustPassports.List),
		repos:      r,
	}
}

// CreateJob writes through the repository and refreshes the mirror.
func (s *Session) CreateJob(job domain.Job) (domain.Job, error) {
	created, err := s.repos.Jobs.Create(job)
	if err != nil {
		return domain.Job{}, err
	}
	if err := s.Jobs.Refresh(); err != nil {
		return domain.Job{}, err
	}
	return created, nil
}

// UndertakenByJobID returns the engagements for one job from the mirror.
func (s *Session) UndertakenByJobID(jobID int64) ([]domain.UndertakenJob, error) {
	all, err := s.Undertaken.All()
	if err != nil {
		return nil, err
	}
	var out []domain.UndertakenJob
	for _, u := range all {
		if u.JobID == jobID {
			out = append(out, u)
		}
	}
	return out, nil
}

// JobsByRequester returns the requester's posted jobs from the mirror.
func (s *Session) JobsByRequester(requesterID int64) ([]domain.Job, error) {
	all, err := s.Jobs.All()
	if err != nil {
		return nil, err
	}
	var out []domain.Job
	for _, j := range all {
		if j.RequesterID == requesterID {
			out = append(out, j)
		}
	}
	return out, nil
}

// PassportByWorker returns the worker's passport from the mirror, if any.
func (s *Session) PassportByWorker(workerID int64) (domain.TrustPassport, bool, error) {
	all, err := s.Passports.All()
	if err != nil {
		return domain.TrustPassport{}, false, err
	}
	for _, p := range all {
		if p.WorkerID == workerID {
			return p, true, nil
		}
	}
	return domain.TrustPassport{}, false, nil
}

// InvalidateAll drops every mirror, forcing reloads after bulk writes.
func (s *Session) InvalidateAll() {
	s.Jobs.Invalidate()
	s.Workers.Invalidate()
	s.Undertaken.Invalidate()
	s.Passports.Invalidate()
}
