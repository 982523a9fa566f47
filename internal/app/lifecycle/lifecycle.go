// Package lifecycle drives the UndertakenJob status machine. Transitions
// are forward-only; completed and canceled are terminal. Completing a job
// recomputes the worker's trust passport, pays out the reward plus the
// frozen AI incentive, and leaves a notification.
package lifecycle

import (
	"fmt"
	"log"
	"time"

	"github.com/digital-guild/guild/internal/app/scoring"
	"github.com/digital-guild/guild/internal/app/wallet"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/metrics"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// transitions lists the allowed next statuses per current status.
var transitions = map[domain.UndertakenStatus][]domain.UndertakenStatus{
	domain.StatusApplied:            {domain.StatusAccepted, domain.StatusCanceled},
	domain.StatusAccepted:           {domain.StatusInProgress, domain.StatusCanceled},
	domain.StatusInProgress:         {domain.StatusCompletionReported, domain.StatusCanceled},
	domain.StatusCompletionReported: {domain.StatusCompleted, domain.StatusCanceled},
	domain.StatusCompleted:          nil,
	domain.StatusCanceled:           nil,
}

func canTransition(from, to domain.UndertakenStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service orchestrates engagements through their lifecycle.
type Service struct {
	undertaken    *repo.UndertakenJobs
	jobs          *repo.Jobs
	notifications *repo.Notifications
	passports     *scoring.PassportService
	wallet        *wallet.Service
}

// NewService creates a lifecycle service.
func NewService(
	undertaken *repo.UndertakenJobs,
	jobs *repo.Jobs,
	notifications *repo.Notifications,
	passports *scoring.PassportService,
	w *wallet.Service,
) *Service {
	return &Service{
		undertaken:    undertaken,
		jobs:          jobs,
		notifications: notifications,
		passports:     passports,
		wallet:        w,
	}
}

// Apply creates a new engagement in the applied state.
func (s *Service) Apply(workerID, jobID int64) (domain.UndertakenJob, error) {
	if _, err := s.jobs.GetByID(jobID); err != nil {
		return domain.UndertakenJob{}, err
	}
	return s.undertaken.Create(domain.UndertakenJob{
		WorkerID:  workerID,
		JobID:     jobID,
		Status:    domain.StatusApplied,
		AppliedAt: time.Now().UTC(),
	})
}

// Transition moves an engagement to the target status, stamping the
// matching timestamp. Backward and skipping moves fail with
// ErrInvalidTransition. Completion runs the payout/passport side effects.
func (s *Service) Transition(id int64, to domain.UndertakenStatus) (domain.UndertakenJob, error) {
	rec, err := s.undertaken.Apply(id, func(u *domain.UndertakenJob) error {
		if !canTransition(u.Status, to) {
			return fmt.Errorf("%s -> %s: %w", u.Status, to, domain.ErrInvalidTransition)
		}
		now := time.Now().UTC()
		u.Status = to
		switch to {
		case domain.StatusAccepted:
			u.AcceptedAt = now
		case domain.StatusCompletionReported:
			u.ReportedAt = now
		case domain.StatusCanceled:
			u.CanceledAt = now
		case domain.StatusCompleted:
			u.FinishedAt = now
		}
		return nil
	})
	if err != nil {
		return domain.UndertakenJob{}, err
	}

	if to == domain.StatusCompleted {
		s.onCompleted(rec)
	}
	return rec, nil
}

// Accept, Start, ReportCompletion, Complete and Cancel are the named
// transitions the API exposes.
func (s *Service) Accept(id int64) (domain.UndertakenJob, error) {
	return s.Transition(id, domain.StatusAccepted)
}

func (s *Service) Start(id int64) (domain.UndertakenJob, error) {
	return s.Transition(id, domain.StatusInProgress)
}

func (s *Service) ReportCompletion(id int64) (domain.UndertakenJob, error) {
	return s.Transition(id, domain.StatusCompletionReported)
}

func (s *Service) Complete(id int64) (domain.UndertakenJob, error) {
	return s.Transition(id, domain.StatusCompleted)
}

func (s *Service) Cancel(id int64) (domain.UndertakenJob, error) {
	return s.Transition(id, domain.StatusCanceled)
}

// onCompleted runs completion side effects. Payout and notification
// failures are logged, not propagated — the status change already
// happened and must not be rolled back by a bookkeeping error.
func (s *Service) onCompleted(rec domain.UndertakenJob) {
	metrics.JobsCompleted.Inc()

	job, err := s.jobs.GetByID(rec.JobID)
	if err != nil {
		log.Printf("[lifecycle] completed engagement %d: load job %d: %v", rec.ID, rec.JobID, err)
		return
	}

	total := job.Reward + job.AIIncentiveReward
	if total > 0 {
		err := s.wallet.Payout(job.RequesterID, rec.WorkerID, job.ID, total,
			fmt.Sprintf("reward for %q", job.Title))
		if err != nil {
			log.Printf("[lifecycle] payout for engagement %d: %v", rec.ID, err)
		} else {
			metrics.PayoutsTotal.Add(float64(total))
		}
	}

	if _, err := s.passports.Recompute(rec.WorkerID); err != nil {
		log.Printf("[lifecycle] passport recompute for worker %d: %v", rec.WorkerID, err)
	}

	_, err = s.notifications.Create(domain.Notification{
		WorkerID: rec.WorkerID,
		Title:    "Job completed",
		Body:     fmt.Sprintf("%q is complete. %d JPYC paid out.", job.Title, total),
	})
	if err != nil {
		log.Printf("[lifecycle] notification for worker %d: %v", rec.WorkerID, err)
	}
}

// Rate records the requester's 1-5 evaluation of a completed engagement
// and recomputes the worker's passport. Canceled or in-flight engagements
// cannot be rated, and a rating is written at most once.
func (s *Service) Rate(id int64, score int) (domain.UndertakenJob, error) {
	if score < 1 || score > 5 {
		return domain.UndertakenJob{}, domain.ErrInvalidEvalScore
	}

	rec, err := s.undertaken.Apply(id, func(u *domain.UndertakenJob) error {
		if u.Status != domain.StatusCompleted {
			return domain.ErrNotCompleted
		}
		if u.Rated() {
			return domain.ErrAlreadyRated
		}
		u.RequesterEvalScore = score
		return nil
	})
	if err != nil {
		return domain.UndertakenJob{}, err
	}

	if _, err := s.passports.Recompute(rec.WorkerID); err != nil {
		log.Printf("[lifecycle] passport recompute after rating %d: %v", id, err)
	}
	return rec, nil
}

// IsTerminal reports whether a status accepts no further transitions.
func IsTerminal(status domain.UndertakenStatus) bool {
	return len(transitions[status]) == 0
}
