// Package domain defines the marketplace entities and their invariants.
// Types are pure data — no infrastructure dependency — so the scoring and
// incentive formulas can be tested without a store.
package domain

import "time"

// ─── People ─────────────────────────────────────────────────────────────────

// Worker is a person who takes on jobs.
type Worker struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age returns the worker's whole-year age at the given instant,
// accounting for a birthday not yet reached this year.
func (w Worker) Age(at time.Time) int {
	years := at.Year() - w.BirthDate.Year()
	anniversary := w.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Requester posts jobs and funds incentive rewards.
type Requester struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ─── Jobs ───────────────────────────────────────────────────────────────────

// Job is a posted task. AIIncentiveReward is computed once at creation from
// the requester's subsidy balance and frozen — it is never recomputed on read.
type Job struct {
	ID                int64     `json:"id"`
	RequesterID       int64     `json:"requester_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Tags              []string  `json:"tags"`
	Reward            int64     `json:"reward"`
	AIIncentiveReward int64     `json:"ai_incentive_reward"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UndertakenStatus enumerates the lifecycle of a worker's engagement with a
// job. Transitions are forward-only; canceled and completed are terminal.
type UndertakenStatus string

const (
	StatusApplied            UndertakenStatus = "applied"
	StatusAccepted           UndertakenStatus = "accepted"
	StatusInProgress         UndertakenStatus = "in_progress"
	StatusCompletionReported UndertakenStatus = "completion_reported"
	StatusCompleted          UndertakenStatus = "completed"
	StatusCanceled           UndertakenStatus = "canceled"
)

// UndertakenJob records one worker's engagement with one job instance.
// RequesterEvalScore is 1-5 when the requester has rated a completed job and
// 0 otherwise; it is never set on canceled jobs.
type UndertakenJob struct {
	ID                 int64            `json:"id"`
	WorkerID           int64            `json:"worker_id"`
	JobID              int64            `json:"job_id"`
	Status             UndertakenStatus `json:"status"`
	RequesterEvalScore int              `json:"requester_eval_score,omitempty"`
	AppliedAt          time.Time        `json:"applied_at"`
	AcceptedAt         time.Time        `json:"accepted_at,omitzero"`
	ReportedAt         time.Time        `json:"reported_at,omitzero"`
	CanceledAt         time.Time        `json:"canceled_at,omitzero"`
	FinishedAt         time.Time        `json:"finished_at,omitzero"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Rated reports whether the requester has scored this engagement.
func (u UndertakenJob) Rated() bool {
	return u.RequesterEvalScore >= 1 && u.RequesterEvalScore <= 5
}

// BookmarkJob marks a job a worker wants to come back to.
type BookmarkJob struct {
	ID        int64     `json:"id"`
	WorkerID  int64     `json:"worker_id"`
	JobID     int64     `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Skills ─────────────────────────────────────────────────────────────────

// Skill is a named capability jobs can require and workers can hold.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkerSkill links a worker to an accumulated skill.
type WorkerSkill struct {
	ID        int64     `json:"id"`
	WorkerID  int64     `json:"worker_id"`
	SkillID   int64     `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Reputation ─────────────────────────────────────────────────────────────

// TrustPassport holds a worker's derived reputation. One per worker.
// TrustScore is always in [0,100]; it is recomputed from the worker's
// UndertakenJob history, never authored directly.
type TrustPassport struct {
	ID         int64     `json:"id"`
	WorkerID   int64     `json:"worker_id"`
	TrustScore int       `json:"trust_score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Rank is the four-tier reputation label.
type Rank string

const (
	RankBronze   Rank = "bronze"
	RankSilver   Rank = "silver"
	RankGold     Rank = "gold"
	RankPlatinum Rank = "platinum"
)

// ─── Money ──────────────────────────────────────────────────────────────────

// Subsidy is one grant of funds to a requester. Grants are summed into the
// balance that funds AI incentive rewards.
type Subsidy struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	Amount      int64     `json:"amount"`
	GrantedAt   time.Time `json:"granted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionType categorizes wallet ledger entries.
type TransactionType string

const (
	TxPayout  TransactionType = "payout"
	TxDeposit TransactionType = "deposit"
)

// TransactionEntry marks one side of a transfer.
type TransactionEntry string

const (
	EntryDebit  TransactionEntry = "debit"
	EntryCredit TransactionEntry = "credit"
)

// Transaction is one simulated JPYC ledger entry. Every transfer creates a
// matched debit/credit pair, so sum(debits) == sum(credits) at all times.
type Transaction struct {
	ID          int64            `json:"id"`
	Type        TransactionType  `json:"type"`
	Entry       TransactionEntry `json:"entry"`
	Account     string           `json:"account"`
	Amount      int64            `json:"amount"`
	JobID       int64            `json:"job_id,omitempty"`
	Description string           `json:"description"`
	Balance     int64            `json:"balance"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ─── Recommendations & notifications ────────────────────────────────────────

// Recommendation is one scored (job, worker) match produced by the
// generation call. Confidence is always in [0,1].
type Recommendation struct {
	ID         int64     `json:"id"`
	BatchID    string    `json:"batch_id"`
	JobID      int64     `json:"job_id"`
	WorkerID   int64     `json:"worker_id"`
	Confidence float64   `json:"confidence"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Notification is a user-facing event record.
type Notification struct {
	ID        int64     `json:"id"`
	WorkerID  int64     `json:"worker_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
