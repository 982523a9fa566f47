package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/digital-guild/guild/internal/app/wallet"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// ─── Jobs ───────────────────────────────────────────────────────────────────

type createJobRequest struct {
	RequesterID int64    `json:"requester_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	Reward      int64    `json:"reward"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.session.Jobs.All()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	job, err := s.market.PostJob(domain.Job{
		RequesterID: req.RequesterID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Tags:        req.Tags,
		Reward:      req.Reward,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Jobs.Invalidate()
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	job, err := s.repos.Jobs.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type updateJobRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Tags        *[]string `json:"tags"`
	Reward      *int64    `json:"reward"`
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	job, err := s.repos.Jobs.Update(id, repo.JobUpdate{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Tags:        req.Tags,
		Reward:      req.Reward,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Jobs.Invalidate()
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.repos.Jobs.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Jobs.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJobRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	recs, err := s.repos.Recommendations.ByJob(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleJobUndertaken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	recs, err := s.session.UndertakenByJobID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// ─── Workers ────────────────────────────────────────────────────────────────

type createWorkerRequest struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Address   string    `json:"address"`
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.session.Workers.All()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	var req createWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	worker, err := s.repos.Workers.Create(domain.Worker{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Every worker starts with an empty passport.
	if _, err := s.repos.TrustPassports.Create(domain.TrustPassport{WorkerID: worker.ID}); err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Workers.Invalidate()
	s.session.Passports.Invalidate()
	writeJSON(w, http.StatusCreated, worker)
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	worker, err := s.repos.Workers.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

type updateWorkerRequest struct {
	Name      *string    `json:"name"`
	BirthDate *time.Time `json:"birth_date"`
	Address   *string    `json:"address"`
}

func (s *Server) handleUpdateWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	worker, err := s.repos.Workers.Update(id, repo.WorkerUpdate{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Workers.Invalidate()
	writeJSON(w, http.StatusOK, worker)
}

func (s *Server) handleWorkerPassport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	passport, rank, err := s.passports.Lookup(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"passport": passport,
		"rank":     rank,
	})
}

func (s *Server) handleWorkerUndertaken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	recs, err := s.repos.UndertakenJobs.ByWorker(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleWorkerWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	account := wallet.WorkerAccount(id)
	balance, err := s.wallet.Balance(account)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	history, err := s.wallet.History(account, 50)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": balance,
		"history": history,
	})
}

// ─── Requesters ─────────────────────────────────────────────────────────────

type createRequesterRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (s *Server) handleListRequesters(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repos.Requesters.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCreateRequester(w http.ResponseWriter, r *http.Request) {
	var req createRequesterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	rec, err := s.repos.Requesters.Create(domain.Requester{Name: req.Name, Address: req.Address})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetRequester(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := s.repos.Requesters.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRequesterJobs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	jobs, err := s.session.JobsByRequester(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleRequesterSubsidies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	grants, err := s.repos.Subsidies.ByRequester(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	balance, err := s.incentives.Balance(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subsidies": grants,
		"balance":   balance,
	})
}

// ─── Subsidies ──────────────────────────────────────────────────────────────

type createSubsidyRequest struct {
	RequesterID int64 `json:"requester_id"`
	Amount      int64 `json:"amount"`
}

func (s *Server) handleCreateSubsidy(w http.ResponseWriter, r *http.Request) {
	var req createSubsidyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return
	}
	if _, err := s.repos.Requesters.GetByID(req.RequesterID); err != nil {
		writeDomainError(w, err)
		return
	}
	grant, err := s.repos.Subsidies.Create(domain.Subsidy{
		RequesterID: req.RequesterID,
		Amount:      req.Amount,
		GrantedAt:   time.Now().UTC(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

// ─── Undertaken jobs ────────────────────────────────────────────────────────

type applyRequest struct {
	WorkerID int64 `json:"worker_id"`
	JobID    int64 `json:"job_id"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	rec, err := s.lifecycle.Apply(req.WorkerID, req.JobID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Undertaken.Invalidate()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetUndertaken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := s.repos.UndertakenJobs.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// transitionHandler returns a handler moving the engagement to the target
// status.
func (s *Server) transitionHandler(to domain.UndertakenStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		rec, err := s.lifecycle.Transition(id, to)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.session.Undertaken.Invalidate()
		s.session.Passports.Invalidate()
		writeJSON(w, http.StatusOK, rec)
	}
}

type rateRequest struct {
	Score int `json:"score"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	rec, err := s.lifecycle.Rate(id, req.Score)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.session.Undertaken.Invalidate()
	s.session.Passports.Invalidate()
	writeJSON(w, http.StatusOK, rec)
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	var (
		all []domain.Notification
		err error
	)
	if q := r.URL.Query().Get("worker_id"); q != "" {
		workerID, perr := strconv.ParseInt(q, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid worker_id")
			return
		}
		all, err = s.repos.Notifications.ByWorker(workerID)
	} else {
		all, err = s.repos.Notifications.List()
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := s.repos.Notifications.MarkRead(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ─── Bookmarks ──────────────────────────────────────────────────────────────

type createBookmarkRequest struct {
	WorkerID int64 `json:"worker_id"`
	JobID    int64 `json:"job_id"`
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("worker_id")
	if q == "" {
		recs, err := s.repos.BookmarkJobs.List()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, recs)
		return
	}
	workerID, err := strconv.ParseInt(q, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker_id")
		return
	}
	recs, err := s.repos.BookmarkJobs.ByWorker(workerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req createBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if _, err := s.repos.Jobs.GetByID(req.JobID); err != nil {
		writeDomainError(w, err)
		return
	}
	rec, err := s.repos.BookmarkJobs.Create(domain.BookmarkJob{
		WorkerID: req.WorkerID,
		JobID:    req.JobID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleDeleteBookmark removes a bookmark. The repository is idempotent
// here, so deleting twice is fine.
func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.repos.BookmarkJobs.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
