// Package wallet implements the simulated JPYC ledger. Every transfer
// creates matched DEBIT/CREDIT entries; SUM(debits) == SUM(credits) is an
// invariant. Balances are simulated — there is no real payment rail.
package wallet

import (
	"fmt"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
)

// RequesterAccount and WorkerAccount build the ledger account names.
func RequesterAccount(id int64) string { return fmt.Sprintf("requester:%d", id) }
func WorkerAccount(id int64) string    { return fmt.Sprintf("worker:%d", id) }

// Service manages the simulated wallet ledger.
type Service struct {
	transactions *repo.Transactions
}

// NewService creates a wallet service.
func NewService(transactions *repo.Transactions) *Service {
	return &Service{transactions: transactions}
}

// Balance returns the current balance of an account: credits minus debits.
func (s *Service) Balance(account string) (int64, error) {
	entries, err := s.transactions.ByAccount(account)
	if err != nil {
		return 0, fmt.Errorf("load ledger for %s: %w", account, err)
	}
	var balance int64
	for _, e := range entries {
		switch e.Entry {
		case domain.EntryCredit:
			balance += e.Amount
		case domain.EntryDebit:
			balance -= e.Amount
		}
	}
	return balance, nil
}

// Deposit credits an account from outside the ledger (seed funding).
func (s *Service) Deposit(account string, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	balance, err := s.Balance(account)
	if err != nil {
		return err
	}
	_, err = s.transactions.Create(domain.Transaction{
		Type:        domain.TxDeposit,
		Entry:       domain.EntryCredit,
		Account:     account,
		Amount:      amount,
		Description: reason,
		Balance:     balance + amount,
	})
	return err
}

// Payout transfers amount from a requester account to a worker account,
// recording matched debit/credit entries tagged with the job.
func (s *Service) Payout(requesterID, workerID, jobID, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("payout amount must be positive, got %d", amount)
	}

	from := RequesterAccount(requesterID)
	to := WorkerAccount(workerID)

	fromBal, err := s.Balance(from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("payout from %s: have %d, need %d: %w",
			from, fromBal, amount, domain.ErrInsufficientFunds)
	}
	toBal, err := s.Balance(to)
	if err != nil {
		return err
	}

	// DEBIT requester (source of funds)
	_, err = s.transactions.Create(domain.Transaction{
		Type:        domain.TxPayout,
		Entry:       domain.EntryDebit,
		Account:     from,
		Amount:      amount,
		JobID:       jobID,
		Description: reason,
		Balance:     fromBal - amount,
	})
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}

	// CREDIT worker (destination)
	_, err = s.transactions.Create(domain.Transaction{
		Type:        domain.TxPayout,
		Entry:       domain.EntryCredit,
		Account:     to,
		Amount:      amount,
		JobID:       jobID,
		Description: reason,
		Balance:     toBal + amount,
	})
	if err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}

// History returns recent ledger entries for an account, newest last.
func (s *Service) History(account string, limit int) ([]domain.Transaction, error) {
	entries, err := s.transactions.ByAccount(account)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
