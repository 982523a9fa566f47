package incentive_test

import (
	"testing"
	"time"

	"github.com/digital-guild/guild/internal/app/incentive"
	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/store"
)

func TestAmount_WorkedExamples(t *testing.T) {
	cases := []struct {
		name    string
		balance int64
		reward  int64
		want    int64
	}{
		{"base below cap", 1_200_000, 20_000, 6_000},
		{"cap binds exactly", 1_200_000, 12_000, 6_000},
		{"cap binds", 10_000_000, 10_000, 5_000},
		{"zero balance", 0, 20_000, 0},
		{"zero reward", 1_200_000, 0, 0},
		{"negative balance", -500, 20_000, 0},
		{"negative reward", 1_200_000, -1, 0},
		{"small balance floors", 333, 20_000, 1}, // 333 * 0.005 = 1.665
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := incentive.Amount(tc.balance, tc.reward); got != tc.want {
				t.Errorf("Amount(%d, %d) = %d, want %d", tc.balance, tc.reward, got, tc.want)
			}
		})
	}
}

func TestAmount_NeverExceedsHalfReward(t *testing.T) {
	balances := []int64{0, 1, 999, 100_000, 1_200_000, 50_000_000}
	rewards := []int64{0, 1, 100, 12_000, 20_000, 1_000_000}
	for _, b := range balances {
		for _, r := range rewards {
			got := incentive.Amount(b, r)
			if got < 0 {
				t.Errorf("Amount(%d, %d) = %d, negative", b, r, got)
			}
			if got > r/2 {
				t.Errorf("Amount(%d, %d) = %d exceeds half reward %d", b, r, got, r/2)
			}
		}
	}
}

func TestAmount_MonotoneUntilSaturation(t *testing.T) {
	const reward = 20_000
	var prev int64 = -1
	for balance := int64(0); balance <= 4_000_000; balance += 100_000 {
		got := incentive.Amount(balance, reward)
		if got < prev {
			t.Fatalf("Amount decreased at balance %d: %d -> %d", balance, prev, got)
		}
		prev = got
	}
	if prev != 10_000 {
		t.Errorf("saturation value: got %d, want 10000", prev)
	}
}

func testSubsidies(t *testing.T) *repo.Subsidies {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return repo.NewSubsidies(s)
}

func TestService_BalanceSumsGrants(t *testing.T) {
	subsidies := testSubsidies(t)
	svc := incentive.NewService(subsidies)

	for _, amount := range []int64{500_000, 400_000, 300_000} {
		_, err := subsidies.Create(domain.Subsidy{
			RequesterID: 1,
			Amount:      amount,
			GrantedAt:   time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("create subsidy: %v", err)
		}
	}
	// Another requester's grant must not leak in.
	if _, err := subsidies.Create(domain.Subsidy{RequesterID: 2, Amount: 999_999}); err != nil {
		t.Fatalf("create subsidy: %v", err)
	}

	balance, err := svc.Balance(1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1_200_000 {
		t.Errorf("balance: got %d, want 1200000", balance)
	}

	bonus, err := svc.ForJob(1, 20_000)
	if err != nil {
		t.Fatalf("for job: %v", err)
	}
	if bonus != 6_000 {
		t.Errorf("incentive: got %d, want 6000", bonus)
	}
}

func TestService_NoGrantsMeansNoIncentive(t *testing.T) {
	svc := incentive.NewService(testSubsidies(t))
	bonus, err := svc.ForJob(42, 20_000)
	if err != nil {
		t.Fatalf("for job: %v", err)
	}
	if bonus != 0 {
		t.Errorf("incentive without grants: got %d, want 0", bonus)
	}
}
