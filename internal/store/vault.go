package store

import (
	"slices"
	"sync"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// VaultState is the persisted shape of the vault: the prize catalogue plus
// the global capacity counter that tracks draws independently of per-prize
// stock.
type VaultState struct {
	Prizes     []domain.Prize
	Capacity   int
	Used       int
	Open       bool
	DailyLimit int
}

// Vault owns the prize catalogue and the global draw capacity. Selection and
// the stock decrement happen in one critical section so a finite-stock prize
// cannot be oversold under concurrent draws.
type Vault struct {
	mu    sync.RWMutex
	state VaultState
}

func NewVault(state VaultState) *Vault {
	state.Prizes = slices.Clone(state.Prizes)
	return &Vault{state: state}
}

// Status returns a copy of the current vault state.
func (v *Vault) Status() VaultState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s := v.state
	s.Prizes = slices.Clone(v.state.Prizes)
	return s
}

// Consume takes one unit of global capacity, closing the vault when the
// capacity is exhausted. It fails with ErrVaultClosed when the vault is
// closed or already at capacity.
func (v *Vault) Consume() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.state.Open || v.state.Used >= v.state.Capacity {
		return domain.ErrVaultClosed
	}
	v.state.Used++
	if v.state.Used >= v.state.Capacity {
		v.state.Open = false
	}
	return nil
}

// DrawPrize selects one prize by weighted roll over the in-stock entries and
// decrements the winner's stock atomically with the selection. roll(n) must
// return a value in [0, n). An empty in-stock set yields the nothing outcome.
func (v *Vault) DrawPrize(roll func(n int) int) domain.PrizeOutcome {
	v.mu.Lock()
	defer v.mu.Unlock()

	total := 0
	for i := range v.state.Prizes {
		if v.state.Prizes[i].InStock() {
			total += v.state.Prizes[i].Weight
		}
	}
	if total <= 0 {
		return domain.Nothing()
	}

	r := roll(total) + 1 // [1, total]
	acc := 0
	for i := range v.state.Prizes {
		p := &v.state.Prizes[i]
		if !p.InStock() {
			continue
		}
		acc += p.Weight
		if r <= acc {
			if p.RemainingStock != domain.UnlimitedStock {
				p.RemainingStock--
			}
			return domain.PrizeOutcome{Type: p.Type, Value: p.Value}
		}
	}
	return domain.Nothing()
}

// SetCapacity resizes the global capacity, clamping the used counter and
// closing the vault when nothing is left.
func (v *Vault) SetCapacity(capacity int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state.Capacity = capacity
	if v.state.Used > capacity {
		v.state.Used = capacity
	}
	if v.state.Used >= capacity {
		v.state.Open = false
	}
}

// SetOpen opens or closes the vault.
func (v *Vault) SetOpen(open bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Open = open
}

// SetPrizes replaces the prize catalogue.
func (v *Vault) SetPrizes(prizes []domain.Prize) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Prizes = slices.Clone(prizes)
}

// DailyLimit returns the per-account daily draw limit.
func (v *Vault) DailyLimit() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.DailyLimit
}

func (v *Vault) Snapshot() VaultState {
	return v.Status()
}

func (v *Vault) Restore(state VaultState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	state.Prizes = slices.Clone(state.Prizes)
	v.state = state
}
