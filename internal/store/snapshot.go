package store

import (
	"encoding/json"
	"fmt"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// Snapshot is the full persisted state of the engine, round-tripped through
// the durable store as one opaque JSON blob. Reservations and pins are
// volatile and deliberately absent.
type Snapshot struct {
	Accounts  []domain.Account  `json:"accounts"`
	Tasks     []domain.Task     `json:"tasks"`
	Proofs    []domain.Proof    `json:"proofs"`
	GiftCodes []domain.GiftCode `json:"gift_codes"`
	Vault     VaultState        `json:"vault"`
	Referral  ReferralCounters  `json:"referral"`
}

// EncodeSnapshot serializes the snapshot for the durable store.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses a persisted snapshot. An unreadable blob yields
// ErrCorruptSnapshot so startup refuses to proceed on masked data loss.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	return s, nil
}
