package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"pawnpool/native/pawn"
)

var stateKey = []byte("pawn/state")

// SaveState persists a pool ledger snapshot.
func SaveState(db Database, state *pawn.PoolState) error {
	if state == nil {
		return fmt.Errorf("storage: nil pool state")
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("storage: encode pool state: %w", err)
	}
	return db.Put(stateKey, encoded)
}

// LoadState restores the most recent pool ledger snapshot. A store with no
// snapshot yields (nil, nil) so callers can start from an empty ledger.
func LoadState(db Database) (*pawn.PoolState, error) {
	encoded, err := db.Get(stateKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	state := &pawn.PoolState{}
	if err := json.Unmarshal(encoded, state); err != nil {
		return nil, fmt.Errorf("storage: decode pool state: %w", err)
	}
	return state, nil
}
