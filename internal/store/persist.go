package store

import (
	"errors"
	"fmt"

	"emart-storefront/internal/infrastructure/localstate"
)

// SnapshotKey names the persisted store snapshot.
const SnapshotKey = "emart-store"

type KV interface {
	Get(key string, dst any) error
	Set(key string, value any) error
}

type KVPersister struct {
	kv KV
}

// NewPersister stores snapshots in kv under SnapshotKey.
func NewPersister(kv KV) *KVPersister {
	return &KVPersister{kv: kv}
}

func (p *KVPersister) Load() (Snapshot, bool, error) {
	var snap Snapshot
	err := p.kv.Get(SnapshotKey, &snap)
	if errors.Is(err, localstate.ErrNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load store snapshot: %w", err)
	}
	return snap, true, nil
}

func (p *KVPersister) Save(snap Snapshot) error {
	if err := p.kv.Set(SnapshotKey, snap); err != nil {
		return fmt.Errorf("save store snapshot: %w", err)
	}
	return nil
}
