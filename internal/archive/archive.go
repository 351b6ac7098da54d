package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samvad-hq/newsdesk/internal/domain"
)

var snapshotsBucket = []byte("snapshots")

// ErrEmpty is returned by Latest when no snapshot has been saved.
var ErrEmpty = errors.New("archive is empty")

// Snapshot is one archived aggregation result.
type Snapshot struct {
	CapturedAt time.Time               `json:"capturedAt"`
	Sources    []string                `json:"sources"`
	Articles   []domain.ScrapedArticle `json:"articles"`
}

// Store persists feed snapshots in a bbolt file keyed by capture time.
type Store struct {
	db           *bolt.DB
	maxSnapshots int
}

// Open opens (or creates) the archive at path. maxSnapshots <= 0 disables pruning.
func Open(path string, maxSnapshots int) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots bucket: %w", err)
	}

	return &Store{db: db, maxSnapshots: maxSnapshots}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// snapshotKey sorts lexically in capture order.
func snapshotKey(t time.Time) []byte {
	return []byte(t.UTC().Format("2006-01-02T15:04:05.000000000Z"))
}

// Save stores snap and prunes the oldest entries beyond the retention limit.
func (s *Store) Save(snap Snapshot) error {
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = time.Now()
	}
	snap.CapturedAt = snap.CapturedAt.UTC()

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		if err := b.Put(snapshotKey(snap.CapturedAt), payload); err != nil {
			return fmt.Errorf("put snapshot: %w", err)
		}
		return prune(b, s.maxSnapshots)
	})
}

func prune(b *bolt.Bucket, keep int) error {
	if keep <= 0 {
		return nil
	}
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	if len(keys) <= keep {
		return nil
	}

	stale := keys[:len(keys)-keep]
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("prune snapshot: %w", err)
		}
	}
	return nil
}

// Latest returns the most recent snapshot.
func (s *Store) Latest() (Snapshot, error) {
	snaps, err := s.List(1)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, ErrEmpty
	}
	return snaps[0], nil
}

// List returns up to limit snapshots, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Snapshot, error) {
	var out []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(snapshotsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return fmt.Errorf("decode snapshot %s: %w", k, err)
			}
			out = append(out, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
