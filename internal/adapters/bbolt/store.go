// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Runs live in a "runs" bucket keyed by their big-endian sequence ID, so
// cursor order is chronological. A parallel "run_info" bucket holds the small
// listing record for each run, so history listings never decode match data.
// Writes are transactional; a crash mid-write cannot corrupt previously
// committed data.
package bbolt

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/corey/acscan/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketRuns    = []byte("runs")
	bucketRunInfo = []byte("run_info")
)

var _ ports.Storage = (*Store)(nil)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db     *bolt.DB
	now    func() time.Time
	encode func(*ports.Run) ([]byte, error)
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketRunInfo} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &Store{db: db, now: time.Now, encode: encodeRun}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// runKey encodes a run ID so that byte order matches numeric order.
func runKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// SaveRun persists a run under the next sequence ID.
// The caller's run is only modified once the write has committed.
func (s *Store) SaveRun(run *ports.Run) (uint64, error) {
	if run == nil {
		return 0, fmt.Errorf("nil run")
	}
	stored := *run
	if stored.CreatedAt == 0 {
		stored.CreatedAt = s.now().Unix()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		stored.ID = id
		data, err := s.encode(&stored)
		if err != nil {
			return fmt.Errorf("encode run: %w", err)
		}
		info, err := encodeInfo(infoOf(&stored))
		if err != nil {
			return fmt.Errorf("encode run info: %w", err)
		}
		if err := b.Put(runKey(id), data); err != nil {
			return err
		}
		return tx.Bucket(bucketRunInfo).Put(runKey(id), info)
	})
	if err != nil {
		return 0, err
	}
	run.ID = stored.ID
	run.CreatedAt = stored.CreatedAt
	return run.ID, nil
}

func infoOf(run *ports.Run) ports.RunInfo {
	return ports.RunInfo{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		PatternCount: len(run.Patterns),
		SourceCount:  len(run.Sources),
		MatchCount:   run.MatchCount(),
	}
}

// LoadRun retrieves a run by ID.
// Returns nil, nil if the run does not exist.
func (s *Store) LoadRun(id uint64) (*ports.Run, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := tx.Bucket(bucketRuns).Get(runKey(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return decodeRun(data)
}

// LatestRun retrieves the run with the highest ID.
// Returns nil, nil if there are no runs.
func (s *Store) LatestRun() (*ports.Run, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		_, v := tx.Bucket(bucketRuns).Cursor().Last()
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return decodeRun(data)
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(limit int) ([]ports.RunInfo, error) {
	var infos []ports.RunInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRunInfo).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(infos) >= limit {
				break
			}
			info, err := decodeInfo(v)
			if err != nil {
				return fmt.Errorf("decode run info %d: %w", binary.BigEndian.Uint64(k), err)
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// DeleteRun removes a run. Idempotent.
func (s *Store) DeleteRun(id uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketRuns).Delete(runKey(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketRunInfo).Delete(runKey(id))
	})
}
