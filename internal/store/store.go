// Package store owns the authoritative broadcast_id → record mapping and its
// CSV persistence. The file always reflects the last completed snapshot: every
// mutation rewrites the whole file (header plus one row per record, fixed
// column order, insertion-ordered rows) through a temp-file-then-rename so a
// crash mid-write never leaves a torn snapshot behind.
//
// Concurrency model: the ingestion loop and every in-flight variance task
// mutate the store concurrently. All mutations and snapshot writes are applied
// by a single writer goroutine fed over a channel; callers block until their
// request has been applied and the snapshot written, so no two writers ever
// touch the map or the file at the same time and a later write can never
// drop an earlier one.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rewired-gh/vectorpulse/internal/models"
)

// ErrNotFound is returned when an outcome update targets an unknown broadcast.
var ErrNotFound = errors.New("broadcast not found")

// Store provides the serialized broadcast record store.
type Store struct {
	filePath        string
	filePermissions os.FileMode
	dirPermissions  os.FileMode

	// Owned by the writer goroutine after Start.
	records map[string]*models.BroadcastRecord
	order   []string

	ops  chan op
	done chan struct{}
}

type op struct {
	fn    func() error
	reply chan error
}

// New creates a store persisting to filePath and starts its writer goroutine.
// If filePath is empty, an OS-appropriate tmp location is used.
func New(filePath string, filePermissions, dirPermissions os.FileMode) *Store {
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "vectorpulse", "enriched_broadcasts.csv")
	}
	s := &Store{
		filePath:        filePath,
		filePermissions: filePermissions,
		dirPermissions:  dirPermissions,
		records:         make(map[string]*models.BroadcastRecord),
		ops:             make(chan op),
		done:            make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Store) run() {
	for o := range s.ops {
		o.reply <- o.fn()
	}
	close(s.done)
}

// do executes fn on the writer goroutine and waits for its result.
func (s *Store) do(fn func() error) error {
	reply := make(chan error, 1)
	s.ops <- op{fn: fn, reply: reply}
	return <-reply
}

// Close stops the writer goroutine after all queued requests have been
// applied. All producers (the ingestion loop and variance tasks) must have
// stopped before Close is called.
func (s *Store) Close() {
	close(s.ops)
	<-s.done
}

// Load reads the persisted snapshot into memory. A missing file starts the
// store empty; a malformed header or row aborts the load with an error.
// Load returns the number of records restored.
func (s *Store) Load() (int, error) {
	var n int
	err := s.do(func() error {
		f, err := os.Open(s.filePath)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		header, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read snapshot header: %w", err)
		}
		if len(header) != len(columns) {
			return fmt.Errorf("snapshot header has %d columns, expected %d", len(header), len(columns))
		}

		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read snapshot row: %w", err)
			}
			rec, err := decodeRecord(row)
			if err != nil {
				return fmt.Errorf("failed to decode snapshot row: %w", err)
			}
			if _, exists := s.records[rec.BroadcastID]; !exists {
				s.order = append(s.order, rec.BroadcastID)
			}
			s.records[rec.BroadcastID] = rec
			n++
		}
		return nil
	})
	return n, err
}

// Upsert inserts or overwrites a record by broadcast ID and persists a full
// snapshot. The in-memory state is updated even when the snapshot write
// fails, so a transient disk problem never rolls back accepted data.
func (s *Store) Upsert(rec *models.BroadcastRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	clone := rec.Clone()
	return s.do(func() error {
		if _, exists := s.records[clone.BroadcastID]; !exists {
			s.order = append(s.order, clone.BroadcastID)
		}
		s.records[clone.BroadcastID] = clone
		return s.snapshot()
	})
}

// SetOutcome records the variance and won flag of one horizon for a broadcast
// and persists a full snapshot. Outcomes are write-once; attempting to set an
// already-set horizon is an error and leaves the record untouched.
func (s *Store) SetOutcome(id string, h models.Horizon, variance float64, won bool) error {
	return s.do(func() error {
		rec, exists := s.records[id]
		if !exists {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err := rec.SetOutcome(h, variance, won); err != nil {
			return err
		}
		return s.snapshot()
	})
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (*models.BroadcastRecord, bool) {
	var rec *models.BroadcastRecord
	_ = s.do(func() error {
		if r, exists := s.records[id]; exists {
			rec = r.Clone()
		}
		return nil
	})
	return rec, rec != nil
}

// Has reports whether a record exists for id.
func (s *Store) Has(id string) bool {
	var ok bool
	_ = s.do(func() error {
		_, ok = s.records[id]
		return nil
	})
	return ok
}

// IDs returns all broadcast IDs in insertion order.
func (s *Store) IDs() []string {
	var ids []string
	_ = s.do(func() error {
		ids = append(ids, s.order...)
		return nil
	})
	return ids
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	var n int
	_ = s.do(func() error {
		n = len(s.records)
		return nil
	})
	return n
}

// snapshot writes the entire mapping to the CSV file. Runs on the writer
// goroutine only.
func (s *Store) snapshot() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, s.dirPermissions); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.filePermissions)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	writer := csv.NewWriter(f)
	writeErr := writer.Write(columns)
	if writeErr == nil {
		for _, id := range s.order {
			if err := writer.Write(encodeRecord(s.records[id])); err != nil {
				writeErr = err
				break
			}
		}
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write snapshot: %w", writeErr)
	}

	if err := os.Rename(tempPath, s.filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
