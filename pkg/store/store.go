// Package store persists schema snapshots and evaluation reports in a
// local BadgerDB directory.
//
// Snapshots let the CLI import a schema once and refer to it by name
// afterwards; reports keep an archive of evaluation runs for comparison
// over time. Keys are namespaced by record kind:
//
//	schema/<name>  - Snapshot (JSON)
//	report/<id>    - eval.Report (JSON)
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/orneryd/vordr/pkg/eval"
	"github.com/orneryd/vordr/pkg/schema"
)

// ErrNotFound is returned when no record exists under the requested key.
var ErrNotFound = errors.New("entry not found")

var (
	schemaPrefix = []byte("schema/")
	reportPrefix = []byte("report/")
)

func schemaKey(name string) []byte {
	return append(append([]byte(nil), schemaPrefix...), name...)
}

func reportKey(id string) []byte {
	return append(append([]byte(nil), reportPrefix...), id...)
}

// Snapshot is a named schema with the time it was saved.
type Snapshot struct {
	Name    string         `json:"name"`
	SavedAt time.Time      `json:"saved_at"`
	Schema  *schema.Schema `json:"schema"`
}

// Store is a Badger-backed snapshot and report archive. Safe for concurrent
// use; Close exactly once when done.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the store in dir. Badger's own logging is
// silenced; it drowns CLI output otherwise.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that keeps everything in memory. Data is lost
// on Close; useful for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutSchema saves sc under name, overwriting any previous snapshot of that
// name.
func (s *Store) PutSchema(name string, sc *schema.Schema) error {
	if name == "" {
		return fmt.Errorf("snapshot name must not be empty")
	}
	data, err := json.Marshal(Snapshot{
		Name:    name,
		SavedAt: time.Now().UTC(),
		Schema:  sc,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(schemaKey(name), data)
	})
}

// GetSchema returns the snapshot saved under name, or ErrNotFound.
func (s *Store) GetSchema(name string) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(schemaKey(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSchemas returns every snapshot, sorted by name.
func (s *Store) ListSchemas() ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(schemaPrefix); it.ValidForPrefix(schemaPrefix); it.Next() {
			var snap Snapshot
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			}); err != nil {
				return err
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Key iteration is already lexical, which is name order here.
	return snaps, nil
}

// DeleteSchema removes the snapshot saved under name, or returns
// ErrNotFound.
func (s *Store) DeleteSchema(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(schemaKey(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(schemaKey(name))
	})
}

// PutReport archives an evaluation report under its ID.
func (s *Store) PutReport(r *eval.Report) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("report must have an ID")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(r.ID), data)
	})
}

// GetReport returns the archived report with the given ID, or ErrNotFound.
func (s *Store) GetReport(id string) (*eval.Report, error) {
	var report eval.Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reportKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &report)
		})
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns every archived report, oldest run first.
func (s *Store) ListReports() ([]eval.Report, error) {
	var reports []eval.Report
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(reportPrefix); it.ValidForPrefix(reportPrefix); it.Next() {
			var report eval.Report
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &report)
			}); err != nil {
				return err
			}
			reports = append(reports, report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].RanAt.Equal(reports[j].RanAt) {
			return reports[i].ID < reports[j].ID
		}
		return reports[i].RanAt.Before(reports[j].RanAt)
	})
	return reports, nil
}
