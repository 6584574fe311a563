// Package journal persists write-ahead intents for vault operations.
//
// The vault records an intent before any operation that mutates the
// filesystem and the catalog together, and clears it once both sides are
// done. An intent that survives a restart marks an operation that may have
// stopped halfway; verify surfaces those instead of guessing.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Op identifies the vault operation an intent belongs to.
type Op string

const (
	OpUpload Op = "upload"
	OpMove   Op = "move"
	OpDelete Op = "delete"
)

// Intent is one recorded multi-step operation.
//
// Path is the storage path being written, moved from, or deleted; NewPath is
// set for moves only. FileID is zero for uploads, which have no row yet when
// the intent is written.
type Intent struct {
	ID        string    `json:"id"`
	Op        Op        `json:"op"`
	FileID    uint      `json:"file_id,omitempty"`
	Path      string    `json:"path,omitempty"`
	NewPath   string    `json:"new_path,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Key prefix for intent storage: intent:{uuid} -> JSON(Intent)
const prefixIntent = "intent:"

func keyIntent(id string) []byte {
	return []byte(prefixIntent + id)
}

// Journal stores intents in a BadgerDB keyspace.
//
// Thread Safety: all operations use BadgerDB's transaction support and are
// safe for concurrent use.
type Journal struct {
	db *badgerdb.DB
}

// Open opens (or creates) the journal database at dir.
func Open(dir string) (*Journal, error) {
	opts := badgerdb.DefaultOptions(dir).WithLogger(nil)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Begin records an intent and returns its id. The id and start time are
// assigned here; any values set on the argument are overwritten.
func (j *Journal) Begin(ctx context.Context, intent Intent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	intent.ID = uuid.New().String()
	intent.StartedAt = time.Now()

	err := j.db.Update(func(txn *badgerdb.Txn) error {
		data, err := json.Marshal(&intent)
		if err != nil {
			return err
		}
		return txn.Set(keyIntent(intent.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to record intent: %w", err)
	}

	return intent.ID, nil
}

// End clears a completed intent. Clearing an unknown id is not an error.
func (j *Journal) End(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return j.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(keyIntent(id))
	})
}

// List returns all pending intents, oldest first.
func (j *Journal) List(ctx context.Context) ([]*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var intents []*Intent

	err := j.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefixIntent)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				intent := &Intent{}
				if err := json.Unmarshal(val, intent); err != nil {
					return err
				}
				intents = append(intents, intent)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(intents, func(i, k int) bool {
		return intents[i].StartedAt.Before(intents[k].StartedAt)
	})

	return intents, nil
}
