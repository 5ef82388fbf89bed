// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package badger provides a BadgerDB-backed implementation of the
// storage interfaces.
package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/Sbeom12/graph-db-test/storage"
	"github.com/dgraph-io/badger/v4"
)

// resultRepository implements storage.ResultRepository for BadgerDB.
type resultRepository struct {
	backend *Backend
}

var _ storage.ResultRepository = (*resultRepository)(nil)

// NewResultRepository opens a BadgerDB-backed parse-result cache at the
// given path. The directory is created if it doesn't exist.
func NewResultRepository(path string) (storage.ResultRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &resultRepository{backend: backend}, nil
}

// newResultRepository wraps an existing backend. Used by tests.
func newResultRepository(backend *Backend) *resultRepository {
	return &resultRepository{backend: backend}
}

// Close closes the underlying database.
func (r *resultRepository) Close() error {
	return r.backend.Close()
}

// PutResult stores a record, overwriting any previous record with the
// same ID. InsertedAt is preserved from the first write.
func (r *resultRepository) PutResult(ctx context.Context, record *storage.ParseRecord) (*storage.ParseRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	now := time.Now().UTC()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeResultKey(record.ID)

		record.UpdatedAt = now
		if record.InsertedAt.IsZero() {
			record.InsertedAt = now
		}
		if existing, err := readRecord(tx, key); err == nil {
			record.InsertedAt = existing.InsertedAt
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		value, err := storage.MarshalParseRecord(record)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetResult retrieves a record by ID.
func (r *resultRepository) GetResult(ctx context.Context, id storage.ID) (*storage.ParseRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *storage.ParseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = readRecord(tx, makeResultKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteResult removes a record by ID.
func (r *resultRepository) DeleteResult(ctx context.Context, id storage.ID) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeResultKey(id)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListResults returns all cached records, newest first.
func (r *resultRepository) ListResults(ctx context.Context) ([]*storage.ParseRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*storage.ParseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(parseResultPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalParseRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *storage.ParseRecord) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return records, nil
}

// readRecord reads and unmarshals a record inside a transaction.
func readRecord(tx *badger.Txn, key []byte) (*storage.ParseRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var record *storage.ParseRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalParseRecord(val)
		return unmarshalErr
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
