// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tourbuddy/internal/metrics"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrExists is returned by Create when the document already exists.
	ErrExists = errors.New("document already exists")

	// ErrSkipWrite may be returned by an Update callback to leave the
	// document unchanged without failing the call.
	ErrSkipWrite = errors.New("skip write")
)

// Collection is a typed set of JSON documents sharing a key prefix.
type Collection[T any] struct {
	db     *DB
	name   string
	prefix []byte
}

// NewCollection returns the collection named name.
func NewCollection[T any](db *DB, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name, prefix: []byte(name + ":")}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) key(id string) []byte {
	k := make([]byte, 0, len(c.prefix)+len(id))
	k = append(k, c.prefix...)
	return append(k, id...)
}

// Get returns the document with the given id, or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	err := c.db.db.View(func(txn *badger.Txn) error {
		return c.read(txn, id, &doc)
	})
	return doc, err
}

func (c *Collection[T]) read(txn *badger.Txn, id string, doc *T) error {
	item, err := txn.Get(c.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s/%s: %w", c.name, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, doc); err != nil {
			return fmt.Errorf("decode %s/%s: %w", c.name, id, err)
		}
		return nil
	})
}

func (c *Collection[T]) write(txn *badger.Txn, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	if err := txn.Set(c.key(id), data); err != nil {
		return fmt.Errorf("set %s/%s: %w", c.name, id, err)
	}
	return nil
}

// List returns every document in key order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.Query(ctx, nil)
}

// Query returns the documents for which match returns true, in key order.
// A nil match selects every document.
func (c *Collection[T]) Query(ctx context.Context, match func(*T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	err := c.db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = c.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(c.prefix); it.ValidForPrefix(c.prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var doc T
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s/%s: %w", c.name, item.Key()[len(c.prefix):], err)
			}
			if match == nil || match(&doc) {
				out = append(out, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set overwrites the document with the given id.
func (c *Collection[T]) Set(ctx context.Context, id string, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.db.db.Update(func(txn *badger.Txn) error {
		return c.write(txn, id, &doc)
	})
}

// Create stores doc only if no document with the id exists, else ErrExists.
func (c *Collection[T]) Create(ctx context.Context, id string, doc T) error {
	return c.retry(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(c.key(id))
		switch {
		case err == nil:
			return fmt.Errorf("%s/%s: %w", c.name, id, ErrExists)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get %s/%s: %w", c.name, id, err)
		}
		return c.write(txn, id, &doc)
	})
}

// Update atomically applies fn to the stored document and persists the result.
// fn may run more than once when concurrent writers conflict, so it must only
// mutate the document it is given. Returns ErrNotFound without calling fn when
// the document does not exist. If fn returns ErrSkipWrite, nothing is written
// and the unchanged document is returned.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(doc *T) error) (T, error) {
	var result T
	err := c.retry(ctx, func(txn *badger.Txn) error {
		var doc T
		if err := c.read(txn, id, &doc); err != nil {
			return err
		}
		if err := fn(&doc); err != nil {
			if errors.Is(err, ErrSkipWrite) {
				result = doc
			}
			return err
		}
		if err := c.write(txn, id, &doc); err != nil {
			return err
		}
		result = doc
		return nil
	})
	if errors.Is(err, ErrSkipWrite) {
		return result, nil
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Merge overlays fields onto the stored JSON document, creating it when absent.
// Keys are JSON field names; keys not present in fields are left untouched.
func (c *Collection[T]) Merge(ctx context.Context, id string, fields map[string]any) error {
	return c.retry(ctx, func(txn *badger.Txn) error {
		current := map[string]any{}

		item, err := txn.Get(c.key(id))
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &current)
			}); err != nil {
				return fmt.Errorf("decode %s/%s: %w", c.name, id, err)
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get %s/%s: %w", c.name, id, err)
		}

		for k, v := range fields {
			current[k] = v
		}

		// Round-trip through T so the stored document always decodes cleanly.
		raw, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("merge %s/%s: %w", c.name, id, err)
		}
		return c.write(txn, id, &doc)
	})
}

// retry runs fn in a read-write transaction, retrying on commit conflicts.
func (c *Collection[T]) retry(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < c.db.retries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = c.db.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		metrics.StoreConflictRetries.WithLabelValues(c.name).Inc()
	}
	return fmt.Errorf("%s: gave up after %d conflicting attempts: %w", c.name, c.db.retries, err)
}
