// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

// Package store provides a JSON document store on top of BadgerDB.
//
// Each Collection is a key prefix ("destinations:", "users:") holding one JSON
// document per key. Writes that read first go through Update, which runs the
// read-modify-write inside a single Badger transaction and retries when the
// commit fails with badger.ErrConflict. Concurrent writers to the same document
// therefore never lose each other's changes.
package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tourbuddy/internal/config"
	"github.com/tomtom215/tourbuddy/internal/logging"
)

// DefaultConflictRetries is used when the configured retry count is not positive.
const DefaultConflictRetries = 5

// DB wraps a Badger database shared by all collections.
type DB struct {
	db      *badger.DB
	retries int
}

// Open opens the document store described by cfg.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(newBadgerLogger())

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	retries := cfg.ConflictRetries
	if retries <= 0 {
		retries = DefaultConflictRetries
	}
	return &DB{db: db, retries: retries}, nil
}

// OpenInMemory opens an ephemeral store, mainly for tests.
func OpenInMemory() (*DB, error) {
	return Open(config.DatabaseConfig{InMemory: true, ConflictRetries: DefaultConflictRetries})
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping reports whether the database is open and readable.
func (d *DB) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.db.IsClosed() {
		return fmt.Errorf("badger db is closed")
	}
	return d.db.View(func(*badger.Txn) error { return nil })
}

// badgerLogger routes Badger's internal logging through zerolog.
// Info and debug output is dropped.
type badgerLogger struct {
	log zerolog.Logger
}

func newBadgerLogger() *badgerLogger {
	return &badgerLogger{log: logging.WithComponent("badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(string, ...interface{})  {}
func (l *badgerLogger) Debugf(string, ...interface{}) {}
