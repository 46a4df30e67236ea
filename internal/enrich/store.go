// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package enrich

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/abdul1ah/cinephile/internal/logging"
)

// Store is the disk tier of the enrichment cache, backed by BadgerDB.
// Entries expire via Badger's native TTL so stale movie details age out
// without a sweeper.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// NewStore opens (or creates) a Badger database at dir.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is too chatty for a cache

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open enrichment cache at %s: %w", dir, err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Get returns the cached movie details for a TMDB ID, or false when absent
// or expired.
func (s *Store) Get(movieID int) (*Movie, bool) {
	var movie Movie
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(movieID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &movie)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().
				Str("component", "enrich").
				Int("movie_id", movieID).
				Err(err).
				Msg("Disk cache read failed")
		}
		return nil, false
	}
	return &movie, true
}

// Set stores movie details with the configured TTL. Failures are logged
// and absorbed; the cache is best-effort.
func (s *Store) Set(movieID int, movie *Movie) {
	data, err := json.Marshal(movie)
	if err != nil {
		logging.Warn().
			Str("component", "enrich").
			Int("movie_id", movieID).
			Err(err).
			Msg("Disk cache encode failed")
		return
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(storeKey(movieID), data).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logging.Warn().
			Str("component", "enrich").
			Int("movie_id", movieID).
			Err(err).
			Msg("Disk cache write failed")
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func storeKey(movieID int) []byte {
	return []byte("movie:" + strconv.Itoa(movieID))
}
