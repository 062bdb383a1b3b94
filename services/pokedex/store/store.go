// Package store is the intermediate holding area between the crawl and
// the relational load: one collection of pokemon keyed by pokedex
// number, one collection of abilities keyed by name.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"pokedex-backend/lib/scrapers/pokedex"

	"github.com/dgraph-io/badger/v4"
)

const (
	pokemonPrefix = "pokemon:"
	abilityPrefix = "ability:"
)

type Store struct {
	db *badger.DB
}

func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenInMemory backs the store with memory only, for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// zero padding keeps iteration in pokedex order
func pokemonKey(number int) []byte {
	return []byte(fmt.Sprintf("%s%05d", pokemonPrefix, number))
}

func abilityKey(name string) []byte {
	return []byte(abilityPrefix + name)
}

func encode(value any) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	err := gob.NewEncoder(buffer).Encode(value)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// PutPokemon writes a pokemon record, replacing any previous record
// under the same number.
func (s *Store) PutPokemon(p pokedex.Pokemon) error {
	serialized, err := encode(p)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(pokemonKey(p.Number), serialized)
	})
}

// PutAbility writes an ability record unless one already exists under
// the same name, the first seen description wins. It reports whether
// the record was written.
func (s *Store) PutAbility(a pokedex.Ability) (bool, error) {
	serialized, err := encode(a)
	if err != nil {
		return false, err
	}

	written := false
	err = s.db.Update(func(tx *badger.Txn) error {
		_, err := tx.Get(abilityKey(a.Name))
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		written = true
		return tx.Set(abilityKey(a.Name), serialized)
	})
	return written, err
}

func forEach[T any](db *badger.DB, prefix string, fn func(T) error) error {
	return db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(serialized []byte) error {
				var value T
				err := gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&value)
				if err != nil {
					return err
				}
				return fn(value)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ForEachPokemon visits every pokemon record in pokedex number order.
func (s *Store) ForEachPokemon(fn func(pokedex.Pokemon) error) error {
	return forEach(s.db, pokemonPrefix, fn)
}

// ForEachAbility visits every ability record in name order.
func (s *Store) ForEachAbility(fn func(pokedex.Ability) error) error {
	return forEach(s.db, abilityPrefix, fn)
}
