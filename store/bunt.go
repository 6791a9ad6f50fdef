package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/tidwall/buntdb"
	"golang.org/x/oauth2"
)

// BuntTokenStore keeps the token in a local buntdb file.
type BuntTokenStore struct {
	db *buntdb.DB
}

// NewBuntTokenStore opens (creating if needed) a buntdb file at path.
// Use ":memory:" for a throwaway store.
func NewBuntTokenStore(path string) (*BuntTokenStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &BuntTokenStore{db: db}, nil
}

func (s *BuntTokenStore) Token() (*oauth2.Token, error) {
	var raw string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(tokenKey)
		if err != nil {
			return err
		}
		raw = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	return tokenFromRaw(raw), nil
}

func (s *BuntTokenStore) SaveToken(raw string) error {
	raw, err := normalizeToken(raw)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(tokenKey, raw, nil)
		return err
	})
}

// ClearToken removes the stored token; a missing token is not an error.
func (s *BuntTokenStore) ClearToken() error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(tokenKey)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil
	}
	return err
}

func (s *BuntTokenStore) Close() error { return s.db.Close() }
