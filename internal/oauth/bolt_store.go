package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"taskclient/pkg/logging"
)

const tokensBucket = "tokens"

// lockTimeout bounds how long one transaction waits for another process
// holding the database file.
const lockTimeout = 5 * time.Second

// BoltTokenStore persists tokens in a bbolt database so separate CLI
// invocations can reuse a token until it expires.
//
// The file is opened only for the duration of a single transaction, so
// concurrent processes sharing the same path take turns on the file lock
// instead of failing at startup. The database file is created with 0600
// permissions and its directory with 0700. Token values are never logged.
type BoltTokenStore struct {
	path string

	// bbolt's flock conflicts between handles of the same process too
	mu sync.Mutex
}

// OpenBoltTokenStore prepares the token database at path, creating the file
// and its bucket when missing.
func OpenBoltTokenStore(path string) (*BoltTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create token cache directory: %w", err)
	}

	s := &BoltTokenStore{path: path}
	err := s.update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(tokensBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token cache %s: %w", path, err)
	}

	logging.Debug("TokenStore", "Using token cache at %s", path)
	return s, nil
}

func (s *BoltTokenStore) open(readOnly bool) (*bbolt.DB, error) {
	db, err := bbolt.Open(s.path, 0600, &bbolt.Options{Timeout: lockTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open token cache %s: %w", s.path, err)
	}
	return db, nil
}

func (s *BoltTokenStore) view(fn func(*bbolt.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(true)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}

func (s *BoltTokenStore) update(fn func(*bbolt.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

// bucket returns the tokens bucket, or nil when another process has not
// created it yet.
func bucket(tx *bbolt.Tx) *bbolt.Bucket {
	return tx.Bucket([]byte(tokensBucket))
}

func (s *BoltTokenStore) Get(registration string, margin time.Duration) *Token {
	var token *Token
	err := s.view(func(tx *bbolt.Tx) error {
		b := bucket(tx)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(registration))
		if data == nil {
			return nil
		}
		var t Token
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("corrupt cache entry: %w", err)
		}
		token = &t
		return nil
	})
	if err != nil {
		logging.Warn("TokenStore", "Ignoring cached token for registration=%s: %v", registration, err)
		return nil
	}
	if token == nil || token.IsExpired(margin) {
		return nil
	}
	return token
}

func (s *BoltTokenStore) Store(registration string, token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(tokensBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(registration), data)
	})
	if err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	logging.Debug("TokenStore", "Persisted token for registration=%s (expires: %v)", registration, token.ExpiresAt)
	return nil
}

func (s *BoltTokenStore) Delete(registration string) error {
	return s.update(func(tx *bbolt.Tx) error {
		b := bucket(tx)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(registration))
	})
}

func (s *BoltTokenStore) List() ([]*Token, error) {
	var tokens []*Token
	err := s.view(func(tx *bbolt.Tx) error {
		b := bucket(tx)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var t Token
			if err := json.Unmarshal(v, &t); err != nil {
				logging.Warn("TokenStore", "Skipping corrupt cache entry %s: %v", string(k), err)
				return nil
			}
			tokens = append(tokens, &t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Registration < tokens[j].Registration
	})
	return tokens, nil
}

func (s *BoltTokenStore) Clear() error {
	return s.update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(tokensBucket)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(tokensBucket))
		return err
	})
}

// Close is a no-op: the file is never held open between transactions.
func (s *BoltTokenStore) Close() error {
	return nil
}
