// Package localstore is the on-device tier: a namespaced key-value store on
// BadgerDB holding the question catalog, attempt history, drafts and settings.
// It is always read/write-available and owns the local copy outright; the
// remote tier only ever mirrors it.
package localstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/internal/seeds"
	"github.com/echo-cqy/codeling/pkg/logger"
)

// Namespaced keys. Everything the store writes starts with keyNamespace so
// ClearAllData can wipe without touching unrelated data in the same directory.
const (
	keyNamespace = "codeling_"
	keyLanguage  = "codeling_lang"
	keyQuestions = "codeling_questions"
	keyStats     = "codeling_user_stats"
	keyHidden    = "codeling_hidden_questions"
	draftPrefix  = "codeling_draft_"
)

func draftKey(questionID string, framework models.Framework) string {
	return draftPrefix + questionID + "_" + string(framework)
}

// parseDraftKey recovers (questionID, framework) from a draft key. The
// framework tag never contains an underscore, so split at the last one.
func parseDraftKey(key string) (string, models.Framework, bool) {
	rest := strings.TrimPrefix(key, draftPrefix)
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return "", "", false
	}
	fw := models.Framework(rest[i+1:])
	if !fw.Valid() {
		return "", "", false
	}
	return rest[:i], fw, true
}

// Config holds options for opening a store.
type Config struct {
	// Path is the directory for the BadgerDB files. Ignored when InMemory.
	Path string

	// InMemory opens the store without disk persistence. Tests use this.
	InMemory bool

	// SyncWrites makes every write durable before returning.
	SyncWrites bool
}

// DefaultConfig returns production settings rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{Path: dir, SyncWrites: true}
}

// InMemoryConfig returns settings for tests: no disk, no fsync.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is the local tier. Every read-modify-write runs under mu, so no caller
// can observe a half-updated state; this is the safety property the rest of
// the system leans on.
type Store struct {
	db  *badger.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// badgerLogger routes BadgerDB's internal logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.log.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.log.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debug().Msgf(format, args...) }

// Open opens the store and seeds the default catalog if it has never been
// written. Callers must Close when done.
func Open(cfg Config) (*Store, error) {
	log := logger.With("localstore")

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{log: log})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.InitializeIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InitializeIfEmpty seeds the built-in question catalog when no catalog has
// ever been persisted. Seeding happens here, once, rather than hidden inside
// every getter; GetQuestions still self-heals if the key goes missing later.
func (s *Store) InitializeIfEmpty() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.get(keyQuestions)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	s.log.Info().Msg("seeding default question catalog")
	return s.setJSON(keyQuestions, seeds.DefaultQuestions())
}

// get reads a raw value. found is false when the key does not exist.
func (s *Store) get(key string) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *Store) set(key string, val []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *Store) setJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.set(key, data)
}

// getJSON unmarshals the stored value into dest. corrupt is true when a value
// exists but cannot be parsed; callers fall back to defaults in that case
// instead of surfacing the error.
func (s *Store) getJSON(key string, dest interface{}) (found, corrupt bool, err error) {
	data, found, err := s.get(key)
	if err != nil || !found {
		return found, false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("corrupt stored value, falling back to defaults")
		return true, true, nil
	}
	return true, false, nil
}

// keysWithPrefix lists every key starting with prefix.
func (s *Store) keysWithPrefix(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// ClearAllData removes every namespaced key. Hard reset escape hatch; the next
// open (or GetQuestions call) reseeds the default catalog.
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keysWithPrefix(keyNamespace)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.delete(k); err != nil {
			return err
		}
	}
	s.log.Warn().Int("keys", len(keys)).Msg("cleared all local data")
	return nil
}

// GetLanguage returns the display language, defaulting to English.
func (s *Store) GetLanguage() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.get(keyLanguage)
	if err != nil || !found {
		return models.LanguageEN
	}
	lang := models.Language(data)
	if lang != models.LanguageEN && lang != models.LanguageZH {
		return models.LanguageEN
	}
	return lang
}

func (s *Store) SetLanguage(lang models.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(keyLanguage, []byte(lang))
}

// GetHiddenQuestions returns the display preference of hidden question ids.
func (s *Store) GetHiddenQuestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	found, corrupt, err := s.getJSON(keyHidden, &ids)
	if err != nil || !found || corrupt {
		return []string{}
	}
	return ids
}

func (s *Store) SaveHiddenQuestions(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		ids = []string{}
	}
	return s.setJSON(keyHidden, ids)
}
