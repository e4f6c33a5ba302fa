package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// fileStore — append-only лог: один JSON-файл на пару (caller, topic).
type fileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(dir string) (Store, error) {
	conversations := filepath.Join(dir, "conversations")
	if err := os.MkdirAll(conversations, 0o755); err != nil {
		return nil, fmt.Errorf("history: create %s: %w", conversations, err)
	}
	return &fileStore{
		dir:   conversations,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// lockFor — свой мьютекс на каждую пару, чтобы записи разных пар не мешали друг другу
func (s *fileStore) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *fileStore) path(pair Pair) string {
	return filepath.Join(s.dir, pair.Key()+".json")
}

func (s *fileStore) Read(_ context.Context, pair Pair, limit int) ([]Turn, error) {
	l := s.lockFor(pair.Key())
	l.Lock()
	defer l.Unlock()

	turns, err := s.load(pair)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (s *fileStore) Append(_ context.Context, turn Turn) error {
	pair := Pair{Caller: turn.CallerKey, Topic: turn.TopicKey}

	l := s.lockFor(pair.Key())
	l.Lock()
	defer l.Unlock()

	turns, err := s.load(pair)
	if err != nil {
		return err
	}
	turns = append(turns, turn)

	raw, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("history: marshal %s: %w", pair.Key(), err)
	}

	// пишем во временный файл и переименовываем — читатель либо видит
	// старую версию целиком, либо новую, рваных ходов не бывает
	tmp, err := os.CreateTemp(s.dir, pair.Key()+".*.tmp")
	if err != nil {
		return fmt.Errorf("history: temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("history: write %s: %w", pair.Key(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("history: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(pair)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("history: rename %s: %w", pair.Key(), err)
	}
	return nil
}

func (s *fileStore) load(pair Pair) ([]Turn, error) {
	raw, err := os.ReadFile(s.path(pair))
	if err != nil {
		if os.IsNotExist(err) {
			return []Turn{}, nil
		}
		return nil, fmt.Errorf("history: read %s: %w", pair.Key(), err)
	}

	var turns []Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("history: parse %s: %w", pair.Key(), err)
	}
	return turns, nil
}
