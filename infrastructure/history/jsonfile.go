// Package history stores the recent-generation log as a JSON array on disk.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prasetyowira/qrgen/constant"
	domain "github.com/prasetyowira/qrgen/domain/history"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// JSONFileStore implements history.Store on a single JSON file.
// Every Append is a locked read-modify-write followed by an atomic rename.
type JSONFileStore struct {
	mu       sync.Mutex
	path     string
	readFile func(string) ([]byte, error)
}

// NewJSONFileStore returns a store for path. The parent directory is created
// on first write.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path, readFile: os.ReadFile}
}

// Path returns the backing file.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load returns the stored entries. A missing file is an empty history;
// a malformed one is reported as a PersistenceError.
func (s *JSONFileStore) Load(ctx context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// Append puts entry first and keeps the newest MaxEntries.
// A malformed file is replaced. Any other read failure drops the entry and
// leaves the file as it is.
func (s *JSONFileStore) Append(ctx context.Context, entry domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		var perr *domain.PersistenceError
		if !errors.As(err, &perr) || perr.Op != "decode" {
			return err
		}
		entries = nil
	}
	return s.write(ctx, domain.Prepend(entries, entry))
}

// Clear writes an empty list.
func (s *JSONFileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, []domain.Entry{})
}

func (s *JSONFileStore) read(ctx context.Context) ([]domain.Entry, error) {
	data, err := s.readFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Entry{}, nil
		}
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}

	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.CtxWarn(ctx, "History file is malformed", logger.LoggerInfo{
			ContextFunction: constant.CtxJSONFile,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryLoad,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
			Data: map[string]interface{}{
				constant.DataPath: s.path,
			},
		})
		return nil, &domain.PersistenceError{Op: "decode", Err: err}
	}
	if len(entries) > domain.MaxEntries {
		entries = entries[:domain.MaxEntries]
	}
	return entries, nil
}

func (s *JSONFileStore) write(ctx context.Context, entries []domain.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &domain.PersistenceError{Op: "write", Err: fmt.Errorf("rename: %w", err)}
	}

	logger.CtxDebug(ctx, "History file written", logger.LoggerInfo{
		ContextFunction: constant.CtxJSONFile,
		Data: map[string]interface{}{
			constant.DataPath:    s.path,
			constant.DataEntries: len(entries),
		},
	})
	return nil
}
