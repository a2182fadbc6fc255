package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// MaxEntries is the number of most recent generations kept.
const MaxEntries = 10

// Entry is one generated payload. It serializes as {data, type, timestamp}.
type Entry struct {
	Data      string `json:"data"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// Store persists the newest-first history list.
// Implementations must keep at most MaxEntries after every Append.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, entry Entry) error
	Clear(ctx context.Context) error
}

// PersistenceError wraps a failed history read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrIndexOutOfRange is returned by Log.Get for a missing position.
var ErrIndexOutOfRange = errors.New(constant.ErrHistoryIndexRange)

// Prepend puts entry in front of entries and drops anything past MaxEntries.
func Prepend(entries []Entry, entry Entry) []Entry {
	out := make([]Entry, 0, MaxEntries)
	out = append(out, entry)
	for _, e := range entries {
		if len(out) == MaxEntries {
			break
		}
		out = append(out, e)
	}
	return out
}

// Log is the history service: it stamps entries and turns store failures
// into logged, non-fatal outcomes.
type Log struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewLog creates a history log backed by store.
func NewLog(store Store) *Log {
	return &Log{store: store, now: time.Now}
}

// Record appends a new entry. A store failure is logged and returned as a
// PersistenceError; the entry is dropped.
func (l *Log) Record(ctx context.Context, data, kind string) error {
	entry := Entry{
		Data:      data,
		Type:      kind,
		Timestamp: l.now().Format(time.RFC3339Nano),
	}

	l.mu.Lock()
	err := l.store.Append(ctx, entry)
	l.mu.Unlock()

	if err != nil {
		logger.CtxWarn(ctx, constant.MsgHistoryWriteSkipped, logger.LoggerInfo{
			ContextFunction: constant.CtxHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryWrite,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
			Data: map[string]interface{}{
				constant.DataKind: kind,
			},
		})
		return asPersistenceError("append", err)
	}

	logger.CtxDebug(ctx, "History entry recorded", logger.LoggerInfo{
		ContextFunction: constant.CtxHistory,
		Data: map[string]interface{}{
			constant.DataKind:    kind,
			constant.DataPayload: data,
		},
	})
	return nil
}

// Entries returns the stored history, newest first. An unreadable store
// yields an empty list; the failure is only logged.
func (l *Log) Entries(ctx context.Context) []Entry {
	l.mu.Lock()
	entries, err := l.store.Load(ctx)
	l.mu.Unlock()

	if err != nil {
		logger.CtxWarn(ctx, constant.MsgHistoryLoadReset, logger.LoggerInfo{
			ContextFunction: constant.CtxHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryLoad,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
		})
		return []Entry{}
	}
	if entries == nil {
		return []Entry{}
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Get returns the entry at index (0 is newest).
func (l *Log) Get(ctx context.Context, index int) (Entry, error) {
	entries := l.Entries(ctx)
	if index < 0 || index >= len(entries) {
		return Entry{}, ErrIndexOutOfRange
	}
	return entries[index], nil
}

// Clear removes every entry.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	err := l.store.Clear(ctx)
	l.mu.Unlock()

	if err != nil {
		logger.CtxWarn(ctx, "Failed to clear history", logger.LoggerInfo{
			ContextFunction: constant.CtxHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryClear,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
		})
		return asPersistenceError("clear", err)
	}

	logger.CtxInfo(ctx, "History cleared", logger.LoggerInfo{
		ContextFunction: constant.CtxHistory,
	})
	return nil
}

func asPersistenceError(op string, err error) error {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return perr
	}
	return &PersistenceError{Op: op, Err: err}
}
