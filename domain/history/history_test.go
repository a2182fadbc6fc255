package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) ([]Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func (m *MockStore) Append(ctx context.Context, entry Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// memoryStore keeps entries in a slice with the same capping rule as real stores.
type memoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *memoryStore) Load(context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...), nil
}

func (s *memoryStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = Prepend(s.entries, e)
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

func TestPrepend_Caps(t *testing.T) {
	var entries []Entry
	for i := 0; i < 25; i++ {
		entries = Prepend(entries, Entry{Data: fmt.Sprint(i)})
		assert.LessOrEqual(t, len(entries), MaxEntries)
	}

	require.Len(t, entries, MaxEntries)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprint(24-i), e.Data)
	}
}

func TestLog_Record(t *testing.T) {
	// Arrange
	store := new(MockStore)
	log := NewLog(store)
	at := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	log.now = func() time.Time { return at }

	store.On("Append", mock.Anything, Entry{
		Data:      "https://example.com",
		Type:      "website",
		Timestamp: "2026-10-19T08:30:00Z",
	}).Return(nil)

	// Act
	err := log.Record(context.Background(), "https://example.com", "website")

	// Assert
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLog_RecordFailure(t *testing.T) {
	store := new(MockStore)
	log := NewLog(store)
	store.On("Append", mock.Anything, mock.AnythingOfType("history.Entry")).Return(errors.New("read-only fs"))

	err := log.Record(context.Background(), "x", "text")

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "append", perr.Op)
}

func TestLog_RecordKeepsStorePersistenceError(t *testing.T) {
	store := new(MockStore)
	log := NewLog(store)
	original := &PersistenceError{Op: "write", Err: errors.New("boom")}
	store.On("Append", mock.Anything, mock.Anything).Return(original)

	err := log.Record(context.Background(), "x", "text")

	assert.Same(t, original, err)
}

func TestLog_EntriesLoadFailureIsEmpty(t *testing.T) {
	store := new(MockStore)
	log := NewLog(store)
	store.On("Load", mock.Anything).Return(nil, errors.New("malformed"))

	entries := log.Entries(context.Background())

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestLog_EntriesNeverExceedCap(t *testing.T) {
	store := new(MockStore)
	log := NewLog(store)
	long := make([]Entry, 15)
	store.On("Load", mock.Anything).Return(long, nil)

	assert.Len(t, log.Entries(context.Background()), MaxEntries)
}

func TestLog_Get(t *testing.T) {
	store := &memoryStore{}
	log := NewLog(store)
	ctx := context.Background()
	require.NoError(t, log.Record(ctx, "first", "text"))
	require.NoError(t, log.Record(ctx, "second", "text"))

	got, err := log.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Data)

	_, err = log.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = log.Get(ctx, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestLog_Clear(t *testing.T) {
	store := new(MockStore)
	log := NewLog(store)
	store.On("Clear", mock.Anything).Return(nil).Once()
	store.On("Clear", mock.Anything).Return(errors.New("locked")).Once()

	assert.NoError(t, log.Clear(context.Background()))

	var perr *PersistenceError
	assert.True(t, errors.As(log.Clear(context.Background()), &perr))
}

func TestLog_InvariantAfterManyInserts(t *testing.T) {
	store := &memoryStore{}
	log := NewLog(store)
	ctx := context.Background()

	for i := 0; i < 13; i++ {
		require.NoError(t, log.Record(ctx, fmt.Sprintf("item-%d", i), "text"))
	}

	entries := log.Entries(ctx)
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "item-12", entries[0].Data)
	assert.Equal(t, "item-3", entries[MaxEntries-1].Data)
}

func TestLog_ConcurrentRecords(t *testing.T) {
	store := &memoryStore{}
	log := NewLog(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = log.Record(ctx, fmt.Sprint(i), "text")
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.Entries(ctx), MaxEntries)
}
