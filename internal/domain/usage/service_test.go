package usage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStore implements Store for testing
type MockStore struct {
	record   *Record
	getErr   error
	uploads  []time.Time
	demos    int
	writeErr error
}

func (m *MockStore) Get(ctx context.Context, ip string) (*Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.record == nil {
		return &Record{IP: ip}, nil
	}
	return m.record, nil
}

func (m *MockStore) RecordUpload(ctx context.Context, ip string, day time.Time) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.uploads = append(m.uploads, day)
	return nil
}

func (m *MockStore) RecordDemo(ctx context.Context, ip string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.demos++
	return nil
}

func newTestService(store Store) *Service {
	svc := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestAllowFirstUpload(t *testing.T) {
	svc := newTestService(&MockStore{})
	assert.NoError(t, svc.Allow(context.Background(), "1.2.3.4", false))
}

func TestAllowDeniesSecondUploadSameDay(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(&MockStore{record: &Record{
		IP:             "1.2.3.4",
		UploadCount:    1,
		LastUploadDate: &today,
	}})

	err := svc.Allow(context.Background(), "1.2.3.4", false)

	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.False(t, quotaErr.Demo)
	assert.Contains(t, quotaErr.Detail(), "الحد اليومي")
}

func TestAllowResetsOnNewDay(t *testing.T) {
	yesterday := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	svc := newTestService(&MockStore{record: &Record{
		IP:             "1.2.3.4",
		UploadCount:    1,
		LastUploadDate: &yesterday,
	}})

	assert.NoError(t, svc.Allow(context.Background(), "1.2.3.4", false))
}

func TestAllowDemoWithinLifetimeLimit(t *testing.T) {
	svc := newTestService(&MockStore{record: &Record{IP: "1.2.3.4", DemoCount: 1}})
	assert.NoError(t, svc.Allow(context.Background(), "1.2.3.4", true))
}

func TestAllowDemoLifetimeLimitNeverResets(t *testing.T) {
	// demo quota is lifetime: even with no upload today it stays exhausted
	svc := newTestService(&MockStore{record: &Record{IP: "1.2.3.4", DemoCount: 2}})

	err := svc.Allow(context.Background(), "1.2.3.4", true)

	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.True(t, quotaErr.Demo)
	assert.Contains(t, quotaErr.Detail(), "التجريبية")
}

func TestAllowFailsOpenOnStoreError(t *testing.T) {
	svc := newTestService(&MockStore{getErr: errors.New("connection refused")})
	assert.NoError(t, svc.Allow(context.Background(), "1.2.3.4", false))
}

func TestRecordUploadUsesCurrentDay(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)

	require.NoError(t, svc.Record(context.Background(), "1.2.3.4", false))

	require.Len(t, store.uploads, 1)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), store.uploads[0])
}

func TestRecordDemo(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)

	require.NoError(t, svc.Record(context.Background(), "1.2.3.4", true))
	assert.Equal(t, 1, store.demos)
	assert.Empty(t, store.uploads)
}
