package usage

import (
	"context"
	"log/slog"
	"time"
)

// Free-tier quota limits.
const (
	// DailyUploadLimit is the number of full analyses allowed per address
	// per calendar day.
	DailyUploadLimit = 1
	// DemoLifetimeLimit is the number of demo analyses allowed per address,
	// ever. Demo runs do not reset daily.
	DemoLifetimeLimit = 2
)

// QuotaError reports an exhausted quota. User-facing with an Arabic detail.
type QuotaError struct {
	Demo bool
}

func (e *QuotaError) Error() string {
	if e.Demo {
		return "demo quota exhausted"
	}
	return "daily upload quota exhausted"
}

// Detail returns the Arabic message shown to the uploader.
func (e *QuotaError) Detail() string {
	if e.Demo {
		return "تم الوصول إلى الحد اليومي لمحاولات التحليل التجريبية. يمكنك إعادة المحاولة غدًا."
	}
	return "تم الوصول إلى الحد اليومي لمحاولة التحليل. يمكنك إعادة المحاولة غدًا."
}

// Store is the persistence surface the service depends on
type Store interface {
	Get(ctx context.Context, ip string) (*Record, error)
	RecordUpload(ctx context.Context, ip string, day time.Time) error
	RecordDemo(ctx context.Context, ip string) error
}

// Service enforces the free-tier quotas
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new usage service
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Allow checks whether the address may run another analysis. It never
// consumes quota; call Record after the analysis succeeds.
func (s *Service) Allow(ctx context.Context, ip string, isDemo bool) error {
	rec, err := s.store.Get(ctx, ip)
	if err != nil {
		// quota state being unavailable must not take the analyzer down
		s.logger.Warn("usage lookup failed, allowing request", slog.Any("error", err))
		return nil
	}

	if isDemo {
		if rec.DemoCount >= DemoLifetimeLimit {
			return &QuotaError{Demo: true}
		}
		return nil
	}

	if rec.LastUploadDate == nil || !sameDay(*rec.LastUploadDate, s.now()) {
		return nil
	}
	if rec.UploadCount >= DailyUploadLimit {
		return &QuotaError{}
	}
	return nil
}

// Record consumes one unit of quota after a successful analysis.
func (s *Service) Record(ctx context.Context, ip string, isDemo bool) error {
	if isDemo {
		return s.store.RecordDemo(ctx, ip)
	}
	return s.store.RecordUpload(ctx, ip, dayOf(s.now()))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
