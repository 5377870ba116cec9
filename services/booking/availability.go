package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"motorbook/models"
)

const snapshotCacheKey = "availability:snapshot"

// DefaultAvailabilityService fetches the exhaustion and blackout state from
// the backend and reconciles it into per-date and per-slot verdicts. The
// snapshot is cached briefly in Redis to spare the upstream.
type DefaultAvailabilityService struct {
	Backend  Backend
	Cache    *redis.Client // nil disables snapshot caching
	Logger   *zap.Logger
	CacheTTL time.Duration

	WindowDays   int
	DayStartHour int
	DayEndHour   int

	// FailOpen degrades fetch errors to empty collections so a backend data
	// error never closes the whole calendar.
	FailOpen bool

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) today() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Snapshot returns the current exhaustion and blackout state. The two
// underlying fetches are independent; under the fail-open policy either one
// failing yields empty collections rather than an error.
func (s *DefaultAvailabilityService) Snapshot(ctx context.Context) (models.AvailabilitySnapshot, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, snapshotCacheKey).Result(); err == nil {
			var snap models.AvailabilitySnapshot
			if err := json.Unmarshal([]byte(data), &snap); err == nil {
				return snap, nil
			}
		}
	}

	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return models.AvailabilitySnapshot{}, err
	}

	if s.Cache != nil && s.CacheTTL > 0 {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.Cache.Set(ctx, snapshotCacheKey, data, s.CacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache availability snapshot", zap.Error(err))
			}
		}
	}
	return snap, nil
}

// Refresh re-fetches the snapshot and overwrites the cache. Used by the
// background worker after a confirmed booking may have exhausted its date.
func (s *DefaultAvailabilityService) Refresh(ctx context.Context) error {
	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return err
	}
	if s.Cache == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal availability snapshot: %w", err)
	}
	if err := s.Cache.Set(ctx, snapshotCacheKey, data, s.CacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache availability snapshot: %w", err)
	}
	return nil
}

func (s *DefaultAvailabilityService) fetchSnapshot(ctx context.Context) (models.AvailabilitySnapshot, error) {
	var snap models.AvailabilitySnapshot

	today := s.today()
	from := ISODate(today)
	to := ISODate(AddDays(today, s.WindowDays))

	exhausted, err := s.Backend.ExhaustedDates(ctx, from, to)
	if err != nil {
		if !s.FailOpen {
			return snap, fmt.Errorf("failed to fetch exhausted dates: %w", err)
		}
		s.Logger.Warn("exhausted dates fetch failed, treating all dates as open", zap.Error(err))
		exhausted = nil
	}

	blackouts, err := s.Backend.UnavailableRanges(ctx)
	if err != nil {
		if !s.FailOpen {
			return snap, fmt.Errorf("failed to fetch blackout ranges: %w", err)
		}
		s.Logger.Warn("blackout fetch failed, treating all slots as open", zap.Error(err))
		blackouts = nil
	}

	snap.ExhaustedDates = exhausted
	snap.Blackouts = blackouts
	return snap, nil
}

// Calendar returns the selectable date window: the next WindowDays days, each
// marked blocked when exhausted or fully blacked out.
func (s *DefaultAvailabilityService) Calendar(ctx context.Context) ([]models.CalendarDay, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	days := NextNDays(s.today(), s.WindowDays)
	for i := range days {
		days[i].Blocked = IsDateBlocked(days[i].ISO, snap.ExhaustedDates, snap.Blackouts)
	}
	return days, nil
}

// SlotsFor returns the daily grid reconciled against the blackouts recorded
// for the given date.
func (s *DefaultAvailabilityService) SlotsFor(ctx context.Context, date string) ([]models.TimeSlot, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	grid := GenerateDailySlots(s.DayStartHour, s.DayEndHour)
	return SlotsWithAvailability(grid, snap.BlackoutsFor(date)), nil
}
