package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	digestSentTTL     = 36 * time.Hour
	prayerReminderTTL = 24 * time.Hour
	digestTolerance   = 1 // minutes either side of the digest time
)

// SchedulerConfig holds the delivery job settings
type SchedulerConfig struct {
	DigestHour   int
	DigestMinute int
	DigestDedupe bool
	Concurrency  int
	PrayerLead   time.Duration
}

// SchedulerServiceImpl implements domain.SchedulerService
type SchedulerServiceImpl struct {
	profiles      domain.ProfileStore
	prayers       domain.PrayerTimesAPI
	reminders     domain.ReminderQueue
	subscriptions domain.SubscriptionRepository
	dedupe        domain.DedupeStore
	messenger     domain.Messenger
	events        domain.EventLogger
	logger        *zap.Logger
	config        SchedulerConfig
	now           func() time.Time
}

// NewSchedulerService creates the delivery jobs
func NewSchedulerService(
	profiles domain.ProfileStore,
	prayers domain.PrayerTimesAPI,
	reminders domain.ReminderQueue,
	subscriptions domain.SubscriptionRepository,
	dedupe domain.DedupeStore,
	messenger domain.Messenger,
	events domain.EventLogger,
	logger *zap.Logger,
	config SchedulerConfig,
) *SchedulerServiceImpl {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.PrayerLead <= 0 {
		config.PrayerLead = 10 * time.Minute
	}
	return &SchedulerServiceImpl{
		profiles:      profiles,
		prayers:       prayers,
		reminders:     reminders,
		subscriptions: subscriptions,
		dedupe:        dedupe,
		messenger:     messenger,
		events:        events,
		logger:        logger.Named("scheduler"),
		config:        config,
		now:           time.Now,
	}
}

func (s *SchedulerServiceImpl) send(ctx context.Context, job string, eventType domain.EventType, userID, body string, meta map[string]interface{}) {
	err := s.messenger.SendText(ctx, userID, body)
	metrics.ObserveDelivery(job, err)

	event := domain.NewEvent(eventType, userID)
	for k, v := range meta {
		event.WithMetadata(k, v)
	}
	if err != nil {
		s.logger.Error("delivery failed", zap.String("job", job), zap.String("user_id", userID), zap.Error(err))
		event = domain.NewEvent(domain.DeliveryFailedEvent, userID).WithMetadata("job", job).WithError(err)
	}
	s.events.LogEvent(ctx, event)
}

// fanOut runs fn for every user with bounded concurrency
func (s *SchedulerServiceImpl) fanOut(ctx context.Context, userIDs []string, fn func(ctx context.Context, userID string)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, id := range userIDs {
		g.Go(func() error {
			fn(gctx, id)
			return nil
		})
	}
	return g.Wait()
}

// RunReminderTick delivers every reminder that is due
func (s *SchedulerServiceImpl) RunReminderTick(ctx context.Context) error {
	due, err := s.reminders.PopDue(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to pop due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, r := range due {
		g.Go(func() error {
			s.send(gctx, "reminders", domain.ReminderSentEvent, r.UserID, ReminderMessage(r.Text),
				map[string]interface{}{"reminder_id": r.ID})
			return nil
		})
	}
	return g.Wait()
}

// subscriberLocation loads a subscriber's location and local clock. ok is
// false when the profile lacks city, country or a usable timezone.
func (s *SchedulerServiceImpl) subscriberLocation(ctx context.Context, userID string) (*domain.Profile, time.Time, bool) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load subscriber", zap.String("user_id", userID), zap.Error(err))
		return nil, time.Time{}, false
	}
	p.City = strings.TrimSpace(p.City)
	p.Country = strings.TrimSpace(p.Country)
	p.Timezone = strings.TrimSpace(p.Timezone)
	if p.City == "" || p.Country == "" || p.Timezone == "" {
		s.logger.Debug("skipping subscriber with incomplete location", zap.String("user_id", userID))
		return nil, time.Time{}, false
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		s.logger.Warn("skipping subscriber with invalid timezone",
			zap.String("user_id", userID), zap.String("tz", p.Timezone), zap.Error(err))
		return nil, time.Time{}, false
	}
	return p, s.now().In(loc), true
}

// RunDigestTick sends the daily digest to subscribers whose local time is
// within a minute of the digest time, once per local day
func (s *SchedulerServiceImpl) RunDigestTick(ctx context.Context) error {
	ids, err := s.subscriptions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscribers: %w", err)
	}
	return s.fanOut(ctx, ids, s.digestFor)
}

func (s *SchedulerServiceImpl) digestFor(ctx context.Context, userID string) {
	p, local, ok := s.subscriberLocation(ctx, userID)
	if !ok {
		return
	}

	target := s.config.DigestHour*60 + s.config.DigestMinute
	delta := local.Hour()*60 + local.Minute() - target
	if delta < -digestTolerance || delta > digestTolerance {
		return
	}

	day, err := s.prayers.Fetch(ctx, p.City, p.Country, local.Format(aladhanDate))
	if err != nil {
		s.logger.Warn("digest fetch failed", zap.String("user_id", userID), zap.Error(err))
		metrics.ObserveDelivery("digest", err)
		return
	}

	if s.config.DigestDedupe {
		key := fmt.Sprintf("digest:sent:%s:%s", userID, local.Format("2006-01-02"))
		first, err := s.dedupe.Once(ctx, key, digestSentTTL)
		if err != nil {
			s.logger.Warn("digest dedupe failed", zap.String("user_id", userID), zap.Error(err))
			return
		}
		if !first {
			return
		}
	}

	s.send(ctx, "digest", domain.DigestSentEvent, userID, DigestMessage(p.City, p.Country, day, local.Hour()),
		map[string]interface{}{"date": local.Format("2006-01-02")})
}

// RunPrayerReminderTick warns subscribers shortly before each prayer
func (s *SchedulerServiceImpl) RunPrayerReminderTick(ctx context.Context) error {
	ids, err := s.subscriptions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscribers: %w", err)
	}
	return s.fanOut(ctx, ids, s.prayerRemindersFor)
}

func (s *SchedulerServiceImpl) prayerRemindersFor(ctx context.Context, userID string) {
	p, local, ok := s.subscriberLocation(ctx, userID)
	if !ok {
		return
	}

	day, err := s.prayers.Fetch(ctx, p.City, p.Country, "")
	if err != nil {
		s.logger.Warn("prayer reminder fetch failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	for _, prayer := range domain.PrayerOrder {
		hh, mm, ok := parseHHMM(day.Timings[prayer])
		if !ok {
			continue
		}
		at := time.Date(local.Year(), local.Month(), local.Day(), hh, mm, 0, 0, local.Location())
		until := at.Add(-s.config.PrayerLead).Sub(local)
		if until < 0 || until > time.Minute {
			continue
		}

		key := fmt.Sprintf("prayer_reminder:%s:%s:%s", userID, prayer, local.Format("2006-01-02"))
		first, err := s.dedupe.Once(ctx, key, prayerReminderTTL)
		if err != nil {
			s.logger.Warn("prayer reminder dedupe failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		if !first {
			continue
		}

		s.send(ctx, "prayer", domain.PrayerReminderEvent, userID,
			PrayerReminderMessage(p.Language, prayer, at.Format("15:04"), s.config.PrayerLead),
			map[string]interface{}{"prayer": prayer})
	}
}

// RunScheduler ticks every job until ctx is done. Job errors are logged and
// the loop carries on.
func RunScheduler(ctx context.Context, jobs domain.SchedulerService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tick := func() {
		for name, run := range map[string]func(context.Context) error{
			"reminders": jobs.RunReminderTick,
			"digest":    jobs.RunDigestTick,
			"prayer":    jobs.RunPrayerReminderTick,
		} {
			if err := run(ctx); err != nil {
				logger.Error("scheduler job failed", zap.String("job", name), zap.Error(err))
			}
		}
	}

	logger.Info("scheduler started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			tick()
		}
	}
}

var _ domain.SchedulerService = (*SchedulerServiceImpl)(nil)
