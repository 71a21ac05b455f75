// Package reminders runs the background scan that pushes time-windowed
// reminders to both parties of a confirmed booking ahead of its start.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	catalogrepo "chefly/internal/catalog/repository"
	directoryerrors "chefly/internal/directory/errors"
	directoryrepo "chefly/internal/directory/repository"
	"chefly/internal/events/repository"
	"chefly/internal/notify"
	"chefly/pkg/config"
	apperrors "chefly/pkg/errors"
	"chefly/pkg/metrics"
	"chefly/pkg/model"
)

// Clock abstracts wall-clock time so window arithmetic is testable
// without real waits.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Scheduler struct {
	repo      repository.EventRepository
	users     directoryrepo.UserRepository
	menu      catalogrepo.MenuRepository
	transport notify.Transport
	lock      ScanLock
	clock     Clock
	cfg       *config.Config

	// scanning is the non-reentrant guard: a tick that fires while the
	// previous scan is still dispatching gets skipped.
	scanning atomic.Bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewScheduler(
	repo repository.EventRepository,
	users directoryrepo.UserRepository,
	menu catalogrepo.MenuRepository,
	transport notify.Transport,
	lock ScanLock,
	clock Clock,
	cfg *config.Config,
) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	if lock == nil {
		lock = NopScanLock{}
	}
	return &Scheduler{
		repo:      repo,
		users:     users,
		menu:      menu,
		transport: transport,
		lock:      lock,
		clock:     clock,
		cfg:       cfg,
	}
}

// Start launches the periodic scan loop. It returns immediately.
func (s *Scheduler) Start() {
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run()
	s.cfg.Log.Info("Reminder scheduler started",
		"period", s.cfg.SchedulerPeriod,
		"offsets", s.cfg.ReminderOffsets,
	)
}

// Stop signals the loop to exit and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.cfg.Log.Info("Reminder scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.SchedulerPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Scan(context.Background())
		}
	}
}

// Scan performs one pass over all configured offsets. Callable directly
// for operational use; the ticker calls it on every period.
func (s *Scheduler) Scan(ctx context.Context) {
	if !s.scanning.CompareAndSwap(false, true) {
		metrics.ReminderScansSkipped.WithLabelValues("in_progress").Inc()
		s.cfg.Log.Warn("Reminder scan skipped, previous scan still running")
		return
	}
	defer s.scanning.Store(false)

	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		// A broken lease backend must not silence reminders; the
		// per-event claim still prevents duplicates.
		s.cfg.Log.Warn("Scan lease unavailable, proceeding without it", "error", err)
	} else if !acquired {
		metrics.ReminderScansSkipped.WithLabelValues("lease_held").Inc()
		s.cfg.Log.Info("Reminder scan skipped, lease held by another instance")
		return
	} else {
		defer func() {
			if err := s.lock.Release(ctx); err != nil {
				s.cfg.Log.Warn("Failed to release scan lease", "error", err)
			}
		}()
	}

	timer := prometheus.NewTimer(metrics.ReminderScanDuration)
	defer timer.ObserveDuration()
	metrics.ReminderScansTotal.Inc()

	now := s.clock.Now()
	for _, offset := range s.cfg.ReminderOffsets {
		s.scanOffset(ctx, now, offset)
	}
}

// scanOffset looks for confirmed bookings whose start time sits inside
// the window centered on now+offset with half-width offset/2.
func (s *Scheduler) scanOffset(ctx context.Context, now time.Time, offset time.Duration) {
	target := now.Add(offset)
	half := offset / 2

	events, err := s.repo.FindConfirmedBetween(ctx, target.Add(-half), target.Add(half))
	if err != nil {
		s.cfg.Log.Error("Reminder window query failed", "offset", offsetKey(offset), "error", err)
		return
	}

	for _, event := range events {
		s.remind(ctx, event, offset)
	}
}

// remind sends the pair of reminders for one (event, offset). The claim
// is written before any send: a reminder may be lost on a crash between
// claim and dispatch, but never duplicated across ticks or instances.
func (s *Scheduler) remind(ctx context.Context, event *model.Event, offset time.Duration) {
	key := offsetKey(offset)

	claimed, err := s.repo.ClaimReminder(ctx, event.ID, key)
	if err != nil {
		s.cfg.Log.Error("Failed to claim reminder", "event_id", event.ID, "offset", key, "error", err)
		return
	}
	if !claimed {
		return
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	chef, customer, err := s.resolveParties(dispatchCtx, event)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) || errors.Is(err, directoryerrors.ErrInvalidID) {
			// A deleted party skips the whole event; the claim stays
			// consumed so the event is not re-logged on every tick.
			s.cfg.Log.Warn("Reminder skipped, booking party no longer exists", "event_id", event.ID, "offset", key, "error", err)
			return
		}
		// A transient directory failure surrenders the claim so a later
		// tick inside the window can retry.
		s.cfg.Log.Error("Failed to load reminder parties", "event_id", event.ID, "offset", key, "error", err)
		if relErr := s.repo.ReleaseReminder(ctx, event.ID, key); relErr != nil {
			s.cfg.Log.Error("Failed to release reminder claim", "event_id", event.ID, "offset", key, "error", relErr)
		}
		return
	}

	summary := s.menuSummary(dispatchCtx, event)

	if customer.HasPushEndpoints() {
		title, body := customerMessage(event, chef, offset, summary)
		s.dispatch(dispatchCtx, event, customer, key, model.RoleCustomer, title, body)
	}
	if chef.HasPushEndpoints() {
		title, body := chefMessage(event, offset, summary)
		s.dispatch(dispatchCtx, event, chef, key, model.RoleChef, title, body)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, event *model.Event, user *model.User, offsetKey, role, title, body string) {
	metadata := map[string]string{
		"event_id":     event.ID,
		"order_number": fmt.Sprintf("%d", event.OrderNumber),
		"offset":       offsetKey,
		"role":         role,
	}

	result, err := s.transport.SendToEndpoints(ctx, user.PushEndpoints, title, body, metadata)
	if err != nil {
		metrics.RemindersFailedTotal.WithLabelValues(offsetKey, role).Inc()
		s.cfg.Log.Error("Reminder dispatch failed",
			"event_id", event.ID,
			"offset", offsetKey,
			"role", role,
			"error", err,
		)
		return
	}

	metrics.RemindersSentTotal.WithLabelValues(offsetKey, role).Inc()
	s.cfg.Log.Info("Reminder sent",
		"event_id", event.ID,
		"order_number", event.OrderNumber,
		"offset", offsetKey,
		"role", role,
		"endpoints", result.SuccessCount,
	)
}

// resolveParties loads both users. Either lookup failing fails the
// whole event; reminders go to both parties or to neither.
func (s *Scheduler) resolveParties(ctx context.Context, event *model.Event) (chef, customer *model.User, err error) {
	if chef, err = s.users.FindByID(ctx, event.ChefID); err != nil {
		return nil, nil, fmt.Errorf("chef %s: %w", event.ChefID, err)
	}
	if customer, err = s.users.FindByID(ctx, event.CustomerID); err != nil {
		return nil, nil, fmt.Errorf("customer %s: %w", event.CustomerID, err)
	}
	return chef, customer, nil
}

// menuSummary prefers current catalog titles and falls back to the
// titles captured at booking time.
func (s *Scheduler) menuSummary(ctx context.Context, event *model.Event) string {
	if len(event.MenuItems) == 0 {
		return "Custom menu"
	}

	ids := make([]string, 0, len(event.MenuItems))
	for _, line := range event.MenuItems {
		ids = append(ids, line.ItemID)
	}

	titles := make([]string, 0, len(event.MenuItems))
	if items, err := s.menu.FindByIDs(ctx, ids); err == nil && len(items) > 0 {
		byID := make(map[string]string, len(items))
		for _, item := range items {
			byID[item.ID] = item.Title
		}
		for _, line := range event.MenuItems {
			if title, ok := byID[line.ItemID]; ok && title != "" {
				titles = append(titles, title)
			} else if line.Title != "" {
				titles = append(titles, line.Title)
			}
		}
	} else {
		for _, line := range event.MenuItems {
			if line.Title != "" {
				titles = append(titles, line.Title)
			}
		}
	}

	if len(titles) == 0 {
		return "Custom menu"
	}
	if len(titles) > 3 {
		return fmt.Sprintf("%s +%d more", strings.Join(titles[:3], ", "), len(titles)-3)
	}
	return strings.Join(titles, ", ")
}

// UpcomingForUser returns the caller's confirmed bookings starting within
// the next 24 hours, soonest first.
func (s *Scheduler) UpcomingForUser(ctx context.Context, userID, role string) ([]*model.Event, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if role != model.RoleCustomer && role != model.RoleChef {
		return nil, apperrors.InvalidInput("Role must be customer or chef")
	}

	now := s.clock.Now()
	events, err := s.repo.FindConfirmedForParty(ctx, role, userID, now, now.Add(24*time.Hour))
	if err != nil {
		s.cfg.Log.Error("Failed to query upcoming reminders", "user_id", userID, "role", role, "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}
	return events, nil
}

func offsetKey(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func humanOffset(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

func customerMessage(event *model.Event, chef *model.User, offset time.Duration, summary string) (title, body string) {
	chefName := "your chef"
	if chef != nil && chef.Name != "" {
		chefName = chef.Name
	}

	if offset >= 12*time.Hour {
		title = "Your booking is tomorrow"
		body = fmt.Sprintf("%s is cooking for you tomorrow at %s. On the menu: %s.", chefName, event.EventTime, summary)
		return title, body
	}

	title = "Your booking starts soon"
	body = fmt.Sprintf("%s arrives in about %s. On the menu: %s.", chefName, humanOffset(offset), summary)
	return title, body
}

func chefMessage(event *model.Event, offset time.Duration, summary string) (title, body string) {
	if offset >= 12*time.Hour {
		title = fmt.Sprintf("Order #%d is tomorrow", event.OrderNumber)
		body = fmt.Sprintf("Order #%d is scheduled for %s at %s. Menu: %s.", event.OrderNumber, event.EventDate, event.EventTime, summary)
		return title, body
	}

	title = fmt.Sprintf("Order #%d starts soon", event.OrderNumber)
	body = fmt.Sprintf("Order #%d starts in about %s at %s, %s. Menu: %s.", event.OrderNumber, humanOffset(offset), event.Address.Street, event.Address.City, summary)
	return title, body
}
