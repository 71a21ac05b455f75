package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	directoryerrors "chefly/internal/directory/errors"
	eventserrors "chefly/internal/events/errors"
	"chefly/internal/events/validator"
	reviewserrors "chefly/internal/reviews/errors"
	"chefly/pkg/config"
	apperrors "chefly/pkg/errors"
	"chefly/pkg/logger"
	"chefly/pkg/model"
)

const (
	testChefID     = "64a0f0e2b7c1d2e3f4a5b6c7"
	testCustomerID = "64a0f0e2b7c1d2e3f4a5b6c8"
	testEventID    = "64a0f0e2b7c1d2e3f4a5b6c9"
)

type mockReviewRepo struct {
	mu      sync.Mutex
	reviews []*model.Review
	dup     bool
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dup {
		return reviewserrors.ErrDuplicateReview
	}
	review.CreatedAt = time.Now()
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *mockReviewRepo) FindByChef(ctx context.Context, chefID string, limit int, offset int64) ([]*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviews, nil
}

func (m *mockReviewRepo) CountByChef(ctx context.Context, chefID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.reviews)), nil
}

type mockEventRepoFn struct {
	findByIDFn func(ctx context.Context, id string) (*model.Event, error)
}

func (m *mockEventRepoFn) Create(ctx context.Context, event *model.Event) error { return nil }
func (m *mockEventRepoFn) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockEventRepoFn) FindByParty(ctx context.Context, role, userID string, limit int, offset int64) ([]*model.Event, error) {
	return nil, nil
}
func (m *mockEventRepoFn) CountByParty(ctx context.Context, role, userID string) (int64, error) {
	return 0, nil
}
func (m *mockEventRepoFn) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, reason string) error {
	return nil
}
func (m *mockEventRepoFn) AppendAttendance(ctx context.Context, id string, record model.AttendanceRecord) error {
	return nil
}
func (m *mockEventRepoFn) FindConfirmedBetween(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	return nil, nil
}
func (m *mockEventRepoFn) FindConfirmedForParty(ctx context.Context, role, userID string, from, to time.Time) ([]*model.Event, error) {
	return nil, nil
}
func (m *mockEventRepoFn) ClaimReminder(ctx context.Context, id, offsetKey string) (bool, error) {
	return false, nil
}
func (m *mockEventRepoFn) ReleaseReminder(ctx context.Context, id, offsetKey string) error {
	return nil
}

// statsUserRepo holds real in-memory stats and mirrors the storage
// semantics: the conditional write on review_count, increments for the
// counters, and a set for the average only. afterRead fires once after
// a chef load, to wedge a concurrent write between read and apply.
type statsUserRepo struct {
	mu        sync.Mutex
	stats     model.ChefStats
	afterRead func()
}

func (r *statsUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.FindChef(ctx, id)
}

func (r *statsUserRepo) FindChef(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	user := &model.User{ID: id, Role: model.RoleChef, Stats: r.stats}
	hook := r.afterRead
	r.afterRead = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return user, nil
}

func (r *statsUserRepo) GrantAchievement(ctx context.Context, chefID, achievementID string) (bool, error) {
	return false, nil
}

func (r *statsUserRepo) ApplyReviewStats(ctx context.Context, chefID string, averageRating float64, rating int, expectReviewCount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stats.ReviewCount != expectReviewCount {
		return directoryerrors.ErrStaleStats
	}
	r.stats.AverageRating = averageRating
	r.stats.ReviewCount++
	switch rating {
	case 5:
		r.stats.FiveStars++
	case 4:
		r.stats.FourStars++
	}
	return nil
}

func (r *statsUserRepo) IncrementCompletedOrders(ctx context.Context, chefID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.CompletedOrders++
	return nil
}

func (r *statsUserRepo) current() model.ChefStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

type nopAchievements struct{}

func (nopAchievements) CheckForAchievements(ctx context.Context, chefID string) ([]string, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "reviews-test"}),
	}
}

func completedEvent() *model.Event {
	return &model.Event{
		ID:         testEventID,
		CustomerID: testCustomerID,
		ChefID:     testChefID,
		Status:     model.StatusCompleted,
	}
}

func newTestService(reviews *mockReviewRepo, events *mockEventRepoFn, users *statsUserRepo) ReviewService {
	cfg := testConfig()
	return NewReviewService(reviews, events, users, nopAchievements{}, validator.NewEventValidator(cfg.Log), cfg)
}

func TestSubmitReview(t *testing.T) {
	reviews := &mockReviewRepo{}
	events := &mockEventRepoFn{
		findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
			return completedEvent(), nil
		},
	}
	users := &statsUserRepo{stats: model.ChefStats{AverageRating: 4.0, ReviewCount: 3, FiveStars: 1}}

	svc := newTestService(reviews, events, users)
	review, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{
		EventID: testEventID,
		Rating:  5,
		Comment: "  Wonderful   dinner  ",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if review.ChefID != testChefID {
		t.Errorf("expected chef ID copied from event, got %q", review.ChefID)
	}
	if review.Comment != "Wonderful dinner" {
		t.Errorf("expected comment normalized, got %q", review.Comment)
	}

	stats := users.current()
	if stats.ReviewCount != 4 {
		t.Errorf("expected review count 4, got %d", stats.ReviewCount)
	}
	if stats.FiveStars != 2 {
		t.Errorf("expected five-star count 2, got %d", stats.FiveStars)
	}
	// (4.0*3 + 5) / 4 = 4.25
	if math.Abs(stats.AverageRating-4.25) > 1e-9 {
		t.Errorf("expected average 4.25, got %v", stats.AverageRating)
	}
}

func TestSubmitReviewOnlyCompleted(t *testing.T) {
	for _, status := range []string{model.StatusPending, model.StatusConfirmed, model.StatusCancelled, model.StatusRejected} {
		t.Run(status, func(t *testing.T) {
			events := &mockEventRepoFn{
				findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
					e := completedEvent()
					e.Status = status
					return e, nil
				},
			}
			svc := newTestService(&mockReviewRepo{}, events, &statsUserRepo{})
			_, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{EventID: testEventID, Rating: 5})
			if !apperrors.IsCode(err, apperrors.CodeInvalidState) {
				t.Fatalf("expected INVALID_STATE for %s event, got %v", status, err)
			}
		})
	}
}

func TestSubmitReviewWrongCustomer(t *testing.T) {
	events := &mockEventRepoFn{
		findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
			return completedEvent(), nil
		},
	}
	svc := newTestService(&mockReviewRepo{}, events, &statsUserRepo{})
	_, err := svc.Submit(context.Background(), "64a0f0e2b7c1d2e3f4a5b6ff", &model.ReviewRequest{EventID: testEventID, Rating: 4})
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestSubmitReviewDuplicate(t *testing.T) {
	events := &mockEventRepoFn{
		findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
			return completedEvent(), nil
		},
	}
	svc := newTestService(&mockReviewRepo{dup: true}, events, &statsUserRepo{})
	_, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{EventID: testEventID, Rating: 4})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestSubmitReviewEventNotFound(t *testing.T) {
	events := &mockEventRepoFn{
		findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
			return nil, eventserrors.ErrNotFound
		},
	}
	svc := newTestService(&mockReviewRepo{}, events, &statsUserRepo{})
	_, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{EventID: testEventID, Rating: 4})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSubmitReviewInvalidRating(t *testing.T) {
	svc := newTestService(&mockReviewRepo{}, &mockEventRepoFn{}, &statsUserRepo{})
	_, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{EventID: testEventID, Rating: 6})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

// Concurrent five-star reviews against distinct events of the same chef:
// the conditional stats write plus retry keeps every rating counted.
func TestSubmitReviewConcurrentStatsConverge(t *testing.T) {
	reviews := &mockReviewRepo{}
	events := &mockEventRepoFn{
		findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
			return completedEvent(), nil
		},
	}
	users := &statsUserRepo{}

	svc := newTestService(reviews, events, users)

	const submitters = 3
	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{EventID: testEventID, Rating: 5})
			if err != nil {
				t.Errorf("concurrent submit failed: %v", err)
			}
		}()
	}
	wg.Wait()

	stats := users.current()
	if stats.ReviewCount != submitters {
		t.Errorf("expected review count %d, got %d", submitters, stats.ReviewCount)
	}
	if stats.FiveStars != submitters {
		t.Errorf("expected five-star count %d, got %d", submitters, stats.FiveStars)
	}
	if math.Abs(stats.AverageRating-5.0) > 1e-9 {
		t.Errorf("expected average 5.0, got %v", stats.AverageRating)
	}
}

// A booking completion lands between the stats read and the stats write
// of a review. The review write must not fold the stale completed-order
// count back in: counts only ever grow.
func TestSubmitReviewPreservesConcurrentCompletion(t *testing.T) {
	events := &mockEventRepoFn{
		findByIDFn: func(ctx context.Context, id string) (*model.Event, error) {
			return completedEvent(), nil
		},
	}
	users := &statsUserRepo{stats: model.ChefStats{CompletedOrders: 5, ReviewCount: 2, AverageRating: 4.0}}
	users.afterRead = func() {
		if err := users.IncrementCompletedOrders(context.Background(), testChefID); err != nil {
			t.Errorf("completion increment failed: %v", err)
		}
	}

	svc := newTestService(&mockReviewRepo{}, events, users)
	if _, err := svc.Submit(context.Background(), testCustomerID, &model.ReviewRequest{EventID: testEventID, Rating: 5}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	stats := users.current()
	if stats.CompletedOrders != 6 {
		t.Errorf("completed orders = %d, want 6: the stats write must not clobber the completion increment", stats.CompletedOrders)
	}
	if stats.ReviewCount != 3 {
		t.Errorf("expected review count 3, got %d", stats.ReviewCount)
	}
	if math.Abs(stats.AverageRating-(4.0*2+5)/3) > 1e-9 {
		t.Errorf("expected average %v, got %v", (4.0*2+5)/3, stats.AverageRating)
	}
}
