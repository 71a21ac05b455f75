package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	directoryerrors "chefly/internal/directory/errors"
	"chefly/pkg/config"
	apperrors "chefly/pkg/errors"
	"chefly/pkg/logger"
	"chefly/pkg/model"
)

const chefID = "64a0f0e2b7c1d2e3f4a5b6c7"

type mockCatalog struct {
	achievements []*model.Achievement
	err          error
}

func (m *mockCatalog) FindAll(ctx context.Context) ([]*model.Achievement, error) {
	return m.achievements, m.err
}

// mockUserRepo mimics the set-add grant: the first writer wins, every
// later grant of the same achievement reports not-added.
type mockUserRepo struct {
	mu      sync.Mutex
	chef    *model.User
	chefErr error
	granted map[string]bool
}

func newMockUserRepo(chef *model.User) *mockUserRepo {
	return &mockUserRepo{chef: chef, granted: make(map[string]bool)}
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.FindChef(ctx, id)
}

func (m *mockUserRepo) FindChef(ctx context.Context, id string) (*model.User, error) {
	if m.chefErr != nil {
		return nil, m.chefErr
	}
	return m.chef, nil
}

func (m *mockUserRepo) GrantAchievement(ctx context.Context, chefID, achievementID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.granted[achievementID] {
		return false, nil
	}
	m.granted[achievementID] = true
	return true, nil
}

func (m *mockUserRepo) ApplyReviewStats(ctx context.Context, chefID string, averageRating float64, rating int, expectReviewCount int64) error {
	return nil
}

func (m *mockUserRepo) IncrementCompletedOrders(ctx context.Context, chefID string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "achievements-test"}),
	}
}

func tenOrdersAchievement() *model.Achievement {
	return &model.Achievement{
		ID:    "ach-ten-orders",
		Label: "Ten Dinners Served",
		Conditions: []model.AchievementCondition{
			{Metric: model.MetricOrders, Target: 10},
		},
	}
}

func chefWithStats(stats model.ChefStats) *model.User {
	return &model.User{ID: chefID, Name: "Chef Ada", Role: model.RoleChef, Stats: stats}
}

func TestCheckGrantsOnExactMatch(t *testing.T) {
	users := newMockUserRepo(chefWithStats(model.ChefStats{CompletedOrders: 10}))
	catalog := &mockCatalog{achievements: []*model.Achievement{tenOrdersAchievement()}}

	svc := NewAchievementService(catalog, users, testConfig())
	granted, err := svc.CheckForAchievements(context.Background(), chefID)
	if err != nil {
		t.Fatalf("CheckForAchievements returned error: %v", err)
	}
	if len(granted) != 1 || granted[0] != "ach-ten-orders" {
		t.Errorf("expected [ach-ten-orders], got %v", granted)
	}
}

// A chef who skipped past the target never earns the equality-based
// achievement.
func TestCheckDoesNotGrantPastTarget(t *testing.T) {
	users := newMockUserRepo(chefWithStats(model.ChefStats{CompletedOrders: 11}))
	catalog := &mockCatalog{achievements: []*model.Achievement{tenOrdersAchievement()}}

	svc := NewAchievementService(catalog, users, testConfig())
	granted, err := svc.CheckForAchievements(context.Background(), chefID)
	if err != nil {
		t.Fatalf("CheckForAchievements returned error: %v", err)
	}
	if len(granted) != 0 {
		t.Errorf("expected no grants for overshoot, got %v", granted)
	}
}

func TestCheckGrantsAtLeastComparator(t *testing.T) {
	achievement := &model.Achievement{
		ID:    "ach-regular",
		Label: "Regular",
		Conditions: []model.AchievementCondition{
			{Metric: model.MetricFiveStars, Comparator: model.ComparatorAtLeast, Target: 5},
		},
	}
	users := newMockUserRepo(chefWithStats(model.ChefStats{FiveStars: 8}))
	catalog := &mockCatalog{achievements: []*model.Achievement{achievement}}

	svc := NewAchievementService(catalog, users, testConfig())
	granted, err := svc.CheckForAchievements(context.Background(), chefID)
	if err != nil {
		t.Fatalf("CheckForAchievements returned error: %v", err)
	}
	if len(granted) != 1 {
		t.Errorf("expected one grant for gte comparator, got %v", granted)
	}
}

func TestCheckConcurrentEvaluationsGrantOnce(t *testing.T) {
	users := newMockUserRepo(chefWithStats(model.ChefStats{CompletedOrders: 10}))
	catalog := &mockCatalog{achievements: []*model.Achievement{tenOrdersAchievement()}}

	svc := NewAchievementService(catalog, users, testConfig())

	const workers = 5
	results := make(chan []string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			granted, err := svc.CheckForAchievements(context.Background(), chefID)
			if err != nil {
				t.Errorf("concurrent check failed: %v", err)
			}
			results <- granted
		}()
	}
	wg.Wait()
	close(results)

	total := 0
	for granted := range results {
		total += len(granted)
	}
	if total != 1 {
		t.Errorf("expected exactly 1 grant across %d concurrent evaluations, got %d", workers, total)
	}
}

func TestCheckUnknownChef(t *testing.T) {
	users := newMockUserRepo(nil)
	users.chefErr = directoryerrors.ErrNotFound

	svc := NewAchievementService(&mockCatalog{}, users, testConfig())
	_, err := svc.CheckForAchievements(context.Background(), chefID)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCheckCatalogUnavailable(t *testing.T) {
	users := newMockUserRepo(chefWithStats(model.ChefStats{}))
	catalog := &mockCatalog{err: errors.New("connection reset")}

	svc := NewAchievementService(catalog, users, testConfig())
	_, err := svc.CheckForAchievements(context.Background(), chefID)
	if !apperrors.IsCode(err, apperrors.CodeStorage) {
		t.Fatalf("expected STORAGE_UNAVAILABLE, got %v", err)
	}
}
