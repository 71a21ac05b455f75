package service

import (
	"context"
	"errors"
	"fmt"

	achievementsvc "chefly/internal/achievements/service"
	directoryerrors "chefly/internal/directory/errors"
	directoryrepo "chefly/internal/directory/repository"
	eventserrors "chefly/internal/events/errors"
	eventsrepo "chefly/internal/events/repository"
	"chefly/internal/events/validator"
	reviewserrors "chefly/internal/reviews/errors"
	"chefly/internal/reviews/repository"
	"chefly/pkg/config"
	apperrors "chefly/pkg/errors"
	"chefly/pkg/metrics"
	"chefly/pkg/model"
	"chefly/pkg/sanitizer"
)

// statsRetries bounds the optimistic stats update loop. Contention on a
// single chef's stats is rare enough that three attempts cover it.
const statsRetries = 3

type ReviewService interface {
	Submit(ctx context.Context, customerID string, req *model.ReviewRequest) (*model.Review, error)
	ListForChef(ctx context.Context, chefID string, limit int, offset int64) ([]*model.Review, int64, error)
}

type reviewService struct {
	reviews      repository.ReviewRepository
	events       eventsrepo.EventRepository
	users        directoryrepo.UserRepository
	achievements achievementsvc.AchievementService
	validator    *validator.EventValidator
	cfg          *config.Config
}

func NewReviewService(
	reviews repository.ReviewRepository,
	events eventsrepo.EventRepository,
	users directoryrepo.UserRepository,
	achievements achievementsvc.AchievementService,
	eventValidator *validator.EventValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		reviews:      reviews,
		events:       events,
		users:        users,
		achievements: achievements,
		validator:    eventValidator,
		cfg:          cfg,
	}
}

func (s *reviewService) Submit(ctx context.Context, customerID string, req *model.ReviewRequest) (*model.Review, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	req.Comment = sanitizer.NormalizeFreeText(req.Comment)
	if err := s.validator.ValidateReview(req); err != nil {
		return nil, apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", req.EventID)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	if event.CustomerID != customerID {
		return nil, apperrors.Forbidden("Only the booking customer may review this event")
	}
	if !event.IsReviewable() {
		return nil, apperrors.InvalidState(fmt.Sprintf("Booking is %s, only completed bookings can be reviewed", event.Status))
	}

	review := &model.Review{
		EventID:    event.ID,
		CustomerID: customerID,
		ChefID:     event.ChefID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrDuplicateReview) {
			return nil, apperrors.Conflict("You already reviewed this booking")
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	metrics.ReviewsSubmittedTotal.Inc()
	s.cfg.Log.Info("Review submitted",
		"event_id", event.ID,
		"chef_id", event.ChefID,
		"rating", review.Rating,
	)

	// The review is durable at this point. Stats and achievements are
	// follow-on effects; their failures are logged, never surfaced.
	if err := s.applyRating(ctx, event.ChefID, review.Rating); err != nil {
		s.cfg.Log.Error("Failed to update chef statistics", "chef_id", event.ChefID, "error", err)
		return review, nil
	}

	if _, err := s.achievements.CheckForAchievements(ctx, event.ChefID); err != nil {
		s.cfg.Log.Error("Achievement evaluation failed", "chef_id", event.ChefID, "error", err)
	}

	return review, nil
}

// applyRating folds one rating into the chef's running aggregates. The
// write is conditioned on the review count the average was computed
// from, so concurrent reviews retry instead of clobbering each other.
// Star and review counters move by increments: completed_orders races
// from the booking side never touch this write.
func (s *reviewService) applyRating(ctx context.Context, chefID string, rating int) error {
	var lastErr error
	for attempt := 0; attempt < statsRetries; attempt++ {
		chef, err := s.users.FindChef(ctx, chefID)
		if err != nil {
			return err
		}

		expect := chef.Stats.ReviewCount
		average := (chef.Stats.AverageRating*float64(expect) + float64(rating)) / float64(expect+1)

		err = s.users.ApplyReviewStats(ctx, chefID, average, rating, expect)
		if err == nil {
			return nil
		}
		if !errors.Is(err, directoryerrors.ErrStaleStats) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (s *reviewService) ListForChef(ctx context.Context, chefID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if chefID == "" {
		return nil, 0, apperrors.InvalidInput("Chef ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reviews, err := s.reviews.FindByChef(ctx, chefID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews", "chef_id", chefID, "error", err)
		return nil, 0, apperrors.StorageUnavailable(err)
	}

	count, err := s.reviews.CountByChef(ctx, chefID)
	if err != nil {
		s.cfg.Log.Error("Failed to count reviews", "chef_id", chefID, "error", err)
		return nil, 0, apperrors.StorageUnavailable(err)
	}

	return reviews, count, nil
}
