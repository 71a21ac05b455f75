package service

import (
	"context"
	"errors"

	"chefly/internal/achievements/repository"
	directoryerrors "chefly/internal/directory/errors"
	directoryrepo "chefly/internal/directory/repository"
	"chefly/pkg/config"
	apperrors "chefly/pkg/errors"
	"chefly/pkg/metrics"
)

// AchievementService evaluates a chef's statistics against the
// achievement catalog and grants whatever newly matches.
type AchievementService interface {
	CheckForAchievements(ctx context.Context, chefID string) ([]string, error)
}

type achievementService struct {
	catalog repository.AchievementRepository
	users   directoryrepo.UserRepository
	cfg     *config.Config
}

func NewAchievementService(catalog repository.AchievementRepository, users directoryrepo.UserRepository, cfg *config.Config) AchievementService {
	return &achievementService{
		catalog: catalog,
		users:   users,
		cfg:     cfg,
	}
}

// CheckForAchievements returns the IDs granted by this invocation.
// Granting goes through a set-add, so concurrent evaluations of the
// same chef converge on a single grant per achievement.
func (s *achievementService) CheckForAchievements(ctx context.Context, chefID string) ([]string, error) {
	chef, err := s.users.FindChef(ctx, chefID)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) || errors.Is(err, directoryerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Chef", chefID)
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	achievements, err := s.catalog.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load achievement catalog", "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}

	var granted []string
	for _, achievement := range achievements {
		if !achievement.MatchedBy(chef.Stats) {
			continue
		}

		added, err := s.users.GrantAchievement(ctx, chefID, achievement.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to grant achievement",
				"chef_id", chefID,
				"achievement_id", achievement.ID,
				"error", err,
			)
			continue
		}
		if !added {
			continue // already held
		}

		metrics.AchievementsGrantedTotal.Inc()
		granted = append(granted, achievement.ID)
		s.cfg.Log.Info("Achievement granted",
			"chef_id", chefID,
			"achievement_id", achievement.ID,
			"label", achievement.Label,
		)
	}

	return granted, nil
}
