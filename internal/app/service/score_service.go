package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
	"contestjam/internal/domain/repository"
)

// Locker serializes recompute per user. The Redis implementation lives in
// platform/cache; tests supply an in-memory one.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// ScoreboardCache fronts the full recompute-and-rank pass with a short TTL.
// Implementations are best-effort: a failing cache must never fail a read.
type ScoreboardCache interface {
	Get(ctx context.Context) ([]model.ScoreboardEntry, bool)
	Set(ctx context.Context, entries []model.ScoreboardEntry, ttl time.Duration)
}

// ScoreService is the score aggregator. Scores are a pure cache over the
// submission ledger: Recompute fully replaces the stored value, so calling
// it any number of times, in any order, converges to the same result.
type ScoreService struct {
	scoreRepo      repository.ScoreRepository
	submissionRepo repository.SubmissionRepository
	locker         Locker
	cache          ScoreboardCache // may be nil
	workers        int
	lockTTL        time.Duration
	cacheTTL       time.Duration
}

func NewScoreService(
	scoreRepo repository.ScoreRepository,
	subRepo repository.SubmissionRepository,
	locker Locker,
	cache ScoreboardCache,
	workers int,
	lockTTL, cacheTTL time.Duration,
) *ScoreService {
	if workers < 1 {
		workers = 1
	}
	return &ScoreService{
		scoreRepo:      scoreRepo,
		submissionRepo: subRepo,
		locker:         locker,
		cache:          cache,
		workers:        workers,
		lockTTL:        lockTTL,
		cacheTTL:       cacheTTL,
	}
}

// TotalPoints sums the point values of distinct solved parts. A part is
// solved if at least one attempt against it was correct; repeated correct
// attempts count once. Attempts whose part has been deleted carry nil part
// fields and contribute zero (skip, never an error).
func TotalPoints(attempts []model.GradedAttempt) int {
	solved := make(map[string]int)
	for _, a := range attempts {
		if !a.IsCorrect || a.PartID == nil || a.PartPoints == nil {
			continue
		}
		solved[*a.PartID] = *a.PartPoints
	}
	total := 0
	for _, points := range solved {
		total += points
	}
	return total
}

// Recompute rebuilds one user's score from their full submission history and
// writes it back, replacing whatever was cached. If another recompute holds
// the user's lock, the stored value is returned as-is; the holder will write
// an equivalent result. A contended read for a user with no stored score yet
// reports 0, indistinguishable from a computed zero, which is fine because
// only strictly positive points rank.
func (s *ScoreService) Recompute(ctx context.Context, userID string) (int, error) {
	lockKey := "score:lock:" + userID
	acquired, err := s.locker.TryLock(ctx, lockKey, s.lockTTL)
	if err != nil {
		return 0, common.Errorf("failed to acquire score lock: %w", err)
	}
	if !acquired {
		score, err := s.scoreRepo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return 0, nil
			}
			return 0, common.Errorf("failed to read cached score: %w", err)
		}
		return score.Points, nil
	}
	// Release on a cancellation-immune context: if the request is aborted
	// mid-recompute the lock must not linger until TTL expiry.
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
			log.Printf("failed to release score lock %s: %v", lockKey, err)
		}
	}()

	attempts, err := s.submissionRepo.GradedAttemptsByUser(ctx, userID)
	if err != nil {
		return 0, common.Errorf("failed to load submissions: %w", err)
	}

	points := TotalPoints(attempts)
	if err := s.scoreRepo.Upsert(ctx, userID, points, time.Now().UTC()); err != nil {
		return 0, common.Errorf("failed to store score: %w", err)
	}
	return points, nil
}

// RecomputeAll recomputes every known score entity, i.e. every user who has
// ever submitted. Users are fanned out over a bounded worker pool; each
// recompute is independent, so failures are collected and the rest proceed.
func (s *ScoreService) RecomputeAll(ctx context.Context) error {
	userIDs, err := s.scoreRepo.ListUserIDs(ctx)
	if err != nil {
		return common.Errorf("failed to list score entities: %w", err)
	}

	ids := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				if _, err := s.Recompute(ctx, id); err != nil {
					mu.Lock()
					errs = append(errs, common.Errorf("recompute user %s: %w", id, err))
					mu.Unlock()
				}
			}
		}()
	}
	for _, id := range userIDs {
		ids <- id
	}
	close(ids)
	wg.Wait()

	return errors.Join(errs...)
}

// Scoreboard is the pull-based read path: it recomputes every score, then
// ranks users with strictly positive points, descending, ties broken by
// username ascending. Rank is the 1-based position in that total order.
func (s *ScoreService) Scoreboard(ctx context.Context) ([]model.ScoreboardEntry, error) {
	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx); ok {
			return entries, nil
		}
	}

	if err := s.RecomputeAll(ctx); err != nil {
		return nil, err
	}

	scores, err := s.scoreRepo.ListRanked(ctx)
	if err != nil {
		return nil, common.Errorf("failed to load ranking: %w", err)
	}

	entries := make([]model.ScoreboardEntry, 0, len(scores))
	for i, sc := range scores {
		username := ""
		if sc.Username != nil {
			username = *sc.Username
		}
		entries = append(entries, model.ScoreboardEntry{
			Rank:     i + 1,
			UserID:   sc.UserID,
			Username: username,
			Points:   sc.Points,
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, entries, s.cacheTTL)
	}
	return entries, nil
}
