package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/coursekit/quiz-service/internal/cache"
	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
)

const (
	defaultLeaderboardSize = 10
	leaderboardCacheTTL    = 2 * time.Minute
)

type leaderboardService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewLeaderboardService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// Get returns the ranked best attempts for one course: each user appears once
// with their best completed attempt, ordered by score descending with elapsed
// time as the tiebreaker.
func (s *leaderboardService) Get(ctx context.Context, courseID string, topN int) ([]models.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = defaultLeaderboardSize
	}

	cacheKey := leaderboardCacheKey(courseID, topN)
	var cached []models.LeaderboardEntry
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("leaderboard cache read failed", "course_id", courseID, "error", err)
	}

	results, err := s.repo.QuizResult().GetCompletedByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed quizzes: %w", err)
	}

	entries := truncate(Rank(results), topN)

	if err := s.cache.Set(ctx, cacheKey, entries, leaderboardCacheTTL); err != nil {
		s.logger.Warn("leaderboard cache write failed", "course_id", courseID, "error", err)
	}

	return entries, nil
}

// Invalidate drops every cached ranking size for the course after a new
// submission.
func (s *leaderboardService) Invalidate(ctx context.Context, courseID string) error {
	return s.cache.DeletePattern(ctx, leaderboardCachePrefix(courseID)+"*")
}

// Rank reduces completed attempts to one best attempt per user and sorts
// them. A better attempt has a higher score, or the same score in less time.
func Rank(results []*models.QuizResult) []models.LeaderboardEntry {
	best := make(map[string]models.LeaderboardEntry)
	for _, r := range results {
		if !r.Completed || r.Score == nil || r.SubmittedAt == nil {
			continue
		}
		entry := models.LeaderboardEntry{
			UserID:         r.UserID,
			Score:          *r.Score,
			ElapsedSeconds: r.ElapsedSeconds,
			SubmittedAt:    *r.SubmittedAt,
		}
		current, seen := best[r.UserID]
		if !seen || better(entry, current) {
			best[r.UserID] = entry
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(best))
	for _, entry := range best {
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return better(entries[i], entries[j])
	})
	return entries
}

func better(a, b models.LeaderboardEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ElapsedSeconds < b.ElapsedSeconds
}

func truncate(entries []models.LeaderboardEntry, topN int) []models.LeaderboardEntry {
	if len(entries) > topN {
		return entries[:topN]
	}
	return entries
}

func leaderboardCachePrefix(courseID string) string {
	return "leaderboard:" + courseID + ":"
}

func leaderboardCacheKey(courseID string, topN int) string {
	return fmt.Sprintf("%s%d", leaderboardCachePrefix(courseID), topN)
}
