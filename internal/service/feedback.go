package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"canteen/internal/model"
	"canteen/internal/repository"
)

const maxFeedbackLength = 1000

type FeedbackBoard struct {
	Entries       []model.Feedback `json:"entries"`
	Count         int              `json:"count"`
	AverageRating float64          `json:"average_rating"`
}

type FeedbackService struct {
	repo repository.FeedbackRepository
	now  func() time.Time
}

func NewFeedbackService(repo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo, now: time.Now}
}

func (s *FeedbackService) Submit(ctx context.Context, user model.User, rating int, text string) (model.Feedback, error) {
	text = strings.TrimSpace(text)
	if rating < 1 || rating > 5 {
		return model.Feedback{}, invalid("rating", "rating must be between 1 and 5")
	}
	if text == "" {
		return model.Feedback{}, invalid("text", "feedback text is required")
	}
	if utf8.RuneCountInString(text) > maxFeedbackLength {
		return model.Feedback{}, invalid("text", "feedback is longer than %d characters", maxFeedbackLength)
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	f := model.Feedback{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		User:      name,
		Rating:    rating,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Add(ctx, f); err != nil {
		return model.Feedback{}, fmt.Errorf("add feedback: %w", err)
	}
	return f, nil
}

func (s *FeedbackService) Board(ctx context.Context) (FeedbackBoard, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return FeedbackBoard{}, fmt.Errorf("list feedback: %w", err)
	}
	if entries == nil {
		entries = []model.Feedback{}
	}
	return FeedbackBoard{
		Entries:       entries,
		Count:         len(entries),
		AverageRating: averageRating(entries),
	}, nil
}

func averageRating(entries []model.Feedback) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, f := range entries {
		sum += f.Rating
	}
	return float64(sum) / float64(len(entries))
}
