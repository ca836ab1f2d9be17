package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
)

type FeedbackUseCase interface {
	SubmitFeedback(ctx context.Context, feedback domain.Feedback) (*domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
}

type feedbackUseCase struct {
	feedbackRepo domain.FeedbackRepository
	log          *logrus.Logger
	now          func() time.Time
}

func NewFeedbackUseCase(repo domain.FeedbackRepository, logger *logrus.Logger) FeedbackUseCase {
	return &feedbackUseCase{feedbackRepo: repo, log: logger, now: time.Now}
}

func (uc *feedbackUseCase) SubmitFeedback(ctx context.Context, feedback domain.Feedback) (*domain.Feedback, error) {
	feedback.Name = strings.TrimSpace(feedback.Name)
	feedback.Email = normalizeEmail(feedback.Email)
	feedback.Message = strings.TrimSpace(feedback.Message)

	if feedback.Rating < 1 || feedback.Rating > 5 {
		return nil, domain.NewValidationError("rating", "must be between 1 and 5")
	}
	if feedback.Message == "" {
		return nil, domain.NewValidationError("message", "cannot be empty")
	}
	if feedback.Email != "" && !isValidEmail(feedback.Email) {
		return nil, domain.NewValidationError("email", "invalid email format")
	}

	feedback.ID = uuid.NewString()
	feedback.CreatedAt = uc.now()
	if err := uc.feedbackRepo.Save(ctx, feedback); err != nil {
		uc.log.Errorf("Use Case: Repository failed to save feedback: %v", err)
		return nil, err
	}
	uc.log.Infof("Use Case: Feedback %s recorded with rating %d", feedback.ID, feedback.Rating)
	return &feedback, nil
}

func (uc *feedbackUseCase) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	items, err := uc.feedbackRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list feedback: %v", err)
		return nil, fmt.Errorf("could not retrieve feedback: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}
