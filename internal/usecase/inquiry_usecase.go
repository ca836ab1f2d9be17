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

type InquiryUseCase interface {
	SubmitInquiry(ctx context.Context, inquiry domain.Inquiry) (*domain.Inquiry, error)
	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
	MarkRead(ctx context.Context, id string) (*domain.Inquiry, error)
}

type inquiryUseCase struct {
	inquiryRepo domain.InquiryRepository
	log         *logrus.Logger
	now         func() time.Time
}

func NewInquiryUseCase(repo domain.InquiryRepository, logger *logrus.Logger) InquiryUseCase {
	return &inquiryUseCase{inquiryRepo: repo, log: logger, now: time.Now}
}

func (uc *inquiryUseCase) SubmitInquiry(ctx context.Context, inquiry domain.Inquiry) (*domain.Inquiry, error) {
	inquiry.Name = strings.TrimSpace(inquiry.Name)
	inquiry.Email = normalizeEmail(inquiry.Email)
	inquiry.Message = strings.TrimSpace(inquiry.Message)
	inquiry.Subject = strings.TrimSpace(inquiry.Subject)
	inquiry.Phone = strings.TrimSpace(inquiry.Phone)

	switch {
	case inquiry.Name == "":
		return nil, domain.NewValidationError("name", "cannot be empty")
	case !isValidEmail(inquiry.Email):
		return nil, domain.NewValidationError("email", "invalid email format")
	case inquiry.Message == "":
		return nil, domain.NewValidationError("message", "cannot be empty")
	case inquiry.Phone != "" && !isValidPhone(inquiry.Phone):
		return nil, domain.NewValidationError("phone", "must be a 10 digit mobile number starting with 6-9")
	}

	inquiry.ID = uuid.NewString()
	inquiry.Status = domain.InquiryNew
	inquiry.CreatedAt = uc.now()
	if err := uc.inquiryRepo.Save(ctx, inquiry); err != nil {
		uc.log.Errorf("Use Case: Repository failed to save inquiry from %s: %v", inquiry.Email, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Inquiry %s received from %s", inquiry.ID, inquiry.Email)
	return &inquiry, nil
}

func (uc *inquiryUseCase) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	items, err := uc.inquiryRepo.List(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list inquiries: %v", err)
		return nil, fmt.Errorf("could not retrieve inquiries: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (uc *inquiryUseCase) MarkRead(ctx context.Context, id string) (*domain.Inquiry, error) {
	inquiry, err := uc.inquiryRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inquiry.Status == domain.InquiryRead {
		return &inquiry, nil
	}
	inquiry.Status = domain.InquiryRead
	if err := uc.inquiryRepo.Save(ctx, inquiry); err != nil {
		uc.log.Errorf("Use Case: Repository failed to mark inquiry %s read: %v", id, err)
		return nil, err
	}
	return &inquiry, nil
}
