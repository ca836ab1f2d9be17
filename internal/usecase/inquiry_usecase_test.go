package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
	"storefront_service/internal/repository"
)

func TestInquiryLifecycle(t *testing.T) {
	f := newFixture(t)
	uc := NewInquiryUseCase(repository.NewInquiryRepository(f.backend, quietLogger()), quietLogger()).(*inquiryUseCase)
	clock := fixedNow
	uc.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := uc.SubmitInquiry(ctx, domain.Inquiry{Name: "Asha", Email: "asha@example", Message: "hi"})
	assert.True(t, domain.IsValidationError(err))

	first, err := uc.SubmitInquiry(ctx, domain.Inquiry{Name: "Asha", Email: "asha@example.com", Message: "Do you ship to Pune?"})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryNew, first.Status)

	clock = fixedNow.Add(time.Minute)
	second, err := uc.SubmitInquiry(ctx, domain.Inquiry{Name: "Ravi", Email: "ravi@example.com", Message: "Bulk order?"})
	require.NoError(t, err)

	list, err := uc.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	read, err := uc.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryRead, read.Status)
	assert.Equal(t, "Do you ship to Pune?", read.Message)

	_, err = uc.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedbackValidation(t *testing.T) {
	f := newFixture(t)
	uc := NewFeedbackUseCase(repository.NewFeedbackRepository(f.backend, quietLogger()), quietLogger())
	ctx := context.Background()

	_, err := uc.SubmitFeedback(ctx, domain.Feedback{Rating: 6, Message: "great"})
	assert.True(t, domain.IsValidationError(err))
	_, err = uc.SubmitFeedback(ctx, domain.Feedback{Rating: 4, Message: " "})
	assert.True(t, domain.IsValidationError(err))

	saved, err := uc.SubmitFeedback(ctx, domain.Feedback{Name: "Asha", Rating: 5, Message: "Lovely drape"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	all, err := uc.ListFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
