package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_service/internal/domain"
)

type staticProducts []domain.Product

func (s staticProducts) Items() []domain.Product { return s }

type recordingStylist struct {
	prompt domain.StylistPrompt
	reply  string
	err    error
}

func (r *recordingStylist) Generate(_ context.Context, p domain.StylistPrompt) (string, error) {
	r.prompt = p
	return r.reply, r.err
}

func TestStylistUnavailableWithoutClient(t *testing.T) {
	uc := NewStylistUseCase(nil, staticProducts{}, testMetrics(), quietLogger())
	_, err := uc.Chat(context.Background(), StylistChatInput{Message: "hello"})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestStylistPromptCarriesCatalogAndImage(t *testing.T) {
	client := &recordingStylist{reply: "Try the crimson Banarasi."}
	products := staticProducts{
		{Name: "Crimson Banarasi", Section: domain.SectionSaree, Category: "Silk", Fabric: "Banarasi Silk", Price: 8499, Stock: 2},
		{Name: "Green Pavadai", Section: domain.SectionKids, Category: "Pattu Pavadai", Price: 2199, Stock: 0},
	}
	uc := NewStylistUseCase(client, products, testMetrics(), quietLogger())

	image := []byte{0x89, 0x50, 0x4e, 0x47}
	reply, err := uc.Chat(context.Background(), StylistChatInput{
		Message:     "What goes with this blouse?",
		History:     []domain.ChatTurn{{Role: domain.ChatRoleUser, Text: "Hi"}, {Role: domain.ChatRoleModel, Text: "Hello!"}},
		ImageBase64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(image),
		ImageMIME:   "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Try the crimson Banarasi.", reply.Reply)

	assert.Contains(t, client.prompt.System, "Crimson Banarasi (Saree, Silk, Banarasi Silk): Rs 8499, in stock")
	assert.Contains(t, client.prompt.System, "Green Pavadai (Kids, Pattu Pavadai): Rs 2199, out of stock")
	assert.Len(t, client.prompt.History, 2)
	assert.Equal(t, image, client.prompt.Image)
	assert.Equal(t, "image/png", client.prompt.ImageMIME)
}

func TestStylistRejectsBadInput(t *testing.T) {
	uc := NewStylistUseCase(&recordingStylist{reply: "ok"}, staticProducts{}, testMetrics(), quietLogger())
	ctx := context.Background()

	_, err := uc.Chat(ctx, StylistChatInput{Message: "  "})
	assert.True(t, domain.IsValidationError(err))

	_, err = uc.Chat(ctx, StylistChatInput{Message: "hi", History: []domain.ChatTurn{{Role: "system", Text: "x"}}})
	assert.True(t, domain.IsValidationError(err))

	_, err = uc.Chat(ctx, StylistChatInput{Message: "hi", ImageBase64: "!!!", ImageMIME: "image/png"})
	assert.True(t, domain.IsValidationError(err))

	_, err = uc.Chat(ctx, StylistChatInput{Message: "hi", ImageBase64: "aGk=", ImageMIME: "text/plain"})
	assert.True(t, domain.IsValidationError(err))
}

func TestStylistGenerationFailureIsUnavailable(t *testing.T) {
	uc := NewStylistUseCase(&recordingStylist{err: errors.New("quota exceeded")}, staticProducts{}, testMetrics(), quietLogger())
	_, err := uc.Chat(context.Background(), StylistChatInput{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
