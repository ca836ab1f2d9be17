package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"
	"storefront_service/internal/metrics"
)

const (
	maxStylistImageBytes = 4 << 20
	maxStylistHistory    = 20
	maxCatalogLines      = 40
)

const stylistSystemPrompt = `You are the in-store stylist for a boutique selling sarees and Indian kidswear.
Help shoppers choose outfits by occasion, fabric, colour, drape and budget. Prices are in Indian rupees.
Recommend only products from the catalog below by name, mention the price, and say when something is out of stock.
Keep replies short and warm. If a photo is shared, comment on colours and suggest pairings from the catalog.`

type StylistChatInput struct {
	Message     string            `json:"message"`
	History     []domain.ChatTurn `json:"history"`
	ImageBase64 string            `json:"image,omitempty"`
	ImageMIME   string            `json:"imageMimeType,omitempty"`
}

type StylistReply struct {
	Reply string `json:"reply"`
}

// ProductSnapshot supplies the latest known catalog without a store round trip.
type ProductSnapshot interface {
	Items() []domain.Product
}

type StylistUseCase interface {
	Chat(ctx context.Context, input StylistChatInput) (*StylistReply, error)
}

type stylistUseCase struct {
	client   clients.StylistClient
	products ProductSnapshot
	metrics  *metrics.Metrics
	log      *logrus.Logger
}

// NewStylistUseCase accepts a nil client; every chat then fails with
// domain.ErrUnavailable.
func NewStylistUseCase(client clients.StylistClient, products ProductSnapshot, m *metrics.Metrics, logger *logrus.Logger) StylistUseCase {
	return &stylistUseCase{client: client, products: products, metrics: m, log: logger}
}

// catalogSummary renders one line per product for the system prompt.
func catalogSummary(products []domain.Product) string {
	if len(products) == 0 {
		return "The catalog is currently empty."
	}
	var b strings.Builder
	for i, p := range products {
		if i == maxCatalogLines {
			fmt.Fprintf(&b, "...and %d more products.\n", len(products)-maxCatalogLines)
			break
		}
		availability := "in stock"
		if !p.InStock() {
			availability = "out of stock"
		}
		fmt.Fprintf(&b, "- %s (%s, %s", p.Name, p.Section, p.Category)
		if p.Fabric != "" {
			fmt.Fprintf(&b, ", %s", p.Fabric)
		}
		if p.Occasion != "" {
			fmt.Fprintf(&b, ", for %s", p.Occasion)
		}
		fmt.Fprintf(&b, "): Rs %d, %s\n", p.Price, availability)
	}
	return b.String()
}

func (uc *stylistUseCase) Chat(ctx context.Context, input StylistChatInput) (*StylistReply, error) {
	if uc.client == nil {
		uc.metrics.StylistRequests.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("stylist assistant is not configured: %w", domain.ErrUnavailable)
	}

	message := strings.TrimSpace(input.Message)
	if message == "" && input.ImageBase64 == "" {
		return nil, domain.NewValidationError("message", "cannot be empty")
	}
	if message == "" {
		message = "What would go well with this?"
	}

	prompt := domain.StylistPrompt{
		System:  stylistSystemPrompt + "\n\nCatalog:\n" + catalogSummary(uc.products.Items()),
		Message: message,
	}
	for _, turn := range input.History {
		if turn.Role != domain.ChatRoleUser && turn.Role != domain.ChatRoleModel {
			return nil, domain.NewValidationError("history", fmt.Sprintf("unknown role %q", turn.Role))
		}
	}
	history := input.History
	if len(history) > maxStylistHistory {
		history = history[len(history)-maxStylistHistory:]
	}
	prompt.History = history

	if input.ImageBase64 != "" {
		if !strings.HasPrefix(input.ImageMIME, "image/") {
			return nil, domain.NewValidationError("imageMimeType", "must be an image type")
		}
		raw := input.ImageBase64
		if idx := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && idx >= 0 {
			raw = raw[idx+1:]
		}
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, domain.NewValidationError("image", "must be base64 encoded")
		}
		if len(data) > maxStylistImageBytes {
			return nil, domain.NewValidationError("image", "must be at most 4 MB")
		}
		prompt.Image = data
		prompt.ImageMIME = input.ImageMIME
	}

	reply, err := uc.client.Generate(ctx, prompt)
	if err != nil {
		uc.metrics.StylistRequests.WithLabelValues("error").Inc()
		uc.log.Errorf("Use Case: Stylist generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	uc.metrics.StylistRequests.WithLabelValues("ok").Inc()
	return &StylistReply{Reply: reply}, nil
}
