package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"storefront_service/internal/domain"
)

type StylistClient interface {
	Generate(ctx context.Context, prompt domain.StylistPrompt) (string, error)
}

type geminiStylistClient struct {
	client *genai.Client
	model  string
	log    *logrus.Logger
}

func NewGeminiStylistClient(ctx context.Context, apiKey, model string, logger *logrus.Logger) (StylistClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	logger.Infof("StylistClient: Using model %s", model)
	return &geminiStylistClient{client: client, model: model, log: logger}, nil
}

// BuildContents converts a prompt into the ordered conversation sent to the
// model. The new message, with its optional image, is always last.
func BuildContents(prompt domain.StylistPrompt) []*genai.Content {
	contents := make([]*genai.Content, 0, len(prompt.History)+1)
	for _, turn := range prompt.History {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if turn.Role == domain.ChatRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt.Message)}
	if len(prompt.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(prompt.Image, prompt.ImageMIME))
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	return contents
}

func (c *geminiStylistClient) Generate(ctx context.Context, prompt domain.StylistPrompt) (string, error) {
	config := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	c.log.Debugf("StylistClient: Sending %d history turns (image attached: %t)", len(prompt.History), len(prompt.Image) > 0)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, BuildContents(prompt), config)
	if err != nil {
		c.log.Errorf("StylistClient: GenerateContent failed: %v", err)
		return "", fmt.Errorf("stylist generation failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("stylist returned an empty reply")
	}
	return text, nil
}
