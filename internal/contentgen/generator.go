package contentgen

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Generator produces marketing copy for under-selling shows using
// Google's Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

func NewGenerator(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Generator{client: client, model: model}, nil
}

// PromoRequest carries the show facts the model needs to write promo copy.
type PromoRequest struct {
	ArtistName     string
	VenueName      string
	City           string
	ShowDate       string
	SellThroughPct float64
	DaysUntilShow  int
	Tone           string
}

// PromoCopy generates a short social-media blurb pushing remaining tickets.
func (g *Generator) PromoCopy(ctx context.Context, req PromoRequest) (string, error) {
	tone := req.Tone
	if tone == "" {
		tone = "urgent but upbeat"
	}

	var b strings.Builder
	b.WriteString("Write a social-media post (max 60 words) promoting remaining tickets for a concert.\n")
	fmt.Fprintf(&b, "Artist: %s\nVenue: %s, %s\nDate: %s\n", req.ArtistName, req.VenueName, req.City, req.ShowDate)
	fmt.Fprintf(&b, "The show is %.0f%% sold with %d days to go.\n", req.SellThroughPct, req.DaysUntilShow)
	fmt.Fprintf(&b, "Tone: %s. Do not mention sales figures. Return only the post text.", tone)

	contents := []*genai.Content{
		genai.NewContentFromText(b.String(), genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("no content returned")
	}
	return strings.TrimSpace(text), nil
}
