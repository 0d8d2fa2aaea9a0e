package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/sandevgo/atlas/internal/config"
)

// Gemini generates text through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	cfg    *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, cfg *config.GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		cfg: &genai.GenerateContentConfig{
			MaxOutputTokens: 1024,
			Temperature:     genai.Ptr[float32](0.9),
			TopP:            genai.Ptr[float32](0.9),
			TopK:            genai.Ptr[float32](64),
		},
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}

// AnalyzeImage sends the prompt together with an inline image. Image replies
// run a lower temperature than chat; descriptions should stay literal.
func (g *Gemini) AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: 1024,
		Temperature:     genai.Ptr[float32](0.7),
		TopP:            genai.Ptr[float32](0.9),
		TopK:            genai.Ptr[float32](64),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini analyze image: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini analyze image: empty response")
	}
	return text, nil
}
