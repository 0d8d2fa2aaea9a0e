package core

import "context"

// Generator is the remote text-generation call. Implementations do not
// retry; resilience lives in the generation client wrapping this.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageAnalyzer is the optional multimodal call: the prompt plus an inline
// image. Generators without image support simply don't implement it.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
}
