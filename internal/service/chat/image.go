package chat

import (
	"context"
	"fmt"

	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/internal/extract"
	"github.com/sandevgo/atlas/pkg/log"
)

// analyzeImage answers over an uploaded image through the multimodal call.
// The multimodal attempt is made once; on failure the resilient client runs
// a text-only prompt that tells the user the image could not be read, so the
// caller still gets a reply either way. Backends without image support
// report the upload as unsupported.
func (s *Service) analyzeImage(ctx context.Context, sessionID, fileName, mimeType string, content []byte, userNote string) (core.Reply, error) {
	if s.vision == nil {
		return core.Reply{}, fmt.Errorf("%w: %s", extract.ErrUnsupportedType, mimeType)
	}

	entries := s.ranker.Retrieve(userNote, s.cfg.TopK)
	history := s.sessions.RecentTurns(sessionID)

	var reply core.Reply
	text, err := s.vision.AnalyzeImage(ctx, s.prompts.ImageAnalysis(entries, history, userNote), mimeType, content)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).
			Str("session", sessionID).
			Str("file", fileName).
			Msg("multimodal call failed, degrading to text-only prompt")
		reply = s.generator.Generate(ctx, s.prompts.ImageFallback(entries, history, userNote))
	} else {
		reply = core.Reply{Text: text}
	}

	if !reply.Offline {
		s.record(ctx, sessionID, imageTurn(userNote, fileName), reply)
	}
	return reply, nil
}

func imageTurn(userNote, fileName string) string {
	if userNote == "" {
		return fmt.Sprintf("[Imagem enviada: %s]", fileName)
	}
	return fmt.Sprintf("%s [Imagem enviada: %s]", userNote, fileName)
}
