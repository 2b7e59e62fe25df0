package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coursekit/quiz-service/internal/genai"
	"github.com/coursekit/quiz-service/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentTranslations bounds the fan-out against upstream rate limits.
const maxConcurrentTranslations = 4

// llmTranslator translates display text through the completion service. Small
// requests go non-streaming; there is no long-running payload to drip-feed.
type llmTranslator struct {
	client genai.Completer
	logger *slog.Logger
}

func NewLLMTranslator(client genai.Completer, logger *slog.Logger) Translator {
	return &llmTranslator{client: client, logger: logger}
}

func (t *llmTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" || targetLanguage == "" {
		return text, nil
	}

	raw, err := t.client.Complete(ctx, genai.Request{
		SystemInstruction: "You are a translator. Translate the user's text to " + targetLanguage +
			". Return only the translated text, nothing else.",
		UserPrompt:  text,
		Temperature: 0,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

// noopTranslator passes text through unchanged; used when no translation
// backend is configured.
type noopTranslator struct{}

func NewNoopTranslator() Translator {
	return noopTranslator{}
}

func (noopTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// TranslateQuestions renders question texts, option texts and explanations in
// the target language. Texts are translated concurrently but results land at
// their original indexes, so question and option order is stable. A failed
// translation keeps the source text; the batch itself never fails.
func TranslateQuestions(ctx context.Context, translator Translator, questions []models.Question, targetLanguage string) ([]models.Question, error) {
	if targetLanguage == "" {
		return questions, nil
	}

	translated := make([]models.Question, len(questions))
	copy(translated, questions)
	for i := range translated {
		options := make([]models.Option, len(questions[i].Options))
		copy(options, questions[i].Options)
		translated[i].Options = options
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentTranslations)

	translate := func(dest *string) {
		source := *dest
		group.Go(func() error {
			out, err := translator.Translate(ctx, source, targetLanguage)
			if err != nil || out == "" {
				// Fall back to the source text.
				return nil
			}
			*dest = out
			return nil
		})
	}

	for i := range translated {
		translate(&translated[i].Text)
		for j := range translated[i].Options {
			translate(&translated[i].Options[j].Text)
			if translated[i].Options[j].Explanation != "" {
				translate(&translated[i].Options[j].Explanation)
			}
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return translated, nil
}
