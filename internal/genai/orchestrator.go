package genai

import (
	"context"
	"log/slog"

	"github.com/coursekit/quiz-service/internal/models"
)

// OrchestratorConfig bounds the chunked fan-out. Both values come from
// static configuration.
type OrchestratorConfig struct {
	// ChunkThreshold is the formatted-content length above which a single
	// request would risk the wall-clock budget.
	ChunkThreshold int
	// MaxSections caps the sequential sub-calls; each runs under the same
	// per-call timeout, so the cap bounds total latency.
	MaxSections int
}

// Orchestrator drives the full generation pipeline: analyze, format,
// compose, complete, parse. Large content is partitioned into per-section
// sub-calls whose partial results are merged into the final question count.
type Orchestrator struct {
	analyzer  *ContentAnalyzer
	formatter *PromptFormatter
	composer  *PromptComposer
	client    Completer
	parser    *ResponseParser
	config    OrchestratorConfig
	logger    *slog.Logger
}

func NewOrchestrator(
	analyzer *ContentAnalyzer,
	formatter *PromptFormatter,
	composer *PromptComposer,
	client Completer,
	parser *ResponseParser,
	config OrchestratorConfig,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		analyzer:  analyzer,
		formatter: formatter,
		composer:  composer,
		client:    client,
		parser:    parser,
		config:    config,
		logger:    logger,
	}
}

// Generate produces up to numQuestions canonical questions from raw course
// sections. Content exceeding the chunk threshold is generated per section;
// otherwise one full-content request is issued and its failure propagates
// (there is no smaller unit to retry). The returned flag reports whether the
// chunked path ran.
func (o *Orchestrator) Generate(
	ctx context.Context,
	rawSections []models.RawSection,
	course models.CourseMeta,
	numQuestions int,
	template *models.PromptTemplate,
	targetLanguage string,
) ([]models.Question, bool, error) {
	sections, err := o.analyzer.Analyze(rawSections)
	if err != nil {
		return nil, false, err
	}
	if err := o.analyzer.ValidateSufficiency(sections); err != nil {
		return nil, false, err
	}

	formatted := o.formatter.Format(sections)
	if len(formatted) > o.config.ChunkThreshold && len(sections) > 1 {
		questions, err := o.generateChunked(ctx, sections, course, numQuestions, template, targetLanguage)
		return questions, true, err
	}

	req := o.composer.Compose(sections, course, numQuestions, template)
	req.TargetLanguage = targetLanguage

	raw, err := o.client.Complete(ctx, req)
	if err != nil {
		return nil, false, err
	}

	questions := o.parser.Parse(raw)
	if len(questions) == 0 {
		return nil, false, ErrNoQuestions
	}
	if len(questions) > numQuestions {
		questions = questions[:numQuestions]
	}
	reindex(questions)
	return questions, false, nil
}

// generateChunked issues one reduced-content request per selected section,
// sequentially, to respect the shared wall-clock budget instead of racing N
// long-running calls against a rate-limited upstream. A failed section is
// skipped; fewer questions than requested is acceptable, an empty merge is
// not.
func (o *Orchestrator) generateChunked(
	ctx context.Context,
	sections []models.ContentSection,
	course models.CourseMeta,
	numQuestions int,
	template *models.PromptTemplate,
	targetLanguage string,
) ([]models.Question, error) {
	selected := sections
	if len(selected) > o.config.MaxSections {
		// Remaining sections are dropped for this generation: fewer topics
		// covered, not missing content within covered sections.
		o.logger.Info("section cap reached, remaining sections not used",
			"selected", o.config.MaxSections,
			"dropped", len(selected)-o.config.MaxSections)
		selected = selected[:o.config.MaxSections]
	}

	perSection := (numQuestions + len(selected) - 1) / len(selected)

	var collected []models.Question
	for _, section := range selected {
		remaining := numQuestions - len(collected)
		if remaining <= 0 {
			break
		}
		want := perSection
		if want > remaining {
			want = remaining
		}

		req := o.composer.ComposeSection(section, course, want, template)
		req.TargetLanguage = targetLanguage

		raw, err := o.client.Complete(ctx, req)
		if err != nil {
			o.logger.Warn("section generation failed, continuing with next section",
				"section", section.Title,
				"error", err)
			continue
		}

		questions := o.parser.Parse(raw)
		if len(questions) == 0 {
			o.logger.Warn("section yielded no questions, continuing with next section",
				"section", section.Title)
			continue
		}
		if len(questions) > want {
			questions = questions[:want]
		}
		collected = append(collected, questions...)
	}

	if len(collected) == 0 {
		return nil, ErrNoQuestions
	}
	reindex(collected)

	o.logger.Info("chunked generation merged",
		"sections_used", len(selected),
		"questions", len(collected),
		"requested", numQuestions)
	return collected, nil
}

// reindex rewrites question IDs into one sequential range so merged partial
// results look like a single generation to consumers.
func reindex(questions []models.Question) {
	for i := range questions {
		questions[i].ID = i + 1
	}
}
