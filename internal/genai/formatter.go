package genai

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/coursekit/quiz-service/internal/models"
)

const (
	codeBlockPlaceholder = "[code example omitted]"
	truncationMarker     = "[... content continues ...]"

	// Paragraph accumulation stops at this share of the section budget;
	// below the fallback share the head+tail cut is used instead. Tunable,
	// not load-bearing.
	paragraphBudgetShare = 0.8
	fallbackBudgetShare  = 0.5
)

var (
	fencedCodePattern    = regexp.MustCompile("(?s)```.*?```")
	imageMarkupPattern   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkMarkupPattern    = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	deepHeadingPattern   = regexp.MustCompile(`(?m)^#{4,}`)
	excessNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

// PromptFormatter renders analyzed sections into a bounded-length text block
// suitable for inclusion in a generation request.
type PromptFormatter struct {
	maxTotalLength int
	logger         *slog.Logger
}

func NewPromptFormatter(maxTotalLength int, logger *slog.Logger) *PromptFormatter {
	return &PromptFormatter{maxTotalLength: maxTotalLength, logger: logger}
}

// Format renders each section under an even share of the total budget and
// stops adding sections once the budget would be exceeded. Partial coverage
// is acceptable and logged, never an error.
func (f *PromptFormatter) Format(sections []models.ContentSection) string {
	if len(sections) == 0 {
		return ""
	}

	sectionBudget := f.maxTotalLength / len(sections)

	var sb strings.Builder
	for i, section := range sections {
		block := f.renderSection(section, sectionBudget)
		if sb.Len()+len(block) > f.maxTotalLength {
			f.logger.Info("prompt budget exhausted, remaining sections omitted",
				"included_sections", i,
				"total_sections", len(sections))
			break
		}
		sb.WriteString(block)
	}
	return sb.String()
}

func (f *PromptFormatter) renderSection(section models.ContentSection, budget int) string {
	var header strings.Builder
	header.WriteString(fmt.Sprintf("## %s\n", section.Title))
	if len(section.Subheadings) > 0 {
		header.WriteString(fmt.Sprintf("Key subtitles: %s\n", strings.Join(section.Subheadings, ", ")))
	}
	if len(section.KeyTerms) > 0 {
		header.WriteString(fmt.Sprintf("Key terms: %s\n", strings.Join(section.KeyTerms, ", ")))
	}

	// The header lines and trailing blank line spend the same budget as the
	// content, so the cut is sized on what remains after them.
	available := budget - header.Len() - 2
	if available < 0 {
		available = 0
	}
	content := normalizeContent(section.Body)
	if len(content) > available {
		content = truncateToBudget(content, available)
	}
	return header.String() + content + "\n\n"
}

// normalizeContent strips markup that wastes prompt budget without carrying
// quizzable information.
func normalizeContent(content string) string {
	content = fencedCodePattern.ReplaceAllString(content, codeBlockPlaceholder)
	content = imageMarkupPattern.ReplaceAllString(content, "$1")
	content = linkMarkupPattern.ReplaceAllString(content, "$1")
	content = deepHeadingPattern.ReplaceAllString(content, "###")
	content = excessNewlinePattern.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// truncateToBudget prefers whole paragraphs; when too little fits that way it
// falls back to a head+tail cut with a marker in the middle.
func truncateToBudget(content string, budget int) string {
	paragraphs := strings.Split(content, "\n\n")
	limit := int(float64(budget) * paragraphBudgetShare)

	var kept []string
	used := 0
	for _, p := range paragraphs {
		if used+len(p) > limit {
			break
		}
		kept = append(kept, p)
		used += len(p) + 2
	}

	if used >= int(float64(budget)*fallbackBudgetShare) {
		return strings.Join(kept, "\n\n")
	}
	return headTailCut(content, budget)
}

func headTailCut(content string, budget int) string {
	runes := []rune(content)
	available := budget - len(truncationMarker) - 2
	if available <= 0 || len(runes) <= available {
		return content
	}
	headLen := available * 2 / 3
	tailLen := available - headLen
	return string(runes[:headLen]) + "\n" + truncationMarker + "\n" + string(runes[len(runes)-tailLen:])
}
