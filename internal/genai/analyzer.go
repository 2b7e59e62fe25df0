package genai

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/coursekit/quiz-service/internal/models"
)

const (
	// Sections with less trimmed body text than this cannot anchor a
	// comprehension question and are dropped.
	minSectionBodyLength = 50

	// All valid sections together must reach this much body text before a
	// generation request is worth sending.
	minTotalBodyLength = 200

	maxKeyTerms = 10
)

var (
	markdownHeadingPattern = regexp.MustCompile(`^#{2,3}\s+(.+?)\s*$`)
	boldHeadingPattern     = regexp.MustCompile(`^\*\*(.+?)\*\*\s*$`)
	underlineHeadingPattern = regexp.MustCompile(`^__(.+?)__\s*$`)

	// Capitalized-word sequences and acronyms. A heuristic, not NLP.
	keyTermPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b|\b[A-Z]{2,}\b`)
)

// ContentAnalyzer extracts structured sections from raw course material and
// validates that the material can support question generation.
type ContentAnalyzer struct {
	logger *slog.Logger
}

func NewContentAnalyzer(logger *slog.Logger) *ContentAnalyzer {
	return &ContentAnalyzer{logger: logger}
}

// Analyze converts raw course sections into ContentSections. Sections whose
// trimmed body is below the minimum length are dropped, not errored; an
// InsufficientContentError is returned only when nothing valid remains.
func (a *ContentAnalyzer) Analyze(rawSections []models.RawSection) ([]models.ContentSection, error) {
	if len(rawSections) == 0 {
		return nil, &InsufficientContentError{Reasons: []string{"no course sections provided"}}
	}

	sections := make([]models.ContentSection, 0, len(rawSections))
	for _, raw := range rawSections {
		body := strings.TrimSpace(raw.Content)
		if len(body) < minSectionBodyLength {
			a.logger.Debug("dropping section below minimum body length",
				"section", raw.Title,
				"length", len(body))
			continue
		}

		sections = append(sections, models.ContentSection{
			Title:       strings.TrimSpace(raw.Title),
			Body:        body,
			Subheadings: extractSubheadings(body),
			KeyTerms:    extractKeyTerms(body),
		})
	}

	if len(sections) == 0 {
		return nil, &InsufficientContentError{Reasons: []string{
			fmt.Sprintf("all sections are empty or below the %d character minimum", minSectionBodyLength),
		}}
	}

	return sections, nil
}

// ValidateSufficiency checks that the analyzed sections together carry enough
// material for a full quiz. The total-length bound is inclusive.
func (a *ContentAnalyzer) ValidateSufficiency(sections []models.ContentSection) error {
	var reasons []string

	if len(sections) == 0 {
		reasons = append(reasons, "no valid sections after filtering")
	}

	total := 0
	for _, s := range sections {
		total += len(s.Body)
	}
	if len(sections) > 0 && total < minTotalBodyLength {
		reasons = append(reasons, fmt.Sprintf("total content length %d is below the %d character minimum", total, minTotalBodyLength))
	}

	if len(reasons) > 0 {
		return &InsufficientContentError{Reasons: reasons}
	}
	return nil
}

// extractSubheadings collects markdown headings and emphasized lines in
// document order, markup stripped.
func extractSubheadings(body string) []string {
	var subheadings []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		for _, pattern := range []*regexp.Regexp{markdownHeadingPattern, boldHeadingPattern, underlineHeadingPattern} {
			if m := pattern.FindStringSubmatch(line); m != nil {
				if heading := strings.TrimSpace(m[1]); heading != "" {
					subheadings = append(subheadings, heading)
				}
				break
			}
		}
	}
	return subheadings
}

// extractKeyTerms returns a deduplicated, order-preserving list of
// capitalized-word sequences, capped at maxKeyTerms.
func extractKeyTerms(body string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, term := range keyTermPattern.FindAllString(body, -1) {
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
		if len(terms) == maxKeyTerms {
			break
		}
	}
	return terms
}
