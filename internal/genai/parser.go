package genai

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/coursekit/quiz-service/internal/models"
)

var (
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	questionMarkPattern  = regexp.MustCompile(`(?m)^\s*Question\s+\d+\s*:\s*`)
	optionLinePattern    = regexp.MustCompile(`^([A-D])\)\s*(.+)$`)
)

// wireQuestion is the structured shape requested from the completion service.
type wireQuestion struct {
	Question      string   `json:"question"`
	Section       string   `json:"section"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// ResponseParser turns a raw completion-service response into canonical
// questions. It never fails: the structured path is tried first, the
// free-text path on a structured parse error, and total failure yields an
// empty list with the cause logged.
type ResponseParser struct {
	logger *slog.Logger
}

func NewResponseParser(logger *slog.Logger) *ResponseParser {
	return &ResponseParser{logger: logger}
}

// Parse returns the well-formed questions found in raw. Questions that do
// not carry exactly 4 options with exactly one correct are dropped here -
// the upstream generator's format compliance is never trusted.
func (p *ResponseParser) Parse(raw string) []models.Question {
	questions, err := p.parseStructured(raw)
	if err != nil {
		p.logger.Warn("structured parse failed, trying free-text format", "error", err)
		questions = p.parseFreeText(raw)
	}

	wellFormed := questions[:0]
	for _, q := range questions {
		if q.IsWellFormed() {
			wellFormed = append(wellFormed, q)
			continue
		}
		p.logger.Warn("dropping malformed question",
			"question", q.Text,
			"options", len(q.Options))
	}

	if len(wellFormed) == 0 && len(raw) > 0 {
		p.logger.Warn("response yielded no usable questions", "response_length", len(raw))
	}
	return wellFormed
}

func (p *ResponseParser) parseStructured(raw string) ([]models.Question, error) {
	cleaned := stripCodeFences(raw)
	cleaned = strings.TrimSpace(cleaned)

	// Models frequently emit a bare object or object list without brackets.
	if strings.HasPrefix(cleaned, "{") {
		cleaned = "[" + cleaned + "]"
	}
	cleaned = trailingCommaPattern.ReplaceAllString(cleaned, "$1")

	var wire []wireQuestion
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(wire))
	for i, w := range wire {
		questions = append(questions, fromWire(w, i+1))
	}
	return questions, nil
}

func fromWire(w wireQuestion, id int) models.Question {
	q := models.Question{
		ID:           id,
		Text:         strings.TrimSpace(w.Question),
		SectionLabel: strings.TrimSpace(w.Section),
	}
	for i, text := range w.Options {
		opt := models.Option{ID: i + 1, Text: strings.TrimSpace(text)}
		if i == w.CorrectAnswer {
			opt.IsCorrect = true
			opt.Explanation = strings.TrimSpace(w.Explanation)
		}
		q.Options = append(q.Options, opt)
	}
	return q
}

// parseFreeText handles the line-oriented fallback format:
//
//	Question 1: <text>
//	Section: <label>
//	A) ... D)
//	Correct Answer: <letter>
//	Explanation: <text>
//
// Blocks without a question text are skipped silently.
func (p *ResponseParser) parseFreeText(raw string) []models.Question {
	marks := questionMarkPattern.FindAllStringIndex(raw, -1)
	if marks == nil {
		return nil
	}

	var questions []models.Question
	for i, mark := range marks {
		end := len(raw)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		if q, ok := parseFreeTextBlock(raw[mark[1]:end]); ok {
			q.ID = len(questions) + 1
			questions = append(questions, q)
		}
	}
	return questions
}

func parseFreeTextBlock(block string) (models.Question, bool) {
	var q models.Question
	correctIndex := -1
	explanation := ""

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case q.Text == "":
			q.Text = line
		case strings.HasPrefix(line, "Section:"):
			q.SectionLabel = strings.TrimSpace(strings.TrimPrefix(line, "Section:"))
		case strings.HasPrefix(line, "Correct Answer:"):
			letter := strings.TrimSpace(strings.TrimPrefix(line, "Correct Answer:"))
			if len(letter) > 0 && letter[0] >= 'A' && letter[0] <= 'D' {
				correctIndex = int(letter[0] - 'A')
			}
		case strings.HasPrefix(line, "Explanation:"):
			explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		default:
			if m := optionLinePattern.FindStringSubmatch(line); m != nil {
				q.Options = append(q.Options, models.Option{
					ID:   len(q.Options) + 1,
					Text: strings.TrimSpace(m[2]),
				})
			}
		}
	}

	if q.Text == "" {
		return models.Question{}, false
	}
	if correctIndex >= 0 && correctIndex < len(q.Options) {
		q.Options[correctIndex].IsCorrect = true
		q.Options[correctIndex].Explanation = explanation
	}
	return q, true
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Skip the opening fence and optional language tag line.
	start := 3
	if idx := strings.Index(text[start:], "\n"); idx != -1 {
		start += idx + 1
	}
	if end := strings.Index(text[start:], "```"); end != -1 {
		return text[start : start+end]
	}
	return text[start:]
}
