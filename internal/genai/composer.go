package genai

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/coursekit/quiz-service/internal/models"
)

// Request is one immutable generation request for the completion service.
type Request struct {
	SystemInstruction string
	UserPrompt        string
	Temperature       float32
	Stream            bool
	TargetLanguage    string
}

const defaultTemperature = 0.7

// Reduced-content limits for the per-section chunked path.
const (
	sectionBodyLimit    = 1000
	sectionKeyTermLimit = 5
)

// systemInstruction is attached to every generation request. The content-only
// constraint and the section-attribution requirement are what make parsed
// questions attributable downstream.
const systemInstruction = "You are a quiz generator for an e-learning platform. " +
	"Use only the provided course content to write questions - never general or world knowledge. " +
	"Every question must test comprehension of the content, and every explanation must reference the section the answer comes from."

// outputFormatBlock is appended to every user prompt, including ones built
// from custom templates. The pipeline cannot reliably act on free text, so
// the request always ends with the strict structured-array contract.
const outputFormatBlock = `Output format requirements:
Respond with a JSON array and nothing else - no prose, no markdown fences.
Each element must be an object of this exact shape:
{"question": "<question text>", "section": "<title of the source section>", "options": ["<option A>", "<option B>", "<option C>", "<option D>"], "correct_answer": <zero-based index 0-3>, "explanation": "<why the answer is correct, referencing the source section>"}
Every question must have exactly 4 options and exactly one correct answer.
Return only the JSON array.`

// PromptComposer merges a question template (default or user-supplied) with
// formatted content and course metadata into a final generation request.
type PromptComposer struct {
	formatter *PromptFormatter
	logger    *slog.Logger
}

func NewPromptComposer(formatter *PromptFormatter, logger *slog.Logger) *PromptComposer {
	return &PromptComposer{formatter: formatter, logger: logger}
}

// Compose builds the full-content generation request. A nil template selects
// the built-in instruction set.
func (c *PromptComposer) Compose(sections []models.ContentSection, course models.CourseMeta, numQuestions int, template *models.PromptTemplate) Request {
	content := c.formatter.Format(sections)

	var prompt string
	if template != nil {
		prompt = c.renderTemplate(template, course, content, numQuestions)
	} else {
		prompt = c.defaultPrompt(course, content, numQuestions)
	}

	return Request{
		SystemInstruction: systemInstruction,
		UserPrompt:        prompt,
		Temperature:       defaultTemperature,
		Stream:            true,
	}
}

// ComposeSection builds a reduced-content request for one section, used by
// the chunked path to keep each sub-call inside the per-call budget.
func (c *PromptComposer) ComposeSection(section models.ContentSection, course models.CourseMeta, numQuestions int, template *models.PromptTemplate) Request {
	reduced := section
	if body := []rune(reduced.Body); len(body) > sectionBodyLimit {
		reduced.Body = string(body[:sectionBodyLimit])
	}
	if len(reduced.KeyTerms) > sectionKeyTermLimit {
		reduced.KeyTerms = reduced.KeyTerms[:sectionKeyTermLimit]
	}
	reduced.Subheadings = nil

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Section: %s\n", reduced.Title))
	if len(reduced.KeyTerms) > 0 {
		sb.WriteString(fmt.Sprintf("Key terms: %s\n", strings.Join(reduced.KeyTerms, ", ")))
	}
	sb.WriteString(reduced.Body)

	var prompt string
	if template != nil {
		prompt = c.renderTemplate(template, course, sb.String(), numQuestions)
	} else {
		prompt = c.defaultPrompt(course, sb.String(), numQuestions)
	}

	return Request{
		SystemInstruction: systemInstruction,
		UserPrompt:        prompt,
		Temperature:       defaultTemperature,
		Stream:            true,
	}
}

func (c *PromptComposer) defaultPrompt(course models.CourseMeta, content string, numQuestions int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate %d multiple-choice questions for the course %q.\n", numQuestions, course.Title))
	if course.Description != "" {
		sb.WriteString(fmt.Sprintf("Course description: %s\n", course.Description))
	}
	sb.WriteString("\nRequirements:\n")
	sb.WriteString("- Questions must test comprehension of the content below, not recall of isolated phrases\n")
	sb.WriteString("- Each question has exactly 4 options with exactly one correct answer\n")
	sb.WriteString("- Attribute each question to the section it was drawn from\n")
	sb.WriteString("- The explanation must reference the section of origin\n")
	sb.WriteString("\nCourse content:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")
	sb.WriteString(outputFormatBlock)
	return sb.String()
}

// renderTemplate substitutes the supported placeholders into a custom
// template, then wraps the result with the strict output-format block. The
// template's prose requirements are preserved; the format contract is not
// negotiable.
func (c *PromptComposer) renderTemplate(template *models.PromptTemplate, course models.CourseMeta, content string, numQuestions int) string {
	replacer := strings.NewReplacer(
		models.PlaceholderNumQuestions, strconv.Itoa(numQuestions),
		models.PlaceholderCourseTitle, course.Title,
		models.PlaceholderCourseDescription, course.Description,
		models.PlaceholderContent, content,
	)
	prompt := replacer.Replace(template.Instructions)

	// Templates that never reference the content placeholder still need the
	// content to generate from.
	if !strings.Contains(template.Instructions, models.PlaceholderContent) {
		prompt += "\n\nCourse content:\n" + content
	}

	c.logger.Debug("composed prompt from custom template",
		"template_id", template.ID,
		"template_name", template.Name)

	return prompt + "\n\n" + outputFormatBlock
}
