package genai

import (
	"encoding/json"
	"testing"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structuredResponse = `[
	{"question": "What produces ATP?", "section": "Organelles", "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi"], "correct_answer": 1, "explanation": "Covered in the Organelles section."},
	{"question": "What stores genetic material?", "section": "Organelles", "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi"], "correct_answer": 0, "explanation": "Also from Organelles."}
]`

func TestResponseParser_Structured(t *testing.T) {
	parser := NewResponseParser(testLogger())

	t.Run("parses a plain array", func(t *testing.T) {
		questions := parser.Parse(structuredResponse)

		require.Len(t, questions, 2)
		assert.Equal(t, 1, questions[0].ID)
		assert.Equal(t, "What produces ATP?", questions[0].Text)
		assert.Equal(t, "Organelles", questions[0].SectionLabel)
		assert.Equal(t, 1, questions[0].CorrectIndex())
		assert.Equal(t, "Covered in the Organelles section.", questions[0].Explanation())
	})

	t.Run("strips code fences", func(t *testing.T) {
		questions := parser.Parse("```json\n" + structuredResponse + "\n```")
		assert.Len(t, questions, 2)
	})

	t.Run("removes trailing commas", func(t *testing.T) {
		raw := `[{"question": "Q?", "options": ["a", "b", "c", "d",], "correct_answer": 2, "explanation": "e",},]`
		questions := parser.Parse(raw)

		require.Len(t, questions, 1)
		assert.Equal(t, 2, questions[0].CorrectIndex())
	})

	t.Run("wraps a bare object into an array", func(t *testing.T) {
		raw := `{"question": "Q?", "options": ["a", "b", "c", "d"], "correct_answer": 0, "explanation": "e"}`
		questions := parser.Parse(raw)

		require.Len(t, questions, 1)
		assert.Equal(t, 0, questions[0].CorrectIndex())
	})

	t.Run("non-array top level yields empty", func(t *testing.T) {
		assert.Empty(t, parser.Parse(`"just a string"`))
	})
}

func TestResponseParser_FreeTextFallback(t *testing.T) {
	parser := NewResponseParser(testLogger())

	t.Run("parses the line-oriented format", func(t *testing.T) {
		raw := "Question 1: What is X?\nSection: Intro\nA) foo\nB) bar\nC) baz\nD) qux\nCorrect Answer: B\nExplanation: because bar"

		questions := parser.Parse(raw)

		require.Len(t, questions, 1)
		q := questions[0]
		assert.Equal(t, "What is X?", q.Text)
		assert.Equal(t, "Intro", q.SectionLabel)
		require.Len(t, q.Options, 4)
		assert.Equal(t, "bar", q.Options[1].Text)
		assert.True(t, q.Options[1].IsCorrect)
		assert.Equal(t, "because bar", q.Options[1].Explanation)
		for _, i := range []int{0, 2, 3} {
			assert.False(t, q.Options[i].IsCorrect)
		}
	})

	t.Run("parses multiple blocks and skips empty ones", func(t *testing.T) {
		raw := "Question 1: First?\nA) a\nB) b\nC) c\nD) d\nCorrect Answer: A\nExplanation: first\n\n" +
			"Question 2:\n\n" +
			"Question 3: Third?\nA) a\nB) b\nC) c\nD) d\nCorrect Answer: D\nExplanation: third"

		questions := parser.Parse(raw)

		require.Len(t, questions, 2)
		assert.Equal(t, "First?", questions[0].Text)
		assert.Equal(t, "Third?", questions[1].Text)
		assert.Equal(t, 3, questions[1].CorrectIndex())
	})
}

func TestResponseParser_InvariantFilter(t *testing.T) {
	parser := NewResponseParser(testLogger())

	t.Run("drops questions without exactly four options", func(t *testing.T) {
		raw := `[{"question": "Q?", "options": ["a", "b", "c"], "correct_answer": 0, "explanation": "e"}]`
		assert.Empty(t, parser.Parse(raw))
	})

	t.Run("drops questions whose correct index is out of range", func(t *testing.T) {
		raw := `[{"question": "Q?", "options": ["a", "b", "c", "d"], "correct_answer": 7, "explanation": "e"}]`
		assert.Empty(t, parser.Parse(raw))
	})

	t.Run("keeps good questions next to bad ones", func(t *testing.T) {
		raw := `[
			{"question": "Bad", "options": ["a"], "correct_answer": 0, "explanation": ""},
			{"question": "Good", "options": ["a", "b", "c", "d"], "correct_answer": 3, "explanation": "e"}
		]`
		questions := parser.Parse(raw)

		require.Len(t, questions, 1)
		assert.Equal(t, "Good", questions[0].Text)
	})
}

func TestResponseParser_NeverFails(t *testing.T) {
	parser := NewResponseParser(testLogger())

	inputs := []string{
		"",
		"complete garbage with no structure at all",
		"```\nunfinished fence",
		"[{not even close to json",
		"Question without the expected marker",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			assert.Empty(t, parser.Parse(input))
		})
	}
}

func TestResponseParser_RoundTrip(t *testing.T) {
	parser := NewResponseParser(testLogger())

	original := []models.Question{
		{
			ID: 1, Text: "First?", SectionLabel: "A",
			Options: []models.Option{
				{ID: 1, Text: "w"}, {ID: 2, Text: "x", IsCorrect: true, Explanation: "why x"}, {ID: 3, Text: "y"}, {ID: 4, Text: "z"},
			},
		},
		{
			ID: 2, Text: "Second?", SectionLabel: "B",
			Options: []models.Option{
				{ID: 1, Text: "p", IsCorrect: true, Explanation: "why p"}, {ID: 2, Text: "q"}, {ID: 3, Text: "r"}, {ID: 4, Text: "s"},
			},
		},
	}

	wire := make([]wireQuestion, len(original))
	for i, q := range original {
		options := make([]string, len(q.Options))
		for j, opt := range q.Options {
			options[j] = opt.Text
		}
		wire[i] = wireQuestion{
			Question:      q.Text,
			Section:       q.SectionLabel,
			Options:       options,
			CorrectAnswer: q.CorrectIndex(),
			Explanation:   q.Explanation(),
		}
	}
	serialized, err := json.Marshal(wire)
	require.NoError(t, err)

	parsed := parser.Parse(string(serialized))

	require.Len(t, parsed, len(original))
	for i := range original {
		assert.Equal(t, original[i].Text, parsed[i].Text)
		assert.Equal(t, original[i].SectionLabel, parsed[i].SectionLabel)
		assert.Equal(t, original[i].CorrectIndex(), parsed[i].CorrectIndex())
		for j := range original[i].Options {
			assert.Equal(t, original[i].Options[j].Text, parsed[i].Options[j].Text)
		}
	}
}
