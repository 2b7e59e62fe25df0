package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperTranslator "translates" by uppercasing, and can fail selectively.
type upperTranslator struct {
	mu      sync.Mutex
	calls   int
	failOn  string
	blankOn string
}

func (u *upperTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if u.failOn != "" && text == u.failOn {
		return "", errors.New("upstream unavailable")
	}
	if u.blankOn != "" && text == u.blankOn {
		return "", nil
	}
	return strings.ToUpper(text), nil
}

func translationQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "first question", Options: []models.Option{
			{ID: 1, Text: "aa"}, {ID: 2, Text: "bb", IsCorrect: true, Explanation: "why bb"}, {ID: 3, Text: "cc"}, {ID: 4, Text: "dd"},
		}},
		{ID: 2, Text: "second question", Options: []models.Option{
			{ID: 1, Text: "ee", IsCorrect: true, Explanation: "why ee"}, {ID: 2, Text: "ff"}, {ID: 3, Text: "gg"}, {ID: 4, Text: "hh"},
		}},
	}
}

func TestTranslateQuestions(t *testing.T) {
	t.Run("translates every text at its original index", func(t *testing.T) {
		translator := &upperTranslator{}
		questions := translationQuestions()

		translated, err := TranslateQuestions(context.Background(), translator, questions, "nl")

		require.NoError(t, err)
		require.Len(t, translated, 2)
		assert.Equal(t, "FIRST QUESTION", translated[0].Text)
		assert.Equal(t, "SECOND QUESTION", translated[1].Text)
		assert.Equal(t, "BB", translated[0].Options[1].Text)
		assert.Equal(t, "WHY BB", translated[0].Options[1].Explanation)
		assert.Equal(t, "GG", translated[1].Options[2].Text)

		// Correctness flags and IDs are untouched.
		assert.True(t, translated[0].Options[1].IsCorrect)
		assert.Equal(t, 1, translated[0].ID)
	})

	t.Run("a failed translation keeps the source text", func(t *testing.T) {
		translator := &upperTranslator{failOn: "second question"}

		translated, err := TranslateQuestions(context.Background(), translator, translationQuestions(), "nl")

		require.NoError(t, err)
		assert.Equal(t, "FIRST QUESTION", translated[0].Text)
		assert.Equal(t, "second question", translated[1].Text)
	})

	t.Run("an empty translation keeps the source text", func(t *testing.T) {
		translator := &upperTranslator{blankOn: "aa"}

		translated, err := TranslateQuestions(context.Background(), translator, translationQuestions(), "nl")

		require.NoError(t, err)
		assert.Equal(t, "aa", translated[0].Options[0].Text)
	})

	t.Run("empty target language is a pass-through", func(t *testing.T) {
		translator := &upperTranslator{}
		questions := translationQuestions()

		translated, err := TranslateQuestions(context.Background(), translator, questions, "")

		require.NoError(t, err)
		assert.Equal(t, questions, translated)
		assert.Equal(t, 0, translator.calls)
	})

	t.Run("the input slice is never mutated", func(t *testing.T) {
		translator := &upperTranslator{}
		questions := translationQuestions()

		_, err := TranslateQuestions(context.Background(), translator, questions, "nl")

		require.NoError(t, err)
		assert.Equal(t, "first question", questions[0].Text)
		assert.Equal(t, "aa", questions[0].Options[0].Text)
	})
}

func TestNoopTranslator(t *testing.T) {
	out, err := NewNoopTranslator().Translate(context.Background(), "unchanged", "nl")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}
