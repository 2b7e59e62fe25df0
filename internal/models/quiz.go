package models

import "time"

// Option is one answer choice on a generated question. Explanation is only
// populated on the correct option.
type Option struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// Question is the canonical, format-agnostic representation of one generated
// multiple-choice question. Invariant: exactly 4 options, exactly one of
// which is correct. Questions violating the invariant are dropped during
// parsing, never stored.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	SectionLabel string   `json:"section,omitempty"`
	Options      []Option `json:"options"`
}

// OptionsPerQuestion is the fixed option count every stored question carries.
const OptionsPerQuestion = 4

// CorrectIndex returns the zero-based index of the correct option, or -1 if
// the question has no single correct option.
func (q *Question) CorrectIndex() int {
	index := -1
	for i, opt := range q.Options {
		if opt.IsCorrect {
			if index != -1 {
				return -1
			}
			index = i
		}
	}
	return index
}

// IsWellFormed reports whether the question satisfies the canonical
// invariant: non-empty text, exactly 4 options, exactly one correct.
func (q *Question) IsWellFormed() bool {
	if q.Text == "" || len(q.Options) != OptionsPerQuestion {
		return false
	}
	return q.CorrectIndex() >= 0
}

// Explanation returns the explanation attached to the correct option.
func (q *Question) Explanation() string {
	if idx := q.CorrectIndex(); idx >= 0 {
		return q.Options[idx].Explanation
	}
	return ""
}

// Quiz is an immutable generated question set handed to the quiz-taking UI
// and persisted as an opaque serialized question list on a QuizResult record.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CourseID  string     `json:"course_id"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}
