package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizResult is the persisted record of one generated quiz and, once
// submitted, its score. The question list is stored as an opaque serialized
// blob; the pipeline is the only writer.
type QuizResult struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	QuizID   string `json:"quiz_id" gorm:"not null;size:36;index"`
	CourseID string `json:"course_id" gorm:"not null;size:36;index"`
	UserID   string `json:"user_id" gorm:"not null;size:64;index"`
	Title    string `json:"title" gorm:"size:200"`

	Questions datatypes.JSON `json:"questions" gorm:"type:jsonb"`
	Answers   datatypes.JSON `json:"answers,omitempty" gorm:"type:jsonb"`
	Feedback  datatypes.JSON `json:"feedback,omitempty" gorm:"type:jsonb"`

	Score          *int `json:"score,omitempty"`
	ElapsedSeconds int  `json:"elapsed_seconds"`
	Completed      bool `json:"completed" gorm:"default:false;index"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// Submission is a user's answer sheet for one quiz: question ID to selected
// option index. Consumed once by scoring, never stored in this form.
type Submission struct {
	QuizID         string      `json:"quiz_id" validate:"required"`
	Answers        map[int]int `json:"answers" validate:"required"`
	ElapsedSeconds int         `json:"elapsed_seconds" validate:"min=0"`
}

// QuestionFeedback is the per-question outcome returned to the UI after
// scoring.
type QuestionFeedback struct {
	Correct           bool   `json:"correct"`
	Explanation       string `json:"explanation"`
	CorrectOptionText string `json:"correct_option_text"`
	UserOptionText    string `json:"user_option_text"`
}

// ScoreResult is computed once per quiz submission and persisted alongside
// the QuizResult record. Immutable thereafter.
type ScoreResult struct {
	Percentage    int                      `json:"percentage"`
	PerQuestion   map[int]QuestionFeedback `json:"per_question"`
	NewHighScore  bool                     `json:"new_high_score"`
	PreviousBest  int                      `json:"previous_best"`
	CorrectCount  int                      `json:"correct_count"`
	QuestionCount int                      `json:"question_count"`
}

// LeaderboardEntry is one completed attempt projected for ranking.
type LeaderboardEntry struct {
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	SubmittedAt    time.Time `json:"submitted_at"`
}
