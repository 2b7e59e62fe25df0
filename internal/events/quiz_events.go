package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of quiz lifecycle events
type EventType string

const (
	// Quiz lifecycle events
	EventQuizGenerated EventType = "quiz.generated"
	EventQuizSubmitted EventType = "quiz.submitted"

	// Course events
	EventCourseCreated EventType = "course.created"
	EventCourseUpdated EventType = "course.updated"
)

// QuizEvent is the base event structure for all lifecycle events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Quiz lifecycle event payloads

type QuizGeneratedEvent struct {
	QuizID        string `json:"quiz_id"`
	CourseID      string `json:"course_id"`
	CourseTitle   string `json:"course_title"`
	UserID        string `json:"user_id"`
	QuestionCount int    `json:"question_count"`
	TemplateID    string `json:"template_id,omitempty"`
	Chunked       bool   `json:"chunked"`
}

type QuizSubmittedEvent struct {
	QuizID         string    `json:"quiz_id"`
	CourseID       string    `json:"course_id"`
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correct_count"`
	QuestionCount  int       `json:"question_count"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	NewHighScore   bool      `json:"new_high_score"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type CourseChangedEvent struct {
	CourseID     string `json:"course_id"`
	CourseTitle  string `json:"course_title"`
	SectionCount int    `json:"section_count"`
	ActorID      string `json:"actor_id"`
}

// Event factory functions

func NewQuizGeneratedEvent(quizID, courseID, courseTitle, userID string, questionCount int, templateID string, chunked bool) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizGenerated,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: QuizGeneratedEvent{
			QuizID:        quizID,
			CourseID:      courseID,
			CourseTitle:   courseTitle,
			UserID:        userID,
			QuestionCount: questionCount,
			TemplateID:    templateID,
			Chunked:       chunked,
		},
	}
}

func NewQuizSubmittedEvent(quizID, courseID, userID string, score, correctCount, questionCount, elapsedSeconds int, newHighScore bool, submittedAt time.Time) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizSubmitted,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: QuizSubmittedEvent{
			QuizID:         quizID,
			CourseID:       courseID,
			UserID:         userID,
			Score:          score,
			CorrectCount:   correctCount,
			QuestionCount:  questionCount,
			ElapsedSeconds: elapsedSeconds,
			NewHighScore:   newHighScore,
			SubmittedAt:    submittedAt,
		},
	}
}

func NewCourseChangedEvent(eventType EventType, courseID, courseTitle string, sectionCount int, actorID string) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: CourseChangedEvent{
			CourseID:     courseID,
			CourseTitle:  courseTitle,
			SectionCount: sectionCount,
			ActorID:      actorID,
		},
	}
}

// GenerateEventID returns a unique identifier for one published event.
func GenerateEventID() string {
	return uuid.NewString()
}
