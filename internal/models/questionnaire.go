package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionnaireResponse stores one feedback questionnaire submission for a
// course. Answers are kept as an opaque JSON document; aggregation happens
// elsewhere.
type QuestionnaireResponse struct {
	ID       string         `json:"id" gorm:"primaryKey;size:36"`
	CourseID string         `json:"course_id" gorm:"not null;size:36;index"`
	UserID   string         `json:"user_id" gorm:"not null;size:64;index"`
	Answers  datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuestionnaireResponse) TableName() string {
	return "questionnaire_responses"
}
