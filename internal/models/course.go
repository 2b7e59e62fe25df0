package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course holds the material quizzes are generated from. Sections is an
// ordered list of RawSection stored as JSON; the pipeline reads it, the
// course endpoints write it.
type Course struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	Title       string         `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string         `json:"description" gorm:"type:text" validate:"max=1000"`
	Sections    datatypes.JSON `json:"sections" gorm:"type:jsonb"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:64;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

// Meta projects the course identity fields used by the prompt composer.
func (c *Course) Meta() CourseMeta {
	return CourseMeta{ID: c.ID, Title: c.Title, Description: c.Description}
}
