package models

import "time"

// Placeholders a custom template may use in its instruction text. The
// composer substitutes them before wrapping the result with the strict
// output-format block.
const (
	PlaceholderNumQuestions      = "{numQuestions}"
	PlaceholderCourseTitle       = "{courseTitle}"
	PlaceholderCourseDescription = "{courseDescription}"
	PlaceholderContent           = "{contentForPrompt}"
)

// PromptTemplate is a user-supplied (or built-in) question template. At most
// one template per owner may be the default; setting a new default clears the
// previous one first.
type PromptTemplate struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Name         string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Instructions string    `json:"instructions" gorm:"type:text;not null" validate:"required,min=10"`
	OwnerID      string    `json:"owner_id" gorm:"not null;size:64;index"`
	IsDefault    bool      `json:"is_default" gorm:"default:false;index"`
	IsBuiltIn    bool      `json:"is_built_in" gorm:"default:false"`
	UsageCount   int       `json:"usage_count" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (PromptTemplate) TableName() string {
	return "prompt_templates"
}
