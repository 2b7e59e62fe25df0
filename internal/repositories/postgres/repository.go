package postgres

import (
	"github.com/coursekit/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quizResult    repositories.QuizResultRepository
	course        repositories.CourseRepository
	template      repositories.TemplateRepository
	questionnaire repositories.QuestionnaireRepository
}

// NewRepository builds the aggregate over one shared gorm connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quizResult:    NewQuizResultPostgreSQL(db),
		course:        NewCoursePostgreSQL(db),
		template:      NewTemplatePostgreSQL(db),
		questionnaire: NewQuestionnairePostgreSQL(db),
	}
}

func (r *repository) QuizResult() repositories.QuizResultRepository { return r.quizResult }

func (r *repository) Course() repositories.CourseRepository { return r.course }

func (r *repository) Template() repositories.TemplateRepository { return r.template }

func (r *repository) Questionnaire() repositories.QuestionnaireRepository { return r.questionnaire }
