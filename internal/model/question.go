package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty classifies how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// OptionCount is the fixed number of options every question carries.
const OptionCount = 4

// Question represents a single multiple-choice question.
// CorrectAnswer is the index (0-3) into Options.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	QuestionText  string     `json:"question_text"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	Subject       string     `json:"subject"`
	Category      string     `json:"category,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedBy     int        `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// QuestionForStudent is a question stripped of its correct answer, safe to
// send to a student taking the exam.
type QuestionForStudent struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	Options      []string  `json:"options"`
}

// ForStudent returns the student-safe view of the question.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Options:      q.Options,
	}
}

// SaveQuestionRequest is the payload for creating or updating a question.
// CorrectAnswer is a pointer so index 0 survives the required check.
type SaveQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=500"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=200"`
	CorrectAnswer *int     `json:"correct_answer" binding:"required,min=0,max=3"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Subject       string   `json:"subject" binding:"required,max=50"`
	Category      string   `json:"category" binding:"omitempty,max=50"`
}
