package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerRecord is the per-question outcome derived at finalize time. The order
// of records always matches the order of the session's questions.
type AnswerRecord struct {
	QuestionID     int  `json:"questionId"`
	SelectedOption int  `json:"selectedOption"` // -1 when left unanswered
	IsCorrect      bool `json:"isCorrect"`
}

// QuizResult is the immutable scored outcome of one quiz attempt. The JSON
// shape is the wire contract shared with the results backend, so tags stay
// camelCase. It doubles as the fallback-store row.
type QuizResult struct {
	ID             uint                              `gorm:"primarykey" json:"id,omitempty"`
	UserID         *uint                             `json:"userId,omitempty"`
	UserName       string                            `json:"userName,omitempty"`
	Score          int                               `json:"score"`
	AnsweredCount  int                               `json:"answeredCount"`
	TotalQuestions int                               `json:"totalQuestions"`
	TimeSpent      int                               `json:"timeSpent"` // seconds
	Answers        datatypes.JSONSlice[AnswerRecord] `json:"answers"`
	Date           string                            `json:"date"` // ISO-8601
	Category       string                            `json:"category"`
	Topic          string                            `json:"topic,omitempty"`
	SubTopic       string                            `json:"subTopic,omitempty"`
	CreatedAt      time.Time                         `json:"-"`
}

// Percentage is the score share used by the result and certificate views.
func (r *QuizResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(float64(r.Score) / float64(r.TotalQuestions) * 100)
}
