package dto

import "github.com/dostonbek/testplatform/internal/model"

type ErrorResponse struct {
	Error string `json:"error"`
}

// QuizSnapshot is the live view of an active session.
type QuizSnapshot struct {
	CurrentIndex     int          `json:"currentIndex"`
	TotalQuestions   int          `json:"totalQuestions"`
	RemainingSeconds int          `json:"remainingSeconds"`
	SelectedAnswers  []int        `json:"selectedAnswers"`
	SelectedOption   int          `json:"selectedOption"` // -1 when the current question is unanswered
	LastQuestion     bool         `json:"lastQuestion"`
	Question         QuestionView `json:"question"`
}

// AppStateResponse mirrors the application controller: which view is shown,
// the dismissible error banner, and the data that view needs.
type AppStateResponse struct {
	View       string            `json:"view"`
	Error      string            `json:"error,omitempty"`
	User       *model.User       `json:"user,omitempty"`
	Quiz       *QuizSnapshot     `json:"quiz,omitempty"`
	LastResult *model.QuizResult `json:"lastResult,omitempty"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// CertificateResponse carries the immutable data an external renderer turns
// into the printable certificate.
type CertificateResponse struct {
	SerialNumber   string `json:"serialNumber"`
	Message        string `json:"message"`
	UserName       string `json:"userName"`
	Category       string `json:"category"`
	SubTopic       string `json:"subTopic,omitempty"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Percentage     int    `json:"percentage"`
	Date           string `json:"date"`
}

// HistoryEntry is the leaderboard row of the history view, best score first.
type HistoryEntry struct {
	UserName       string `json:"userName,omitempty"`
	Category       string `json:"category"`
	Topic          string `json:"topic,omitempty"`
	SubTopic       string `json:"subTopic,omitempty"`
	Score          int    `json:"score"`
	AnsweredCount  int    `json:"answeredCount"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeSpent      int    `json:"timeSpent"`
	Percentage     int    `json:"percentage"`
	Date           string `json:"date"`
}

type ViewNavigateRequest struct {
	Target string `json:"target" binding:"required,oneof=home history back restart dismiss"`
}
