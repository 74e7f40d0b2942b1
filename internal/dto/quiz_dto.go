package dto

// Difficulty levels accepted on the wire. Labels (Uzbek, the platform's fixed
// locale) are what the generation prompt carries.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

var difficultyLabels = map[string]string{
	DifficultyEasy:   "Oson",
	DifficultyMedium: "O'rtacha",
	DifficultyHard:   "Qiyin",
}

// QuizConfig describes one quiz request. Immutable once a session starts.
type QuizConfig struct {
	Category      string `json:"category" binding:"required"`
	Topic         string `json:"topic" binding:"required"`
	SubTopic      string `json:"subTopic" binding:"required"`
	Difficulty    string `json:"difficulty" binding:"required,oneof=EASY MEDIUM HARD"`
	QuestionCount int    `json:"questionCount" binding:"required,oneof=5 10 15 20 25 30 35 40"`
}

// DifficultyLabel resolves the wire enum to the prompt label.
func (c QuizConfig) DifficultyLabel() string {
	if label, ok := difficultyLabels[c.Difficulty]; ok {
		return label
	}
	return difficultyLabels[DifficultyMedium]
}

// Question is the fixed shape the generation service must return. Trusted
// as-is for the lifetime of a session; only total parse failure is rejected.
type Question struct {
	ID                 int      `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// QuestionView is the active-quiz projection of a Question: the correct index
// and explanation never leave the server while the session is live.
type QuestionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type AnswerRequest struct {
	// Index is optional; when omitted the selection targets the current question.
	Index  *int `json:"index"`
	Option int  `json:"option" binding:"min=0,max=3"`
}

type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next prev"`
}
