package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/dostonbek/testplatform/internal/dto"
)

const sampleQuestionJSON = `[
	{"id":1,"text":"2+2?","options":["3","4","5","6"],"correctAnswerIndex":1,"explanation":"2+2=4"},
	{"id":2,"text":"3*3?","options":["6","9","12","3"],"correctAnswerIndex":1,"explanation":"3*3=9"}
]`

func TestParseQuestions(t *testing.T) {
	questions, err := parseQuestions(sampleQuestionJSON)
	if err != nil {
		t.Fatalf("parseQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].CorrectAnswerIndex != 1 {
		t.Errorf("correctAnswerIndex = %d, want 1", questions[0].CorrectAnswerIndex)
	}
	if len(questions[1].Options) != 4 {
		t.Errorf("expected 4 options, got %d", len(questions[1].Options))
	}
}

func TestParseQuestionsToleratesCodeFences(t *testing.T) {
	fenced := "```json\n" + sampleQuestionJSON + "\n```"
	questions, err := parseQuestions(fenced)
	if err != nil {
		t.Fatalf("parseQuestions with fences: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(questions))
	}
}

func TestParseQuestionsRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", "[]", "```\n```"} {
		if _, err := parseQuestions(raw); !errors.Is(err, ErrGenerationFailed) {
			t.Errorf("parseQuestions(%q): expected ErrGenerationFailed, got %v", raw, err)
		}
	}
}

func TestBuildGenerationPromptCarriesConfig(t *testing.T) {
	cfg := dto.QuizConfig{
		Category:      "Matematika",
		Topic:         "Algebra",
		SubTopic:      "Kvadrat tenglamalar",
		Difficulty:    dto.DifficultyHard,
		QuestionCount: 10,
	}
	prompt := buildGenerationPrompt(cfg)
	for _, want := range []string{"Matematika", "Algebra", "Kvadrat tenglamalar", "Qiyin", "10"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not mention %q", want)
		}
	}
}
