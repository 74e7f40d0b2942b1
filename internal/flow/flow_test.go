package flow

import (
	"errors"
	"testing"

	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/dostonbek/testplatform/internal/model"
	"github.com/dostonbek/testplatform/internal/session"
)

func testQuestions() []dto.Question {
	return []dto.Question{
		{ID: 1, Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswerIndex: 1},
		{ID: 2, Text: "3+3?", Options: []string{"5", "6", "7", "8"}, CorrectAnswerIndex: 1},
	}
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(testQuestions(), session.Meta{Category: "Matematika"})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return s
}

func TestBeginLoadingRequiresUser(t *testing.T) {
	f := New("f1", nil)

	err := f.BeginLoading(dto.QuizConfig{Category: "Matematika"})
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if f.View() != ViewLogin {
		t.Errorf("expected login view, got %q", f.View())
	}
	if f.Banner() == "" {
		t.Error("expected banner prompting for login")
	}
}

func TestHappyPathTransitions(t *testing.T) {
	f := New("f1", &model.User{FullName: "Aziza"})

	if f.View() != ViewSetup {
		t.Fatalf("new flow should start at setup, got %q", f.View())
	}
	if err := f.BeginLoading(dto.QuizConfig{Category: "Matematika"}); err != nil {
		t.Fatalf("BeginLoading: %v", err)
	}
	if f.View() != ViewLoading {
		t.Fatalf("expected loading view, got %q", f.View())
	}

	s := testSession(t)
	f.QuestionsReady(s)
	if f.View() != ViewQuiz {
		t.Fatalf("expected quiz view, got %q", f.View())
	}
	if _, err := f.Session(); err != nil {
		t.Fatalf("Session during quiz: %v", err)
	}

	result, err := s.Finalize(false)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !f.Complete(result, s.Questions()) {
		t.Fatal("Complete should keep the result while on the quiz view")
	}
	if f.View() != ViewResult {
		t.Errorf("expected result view, got %q", f.View())
	}
	if _, err := f.Session(); !errors.Is(err, ErrNoActiveQuiz) {
		t.Errorf("session should be torn down after completion, got %v", err)
	}
	if _, err := f.LastResult(); err != nil {
		t.Errorf("LastResult after completion: %v", err)
	}
	review, err := f.Review()
	if err != nil {
		t.Fatalf("Review after completion: %v", err)
	}
	if len(review) != 2 {
		t.Errorf("expected 2 review questions, got %d", len(review))
	}
}

func TestLoadFailedReturnsToSetupWithBanner(t *testing.T) {
	f := New("f1", &model.User{FullName: "Aziza"})
	if err := f.BeginLoading(dto.QuizConfig{Category: "Kimyo"}); err != nil {
		t.Fatalf("BeginLoading: %v", err)
	}

	f.LoadFailed("Savollarni yuklashda xatolik yuz berdi.")
	if f.View() != ViewSetup {
		t.Errorf("expected setup view, got %q", f.View())
	}
	if f.Banner() == "" {
		t.Error("expected failure banner")
	}
	if f.Config() != nil {
		t.Error("pending config should be cleared")
	}

	f.DismissBanner()
	if f.Banner() != "" {
		t.Error("banner should be dismissible")
	}
}

func TestCompleteDiscardsResultAfterViewAbandoned(t *testing.T) {
	f := New("f1", &model.User{FullName: "Aziza"})
	if err := f.BeginLoading(dto.QuizConfig{Category: "Fizika"}); err != nil {
		t.Fatalf("BeginLoading: %v", err)
	}
	s := testSession(t)
	f.QuestionsReady(s)

	f.GoHome()
	if f.View() != ViewSetup {
		t.Fatalf("expected setup view, got %q", f.View())
	}

	result, _ := s.Finalize(true)
	if f.Complete(result, s.Questions()) {
		t.Error("result arriving after the quiz view was abandoned must be discarded")
	}
	if _, err := f.LastResult(); !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestHistoryAndBack(t *testing.T) {
	f := New("f1", &model.User{FullName: "Aziza"})

	f.ShowHistory()
	if f.View() != ViewHistory {
		t.Fatalf("expected history view, got %q", f.View())
	}
	f.Back()
	if f.View() != ViewSetup {
		t.Errorf("expected setup view after back, got %q", f.View())
	}
}

func TestLogoutClearsUserAndSession(t *testing.T) {
	f := New("f1", &model.User{FullName: "Aziza"})
	if err := f.BeginLoading(dto.QuizConfig{Category: "Tarix"}); err != nil {
		t.Fatalf("BeginLoading: %v", err)
	}
	f.QuestionsReady(testSession(t))

	f.Logout()
	if f.User() != nil {
		t.Error("user should be cleared")
	}
	if _, err := f.Session(); !errors.Is(err, ErrNoActiveQuiz) {
		t.Errorf("session should be torn down, got %v", err)
	}
	if f.View() != ViewSetup {
		t.Errorf("expected setup view, got %q", f.View())
	}
}
