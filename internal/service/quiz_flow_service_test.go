package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/dostonbek/testplatform/internal/flow"
	"github.com/dostonbek/testplatform/internal/model"
)

type stubGenerator struct {
	questions []dto.Question
	err       error
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, cfg dto.QuizConfig) ([]dto.Question, error) {
	return g.questions, g.err
}

type stubNarrator struct{}

func (stubNarrator) Analyze(ctx context.Context, result *model.QuizResult) string {
	return "tahlil"
}

func (stubNarrator) CertificateGreeting(ctx context.Context, result *model.QuizResult) string {
	return "tabrik"
}

type stubStore struct {
	saved chan *model.QuizResult
	all   []model.QuizResult
	user  *model.User
}

func newStubStore() *stubStore {
	return &stubStore{saved: make(chan *model.QuizResult, 1)}
}

func (s *stubStore) SaveResult(ctx context.Context, result *model.QuizResult) {
	s.saved <- result
}

func (s *stubStore) FetchAllResults(ctx context.Context) ([]model.QuizResult, error) {
	return s.all, nil
}

func (s *stubStore) Login(email, fullName string) (*model.User, error) {
	s.user = &model.User{ID: 1, FullName: fullName, Email: email, IsLoggedIn: true}
	return s.user, nil
}

func (s *stubStore) Logout() error {
	s.user = nil
	return nil
}

func (s *stubStore) CurrentUser() (*model.User, error) {
	return s.user, nil
}

func flowQuestions(n int) []dto.Question {
	questions := make([]dto.Question, n)
	for i := range questions {
		questions[i] = dto.Question{
			ID:                 i + 1,
			Text:               fmt.Sprintf("Savol %d", i+1),
			Options:            []string{"A", "B", "C", "D"},
			CorrectAnswerIndex: i % 4,
		}
	}
	return questions
}

func quizConfig() dto.QuizConfig {
	return dto.QuizConfig{
		Category:      "Matematika",
		Topic:         "Algebra",
		SubTopic:      "Logarifmlar",
		Difficulty:    dto.DifficultyMedium,
		QuestionCount: 5,
	}
}

func loggedInFlow() *flow.Flow {
	return flow.New("f1", &model.User{ID: 1, FullName: "Aziza Karimova"})
}

func TestStartQuizGenerationFailureReturnsToSetup(t *testing.T) {
	svc := NewQuizFlowService(
		&stubGenerator{err: fmt.Errorf("%w: provider down", ErrGenerationFailed)},
		stubNarrator{},
		newStubStore(),
	)
	f := loggedInFlow()

	err := svc.StartQuiz(context.Background(), f, quizConfig())
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if f.View() != flow.ViewSetup {
		t.Errorf("expected setup view after failure, got %q", f.View())
	}
	if f.Banner() == "" {
		t.Error("expected a user facing error banner")
	}
	if _, err := f.Session(); !errors.Is(err, flow.ErrNoActiveQuiz) {
		t.Errorf("no session should exist after a failed start, got %v", err)
	}
}

func TestStartQuizWithoutUserLandsOnLogin(t *testing.T) {
	svc := NewQuizFlowService(&stubGenerator{questions: flowQuestions(5)}, stubNarrator{}, newStubStore())
	f := flow.New("f1", nil)

	if err := svc.StartQuiz(context.Background(), f, quizConfig()); !errors.Is(err, flow.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if f.View() != flow.ViewLogin {
		t.Errorf("expected login view, got %q", f.View())
	}
}

func TestQuizLifecycleThroughFinalize(t *testing.T) {
	store := newStubStore()
	svc := NewQuizFlowService(&stubGenerator{questions: flowQuestions(5)}, stubNarrator{}, store)
	f := loggedInFlow()

	if err := svc.StartQuiz(context.Background(), f, quizConfig()); err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if f.View() != flow.ViewQuiz {
		t.Fatalf("expected quiz view, got %q", f.View())
	}

	snap, err := svc.SelectAnswer(f, dto.AnswerRequest{Option: 0})
	if err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if snap.SelectedOption != 0 {
		t.Errorf("snapshot selectedOption = %d, want 0", snap.SelectedOption)
	}

	snap, err = svc.Navigate(f, "next")
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if snap.CurrentIndex != 1 {
		t.Errorf("currentIndex = %d, want 1", snap.CurrentIndex)
	}

	result, err := svc.Finalize(f)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Score != 1 {
		t.Errorf("score = %d, want 1", result.Score)
	}
	if result.UserName != "Aziza Karimova" {
		t.Errorf("result not annotated with user, got %q", result.UserName)
	}
	if f.View() != flow.ViewResult {
		t.Errorf("expected result view, got %q", f.View())
	}

	select {
	case saved := <-store.saved:
		if saved != result {
			t.Error("persisted result differs from the returned one")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("result was never handed to the store")
	}

	// A second finalize serves the cached result.
	again, err := svc.Finalize(f)
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if again != result {
		t.Error("second finalize must return the same result")
	}

	// The answer key is only exposed after completion.
	review, err := svc.Review(f)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(review) != 5 || review[0].CorrectAnswerIndex != 0 {
		t.Errorf("unexpected review payload: %+v", review)
	}
}

func TestCertificateUsesLastResult(t *testing.T) {
	store := newStubStore()
	svc := NewQuizFlowService(&stubGenerator{questions: flowQuestions(5)}, stubNarrator{}, store)
	f := loggedInFlow()

	if _, err := svc.Certificate(context.Background(), f); !errors.Is(err, flow.ErrNoResult) {
		t.Fatalf("expected ErrNoResult before completion, got %v", err)
	}

	if err := svc.StartQuiz(context.Background(), f, quizConfig()); err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if _, err := svc.Finalize(f); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	<-store.saved

	cert, err := svc.Certificate(context.Background(), f)
	if err != nil {
		t.Fatalf("Certificate: %v", err)
	}
	if cert.Message != "tabrik" {
		t.Errorf("greeting = %q, want the narrator's text", cert.Message)
	}
	if len(cert.SerialNumber) != len("DA-2026-4F09AC") {
		t.Errorf("unexpected serial shape %q", cert.SerialNumber)
	}
	if cert.TotalQuestions != 5 {
		t.Errorf("totalQuestions = %d, want 5", cert.TotalQuestions)
	}
}

func TestHistorySortsByScoreDescending(t *testing.T) {
	store := newStubStore()
	store.all = []model.QuizResult{
		{UserName: "A", Score: 3, TotalQuestions: 10, Category: "Tarix"},
		{UserName: "B", Score: 9, TotalQuestions: 10, Category: "Kimyo"},
		{UserName: "C", Score: 6, TotalQuestions: 10, Category: "Fizika"},
	}
	svc := NewQuizFlowService(&stubGenerator{}, stubNarrator{}, store)

	entries, err := svc.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Score != 9 || entries[1].Score != 6 || entries[2].Score != 3 {
		t.Errorf("entries not sorted by score descending: %+v", entries)
	}
	if entries[0].Percentage != 90 {
		t.Errorf("percentage = %d, want 90", entries[0].Percentage)
	}
}

func TestFlowManagerResolve(t *testing.T) {
	store := newStubStore()
	store.user = &model.User{ID: 1, FullName: "Aziza"}
	manager := NewFlowManager(store)

	f := manager.Resolve("")
	if f.ID() == "" {
		t.Fatal("new flow must get an id")
	}
	if f.User() == nil || f.User().FullName != "Aziza" {
		t.Errorf("new flow should be seeded with the persisted user, got %+v", f.User())
	}

	if again := manager.Resolve(f.ID()); again != f {
		t.Error("known id must resolve to the same flow")
	}
	if other := manager.Resolve("unknown-id"); other == f {
		t.Error("unknown id must produce a fresh flow")
	}
}
