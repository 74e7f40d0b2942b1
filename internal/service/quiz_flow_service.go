package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/dostonbek/testplatform/internal/flow"
	"github.com/dostonbek/testplatform/internal/model"
	"github.com/dostonbek/testplatform/internal/session"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// User-facing messages for the transient error banner.
const (
	msgGenerationFailed = "Savollarni yuklashda xatolik yuz berdi. Internet aloqasini tekshiring."
)

// QuizFlowService orchestrates one client's quiz lifecycle on top of a Flow:
// view transitions, the session state machine, the Gemini adapters and the
// result store.
type QuizFlowService interface {
	StartQuiz(ctx context.Context, f *flow.Flow, cfg dto.QuizConfig) error
	SelectAnswer(f *flow.Flow, req dto.AnswerRequest) (dto.QuizSnapshot, error)
	Navigate(f *flow.Flow, direction string) (dto.QuizSnapshot, error)
	Finalize(f *flow.Flow) (*model.QuizResult, error)
	Review(f *flow.Flow) ([]dto.Question, error)
	Snapshot(f *flow.Flow) (dto.QuizSnapshot, error)
	State(f *flow.Flow) dto.AppStateResponse
	NavigateView(f *flow.Flow, target string)

	Login(f *flow.Flow, req dto.LoginRequest) (*model.User, error)
	Logout(f *flow.Flow) error

	History(ctx context.Context) ([]dto.HistoryEntry, error)
	Analysis(ctx context.Context, f *flow.Flow) (string, error)
	Certificate(ctx context.Context, f *flow.Flow) (dto.CertificateResponse, error)
}

type quizFlowService struct {
	generator QuestionGeneratorService
	narrator  NarratorService
	store     ResultStoreService
}

func NewQuizFlowService(
	generator QuestionGeneratorService,
	narrator NarratorService,
	store ResultStoreService,
) QuizFlowService {
	return &quizFlowService{generator: generator, narrator: narrator, store: store}
}

// StartQuiz walks setup -> loading -> quiz. A missing user lands on the login
// view; any generation failure aborts the pending session and returns to
// setup with the banner set. The session never reaches Active in either case.
func (s *quizFlowService) StartQuiz(ctx context.Context, f *flow.Flow, cfg dto.QuizConfig) error {
	if err := f.BeginLoading(cfg); err != nil {
		return err
	}

	questions, err := s.generator.GenerateQuestions(ctx, cfg)
	if err != nil {
		f.LoadFailed(msgGenerationFailed)
		return err
	}

	sess, err := session.New(questions, session.Meta{
		Category: cfg.Category,
		Topic:    cfg.Topic,
		SubTopic: cfg.SubTopic,
	})
	if err != nil {
		f.LoadFailed(msgGenerationFailed)
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	f.QuestionsReady(sess)
	// The countdown outlives the request; teardown and the one-shot finalize
	// guard stop it on every exit path.
	sess.StartCountdown(context.Background(), func(result *model.QuizResult) {
		s.complete(f, result)
	})
	return nil
}

func (s *quizFlowService) SelectAnswer(f *flow.Flow, req dto.AnswerRequest) (dto.QuizSnapshot, error) {
	sess, err := f.Session()
	if err != nil {
		return dto.QuizSnapshot{}, err
	}
	index := sess.Snapshot().CurrentIndex
	if req.Index != nil {
		index = *req.Index
	}
	if err := sess.SelectAnswer(index, req.Option); err != nil {
		return dto.QuizSnapshot{}, err
	}
	return snapshotOf(sess), nil
}

func (s *quizFlowService) Navigate(f *flow.Flow, direction string) (dto.QuizSnapshot, error) {
	sess, err := f.Session()
	if err != nil {
		return dto.QuizSnapshot{}, err
	}
	if _, err := sess.Navigate(session.Direction(direction)); err != nil {
		return dto.QuizSnapshot{}, err
	}
	return snapshotOf(sess), nil
}

// Finalize completes the quiz explicitly. If the countdown beat us to it the
// already-produced result is returned unchanged.
func (s *quizFlowService) Finalize(f *flow.Flow) (*model.QuizResult, error) {
	sess, err := f.Session()
	if err != nil {
		// The timer may have completed the flow already.
		if result, rerr := f.LastResult(); rerr == nil {
			return result, nil
		}
		return nil, err
	}

	result, ferr := sess.Finalize(false)
	if errors.Is(ferr, session.ErrSessionFinalized) {
		return result, nil
	}
	s.complete(f, result)
	return result, nil
}

// complete annotates the result with the current user, moves the flow to the
// result view and persists fire-and-forget: the caller gets the result
// immediately, independent of persistence outcome.
func (s *quizFlowService) complete(f *flow.Flow, result *model.QuizResult) {
	if user := f.User(); user != nil {
		result.UserName = user.FullName
		if user.ID != 0 {
			id := user.ID
			result.UserID = &id
		}
	}
	var questions []dto.Question
	if sess, err := f.Session(); err == nil {
		questions = sess.Questions()
	}
	if !f.Complete(result, questions) {
		log.Debug().Msg("Quiz view abandoned before completion, result discarded")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		s.store.SaveResult(ctx, result)
	}()
}

// Review serves the completed quiz's questions with the answer key and
// explanations. Only available once a result exists; the key never leaves
// the server while a session is live.
func (s *quizFlowService) Review(f *flow.Flow) ([]dto.Question, error) {
	return f.Review()
}

func (s *quizFlowService) Snapshot(f *flow.Flow) (dto.QuizSnapshot, error) {
	sess, err := f.Session()
	if err != nil {
		return dto.QuizSnapshot{}, err
	}
	return snapshotOf(sess), nil
}

func (s *quizFlowService) State(f *flow.Flow) dto.AppStateResponse {
	resp := dto.AppStateResponse{
		View:  string(f.View()),
		Error: f.Banner(),
		User:  f.User(),
	}
	if sess, err := f.Session(); err == nil {
		snap := snapshotOf(sess)
		resp.Quiz = &snap
	}
	if result, err := f.LastResult(); err == nil {
		resp.LastResult = result
	}
	return resp
}

// NavigateView serves the unconditional edges of the view machine. Unknown
// targets are ignored; the app always stays navigable.
func (s *quizFlowService) NavigateView(f *flow.Flow, target string) {
	switch target {
	case "home", "restart":
		f.GoHome()
	case "history":
		f.ShowHistory()
	case "back":
		f.Back()
	case "dismiss":
		f.DismissBanner()
	}
}

func (s *quizFlowService) Login(f *flow.Flow, req dto.LoginRequest) (*model.User, error) {
	user, err := s.store.Login(req.Email, req.FullName)
	if err != nil {
		return nil, err
	}
	f.SetUser(user)
	return user, nil
}

func (s *quizFlowService) Logout(f *flow.Flow) error {
	f.Logout()
	return s.store.Logout()
}

// History returns every stored result, best score first.
func (s *quizFlowService) History(ctx context.Context) ([]dto.HistoryEntry, error) {
	results, err := s.store.FetchAllResults(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.HistoryEntry, 0, len(results))
	for i := range results {
		var entry dto.HistoryEntry
		if err := copier.Copy(&entry, &results[i]); err != nil {
			log.Error().Err(err).Msg("Failed to copy result into history entry")
			continue
		}
		entry.Percentage = results[i].Percentage()
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}

func (s *quizFlowService) Analysis(ctx context.Context, f *flow.Flow) (string, error) {
	result, err := f.LastResult()
	if err != nil {
		return "", err
	}
	return s.narrator.Analyze(ctx, result), nil
}

func (s *quizFlowService) Certificate(ctx context.Context, f *flow.Flow) (dto.CertificateResponse, error) {
	result, err := f.LastResult()
	if err != nil {
		return dto.CertificateResponse{}, err
	}
	return dto.CertificateResponse{
		SerialNumber:   certificateSerial(time.Now()),
		Message:        s.narrator.CertificateGreeting(ctx, result),
		UserName:       result.UserName,
		Category:       result.Category,
		SubTopic:       result.SubTopic,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage(),
		Date:           result.Date,
	}, nil
}

// certificateSerial issues tokens like DA-2026-4F09AC.
func certificateSerial(now time.Time) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("DA-%d-%s", now.Year(), raw[:6])
}

func snapshotOf(sess *session.Session) dto.QuizSnapshot {
	st := sess.Snapshot()
	q := sess.CurrentQuestion()
	return dto.QuizSnapshot{
		CurrentIndex:     st.CurrentIndex,
		TotalQuestions:   st.TotalQuestions,
		RemainingSeconds: st.RemainingSeconds,
		SelectedAnswers:  st.SelectedAnswers,
		SelectedOption:   st.SelectedAnswers[st.CurrentIndex],
		LastQuestion:     st.CurrentIndex == st.TotalQuestions-1,
		Question:         dto.QuestionView{ID: q.ID, Text: q.Text, Options: q.Options},
	}
}
