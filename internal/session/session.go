package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/dostonbek/testplatform/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// SecondsPerQuestion is the countdown budget granted per question.
const SecondsPerQuestion = 45

// Unanswered marks a question with no selection yet.
const Unanswered = -1

const optionCount = 4

var (
	ErrEmptyQuestionSet = errors.New("question set is empty")
	ErrSessionFinalized = errors.New("session already finalized")
)

type Status int

const (
	StatusActive Status = iota
	StatusFinalizing
	StatusFinalized
)

type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Meta labels the eventual result with the configuration that produced it.
type Meta struct {
	Category string
	Topic    string
	SubTopic string
}

// State is a read-only snapshot of an active session.
type State struct {
	CurrentIndex     int
	TotalQuestions   int
	RemainingSeconds int
	SelectedAnswers  []int
	Status           Status
}

// Session owns the lifecycle of one quiz attempt: the question cursor, the
// per-question selections and the countdown. All mutation funnels through one
// mutex, so the countdown goroutine and request handlers are strictly
// serialized; finalize is one-shot by status transition.
type Session struct {
	mu        sync.Mutex
	questions []dto.Question
	meta      Meta
	current   int
	selected  []int
	remaining int
	budget    int
	status    Status
	result    *model.QuizResult
	now       func() time.Time

	stopTimer sync.Once
	stop      chan struct{}
}

// New creates an Active session over a non-empty question set.
func New(questions []dto.Question, meta Meta) (*Session, error) {
	return NewWithClock(questions, meta, time.Now)
}

// NewWithClock allows deterministic timestamps in tests.
func NewWithClock(questions []dto.Question, meta Meta, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}
	selected := make([]int, len(questions))
	for i := range selected {
		selected[i] = Unanswered
	}
	budget := len(questions) * SecondsPerQuestion
	return &Session{
		questions: questions,
		meta:      meta,
		selected:  selected,
		remaining: budget,
		budget:    budget,
		now:       now,
		stop:      make(chan struct{}),
	}, nil
}

// SelectAnswer overwrites the selection for the current question. Selection is
// idempotent: re-selecting simply replaces the prior value and never advances
// the cursor. Writes to any index other than the current one, or out-of-range
// options, are clamped to no-ops rather than raised.
func (s *Session) SelectAnswer(index, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return ErrSessionFinalized
	}
	if index != s.current {
		log.Debug().Int("index", index).Int("current", s.current).Msg("Selection outside the current question ignored")
		return nil
	}
	if option < 0 || option >= optionCount {
		log.Debug().Int("option", option).Msg("Out-of-range option ignored")
		return nil
	}
	s.selected[index] = option
	return nil
}

// Navigate moves the cursor one step, clamping at both ends: prev on the
// first question and next on the last question leave the cursor unchanged.
// Callers detect the last question and route to finalize confirmation.
func (s *Session) Navigate(dir Direction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.current, ErrSessionFinalized
	}
	switch dir {
	case DirectionNext:
		if s.current < len(s.questions)-1 {
			s.current++
		}
	case DirectionPrev:
		if s.current > 0 {
			s.current--
		}
	}
	return s.current, nil
}

// Tick advances the countdown by one second. When the budget reaches zero the
// session force-finalizes itself exactly once and the scored result is
// returned; later ticks are no-ops and the clock never goes negative.
func (s *Session) Tick() (int, *model.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.remaining, nil
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return s.remaining, nil
	}
	return 0, s.finalizeLocked(true)
}

// Finalize converts the live answer state into the immutable scored result.
// The first call wins; subsequent calls return the already-produced result
// together with ErrSessionFinalized and change nothing.
func (s *Session) Finalize(forced bool) (*model.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.result, ErrSessionFinalized
	}
	return s.finalizeLocked(forced), nil
}

// finalizeLocked requires the lock held and status Active.
func (s *Session) finalizeLocked(forced bool) *model.QuizResult {
	s.status = StatusFinalizing

	answers := make([]model.AnswerRecord, len(s.questions))
	score := 0
	answered := 0
	for i, q := range s.questions {
		sel := s.selected[i]
		correct := sel != Unanswered && sel == q.CorrectAnswerIndex
		answers[i] = model.AnswerRecord{QuestionID: q.ID, SelectedOption: sel, IsCorrect: correct}
		if correct {
			score++
		}
		if sel != Unanswered {
			answered++
		}
	}

	timeSpent := s.budget - s.remaining
	if timeSpent < 0 {
		timeSpent = 0
	}

	s.result = &model.QuizResult{
		Score:          score,
		AnsweredCount:  answered,
		TotalQuestions: len(s.questions),
		TimeSpent:      timeSpent,
		Answers:        datatypes.JSONSlice[model.AnswerRecord](answers),
		Date:           s.now().UTC().Format(time.RFC3339),
		Category:       s.meta.Category,
		Topic:          s.meta.Topic,
		SubTopic:       s.meta.SubTopic,
	}
	s.status = StatusFinalized
	s.stopTimer.Do(func() { close(s.stop) })

	log.Info().Bool("forced", forced).Int("score", score).Int("answered", answered).
		Int("total", len(s.questions)).Msg("Quiz session finalized")
	return s.result
}

// StartCountdown drives Tick once per second on a goroutine. The ticker stops
// on finalize (explicit or forced), on Teardown, and on context cancellation;
// expiry hands the forced result to onExpire.
func (s *Session) StartCountdown(ctx context.Context, onExpire func(*model.QuizResult)) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				if _, result := s.Tick(); result != nil {
					if onExpire != nil {
						onExpire(result)
					}
					return
				}
			}
		}
	}()
}

// Teardown cancels the countdown without finalizing, for when the quiz view
// is abandoned. Safe to call any number of times and after finalize.
func (s *Session) Teardown() {
	s.stopTimer.Do(func() { close(s.stop) })
}

// Snapshot returns a copy of the live state for the UI-facing surface.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := make([]int, len(s.selected))
	copy(selected, s.selected)
	return State{
		CurrentIndex:     s.current,
		TotalQuestions:   len(s.questions),
		RemainingSeconds: s.remaining,
		SelectedAnswers:  selected,
		Status:           s.status,
	}
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() dto.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.current]
}

// Questions exposes the full set for the result view (explanations).
func (s *Session) Questions() []dto.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.Question, len(s.questions))
	copy(out, s.questions)
	return out
}
