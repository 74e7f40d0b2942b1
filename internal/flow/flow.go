package flow

import (
	"errors"
	"sync"

	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/dostonbek/testplatform/internal/model"
	"github.com/dostonbek/testplatform/internal/session"
)

// View names the screens of the application. No other views exist.
type View string

const (
	ViewSetup   View = "setup"
	ViewLogin   View = "login"
	ViewLoading View = "loading"
	ViewQuiz    View = "quiz"
	ViewResult  View = "result"
	ViewHistory View = "history"
)

var (
	ErrNotLoggedIn  = errors.New("user is not logged in")
	ErrNoActiveQuiz = errors.New("no active quiz session")
	ErrNoResult     = errors.New("no finalized result available")
)

// Flow is one client's journey through the app: the current view, the overlay
// error banner, the logged-in user, and whichever quiz artifacts the view
// needs. All transitions are explicit methods; an illegal transition leaves
// the flow navigable instead of failing the process.
type Flow struct {
	id string

	mu         sync.Mutex
	view       View
	banner     string
	user       *model.User
	config     *dto.QuizConfig
	session    *session.Session
	lastResult *model.QuizResult
	review     []dto.Question
}

// New starts a flow at the setup view, optionally seeded with a persisted user.
func New(id string, user *model.User) *Flow {
	return &Flow{id: id, view: ViewSetup, user: user}
}

func (f *Flow) ID() string { return f.id }

// BeginLoading is the `setup --(start)-->` edge. Without a user it lands on
// the login view with the banner set.
func (f *Flow) BeginLoading(cfg dto.QuizConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		f.banner = "Testni boshlash uchun avval tizimga kiring!"
		f.view = ViewLogin
		return ErrNotLoggedIn
	}
	f.teardownLocked()
	f.config = &cfg
	f.lastResult = nil
	f.review = nil
	f.banner = ""
	f.view = ViewLoading
	return nil
}

// QuestionsReady is the `loading --(questions ready)--> quiz` edge.
func (f *Flow) QuestionsReady(s *session.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = s
	f.view = ViewQuiz
}

// LoadFailed is the `loading --(fetch failure)--> setup` edge.
func (f *Flow) LoadFailed(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config = nil
	f.session = nil
	f.banner = message
	f.view = ViewSetup
}

// Complete is the `quiz --(complete)--> result` edge; the finalized result is
// already annotated with the user by the caller. The question set is kept for
// the answer review, which may expose the answer key once the session is
// over. A result arriving after the quiz view was abandoned is discarded.
// Reports whether the result was kept.
func (f *Flow) Complete(result *model.QuizResult, questions []dto.Question) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewQuiz {
		return false
	}
	f.teardownLocked()
	f.lastResult = result
	f.review = questions
	f.view = ViewResult
	return true
}

// GoHome covers `any --(navigate home)--> setup` and `result --(restart)-->
// setup`. An abandoned quiz is torn down, never finalized.
func (f *Flow) GoHome() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teardownLocked()
	f.config = nil
	f.view = ViewSetup
}

// ShowHistory is `* --(view history)--> history`.
func (f *Flow) ShowHistory() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teardownLocked()
	f.view = ViewHistory
}

// Back is `history --(back)--> setup`.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = ViewSetup
}

// SetUser is the `login --(submit)--> setup` edge.
func (f *Flow) SetUser(user *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = user
	f.banner = ""
	f.view = ViewSetup
}

// Logout clears the user and returns home.
func (f *Flow) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = nil
	f.teardownLocked()
	f.view = ViewSetup
}

// DismissBanner clears the transient error message.
func (f *Flow) DismissBanner() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = ""
}

func (f *Flow) teardownLocked() {
	if f.session != nil {
		f.session.Teardown()
		f.session = nil
	}
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *Flow) Banner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

func (f *Flow) User() *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *Flow) Config() *dto.QuizConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config
}

// Session returns the active quiz session, or ErrNoActiveQuiz outside the
// quiz view.
func (f *Flow) Session() (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, ErrNoActiveQuiz
	}
	return f.session, nil
}

// LastResult returns the finalized result, or ErrNoResult before completion.
func (f *Flow) LastResult() (*model.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastResult == nil {
		return nil, ErrNoResult
	}
	return f.lastResult, nil
}

// Review returns the completed quiz's questions, answer key included.
func (f *Flow) Review() ([]dto.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastResult == nil || f.review == nil {
		return nil, ErrNoResult
	}
	return f.review, nil
}
