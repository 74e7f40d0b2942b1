package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/dostonbek/testplatform/internal/flow"
	"github.com/dostonbek/testplatform/internal/service"
	"github.com/dostonbek/testplatform/internal/session"
)

type Controller struct {
	quizSvc service.QuizFlowService
	flows   *service.FlowManager
}

func NewController(quizSvc service.QuizFlowService, flows *service.FlowManager) *Controller {
	return &Controller{quizSvc: quizSvc, flows: flows}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		auth.POST("/login", ctrl.LoginHandler)
		auth.POST("/logout", ctrl.LogoutHandler)
		auth.GET("/me", ctrl.CurrentUserHandler)

		quiz := apiV1.Group("/quiz")
		quiz.POST("/start", ctrl.StartQuizHandler)
		quiz.POST("/answer", ctrl.AnswerHandler)
		quiz.POST("/navigate", ctrl.NavigateHandler)
		quiz.POST("/finalize", ctrl.FinalizeHandler)
		quiz.GET("/current", ctrl.CurrentQuestionHandler)

		result := apiV1.Group("/result")
		result.GET("/analysis", ctrl.AnalysisHandler)
		result.GET("/certificate", ctrl.CertificateHandler)
		result.GET("/review", ctrl.ReviewHandler)

		apiV1.GET("/state", ctrl.StateHandler)
		apiV1.POST("/view", ctrl.ViewNavigateHandler)
		apiV1.GET("/history", ctrl.HistoryHandler)
		apiV1.GET("/catalog", ctrl.CatalogHandler)
	}
}

// resolveFlow maps the request to its flow via the quiz_flow_id cookie,
// issuing the cookie on first contact.
func (ctrl *Controller) resolveFlow(c *gin.Context) *flow.Flow {
	id, _ := c.Cookie(service.FlowCookieName)
	f := ctrl.flows.Resolve(id)
	if f.ID() != id {
		c.SetCookie(service.FlowCookieName, f.ID(), 0, "/", "", false, true)
	}
	return f
}

// --- Auth Handlers ---

// LoginHandler godoc
// @Summary Log in
// @Description Record the current user locally and unlock the quiz flow
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Email and full name"
// @Success 200 {object} dto.AppStateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (ctrl *Controller) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind LoginRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	f := ctrl.resolveFlow(c)
	if _, err := ctrl.quizSvc.Login(f, req); err != nil {
		log.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not persist user"})
		return
	}
	c.JSON(http.StatusOK, ctrl.quizSvc.State(f))
}

// LogoutHandler godoc
// @Summary Log out
// @Description Clear the stored user and tear down any active quiz
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AppStateResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (ctrl *Controller) LogoutHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	if err := ctrl.quizSvc.Logout(f); err != nil {
		log.Error().Err(err).Msg("Logout failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not clear user"})
		return
	}
	c.JSON(http.StatusOK, ctrl.quizSvc.State(f))
}

// CurrentUserHandler godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /auth/me [get]
func (ctrl *Controller) CurrentUserHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	user := f.User()
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: flow.ErrNotLoggedIn.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- Quiz Handlers ---

// StartQuizHandler godoc
// @Summary Start a quiz
// @Description Generate questions for the chosen subject and open a timed session
// @Tags quiz
// @Accept json
// @Produce json
// @Param config body dto.QuizConfig true "Subject, difficulty and question count"
// @Success 200 {object} dto.AppStateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 502 {object} dto.ErrorResponse "Question generation failed"
// @Router /quiz/start [post]
func (ctrl *Controller) StartQuizHandler(c *gin.Context) {
	var cfg dto.QuizConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		log.Warn().Err(err).Msg("Failed to bind QuizConfig")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	f := ctrl.resolveFlow(c)
	if err := ctrl.quizSvc.StartQuiz(c.Request.Context(), f, cfg); err != nil {
		switch {
		case errors.Is(err, flow.ErrNotLoggedIn):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrGenerationFailed):
			// The flow already fell back to setup with the banner set;
			// the state body lets the client render it.
			c.JSON(http.StatusBadGateway, ctrl.quizSvc.State(f))
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, ctrl.quizSvc.State(f))
}

// AnswerHandler godoc
// @Summary Select an answer
// @Description Record an option for a question of the active session
// @Tags quiz
// @Accept json
// @Produce json
// @Param answer body dto.AnswerRequest true "Question index (defaults to current) and option"
// @Success 200 {object} dto.QuizSnapshot
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "No active session or already finalized"
// @Router /quiz/answer [post]
func (ctrl *Controller) AnswerHandler(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind AnswerRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	f := ctrl.resolveFlow(c)
	snap, err := ctrl.quizSvc.SelectAnswer(f, req)
	if err != nil {
		ctrl.quizError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// NavigateHandler godoc
// @Summary Move between questions
// @Tags quiz
// @Accept json
// @Produce json
// @Param direction body dto.NavigateRequest true "next or prev"
// @Success 200 {object} dto.QuizSnapshot
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "No active session or already finalized"
// @Router /quiz/navigate [post]
func (ctrl *Controller) NavigateHandler(c *gin.Context) {
	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind NavigateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	f := ctrl.resolveFlow(c)
	snap, err := ctrl.quizSvc.Navigate(f, req.Direction)
	if err != nil {
		ctrl.quizError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// FinalizeHandler godoc
// @Summary Finish the quiz
// @Description Score the active session and move to the result view
// @Tags quiz
// @Produce json
// @Success 200 {object} model.QuizResult
// @Failure 409 {object} dto.ErrorResponse "No active session"
// @Router /quiz/finalize [post]
func (ctrl *Controller) FinalizeHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	result, err := ctrl.quizSvc.Finalize(f)
	if err != nil {
		ctrl.quizError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CurrentQuestionHandler godoc
// @Summary Current question snapshot
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizSnapshot
// @Failure 409 {object} dto.ErrorResponse "No active session"
// @Router /quiz/current [get]
func (ctrl *Controller) CurrentQuestionHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	snap, err := ctrl.quizSvc.Snapshot(f)
	if err != nil {
		ctrl.quizError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// --- Result Handlers ---

// AnalysisHandler godoc
// @Summary AI analysis of the last result
// @Tags result
// @Produce json
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} dto.ErrorResponse "No finalized result"
// @Router /result/analysis [get]
func (ctrl *Controller) AnalysisHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	analysis, err := ctrl.quizSvc.Analysis(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.AnalysisResponse{Analysis: analysis})
}

// CertificateHandler godoc
// @Summary Certificate for the last result
// @Description Serial number, AI greeting and the scores an external renderer needs
// @Tags result
// @Produce json
// @Success 200 {object} dto.CertificateResponse
// @Failure 404 {object} dto.ErrorResponse "No finalized result"
// @Router /result/certificate [get]
func (ctrl *Controller) CertificateHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	cert, err := ctrl.quizSvc.Certificate(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, cert)
}

// ReviewHandler godoc
// @Summary Answer review for the last result
// @Description The completed quiz's questions with correct answers and explanations
// @Tags result
// @Produce json
// @Success 200 {array} dto.Question
// @Failure 404 {object} dto.ErrorResponse "No finalized result"
// @Router /result/review [get]
func (ctrl *Controller) ReviewHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	questions, err := ctrl.quizSvc.Review(f)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// --- App Handlers ---

// StateHandler godoc
// @Summary Full application state
// @Description Current view, error banner, user, quiz snapshot and last result
// @Tags app
// @Produce json
// @Success 200 {object} dto.AppStateResponse
// @Router /state [get]
func (ctrl *Controller) StateHandler(c *gin.Context) {
	f := ctrl.resolveFlow(c)
	c.JSON(http.StatusOK, ctrl.quizSvc.State(f))
}

// ViewNavigateHandler godoc
// @Summary Navigate between views
// @Description home, history, back, restart or dismiss the error banner
// @Tags app
// @Accept json
// @Produce json
// @Param target body dto.ViewNavigateRequest true "Navigation target"
// @Success 200 {object} dto.AppStateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /view [post]
func (ctrl *Controller) ViewNavigateHandler(c *gin.Context) {
	var req dto.ViewNavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ViewNavigateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	f := ctrl.resolveFlow(c)
	ctrl.quizSvc.NavigateView(f, req.Target)
	c.JSON(http.StatusOK, ctrl.quizSvc.State(f))
}

// HistoryHandler godoc
// @Summary Stored results
// @Description Every saved result, best score first
// @Tags history
// @Produce json
// @Success 200 {array} dto.HistoryEntry
// @Failure 500 {object} dto.ErrorResponse "Both stores unavailable"
// @Router /history [get]
func (ctrl *Controller) HistoryHandler(c *gin.Context) {
	entries, err := ctrl.quizSvc.History(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch history")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not load history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// CatalogHandler godoc
// @Summary Subject catalog
// @Description The subject tree plus accepted difficulty and count choices
// @Tags app
// @Produce json
// @Success 200 {object} service.CatalogResponse
// @Router /catalog [get]
func (ctrl *Controller) CatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, service.Catalog())
}

// quizError maps session and flow sentinels onto HTTP statuses.
func (ctrl *Controller) quizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, flow.ErrNoActiveQuiz), errors.Is(err, session.ErrSessionFinalized):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, flow.ErrNoResult):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
