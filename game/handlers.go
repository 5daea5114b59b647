package game

import (
	"errors"
	"net/http"
	"sync"

	"github.com/AshHarikrishna/cloud-proj/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type GameHandler struct {
	round        *Round
	ledger       CurrencyLedger
	correctBonus int
	logger       zerolog.Logger

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

func NewGameHandler(round *Round, ledger CurrencyLedger, correctBonus int, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		round:        round,
		ledger:       ledger,
		correctBonus: correctBonus,
		logger:       logger,
		limiters:     make(map[string]*rate.Limiter),
	}
}

type playerJSON struct {
	Name           string `json:"name"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
}

type questionJSON struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type statusJSON struct {
	RoundID               int           `json:"round_id"`
	Status                string        `json:"status"`
	Countdown             int           `json:"countdown"`
	PlayersJoined         int           `json:"players_joined"`
	CurrentQuestion       *questionJSON `json:"current_question"`
	CurrentQuestionNumber int           `json:"current_question_number"`
	TotalQuestions        int           `json:"total_questions"`
	QuestionCountdown     int           `json:"question_countdown"`
	RoundFinished         bool          `json:"round_finished"`
	Players               []playerJSON  `json:"players"`
}

func (h *GameHandler) StatusHandler(ctx *gin.Context) {
	snap := h.round.Snapshot()

	resp := statusJSON{
		RoundID:               snap.RoundID,
		Status:                snap.Phase.String(),
		Countdown:             snap.Countdown,
		PlayersJoined:         snap.PlayersJoined,
		CurrentQuestionNumber: snap.QuestionNumber,
		TotalQuestions:        snap.TotalQuestions,
		QuestionCountdown:     snap.QuestionCountdown,
		RoundFinished:         snap.Phase == PhaseFinished,
		Players:               make([]playerJSON, 0, len(snap.Players)),
	}
	if snap.Question != nil {
		resp.CurrentQuestion = &questionJSON{
			Question: snap.Question.Prompt,
			Options:  snap.Question.Options,
		}
	}
	for _, p := range snap.Players {
		resp.Players = append(resp.Players, playerJSON{
			Name:           p.Name,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			TotalQuestions: p.QuestionsSeen,
		})
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *GameHandler) JoinHandler(ctx *gin.Context) {
	name := ctx.GetString("id")
	if name == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	err := h.round.Join(name)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhase):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "round-not-open"})
		case errors.Is(err, ErrWindowClosed):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "join-window-closed"})
		case errors.Is(err, ErrDuplicateName):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "already-joined"})
		default:
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		}
		return
	}

	snap := h.round.Snapshot()
	ctx.JSON(http.StatusOK, gin.H{
		"message":        name + " joined the round",
		"players_joined": snap.PlayersJoined,
	})
}

type answerRequest struct {
	Answer *int `json:"answer"`
}

func (h *GameHandler) AnswerHandler(ctx *gin.Context) {
	name := ctx.GetString("id")
	if name == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	if !h.limiter(name).Allow() {
		ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too-many-requests"})
		return
	}

	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Answer == nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no-answer-provided"})
		return
	}

	outcome, err := h.round.Submit(name, *req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotInProgress):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "no-active-question"})
		case errors.Is(err, ErrUnknownPlayer):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "player-not-joined"})
		default:
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		}
		return
	}

	// The answer bonus is this caller's business rule, not the round's.
	// A ledger failure must not fail an accepted answer.
	if outcome.Correct && !outcome.AlreadyAnswered {
		if _, err := h.ledger.Credit(ctx.Request.Context(), name, h.correctBonus); err != nil {
			h.logger.Error().Err(err).Str("player", name).Msg("failed to credit answer bonus")
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"correct":          outcome.Correct,
		"already_answered": outcome.AlreadyAnswered,
		"message":          outcome.Message,
		"correct_answer":   outcome.CorrectAnswer,
		"score":            outcome.Score,
	})
}

func (h *GameHandler) WalletHandler(ctx *gin.Context) {
	name := ctx.GetString("id")
	if name == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	balance, err := h.ledger.Balance(ctx.Request.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user-not-found"})
			return
		}
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"currency": balance})
}

func (h *GameHandler) limiter(name string) *rate.Limiter {
	h.limitersMu.Lock()
	defer h.limitersMu.Unlock()
	lim, ok := h.limiters[name]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(5), 10)
		h.limiters[name] = lim
	}
	return lim
}
