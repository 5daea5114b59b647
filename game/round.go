package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Round is the single shared game instance. All mutation goes through
// Tick, Join and Submit under one lock; Snapshot takes a read lock and
// returns copies only.
type Round struct {
	mu      sync.RWMutex
	configs RoundConfigs
	bank    *Bank
	rng     *rand.Rand
	logger  zerolog.Logger

	id                int
	phase             Phase
	restRemaining     int
	joinRemaining     int
	questionRemaining int
	lingerRemaining   int
	questions         []Question
	questionIdx       int
	players           map[string]*player
	joinOrder         []string
}

func NewRound(bank *Bank, configs RoundConfigs, rng *rand.Rand, logger zerolog.Logger) *Round {
	return &Round{
		configs:       configs,
		bank:          bank,
		rng:           rng,
		logger:        logger,
		phase:         PhaseWaiting,
		restRemaining: configs.RestSeconds,
		players:       make(map[string]*player),
	}
}

// Tick advances the active countdown by one second and fires whatever
// transition it reaches. Called once per second by the Runner; safe to call
// in any phase.
func (r *Round) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.phase {
	case PhaseWaiting:
		if r.restRemaining > 0 {
			r.restRemaining--
		}
		if r.restRemaining == 0 {
			r.startJoinWindow()
		}
	case PhaseJoinable:
		if r.joinRemaining > 0 {
			r.joinRemaining--
		}
		if r.joinRemaining == 0 {
			if len(r.players) == 0 {
				// nobody showed up, reopen the window
				r.startJoinWindow()
			} else {
				r.beginQuestions()
			}
		}
	case PhaseInProgress:
		if r.questionRemaining > 0 {
			r.questionRemaining--
		}
		if r.questionRemaining == 0 {
			r.advanceQuestion()
		}
	case PhaseFinished:
		if r.lingerRemaining > 0 {
			r.lingerRemaining--
		}
		if r.lingerRemaining == 0 {
			r.phase = PhaseWaiting
			r.restRemaining = r.configs.RestSeconds
		}
	}
}

func (r *Round) startJoinWindow() {
	r.id++
	r.phase = PhaseJoinable
	r.joinRemaining = r.configs.JoinWindowSeconds
	r.players = make(map[string]*player)
	r.joinOrder = nil
	r.questions = nil
	r.questionIdx = 0
	r.logger.Info().Int("round", r.id).Int("window_seconds", r.joinRemaining).Msg("join window open")
}

func (r *Round) beginQuestions() {
	r.phase = PhaseInProgress
	r.questions = r.bank.Draw(r.configs.QuestionsPerRound, r.rng)
	r.questionIdx = 0
	r.questionRemaining = r.configs.QuestionSeconds
	r.logger.Info().
		Int("round", r.id).
		Int("players", len(r.players)).
		Int("questions", len(r.questions)).
		Msg("round in progress")
}

func (r *Round) advanceQuestion() {
	if r.questionIdx+1 < len(r.questions) {
		r.questionIdx++
		r.questionRemaining = r.configs.QuestionSeconds
		for _, p := range r.players {
			p.answered = false
			p.lastOutcome = AnswerOutcome{}
		}
		return
	}

	r.phase = PhaseFinished
	r.lingerRemaining = r.configs.LeaderboardSeconds
	standings := r.standings()
	winner := ""
	if len(standings) > 0 {
		winner = standings[0].Name
	}
	r.logger.Info().Int("round", r.id).Str("winner", winner).Msg("round finished")
}

// Join registers a player for the upcoming round under the given name.
func (r *Round) Join(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseJoinable {
		return ErrInvalidPhase
	}
	if r.joinRemaining == 0 {
		return ErrWindowClosed
	}
	if _, exists := r.players[name]; exists {
		return ErrDuplicateName
	}

	r.players[name] = &player{name: name}
	r.joinOrder = append(r.joinOrder, name)
	return nil
}

// Submit applies one player's answer to the current question. A repeated
// submission is not an error: the original outcome comes back unchanged with
// AlreadyAnswered set, and the score is never touched twice.
func (r *Round) Submit(name string, option int) (AnswerOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseInProgress {
		return AnswerOutcome{}, ErrNotInProgress
	}
	p, ok := r.players[name]
	if !ok {
		return AnswerOutcome{}, ErrUnknownPlayer
	}
	if p.answered {
		outcome := p.lastOutcome
		outcome.AlreadyAnswered = true
		return outcome, nil
	}

	question := r.questions[r.questionIdx]
	correct := option == question.CorrectIndex

	p.answered = true
	p.questionsSeen++
	verdict := "incorrectly"
	if correct {
		p.correctAnswers++
		p.score += r.configs.PointsPerCorrect
		verdict = "correctly"
	}

	outcome := AnswerOutcome{
		Correct:       correct,
		Message:       fmt.Sprintf("%s answered %s!", name, verdict),
		CorrectAnswer: question.Options[question.CorrectIndex],
		Score:         p.score,
	}
	p.lastOutcome = outcome
	return outcome, nil
}

// Snapshot projects the current state for external observers. The correct
// index never leaves this method.
func (r *Round) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		RoundID:           r.id,
		Phase:             r.phase,
		Countdown:         r.joinRemaining,
		QuestionCountdown: r.questionRemaining,
		TotalQuestions:    r.configs.QuestionsPerRound,
		PlayersJoined:     len(r.players),
		Players:           r.standings(),
	}

	if r.phase == PhaseInProgress {
		question := r.questions[r.questionIdx]
		options := make([]string, len(question.Options))
		copy(options, question.Options)
		snap.Question = &QuestionView{Prompt: question.Prompt, Options: options}
		snap.QuestionNumber = r.questionIdx + 1
	}

	return snap
}

// standings sorts by score descending; ties keep join order. Callers must
// hold at least the read lock.
func (r *Round) standings() []PlayerStanding {
	standings := make([]PlayerStanding, 0, len(r.joinOrder))
	for _, name := range r.joinOrder {
		p := r.players[name]
		standings = append(standings, PlayerStanding{
			Name:           p.name,
			Score:          p.score,
			CorrectAnswers: p.correctAnswers,
			QuestionsSeen:  p.questionsSeen,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}
