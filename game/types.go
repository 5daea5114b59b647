package game

import "time"

type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseJoinable
	PhaseInProgress
	PhaseFinished
)

// String returns the wire value polled by clients.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseJoinable:
		return "joinable"
	case PhaseInProgress:
		return "in-progress"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Question is immutable once loaded into a Bank.
type Question struct {
	Prompt       string
	Options      []string
	CorrectIndex int
}

// player is registry state scoped to one round cycle.
type player struct {
	name           string
	score          int
	correctAnswers int
	questionsSeen  int
	answered       bool
	lastOutcome    AnswerOutcome
}

type RoundConfigs struct {
	JoinWindowSeconds  int
	QuestionSeconds    int
	LeaderboardSeconds int
	RestSeconds        int
	QuestionsPerRound  int
	PointsPerCorrect   int
}

// AnswerOutcome is what a submitting player gets back. Repeated submissions
// for the same question return the original outcome with AlreadyAnswered set.
type AnswerOutcome struct {
	Correct         bool
	AlreadyAnswered bool
	Message         string
	CorrectAnswer   string
	Score           int
}

// QuestionView is the player-facing projection of a Question. It must never
// carry the correct index while the question is live.
type QuestionView struct {
	Prompt  string
	Options []string
}

type PlayerStanding struct {
	Name           string
	Score          int
	CorrectAnswers int
	QuestionsSeen  int
}

// Snapshot is a consistent, immutable view of the round for polling clients.
type Snapshot struct {
	RoundID           int
	Phase             Phase
	Countdown         int
	QuestionCountdown int
	QuestionNumber    int
	TotalQuestions    int
	PlayersJoined     int
	Question          *QuestionView
	Players           []PlayerStanding
}

// PeriodicTickerChannelCreator lets tests drive the clock manually.
type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
