package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL    string
	JWTKey         string
	AllowedOrigins string
	Port           string
	GinMode        string

	Game GameConfig
}

// GameConfig holds the round timing and award constants: 10 points per
// correct answer, 5 coins per correct answer, 100 coins for finishing first.
type GameConfig struct {
	JoinWindowSeconds  int
	QuestionSeconds    int
	LeaderboardSeconds int
	RestSeconds        int
	QuestionsPerRound  int
	PointsPerCorrect   int
	CorrectAnswerBonus int
	RoundWinBonus      int
}

func Load() (Config, error) {
	// .env is optional, real deployments set the environment directly
	godotenv.Load()

	cfg := Config{
		Port:    envOr("PORT", "5000"),
		GinMode: os.Getenv("GIN_MODE"),
		Game: GameConfig{
			JoinWindowSeconds:  intEnvOr("JOIN_WINDOW_SECONDS", 60),
			QuestionSeconds:    intEnvOr("QUESTION_SECONDS", 10),
			LeaderboardSeconds: intEnvOr("LEADERBOARD_SECONDS", 10),
			RestSeconds:        intEnvOr("REST_SECONDS", 5),
			QuestionsPerRound:  intEnvOr("QUESTIONS_PER_ROUND", 5),
			PointsPerCorrect:   intEnvOr("POINTS_PER_CORRECT", 10),
			CorrectAnswerBonus: intEnvOr("CORRECT_ANSWER_BONUS", 5),
			RoundWinBonus:      intEnvOr("ROUND_WIN_BONUS", 100),
		},
	}

	var exists bool
	if cfg.PostgresURL, exists = os.LookupEnv("POSTGRES_URL"); !exists {
		return cfg, fmt.Errorf("missing POSTGRES_URL")
	}
	if cfg.JWTKey, exists = os.LookupEnv("JWT_KEY"); !exists {
		return cfg, fmt.Errorf("missing JWT_KEY")
	}
	if cfg.AllowedOrigins, exists = os.LookupEnv("ALLOWED_ORIGINS"); !exists {
		return cfg, fmt.Errorf("missing ALLOWED_ORIGINS")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return fallback
}

func intEnvOr(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
