package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/AshHarikrishna/cloud-proj/auth"
	"github.com/AshHarikrishna/cloud-proj/config"
	"github.com/AshHarikrishna/cloud-proj/crypto"
	"github.com/AshHarikrishna/cloud-proj/game"
	"github.com/AshHarikrishna/cloud-proj/migrations"
	"github.com/AshHarikrishna/cloud-proj/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
	}))

	return r
}

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")

	migrations.Migrate(cfg.PostgresURL)

	pgRepo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	tokenAge := time.Hour * 24 * 7 // 7 days
	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, tokenAge)

	authService := auth.NewService(pgRepo, passwordHasher, tokenManager)
	authHandler := auth.NewAuthHandler(authService, tokenAge)

	r := CreateServer(allowedOrigins)

	{
		authGroup := r.Group("/auth")
		authGroup.POST("/signup", authHandler.SignupHandler)
		authGroup.POST("/login", authHandler.LoginHandler)
		authGroup.POST("/logout", authHandler.LogoutHandler)
		authGroup.GET("/refresh", authHandler.RefreshSessionHandler)
	}

	questions, err := pgRepo.GetQuestions(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load questions")
	}
	bank, err := game.NewBank(questions)
	if err != nil {
		log.Fatal().Err(err).Msg("question bank rejected")
	}

	roundConfigs := game.RoundConfigs{
		JoinWindowSeconds:  cfg.Game.JoinWindowSeconds,
		QuestionSeconds:    cfg.Game.QuestionSeconds,
		LeaderboardSeconds: cfg.Game.LeaderboardSeconds,
		RestSeconds:        cfg.Game.RestSeconds,
		QuestionsPerRound:  cfg.Game.QuestionsPerRound,
		PointsPerCorrect:   cfg.Game.PointsPerCorrect,
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	round := game.NewRound(bank, roundConfigs, rng, log.Logger)

	tickerGen := game.NewTickerGen()
	runner := game.NewRunner(round, tickerGen)
	runnerStarted := make(chan struct{})
	go runner.Run(context.Background(), runnerStarted)
	<-runnerStarted

	rewards := game.NewRewardsObserver(round, pgRepo, tickerGen, cfg.Game.RoundWinBonus, log.Logger)
	rewardsStarted := make(chan struct{})
	go rewards.Run(context.Background(), rewardsStarted)
	<-rewardsStarted

	gameHandler := game.NewGameHandler(round, pgRepo, cfg.Game.CorrectAnswerBonus, log.Logger)
	{
		gameGroup := r.Group("/game")
		gameGroup.Use(authHandler.RequireAuthMiddleware(time.Second * 2))

		gameGroup.GET("/status", gameHandler.StatusHandler)
		gameGroup.POST("/join", gameHandler.JoinHandler)
		gameGroup.POST("/answer", gameHandler.AnswerHandler)
		gameGroup.GET("/wallet", gameHandler.WalletHandler)
	}

	r.Run(":" + cfg.Port)
}
