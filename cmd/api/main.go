package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/ai"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/cache"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/config"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/database"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/handler"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/logger"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/realtime"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/repository"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/session"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
)

type application struct {
	DB       *pgxpool.Pool
	Logger   *zap.Logger
	Config   *config.Config
	Sessions session.Store
	Handler  *handler.Handler
	Gateway  *realtime.Gateway
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	pool, err := database.Connect(ctx, cfg.DB.DSN, int32(cfg.DB.MaxOpenConns))
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	storeOpts := []session.StoreOption{
		session.WithTTL(cfg.Session.TTL),
		session.WithSweepInterval(cfg.Session.SweepInterval),
	}
	if cfg.Session.Store == "redis" {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := cache.Ping(ctx, rdb); err != nil {
			sugar.Fatal(err)
		}
		storeOpts = append(storeOpts, session.WithRedisClient(rdb))
	}
	sessions, err := session.NewStore(cfg.Session.Store, storeOpts...)
	if err != nil {
		sugar.Fatal(err)
	}
	defer sessions.Close()

	groqClient := ai.NewClient(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.Timeout)
	repo := repository.NewRepository(pool)

	planner := interview.NewPlanner(groqClient, interview.PlannerConfig{
		NumQuestions: cfg.Interview.NumQuestions,
		LowScore:     cfg.Interview.FollowUpLowScore,
		HighScore:    cfg.Interview.FollowUpHighScore,
		LowProb:      cfg.Interview.FollowUpLowProb,
		HighProb:     cfg.Interview.FollowUpHighProb,
	}, rand.New(rand.NewSource(time.Now().UnixNano())), log)

	recorder := transcript.NewRecorder(groqClient, log)
	aggregator := interview.NewAggregator(repo, groqClient, cfg.Groq.Timeout, log)
	manager := interview.NewManager(repo, sessions, planner, groqClient, aggregator, recorder, cfg.Groq.Timeout, log)

	app := &application{
		DB:       pool,
		Logger:   log,
		Config:   cfg,
		Sessions: sessions,
		Handler: &handler.Handler{
			Logger:      log,
			Interviews:  repo,
			Manager:     manager,
			Planner:     planner,
			Transcripts: recorder,
		},
		Gateway: realtime.NewGateway(manager, recorder, cfg.CORS.TrustedOrigins, log),
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
