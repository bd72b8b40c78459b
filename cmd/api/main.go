package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"divisafe-support/internal/config"
	"divisafe-support/internal/db"
	"divisafe-support/internal/email"
	apihttp "divisafe-support/internal/http"
	"divisafe-support/internal/knowledge"
	"divisafe-support/internal/llm"
	"divisafe-support/internal/metrics"
	"divisafe-support/internal/repository"
	"divisafe-support/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	kb := knowledge.Default()
	if cfg.KnowledgeFile != "" {
		kb, err = knowledge.LoadFile(cfg.KnowledgeFile)
		if err != nil {
			logger.Fatal("knowledge base load", zap.String("path", cfg.KnowledgeFile), zap.Error(err))
		}
	}

	var picker service.TemplatePicker = service.FirstPicker{}
	if cfg.ResponseSeed != 0 {
		picker = service.NewSeededPicker(cfg.ResponseSeed)
	}
	pipeline := service.NewPipeline(kb, picker, logger)
	m := metrics.New()

	interactionLoggers := []service.InteractionLogger{service.NewZapInteractionLogger(logger)}
	var history repository.InteractionRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Warn("db ping failed", zap.Error(err))
		}
		repo := repository.NewPgInteractionRepository(pool)
		history = repo
		interactionLoggers = append(interactionLoggers, service.NewRepositoryInteractionLogger(repo))
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.EmailEnabled() {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		escalations = service.NewMemoryEscalationStore(service.EscalationTTL)
		limiter     = service.NewMemoryRateLimiter(time.Minute, cfg.AnalyzeRateLimit)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			escalations = service.NewRedisEscalationStore(redisClient, service.EscalationTTL)
			limiter = service.NewRedisRateLimiter(redisClient, time.Minute, cfg.AnalyzeRateLimit)
		}
		cancel()
	}

	anonymizer := service.NewAnonymizer(cfg.AnonymizationKey)
	if anonymizer.Ephemeral() {
		logger.Warn("anonymization key not configured, using a random per-process key: user hashes will not survive a restart")
	}
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured, moderation endpoints disabled")
	}
	var tokenSvc *service.ModeratorTokenService
	if cfg.JWTSecret != "" {
		tokenSvc = service.NewModeratorTokenService(cfg.JWTSecret, time.Duration(cfg.ModeratorTokenTTLMinutes)*time.Minute)
	}

	supportSvc := service.NewSupportService(logger, kb, pipeline, service.SupportDeps{
		Interactions:  service.MultiInteractionLogger(interactionLoggers...),
		History:       history,
		Escalations:   escalations,
		Limiter:       limiter,
		Notifier:      emailSender,
		NotifyTo:      cfg.EscalationEmailTo,
		Metrics:       m,
		Anonymizer:    anonymizer,
		DefaultLocale: cfg.DefaultLocale,
	})

	llmTimeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llmTimeout, logger)
	chatSvc := service.NewChatService(logger, supportSvc, llmClient, m, llmTimeout)

	routerDeps := apihttp.RouterDeps{
		Logger:         logger,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
		Support:        apihttp.NewSupportHandler(logger, supportSvc),
		Chat:           apihttp.NewChatHandler(logger, chatSvc),
	}
	if tokenSvc != nil {
		routerDeps.Moderation = apihttp.NewModerationHandler(logger, supportSvc)
		routerDeps.Tokens = tokenSvc
	}
	router := apihttp.NewRouter(routerDeps)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Int("crisis_rules", len(kb.CrisisRules)),
		zap.Strings("locales", kb.Locales()),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
