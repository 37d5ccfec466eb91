package main

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"moodnest/internal/ai"
	"moodnest/internal/clock"
	"moodnest/internal/db"
	"moodnest/internal/handlers"
	mw "moodnest/internal/middleware"
	"moodnest/internal/services"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustHexKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Error(name + " is required")
		os.Exit(1)
	}
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		slog.Error(name + " must be 64 hex characters")
		os.Exit(1)
	}
	return key
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	encryptionKey := mustHexKey("ENCRYPTION_KEY")
	blindIndexKey := mustHexKey("BLIND_INDEX_KEY")

	port := mustGetenv("PORT", "8080")
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	model := os.Getenv("OPENROUTER_MODEL")
	mlServiceURL := mustGetenv("ML_SERVICE_URL", "http://localhost:8000")
	tzName := mustGetenv("APP_TIMEZONE", "Asia/Kolkata")

	minConfidence := 0.1
	if raw := os.Getenv("MOOD_MIN_CONFIDENCE"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			slog.Error("MOOD_MIN_CONFIDENCE must be a float", slog.String("value", raw))
			os.Exit(1)
		}
		minConfidence = v
	}

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		slog.Error("failed to ping db", slog.Any("err", err))
		os.Exit(1)
	}
	if err := db.RunMigrations(dbConn); err != nil {
		slog.Error("failed migrations", slog.Any("err", err))
		os.Exit(1)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to build zap logger", slog.Any("err", err))
		os.Exit(1)
	}
	defer zlog.Sync()

	encSvc, err := services.NewEncryptionService(encryptionKey, blindIndexKey)
	if err != nil {
		slog.Error("failed to init encryption", slog.Any("err", err))
		os.Exit(1)
	}

	clk := clock.New(tzName)
	aiClient := ai.NewClient(apiKey, model)
	analyzer := ai.NewAnalyzer(mlServiceURL)
	forecaster := ai.NewForecaster(mlServiceURL)

	streakSvc := services.NewStreakService(dbConn, clk)
	suggestionSvc := services.NewSuggestionService(dbConn, encSvc, aiClient, clk, zlog)

	authHandler := handlers.NewAuthHandler(dbConn, encSvc, []byte(jwtSecret))
	userHandler := handlers.NewUserHandler(dbConn, encSvc)
	chatHandler := handlers.NewChatHandler(dbConn, encSvc, aiClient, analyzer, streakSvc, minConfidence, zlog)
	journalHandler := handlers.NewJournalHandler(dbConn, encSvc, clk)
	streakHandler := handlers.NewStreakHandler(streakSvc)
	insightsHandler := handlers.NewInsightsHandler(dbConn, clk)
	artifactsHandler := handlers.NewArtifactsHandler(suggestionSvc)
	forecastHandler := handlers.NewForecastHandler(dbConn, forecaster, clk, zlog)
	preferencesHandler := handlers.NewPreferencesHandler(dbConn)
	adminHandler := handlers.NewAdminHandler(dbConn)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.ZapRequestLogger(zlog))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/me", userHandler.GetMe)
			pr.Put("/me", userHandler.UpdateMe)

			pr.Post("/chat", chatHandler.Send)
			pr.Get("/chat/{conversationID}", chatHandler.History)

			pr.Post("/journal", journalHandler.Create)
			pr.Get("/journal/{conversationID}", journalHandler.List)
			pr.Delete("/journal/{id}", journalHandler.Delete)

			pr.Post("/preferences", preferencesHandler.Save)
			pr.Get("/preferences", preferencesHandler.List)

			pr.Get("/streak", streakHandler.Get)

			pr.Route("/insights", func(ins chi.Router) {
				ins.Get("/weekly-mood", insightsHandler.WeeklyMood)
				ins.Get("/emotion-frequency", insightsHandler.EmotionFrequency)
				ins.Get("/time-of-day", insightsHandler.TimeOfDay)
				ins.Get("/stability", insightsHandler.Stability)
				ins.Get("/recent-emotions", insightsHandler.RecentEmotions)
				ins.Get("/activity", insightsHandler.Activity)
				ins.Get("/emotional-journey", insightsHandler.EmotionalJourney)
				ins.Get("/summary", artifactsHandler.Summary)
				ins.Get("/reflective-message", artifactsHandler.ReflectiveMessage)
				ins.Get("/suggestions", artifactsHandler.Suggestions)
				ins.Get("/forecast", forecastHandler.Get)
			})

			pr.Get("/admin/overview", adminHandler.Overview)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		slog.Info("server starting", slog.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("err", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	slog.Info("server stopped")
}
