package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kidsministry/backend/docs"
	"github.com/kidsministry/backend/internal/audit"
	"github.com/kidsministry/backend/internal/config"
	"github.com/kidsministry/backend/internal/database"
	"github.com/kidsministry/backend/internal/handlers"
	mW "github.com/kidsministry/backend/internal/middleware"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/notify"
	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

// @title Kids Ministry Talent API
// @version 1.0
// @description Talent ledger for the children's ministry: grants, transfers, activities and the reward market
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	configErr := config.Load()

	log, err := logger.New(viper.GetString("log.mode"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if configErr != nil {
		log.Warn("Config file not found, using environment and defaults", "error", configErr)
	}

	ledgerCfg, err := config.LoadLedgerConfig()
	if err != nil {
		log.Fatal("Invalid ledger configuration", "error", err)
	}
	jwtCfg, err := config.LoadJWTConfig()
	if err != nil {
		log.Fatal("Invalid JWT configuration", "error", err)
	}

	port := viper.GetString("port")

	docs.SwaggerInfo.Title = "Kids Ministry Talent API"
	docs.SwaggerInfo.Description = "Talent ledger for the children's ministry"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db, err := database.InitDB(database.GetConfig(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, log); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	redisClient := database.InitRedis(log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	auditLog := audit.NewAuditLogger(log)
	ledgerService := services.NewLedgerService(db, ledgerCfg, auditLog, log)
	activityService := services.NewActivityService(ledgerService, log)
	marketService := services.NewMarketService(ledgerService, log)
	notifier := notify.New(log)

	talentHandler := handlers.NewTalentHandler(ledgerService, notifier, log)
	activityHandler := handlers.NewActivityHandler(activityService, log)
	rewardHandler := handlers.NewRewardHandler(marketService, notifier, log)

	authenticator := mW.NewAuthenticator(jwtCfg.SecretKey, jwtCfg.Expiry, redisClient, log)
	idempotent := mW.Idempotency(redisClient, viper.GetDuration("idempotency.ttl"), log)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mW.IdempotencyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Middleware)

		r.Post("/auth/logout", authenticator.Logout)
		r.Get("/rewards", rewardHandler.List)
		r.Get("/students/{studentId}/talents/history", talentHandler.StudentHistory)

		r.Group(func(r chi.Router) {
			r.Use(mW.RequireRole(models.RoleAdmin))
			r.Use(idempotent)

			r.Post("/admin/talents/adjust", talentHandler.AdjustStudent)
			r.Post("/admin/teachers/talents/adjust", talentHandler.AdjustTeacher)
			r.Post("/admin/talents/bulk", talentHandler.BulkAdjust)
		})

		r.Group(func(r chi.Router) {
			r.Use(mW.RequireRole(models.RoleTeacher))

			r.Get("/teacher/talents/weekly", talentHandler.Weekly)
			r.Get("/teacher/talents/history", talentHandler.TeacherHistory)

			r.Group(func(r chi.Router) {
				r.Use(idempotent)

				r.Post("/teacher/talents/grant", talentHandler.Grant)
				r.Post("/teacher/talents/transfer", talentHandler.Transfer)
				r.Put("/teacher/students/{studentId}/activity", activityHandler.SetActivity)
				r.Post("/teacher/vouchers/{code}/redeem", rewardHandler.Redeem)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(mW.RequireRole(models.RoleStudent))
			r.Use(idempotent)

			r.Post("/student/rewards/{rewardId}/purchase", rewardHandler.Purchase)
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", "error", err)
	}

	log.Info("Server stopped")
}
