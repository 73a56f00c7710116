// @title           Procurement API
// @version         1.0
// @description     AI-assisted procurement workflow: RFP creation, vendor dispatch, proposal intake and comparison.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	_ "backend/docs"
	"backend/handlers"
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var pollRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
	}
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Type", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// seedAdminUser creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and the account does not exist yet.
func seedAdminUser(ctx context.Context, users repository.UserStore, logger *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		logger.Error("checking for admin user failed", zap.Error(err))
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("hashing admin password failed", zap.Error(err))
		return
	}

	now := time.Now()
	admin := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Admin",
		IsAdmin:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Error("creating admin user failed", zap.Error(err))
		return
	}
	logger.Info("admin user seeded", zap.String("email", email))
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db := storage.InitGormDB()
	if err := storage.AutoMigrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	rfpStore := repository.NewRFPStore(db)
	vendorStore := repository.NewVendorStore(db)
	proposalStore := repository.NewProposalStore(db)
	userStore := repository.NewUserStore(db)

	ctx := context.Background()
	seedAdminUser(ctx, userStore, logger)
	if n, err := repository.SeedVendors(ctx, vendorStore); err != nil {
		logger.Error("seeding vendors failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("demo vendors seeded", zap.Int("count", n))
	}

	llm, err := services.NewGeminiGenerator(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		logger.Fatal("initializing gemini client failed", zap.Error(err))
	}

	smtpCfg := services.SMTPConfigFromEnv()
	imapCfg := services.IMAPConfigFromEnv()

	rfpService := services.NewRFPService(rfpStore, vendorStore, proposalStore, llm, logger)
	vendorService := services.NewVendorService(vendorStore, logger)
	proposalService := services.NewProposalService(proposalStore, rfpStore, vendorStore, llm, logger)
	emailService := services.NewEmailService(smtpCfg.Dialer(), smtpCfg.From, logger)
	inboxService := services.NewInboxService(imapCfg, vendorStore, proposalService, logger)
	comparisonService := services.NewComparisonService(rfpStore, proposalStore, vendorStore, llm, logger)

	// Background inbox polling. Overlapping runs are skipped rather than
	// queued so a slow poll cannot pile up behind itself.
	pollSpec := os.Getenv("POLL_CRON")
	if pollSpec == "" {
		pollSpec = "*/10 * * * *"
	}
	c := cron.New()
	_, err = c.AddFunc(pollSpec, func() {
		if !atomic.CompareAndSwapInt32(&pollRunning, 0, 1) {
			logger.Warn("previous inbox poll still running, skipping this run")
			return
		}
		defer atomic.StoreInt32(&pollRunning, 0)

		pollCtx, cancel := context.WithTimeout(context.Background(), 8*time.Minute)
		defer cancel()

		if _, err := inboxService.Poll(pollCtx); err != nil {
			logger.Error("scheduled inbox poll failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("scheduling inbox poll failed", zap.String("spec", pollSpec), zap.Error(err))
	}
	c.Start()

	r := gin.Default()
	r.Use(cors.New(CORSConfig()))
	r.Use(utils.RequestID())

	r.POST("/api/login", handlers.LoginHandler(userStore))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(utils.AuthRequired())
	{
		api.POST("/rfp/create-from-text", handlers.CreateRFPFromText(rfpService))
		api.GET("/rfp", handlers.GetRFPs(rfpService))
		api.GET("/rfp/:id", handlers.GetRFPByID(rfpService))
		api.GET("/rfp/:id/pdf", handlers.DownloadRFPPDF(rfpService))
		api.POST("/rfp/:id/send-to-vendors", handlers.SendRFPToVendors(rfpService, vendorService, emailService))

		api.GET("/proposals/by-rfp/:rfpId", handlers.GetProposalsByRFP(proposalService))
		api.POST("/proposals/poll-emails", handlers.PollEmails(inboxService))

		api.GET("/comparison/:rfpId", handlers.CompareProposals(comparisonService))
		api.GET("/comparison/:rfpId/export", handlers.ExportComparisonXLSX(comparisonService))

		api.POST("/vendors", handlers.CreateVendor(vendorService))
		api.GET("/vendors", handlers.GetVendors(vendorService))
		api.GET("/vendors/:id", handlers.GetVendorByID(vendorService))
		api.PUT("/vendors/:id", handlers.UpdateVendor(vendorService))
		api.DELETE("/vendors/:id", handlers.DeleteVendor(vendorService))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cronCtx := c.Stop()
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
		logger.Warn("cron jobs did not finish before shutdown deadline")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}
