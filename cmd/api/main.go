package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/labpoint/labportal/config"
	v1 "github.com/labpoint/labportal/internal/handler/v1"
	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/internal/repository/postgres"
	"github.com/labpoint/labportal/internal/service"
	"github.com/labpoint/labportal/pkg/auth"
	"github.com/labpoint/labportal/pkg/database"
	"github.com/labpoint/labportal/pkg/extauth"
	"github.com/labpoint/labportal/pkg/logger"
	"github.com/labpoint/labportal/pkg/mailer"
	"github.com/labpoint/labportal/pkg/metrics"
	"github.com/labpoint/labportal/pkg/payment"
	"github.com/labpoint/labportal/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("labportal")

	patientRepo := postgres.NewPatientRepo(db)
	adminRepo := postgres.NewAdminRepo(db)
	otpRepo := postgres.NewOtpRepo(db)
	testRepo := postgres.NewTestRepo(db)
	bookingRepo := postgres.NewBookingRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.JWT)
	mail := mailer.New(cfg.SMTP, log)
	gateway := payment.NewRazorpayGateway(cfg.Payment)
	external := extauth.New(os.Getenv("EXTAUTH_TOKENINFO_URL"))

	otpSvc := service.NewOtpService(otpRepo, mail, log)
	authSvc := service.NewAuthService(patientRepo, adminRepo, otpSvc, external, jwtManager, log)
	catalogSvc := service.NewCatalogService(testRepo, auditSvc, log)
	bookingSvc := service.NewBookingService(bookingRepo, testRepo, gateway, auditSvc, log)
	reportSvc := service.NewReportService(reportRepo, bookingRepo, patientRepo, testRepo, auditSvc, log)

	if err := seed(cfg, adminRepo, catalogSvc, log); err != nil {
		return err
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		MaxAge:           cfg.CORS.MaxAge,
		AllowCredentials: true,
	}))

	router := v1.NewRouter(authSvc, bookingSvc, reportSvc, catalogSvc, jwtManager, collector, log)
	router.Register(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// seed installs the bootstrap admin and, when enabled, the default catalog.
// All credentials come from config: there is no built-in fallback account.
func seed(cfg *config.Config, admins identity.AdminRepository, catalogSvc *service.CatalogService, log *zap.Logger) error {
	ctx := context.Background()

	if cfg.Seed.AdminUsername != "" {
		if _, err := admins.GetByUsername(ctx, cfg.Seed.AdminUsername); errors.Is(err, identity.ErrAdminNotFound) {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			a := &identity.Admin{
				Username:     cfg.Seed.AdminUsername,
				PasswordHash: string(hash),
				Name:         cfg.Seed.AdminName,
				Role:         identity.AdminRoleSuper,
			}
			if err := admins.Create(ctx, a); err != nil {
				return err
			}
			log.Info("seeded admin account", zap.String("username", a.Username))
		} else if err != nil {
			return err
		}
	}

	if cfg.Seed.SeedCatalog {
		if err := catalogSvc.Seed(ctx); err != nil {
			return err
		}
	}

	return nil
}
