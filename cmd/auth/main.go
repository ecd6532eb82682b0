package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pgrepo "github.com/dhillon/auth-api/internal/adapters/db/postgres"
	"github.com/dhillon/auth-api/internal/adapters/mail"
	httptransport "github.com/dhillon/auth-api/internal/adapters/transport/http"
	httpmw "github.com/dhillon/auth-api/internal/adapters/transport/http/middleware"
	"github.com/dhillon/auth-api/internal/app/auth/hash"
	appjwt "github.com/dhillon/auth-api/internal/app/auth/jwt"
	appsvc "github.com/dhillon/auth-api/internal/app/auth/service"
	"github.com/dhillon/auth-api/internal/domain/auth/notify"
	"github.com/dhillon/auth-api/internal/infra/config"
	lg "github.com/dhillon/auth-api/internal/infra/log"
	"github.com/dhillon/auth-api/internal/infra/migrate"
	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	validate := validator.New()
	if err := appsvc.RegisterPasswordRule(validate); err != nil {
		zapLog.Fatal("register password rule", zap.Error(err))
	}

	accountRepo := pgrepo.NewPostgresAccountRepo(db)
	tokenRepo := pgrepo.NewPostgresTokenRepo(db)
	hasher := hash.New(cfg.PasswordPepper)

	issuer, err := appjwt.NewSessionIssuer(cfg)
	if err != nil {
		zapLog.Fatal("failed to init session issuer", zap.Error(err))
	}

	var notifier notify.Notifier
	if cfg.SMTPAddress != "" {
		notifier = mail.NewSMTPNotifier(cfg)
	} else {
		zapLog.Warn("SMTP_ADDRESS not set, verification mail goes to the log")
		notifier = mail.NewLogNotifier(zapLog, cfg)
	}

	svc := appsvc.New(accountRepo, tokenRepo, hasher, issuer, notifier, cfg, validate, zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))

	if cfg.RedisAddress != "" {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()
		router.Use(httpmw.NewRedisRateLimitPerIP(redisCli, 100, time.Minute))
	} else {
		router.Use(httpmw.NewRateLimitPerIP(50, 100, 10_000, time.Hour))
	}

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	httptransport.NewHandler(svc, zapLog).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	var g errgroup.Group

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
