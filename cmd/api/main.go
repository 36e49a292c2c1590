package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm/logger"

	httpadp "digilib-backend/internal/adapter/http"
	"digilib-backend/internal/adapter/repository/mysql"
	"digilib-backend/internal/config"
	"digilib-backend/internal/infrastructure/cache"
	"digilib-backend/internal/infrastructure/db"
	usecase "digilib-backend/internal/usecase/loanrequest"
	"digilib-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logLevel := logger.Info
	if cfg.Production() {
		logLevel = logger.Warn
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.WithLogLevel(logLevel))
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	sqlxDB, err := db.SQLX(gdb)
	if err != nil {
		log.Fatalf("sqlx: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	uc := usecase.NewUsecase(
		mysql.NewRepos(gdb),
		mysql.NewGormUoW(gdb),
		mysql.NewStatsReader(sqlxDB),
		usecase.WithStatsCache(cache.NewStatsCache(rdb, cfg.StatsCacheTTL())),
	)

	e := httpadp.NewEcho()
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		middleware.Logger(),
		middleware.Recover(),
	)
	httpadp.Register(e, httpadp.Routes{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "mysql", Probe: sqlxDB.PingContext},
			httpadp.Check{Name: "redis", Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		LoanRequests:   httpadp.NewLoanRequestHandler(uc),
		Books:          httpadp.NewBookHandler(uc),
		JWTSecret:      []byte(cfg.JWTSecret),
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go worker.NewOverdueNotifier(uc, cfg.OverdueSweepInterval, cfg.OverdueSweepBatch).Run(ctx)

	addr := ":" + cfg.AppPort
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
