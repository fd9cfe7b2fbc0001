package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store_manager/internal/config"
	"github.com/Skotchmaster/store_manager/internal/events"
	"github.com/Skotchmaster/store_manager/internal/httpserver"
	"github.com/Skotchmaster/store_manager/internal/mirror"
	"github.com/Skotchmaster/store_manager/internal/repo"
	"github.com/Skotchmaster/store_manager/internal/service"
	"github.com/Skotchmaster/store_manager/pkg/cache"
	pkgdb "github.com/Skotchmaster/store_manager/pkg/db"
	"github.com/Skotchmaster/store_manager/pkg/logging"
	loggingmw "github.com/Skotchmaster/store_manager/pkg/middleware/logging"
)

type publisher interface {
	service.Publisher
	Close() error
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	rdb, err := cache.Open(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	cancel()
	if err != nil {
		log.Fatalf("redis open: %v", err)
	}

	var pub publisher = events.Noop{}
	if cfg.EventsEnabled() {
		pub = events.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
	}

	store := &repo.GormRepo{DB: db}
	mir := mirror.NewRedisMirror(rdb)
	queries := &service.OrderQueries{Store: store, Mirror: mir}
	syncer := &service.Syncer{Store: store, Mirror: mir}

	if cfg.SyncOnStart {
		syncCtx, syncCancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), time.Minute)
		res, err := syncer.Sync(syncCtx)
		syncCancel()
		if err != nil {
			logger.Warn("startup_sync_failed", "error", err)
		} else {
			logger.Info("startup_sync_done", "status", res.Status, "count", res.Count)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{
			Orders:  &service.OrderService{Store: store, Mirror: mir, Publisher: pub},
			Queries: queries,
			Syncer:  syncer,
		},
		ReportHandler: &httpserver.ReportHTTP{
			Reports: &service.Reports{Queries: queries, Catalog: store},
		},
		HealthHandler: &httpserver.HealthHTTP{Checks: []httpserver.ReadyCheck{
			{Name: "db", Check: func(ctx context.Context) error { return pkgdb.Ping(ctx, db) }},
			{Name: "redis", Check: mir.Ping},
		}},
		JWTSecret: cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("orders listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	shutdown(db, rdb, pub)

	log.Println("orders stopped")
}

func shutdown(db *gorm.DB, rdb interface{ Close() error }, pub publisher) {
	if err := pub.Close(); err != nil {
		log.Printf("event producer close: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if err := pkgdb.Close(db); err != nil {
		log.Printf("db close: %v", err)
	}
}
