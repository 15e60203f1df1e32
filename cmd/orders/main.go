package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-crm-records.git/internal/config"
	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	"github.com/ariefcatur/go-crm-records.git/internal/crmclient"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-crm-records.git/internal/kafka"
	"github.com/ariefcatur/go-crm-records.git/internal/postgres"
	"github.com/ariefcatur/go-crm-records.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	mode, err := crm.ParseMode(cfg.Topology)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.OrdersDSN, cfg.PoolMinConns, cfg.PoolMaxConns)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// shared mode declares the customer FK here, so the customer service
	// must have bootstrapped its table first
	if err := crm.EnsureOrderSchema(ctx, db, mode); err != nil {
		logger.Fatal("schema bootstrap", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
	}

	repo := &crm.OrderRepo{DB: db}
	guard := &crm.Guard{Mode: mode, Orders: repo}
	if mode == crm.ModeSplit {
		guard.Directory = crmclient.NewCustomerClient(cfg.CustomersURL)
		guard.Redis = rdb
	}

	h := &httpx.OrdersHandler{Guard: guard, Store: repo, Log: logger}
	router := httpx.NewRouter(cfg.MaxInflight, logger)
	h.Register(router)

	// split mode: consume customer.deleted and drop orphaned orders
	if mode == crm.ModeSplit && len(cfg.KafkaBrokers) > 0 {
		rec := &crm.Reconciler{Orders: repo, Redis: rdb, Log: logger}
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ReconcilerGroup,
			crm.TopicCustomerDeleted, cfg.ReconcilerWorkers, logger)
		go func() {
			logger.Info("reconciler started",
				zap.String("group", cfg.ReconcilerGroup),
				zap.String("topic", crm.TopicCustomerDeleted),
				zap.Int("workers", cfg.ReconcilerWorkers),
			)
			if err := cons.Start(ctx, rec.HandleCustomerDeleted); err != nil {
				logger.Error("reconciler exit", zap.Error(err))
				cancel()
			}
		}()
	}

	srv := &http.Server{Addr: cfg.OrdersAddr, Handler: router}

	go func() {
		logger.Info("order service listening",
			zap.String("addr", cfg.OrdersAddr),
			zap.String("topology", string(mode)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()
	time.Sleep(500 * time.Millisecond) // let the consumer commit in-flight work
}
