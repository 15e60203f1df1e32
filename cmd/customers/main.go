package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-crm-records.git/internal/config"
	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-crm-records.git/internal/kafka"
	"github.com/ariefcatur/go-crm-records.git/internal/postgres"
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
	db, err := postgres.Connect(ctx, cfg.CustomersDSN, cfg.PoolMinConns, cfg.PoolMaxConns)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// schema bootstrap before accepting calls
	if err := crm.EnsureCustomerSchema(ctx, db); err != nil {
		logger.Fatal("schema bootstrap", zap.Error(err))
	}

	// split mode: deletions are announced so the order service can reconcile
	var prod *kafkax.Producer
	if mode == crm.ModeSplit && len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, crm.TopicCustomerDeleted, 1024, logger)
		prod.Start(ctx)
	}

	h := &httpx.CustomersHandler{
		Store:    &crm.CustomerRepo{DB: db},
		Producer: prod,
		Service:  cfg.ServiceName + "-customers",
		Log:      logger,
	}
	router := httpx.NewRouter(cfg.MaxInflight, logger)
	h.Register(router)

	srv := &http.Server{Addr: cfg.CustomersAddr, Handler: router}

	go func() {
		logger.Info("customer service listening",
			zap.String("addr", cfg.CustomersAddr),
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
	if prod != nil {
		prod.Close() // close inbox -> flush & close writer
		cancel()
		prod.WaitClosed()
	}
}
