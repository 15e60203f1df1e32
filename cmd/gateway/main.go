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
	"github.com/ariefcatur/go-crm-records.git/internal/crmclient"
	"github.com/ariefcatur/go-crm-records.git/internal/gateway"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	h := &gateway.Handler{
		Customers: crmclient.NewCustomerClient(cfg.CustomersURL),
		Orders:    crmclient.NewOrderClient(cfg.OrdersURL),
		Auth:      &gateway.Auth{Secret: []byte(cfg.JWTSecret), TTL: 30 * time.Minute},
		Log:       logger,
	}

	router := httpx.NewRouter(0, logger)
	h.Register(router)

	srv := &http.Server{Addr: cfg.GatewayAddr, Handler: router}

	go func() {
		logger.Info("gateway listening", zap.String("addr", cfg.GatewayAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
