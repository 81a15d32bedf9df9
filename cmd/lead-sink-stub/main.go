// cmd/lead-sink-stub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"inverter-savings/internal/common/config"
	"inverter-savings/internal/common/database"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/sinkstub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "lead-sink-stub"})

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis config invalid", zap.Error(err))
	}
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = rdb.Ping(pingCtx)
	cancel()
	if err != nil {
		zapLog.Fatal("redis unreachable", zap.Error(err))
	}

	store := sinkstub.NewRedisStore(rdb.GetClient(), time.Duration(cfg.Server.StubTTL)*time.Second)
	server := &http.Server{
		Addr:              cfg.Server.StubAddress,
		Handler:           sinkstub.NewServer(store, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("lead sink stub listening", map[string]interface{}{"address": cfg.Server.StubAddress})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("lead sink stub failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping lead sink stub", map[string]interface{}{"error": err})
	}
	log.Info("lead sink stub stopped", nil)
}
