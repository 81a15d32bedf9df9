// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"inverter-savings/internal/calculator"
	"inverter-savings/internal/common/aws"
	"inverter-savings/internal/common/camunda"
	"inverter-savings/internal/common/config"
	"inverter-savings/internal/common/database"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/observability"
	"inverter-savings/internal/common/zoho"
	"inverter-savings/internal/scoring"
	"inverter-savings/internal/submission"
	"inverter-savings/pkg/registry"

	sl "inverter-savings/internal/workers/leads/score-lead"
	sub "inverter-savings/internal/workers/leads/submit-lead"
	cs "inverter-savings/internal/workers/savings/calculate-savings"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": cfg.App.Name})

	log.Info("starting worker manager", map[string]interface{}{
		"environment":  cfg.App.Environment,
		"sinkProvider": cfg.Sink.Provider,
	})

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		log.Warn("otel metrics disabled", map[string]interface{}{"error": err})
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", nil)

	// --- Redis (submission gate) ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	log.Info("redis connected", nil)

	// --- Engine ---
	model, err := calculator.New(calculator.PolicyFromConfig(cfg.Policy), log)
	if err != nil {
		zapLog.Fatal("calculator policy rejected", zap.Error(err))
	}
	scorer, err := scoring.New(scoring.PolicyFromConfig(cfg.Policy.Scoring), log)
	if err != nil {
		zapLog.Fatal("scoring policy rejected", zap.Error(err))
	}

	coordinator := submission.NewCoordinator(submission.Config{Source: cfg.Sink.Source}, buildSink(cfg), scorer, log)
	gate := submission.NewGate(rdb.GetClient(), submission.DefaultGateTTL)

	var alerter sub.Alerter
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		alerter = aws.NewSalesAlerter(snsClient, cfg.Integrations.AWS.SNS.SalesTopicARN, log)
		log.Info("sales alerts enabled", map[string]interface{}{"topicArn": cfg.Integrations.AWS.SNS.SalesTopicARN})
	}

	// --- Workers ---
	var workers []*camunda.Worker
	client := zeebe.GetClient()

	csCfg := config.GetWorkerConfig(cfg, cs.TaskType)
	csHandlerCfg := cs.LoadConfig()
	csHandlerCfg.Timeout = config.GetDuration(csCfg.Timeout)
	workers = append(workers, camunda.StartWorker(client, cs.TaskType, csCfg,
		cs.NewHandler(csHandlerCfg, model, log), obs, log))

	slCfg := config.GetWorkerConfig(cfg, sl.TaskType)
	slHandlerCfg := sl.LoadConfig()
	slHandlerCfg.Timeout = config.GetDuration(slCfg.Timeout)
	workers = append(workers, camunda.StartWorker(client, sl.TaskType, slCfg,
		sl.NewHandler(slHandlerCfg, scorer, obs, log), obs, log))

	subCfg := config.GetWorkerConfig(cfg, sub.TaskType)
	subHandlerCfg := sub.LoadConfig()
	subHandlerCfg.Timeout = submitTimeout(config.GetDuration(subCfg.Timeout), config.GetDuration(cfg.Sink.Timeout))
	workers = append(workers, camunda.StartWorker(client, sub.TaskType, subCfg,
		sub.NewHandler(subHandlerCfg, coordinator, gate, alerter, log), obs, log))

	checkRegistry(cfg.App.RegistryPath, workers, log)

	// --- Health/Metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Server.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health server", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err})
	}
	if err := rdb.Close(); err != nil {
		log.Error("error closing redis", map[string]interface{}{"error": err})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping otel meter provider", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped gracefully", nil)
}

func buildSink(cfg *config.Config) submission.LeadSink {
	timeout := config.GetDuration(cfg.Sink.Timeout)
	if cfg.Sink.Provider == "zoho" {
		return zoho.NewCRMClient(cfg.Integrations.Zoho.APIKey, cfg.Integrations.Zoho.AuthToken).
			WithBaseURL(cfg.Integrations.Zoho.BaseURL).
			WithTimeout(timeout)
	}
	return submission.NewHTTPSink(cfg.Sink.BaseURL, timeout)
}

// submitTimeout keeps the job deadline above the sink timeout so a slow sink
// is reported as a sink timeout, not a cancelled job.
func submitTimeout(job, sink time.Duration) time.Duration {
	if floor := sink + 5*time.Second; job < floor {
		return floor
	}
	return job
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// checkRegistry warns about running workers the activity registry does not
// list as implemented. A missing registry is not fatal.
func checkRegistry(path string, workers []*camunda.Worker, log logger.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err == nil {
		err = reg.Validate()
	}
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{"path": path, "error": err})
		return
	}

	for _, w := range workers {
		if w == nil {
			continue
		}
		a, ok := reg.FindByTaskType(w.TaskType())
		if !ok {
			log.Warn("worker not in activity registry", map[string]interface{}{"taskType": w.TaskType()})
			continue
		}
		if a.ImplementationStatus != "completed" && a.ImplementationStatus != "verified" {
			log.Warn("worker registered as not yet implemented", map[string]interface{}{
				"taskType": w.TaskType(),
				"status":   a.ImplementationStatus,
			})
		}
	}
}
