package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sheetbooks/sheetbooks-backend/api/routes"
	"github.com/sheetbooks/sheetbooks-backend/internal/ledger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/config"
	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
	"github.com/sheetbooks/sheetbooks-backend/pkg/logger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/metrics"
	"github.com/sheetbooks/sheetbooks-backend/pkg/sheets"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	stores := ledger.StoreFactory(func(ctx context.Context, accessToken string) (ledger.Store, error) {
		client, err := sheets.NewClient(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	invoiceService, err := ledger.NewService(ledger.ServiceParams{
		Stores:          stores,
		Kind:            enums.RecordKindInvoice,
		DefaultTabTitle: cfg.Sheets.InvoiceTab,
		IDPrefix:        cfg.Ledger.InvoiceIDPrefix,
		Logger:          logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	quotationService, err := ledger.NewService(ledger.ServiceParams{
		Stores:          stores,
		Kind:            enums.RecordKindQuotation,
		DefaultTabTitle: cfg.Sheets.QuotationTab,
		IDPrefix:        cfg.Ledger.QuotationIDPrefix,
		Logger:          logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quotation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, httpMetrics, registry, invoiceService, quotationService),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
