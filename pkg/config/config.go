package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	Sheets SheetsConfig
	Ledger LedgerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Sheets.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHEETBOOKS_APP_ENV" required:"true"`
	Port         string `envconfig:"SHEETBOOKS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHEETBOOKS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHEETBOOKS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServerConfig struct {
	ReadTimeout     time.Duration `envconfig:"SHEETBOOKS_SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SHEETBOOKS_SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHEETBOOKS_SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type SheetsConfig struct {
	InvoiceTab   string `envconfig:"SHEETBOOKS_SHEETS_INVOICE_TAB" default:"Invoices"`
	QuotationTab string `envconfig:"SHEETBOOKS_SHEETS_QUOTATION_TAB" default:"Quotations"`
}

func (s SheetsConfig) validate() error {
	if strings.TrimSpace(s.InvoiceTab) == "" {
		return fmt.Errorf("%s must not be blank", EnvSheetsInvoiceTab)
	}
	if strings.TrimSpace(s.QuotationTab) == "" {
		return fmt.Errorf("%s must not be blank", EnvSheetsQuotationTab)
	}
	return nil
}

type LedgerConfig struct {
	InvoiceIDPrefix   string `envconfig:"SHEETBOOKS_LEDGER_INVOICE_ID_PREFIX" default:"INV"`
	QuotationIDPrefix string `envconfig:"SHEETBOOKS_LEDGER_QUOTATION_ID_PREFIX" default:"QUO"`
}
