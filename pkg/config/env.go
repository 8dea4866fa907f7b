package config

// EnvPrefix is passed to envconfig; individual fields carry their full
// variable names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv             = "SHEETBOOKS_APP_ENV"
	EnvAppPort            = "SHEETBOOKS_APP_PORT"
	EnvSheetsInvoiceTab   = "SHEETBOOKS_SHEETS_INVOICE_TAB"
	EnvSheetsQuotationTab = "SHEETBOOKS_SHEETS_QUOTATION_TAB"
)
