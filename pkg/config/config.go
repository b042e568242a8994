package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SourceGA4      = "ga4"
	SourceBigQuery = "bigquery"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	GA4       GA4Config
	GCP       GCPConfig
	BigQuery  BigQueryConfig
	Ingest    IngestConfig
	Anthropic AnthropicConfig
	Report    ReportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Ingest.validateSource(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LANDING_APP_ENV" required:"true"`
	Port         string `envconfig:"LANDING_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LANDING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LANDING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"LANDING_REDIS_URL"`
	Address      string        `envconfig:"LANDING_REDIS_ADDR"`
	Password     string        `envconfig:"LANDING_REDIS_PASSWORD"`
	DB           int           `envconfig:"LANDING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LANDING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LANDING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LANDING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LANDING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LANDING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// GA4Config points the ingestion layer at one GA4 property. Credentials are
// passed through to the Google client untouched.
type GA4Config struct {
	PropertyID             string `envconfig:"LANDING_GA4_PROPERTY_ID" required:"true"`
	CredentialsJSON        string `envconfig:"LANDING_GA4_CREDENTIALS_JSON"`
	CredentialsFile        string `envconfig:"LANDING_GA4_CREDENTIALS_FILE"`
	UseDefaultCredentials  bool   `envconfig:"LANDING_GA4_USE_DEFAULT_CREDENTIALS" default:"true"`
	DateRangeDays          int    `envconfig:"LANDING_GA4_DATE_RANGE_DAYS" default:"90"`
	RowLimit               int    `envconfig:"LANDING_GA4_ROW_LIMIT" default:"1000000"`
	Timezone               string `envconfig:"LANDING_GA4_TIMEZONE" default:"Europe/Rome"`
	DimensionListDays      int    `envconfig:"LANDING_GA4_DIMENSION_LIST_DAYS" default:"90"`
	DimensionListRowLimit  int64  `envconfig:"LANDING_GA4_DIMENSION_LIST_ROW_LIMIT" default:"10000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LANDING_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LANDING_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LANDING_GOOGLE_APPLICATION_CREDENTIALS"`
}

// BigQueryConfig targets the GA4 export dataset used by the alternate
// ingestion source.
type BigQueryConfig struct {
	Dataset     string `envconfig:"LANDING_BIGQUERY_DATASET" default:"analytics_export"`
	EventsTable string `envconfig:"LANDING_BIGQUERY_EVENTS_TABLE" default:"events_*"`
}

type IngestConfig struct {
	Source   string        `envconfig:"LANDING_INGEST_SOURCE" default:"ga4"`
	CacheTTL time.Duration `envconfig:"LANDING_INGEST_CACHE_TTL" default:"1h"`
}

func (i IngestConfig) validateSource() error {
	switch strings.ToLower(strings.TrimSpace(i.Source)) {
	case SourceGA4, SourceBigQuery:
		return nil
	default:
		return fmt.Errorf("unknown ingest source %q", i.Source)
	}
}

// NormalizedSource returns the lowercase source identifier.
func (i IngestConfig) NormalizedSource() string {
	return strings.ToLower(strings.TrimSpace(i.Source))
}

type AnthropicConfig struct {
	APIKey    string `envconfig:"LANDING_ANTHROPIC_API_KEY"`
	Model     string `envconfig:"LANDING_ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514"`
	MaxTokens int    `envconfig:"LANDING_ANTHROPIC_MAX_TOKENS" default:"2048"`
}

type ReportConfig struct {
	SessionTTL time.Duration `envconfig:"LANDING_REPORT_SESSION_TTL" default:"12h"`
}
