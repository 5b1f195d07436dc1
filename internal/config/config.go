package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Imagery catalog endpoints
	StacURL    string `envconfig:"STAC_URL" default:"https://landsatlook.usgs.gov/stac-server"`
	PlanURL    string `envconfig:"PLAN_URL"`
	PlanAPIKey string `envconfig:"PLAN_API_KEY"`
	Collection string `envconfig:"COLLECTION" default:"landsat-c2l2-sr"`

	Satellites []string `envconfig:"SATELLITES" default:"Landsat-8,Landsat-9"`

	SearchDelta    float64       `envconfig:"SEARCH_DELTA" default:"0.04"`
	ResultTTL      time.Duration `envconfig:"RESULT_TTL" default:"120s"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	CrawlInterval  time.Duration `envconfig:"CRAWL_INTERVAL" default:"3h"`
	CrawlMaxDays   int           `envconfig:"CRAWL_MAX_DAYS" default:"100"`
	CatalogTimeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"30s"`

	// Scene archive access; the assets endpoint stays disabled while
	// the credentials are unset
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"usgs-landsat"`
	S3Region    string `envconfig:"S3_REGION" default:"us-west-2"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LANDSET", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasPlanAPI() bool {
	return c.PlanURL != ""
}
