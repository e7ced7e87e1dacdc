package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default upstream endpoints. Both can be overridden for local development
// against cmd/mockacn or a fixture server.
const (
	defaultACNBaseURL = "https://ev.caltech.edu/api/v1/sessions"
	defaultASRURL     = "https://data.4tu.nl/ndownloader/items/80ef3824-3f5d-4e45-8794-3b8791efbd13/versions/1"
	defaultASRMember  = "202410DatasetEVOfficeParking_v0.csv"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataDir     string
	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the metrics/health server
	HTTPTimeout time.Duration

	// ACN API connector.
	ACNBaseURL   string
	ACNTokenFile string
	ACNPageSize  int

	// 4TU archive connector.
	ASRURL           string
	ASRArchiveMember string

	// Kafka export sink.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	httpTimeoutStr := envOrDefault("HTTP_TIMEOUT", "60s")
	httpTimeout, err := time.ParseDuration(httpTimeoutStr)
	if err != nil || httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	pageSize, err := parsePageSize()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:     envOrDefault("DATA_DIR", "data"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		HTTPTimeout: httpTimeout,

		ACNBaseURL:   envOrDefault("ACN_API_URL", defaultACNBaseURL),
		ACNTokenFile: envOrDefault("ACN_TOKEN_FILE", ".acn_api_token"),
		ACNPageSize:  pageSize,

		ASRURL:           envOrDefault("ASR_URL", defaultASRURL),
		ASRArchiveMember: envOrDefault("ASR_ARCHIVE_MEMBER", defaultASRMember),

		KafkaBrokers:   brokers,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "ev-charging-sessions"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.ACNBaseURL == "" {
		return nil, errors.New("ACN_API_URL is required")
	}
	if cfg.ASRURL == "" {
		return nil, errors.New("ASR_URL is required")
	}
	if cfg.ASRArchiveMember == "" {
		return nil, errors.New("ASR_ARCHIVE_MEMBER is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// RawDir is where source-native raw accumulations live.
func (c *Config) RawDir() string { return filepath.Join(c.DataDir, "raw") }

// FormattedDir is where canonical-schema outputs live.
func (c *Config) FormattedDir() string { return filepath.Join(c.DataDir, "formatted") }

func parsePageSize() (int, error) {
	s := envOrDefault("ACN_PAGE_SIZE", "500")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("invalid ACN_PAGE_SIZE %q: must be an integer in [1,1000]", s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
