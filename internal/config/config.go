package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/patterns"
)

// Config holds the storefront service settings
type Config struct {
	Port     string
	LogLevel string

	// GinMode is handed to gin.SetMode; release unless GIN_MODE says otherwise.
	GinMode string

	CrossmintAPIKey  string
	CrossmintBaseURL string
	// InsecureSkipVerify disables TLS certificate checks on provider calls.
	// It is only ever enabled explicitly.
	InsecureSkipVerify bool

	SearchAPIURL string
	SearchAPIKey string
	SearchEngine string
	AmazonDomain string
	// AllowSupplementaryPricePer keeps keyword results whose price_per
	// metadata does not name a weight unit.
	AllowSupplementaryPricePer bool

	UpstreamTimeout       time.Duration
	UpstreamMaxConcurrent int

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint string
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		GinMode:  getGinMode("GIN_MODE", gin.ReleaseMode),

		CrossmintAPIKey:    os.Getenv("CROSSMINT_API_KEY"),
		CrossmintBaseURL:   strings.TrimSuffix(getEnv("CROSSMINT_BASE_URL", "https://staging.crossmint.com"), "/"),
		InsecureSkipVerify: getBool("CROSSMINT_INSECURE_SKIP_VERIFY", false),

		SearchAPIURL:               getEnv("SEARCH_API_URL", "https://serpapi.com/search.json"),
		SearchAPIKey:               os.Getenv("SEARCH_API_KEY"),
		SearchEngine:               getEnv("SEARCH_ENGINE", "amazon_product"),
		AmazonDomain:               getEnv("AMAZON_DOMAIN", "amazon.com"),
		AllowSupplementaryPricePer: getBool("SEARCH_ALLOW_SUPPLEMENTARY_PRICE_PER", false),

		UpstreamTimeout:       getDuration("UPSTREAM_TIMEOUT", patterns.DefaultTimeout),
		UpstreamMaxConcurrent: getInt("UPSTREAM_MAX_CONCURRENT", 10),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order.created"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": value}).Warn("Invalid boolean, using default")
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.WithFields(log.Fields{"key": key, "value": value}).Warn("Invalid integer, using default")
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.WithFields(log.Fields{"key": key, "value": value}).Warn("Invalid duration, using default")
		return fallback
	}
	return d
}

// getGinMode accepts only the modes gin.SetMode understands.
func getGinMode(key, fallback string) string {
	value := getEnv(key, fallback)
	switch value {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return value
	}
	log.WithFields(log.Fields{"key": key, "value": value}).Warn("Invalid gin mode, using default")
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
