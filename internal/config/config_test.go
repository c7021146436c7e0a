package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "CROSSMINT_API_KEY", "CROSSMINT_BASE_URL", "CROSSMINT_INSECURE_SKIP_VERIFY",
		"SEARCH_API_URL", "SEARCH_API_KEY", "UPSTREAM_TIMEOUT", "UPSTREAM_MAX_CONCURRENT", "KAFKA_BROKERS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "", cfg.CrossmintAPIKey)
	assert.Equal(t, "https://staging.crossmint.com", cfg.CrossmintBaseURL)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "amazon_product", cfg.SearchEngine)
	assert.Equal(t, "amazon.com", cfg.AmazonDomain)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 10, cfg.UpstreamMaxConcurrent)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "order.created", cfg.KafkaTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("CROSSMINT_API_KEY", "sk_test")
	t.Setenv("CROSSMINT_BASE_URL", "https://www.crossmint.com/")
	t.Setenv("CROSSMINT_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("SEARCH_ALLOW_SUPPLEMENTARY_PRICE_PER", "1")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("UPSTREAM_MAX_CONCURRENT", "3")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "sk_test", cfg.CrossmintAPIKey)
	assert.Equal(t, "https://www.crossmint.com", cfg.CrossmintBaseURL)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.True(t, cfg.AllowSupplementaryPricePer)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 3, cfg.UpstreamMaxConcurrent)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CROSSMINT_INSECURE_SKIP_VERIFY", "maybe")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("UPSTREAM_MAX_CONCURRENT", "-2")
	t.Setenv("GIN_MODE", "verbose")

	cfg := Load()
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 10, cfg.UpstreamMaxConcurrent)
	assert.Equal(t, "release", cfg.GinMode)
}
