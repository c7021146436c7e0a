package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/simulator"
)

func init() {
	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	port := getEnv("PORT", "8090")
	gin.SetMode(getEnv("GIN_MODE", gin.ReleaseMode))

	sim := simulator.New(simulator.Config{
		CheckoutAPIKey: os.Getenv("CROSSMINT_API_KEY"),
		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
	})

	sim.Chaos().SetDelayRange(
		getDuration("SLOW_MODE_MIN_DELAY", 5*time.Second),
		getDuration("SLOW_MODE_MAX_DELAY", 10*time.Second),
	)

	log.WithFields(log.Fields{
		"port":        port,
		"search_path": simulator.SearchPath,
	}).Info("Provider Simulator starting")

	if err := sim.Router().Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.WithField(key, value).Warn("Invalid duration, using default")
		return fallback
	}
	return d
}
