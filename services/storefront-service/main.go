package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/api"
	"github.com/ashendes/crypto-storefront/internal/checkout"
	"github.com/ashendes/crypto-storefront/internal/config"
	"github.com/ashendes/crypto-storefront/internal/events"
	"github.com/ashendes/crypto-storefront/internal/pricing"
	"github.com/ashendes/crypto-storefront/internal/search"
	"github.com/ashendes/crypto-storefront/internal/telemetry"
)

func init() {
	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	gin.SetMode(cfg.GinMode)

	shutdownTracer, err := telemetry.InitTracer(context.Background(), api.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("Failed to initialize tracing: ", err)
	}

	checkoutClient := checkout.NewClient(checkout.ClientConfig{
		BaseURL:            cfg.CrossmintBaseURL,
		APIKey:             cfg.CrossmintAPIKey,
		Timeout:            cfg.UpstreamTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		MaxConcurrent:      cfg.UpstreamMaxConcurrent,
		Service:            api.ServiceName,
	})
	if !checkoutClient.Configured() {
		log.Warn("CROSSMINT_API_KEY not set, checkout requests will fail")
	}

	searchClient := search.NewClient(search.ClientConfig{
		URL:           cfg.SearchAPIURL,
		APIKey:        cfg.SearchAPIKey,
		Engine:        cfg.SearchEngine,
		Timeout:       cfg.UpstreamTimeout,
		MaxConcurrent: cfg.UpstreamMaxConcurrent,
		Service:       api.ServiceName,
	})
	searchService := search.NewService(searchClient, cfg.AmazonDomain, pricing.Options{
		AllowSupplementaryPricePer: cfg.AllowSupplementaryPricePer,
	})

	dispatcher := events.NewDispatcher(events.New(cfg.KafkaBrokers, cfg.KafkaTopic), events.DefaultPublishTimeout)

	router := api.NewRouter(api.Dependencies{
		Checkout: checkoutClient,
		Search:   searchService,
		Events:   dispatcher,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":          cfg.Port,
			"checkout_url":  cfg.CrossmintBaseURL,
			"search_url":    cfg.SearchAPIURL,
			"amazon_domain": cfg.AmazonDomain,
			"kafka_brokers": cfg.KafkaBrokers,
		}).Info("Storefront Service starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if err := dispatcher.Close(); err != nil {
		log.WithError(err).Error("Failed to close event publisher")
	}
	if err := shutdownTracer(ctx); err != nil {
		log.WithError(err).Error("Failed to flush traces")
	}

	log.Info("Server exited")
}
