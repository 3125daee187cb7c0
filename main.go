package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	qhttp "titanicpredict/http"
	"titanicpredict/logging"
	"titanicpredict/monitoring"
	"titanicpredict/predictor"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		MaxBodyBytes   int64    `yaml:"max_body_bytes"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log   logging.Config `yaml:"log"`
	Model struct {
		Type string `yaml:"type"`
		Path string `yaml:"path"`
	} `yaml:"model"`
	Predictor struct {
		CacheSize int `yaml:"cache_size"`
	} `yaml:"predictor"`
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Build logger
	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	metrics := monitoring.NewCollector()

	// 3. Load the model. Without a model the service must not serve, so a
	// missing or corrupt artifact is fatal before the listener starts.
	pred, err := predictor.New(predictor.Config{
		ModelType: config.Model.Type,
		ModelPath: config.Model.Path,
		CacheSize: config.Predictor.CacheSize,
	}, metrics, logger)
	if err != nil {
		logger.Fatal("failed to load model", zap.Error(err))
	}

	// 4. Start HTTP server
	handlers := qhttp.NewHandlers(pred, metrics, logger)
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        time.Duration(config.Http.TimeoutSeconds) * time.Second,
		MaxBodyBytes:   config.Http.MaxBodyBytes,
		AllowedOrigins: config.Http.AllowedOrigins,
	}, handlers, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
