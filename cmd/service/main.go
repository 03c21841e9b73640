package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mygymhq/adminboard/internal"
	"github.com/mygymhq/adminboard/internal/config"
	"github.com/mygymhq/adminboard/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "admin-backend",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	mongoURI := os.Getenv("MYGYM_MONGO_URI")
	if mongoURI == "" {
		log.Fatalf("mongo URI not set, use MYGYM_MONGO_URI env var to set it")
	}

	redisPassword := os.Getenv("MYGYM_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use MYGYM_REDIS_PASS")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	versionInfo := os.Getenv("MYGYM_VERSION_INFO")
	if versionInfo == "" {
		versionInfo = "unknown"
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:         cfg,
		MongoURI:       mongoURI,
		RedisPassword:  redisPassword,
		VersionInfo:    versionInfo,
		TracingEnabled: honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("create server: %s", err)
	}

	go server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received ...", receivedSig)

	cancel()
	server.GracefulShutdown()
}
