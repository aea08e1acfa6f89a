package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironpulse/recoverd/internal"
	"github.com/ironpulse/recoverd/internal/config"
	"github.com/ironpulse/recoverd/internal/logging"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type secrets struct {
	APIToken         string `env:"RECOVERD_API_TOKEN"`
	PostgresPassword string `env:"RECOVERD_POSTGRES_PASSWORD"`
	RedisPassword    string `env:"RECOVERD_REDIS_PASSWORD"`
	SentryDSN        string `env:"SENTRY_DSN"`
}

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

	ctx, cancel := context.WithCancel(context.Background())

	var s secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		log.Fatalf("process env secrets: %s", err)
	}
	if s.APIToken == "" {
		log.Errorf("api token not set, use RECOVERD_API_TOKEN env var to set it")
	}
	if s.RedisPassword == "" {
		log.Errorf("redis password not set, use RECOVERD_REDIS_PASSWORD env var to set it")
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        s.SentryDSN,
		SentryServerName: "recoverd-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:           cfg,
			APIToken:         s.APIToken,
			PostgresPassword: s.PostgresPassword,
			RedisPassword:    s.RedisPassword,
			VersionInfo:      versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
