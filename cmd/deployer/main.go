package main

import (
	"context"
	"errors"
	"flag"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"go.uber.org/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/panoptes-survey/gce-deployer/internal/deploy"
	"github.com/panoptes-survey/gce-deployer/internal/gcloud"
	"github.com/panoptes-survey/gce-deployer/internal/logtail"
)

func getConfigProvider(configDir string) config.Provider {
	files, err := ioutil.ReadDir(configDir)
	if err != nil {
		log.Fatalln(err)
	}

	var filenames []string
	for _, file := range files {
		filenames = append(filenames, path.Join(configDir, file.Name()))
	}

	provider, err := config.NewYAMLProviderWithExpand(os.LookupEnv, filenames...)
	if err != nil {
		log.Fatalln(err)
	}
	return provider
}

func newLogger(json bool) *zap.SugaredLogger {
	level := zap.NewAtomicLevel()
	level.SetLevel(zapcore.InfoLevel)

	zapConfig := zap.Config{
		Level: level,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "msg",
			TimeKey:     "time",
			EncodeTime:  zapcore.ISO8601TimeEncoder,
			LevelKey:    "level",
			EncodeLevel: zapcore.CapitalLevelEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stdout"},
	}
	if json {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
	}

	l, err := zapConfig.Build()
	if err != nil {
		panic(err)
	}
	return l.Sugar()
}

func main() {
	var configDir string
	var dryRun bool
	var json bool
	var tail bool
	var skipVerify bool
	var tailInterval time.Duration

	flag.StringVar(&configDir, "config", "", "config directory (empty = authored defaults)")
	flag.BoolVar(&dryRun, "dry-run", false, "print the composed deploy command without running it")
	flag.BoolVar(&json, "json", false, "enable JSON log format")
	flag.BoolVar(&tail, "tail", false, "follow the function log after a successful deploy")
	flag.BoolVar(&skipVerify, "skip-verify", false, "skip the post-deploy describe call")
	flag.DurationVar(&tailInterval, "tail-interval", 2*time.Second, "log poll interval when tailing")
	// convert Environment Variables to flags
	flag.VisitAll(func(f *flag.Flag) {
		name := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if s := os.Getenv("DEPLOYER_" + name); s != "" {
			f.Value.Set(s)
		}
	})
	flag.Parse()

	logger := newLogger(json)
	defer logger.Sync()

	cfg := deploy.DefaultConfig()
	if configDir != "" {
		provider := getConfigProvider(configDir)
		if err := provider.Get("deployer").Populate(&cfg); err != nil {
			log.Fatalln(err)
		}
	}

	cli := gcloud.CLI{
		Binary:  cfg.GcloudPath,
		Project: cfg.Project,
		Region:  cfg.Region,
	}

	deployer := &deploy.Deployer{
		Runner: cli,
		Logger: logger,
		DryRun: dryRun,
		Verify: !skipVerify,
	}

	ctx := context.Background()

	code, err := deployer.Deploy(ctx, cfg.Function)
	if err != nil {
		logger.Errorw("deploy aborted", "error", err)
	}
	if code != 0 {
		logger.Sync()
		os.Exit(code)
	}

	if tail && !dryRun {
		tailCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
		defer cancel()

		t := logtail.New(cli, logger, cfg.Function.Name, tailInterval)
		if err := t.Tail(tailCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatalf("log tail stopped, %s", err)
		}
	}
}
