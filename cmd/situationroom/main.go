package main

import (
	"context"
	"errors"
	"log"
	"os"

	"situationroom/internal/app"
	"situationroom/internal/config"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Config   string `short:"c" long:"config" env:"SITUATIONROOM_CONFIG" description:"Path to JSON or YAML config file (built-in defaults when empty)"`
	Address  string `long:"address" env:"SITUATIONROOM_ADDRESS" description:"HTTP listen address, overrides server.address"`
	LogLevel string `long:"log-level" env:"SITUATIONROOM_LOG_LEVEL" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level, overrides logger.level"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: could not init app: %v", err)
	}
	if err := application.Run(context.Background()); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.New()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.Address != "" {
		cfg.Server.Address = opts.Address
	}
	if opts.LogLevel != "" {
		cfg.Logger.Level = opts.LogLevel
	}
	return cfg, nil
}
