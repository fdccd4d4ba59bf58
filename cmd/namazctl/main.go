package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/SyedMHaroon/NamazBot/internal/app"
	"github.com/SyedMHaroon/NamazBot/internal/cli"
	"github.com/SyedMHaroon/NamazBot/internal/config"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/logging"
)

func main() {
	_ = godotenv.Load()
	if err := cli.Run(os.Args[1:], newEnv, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func newEnv(path string) (*cli.Env, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &cli.Env{
		Subscriptions: c.Subscriptions,
		Tokens:        c.TokenSvc,
		Jobs:          c.Scheduler,
		Close: func() {
			_ = c.Close()
			_ = logger.Sync()
		},
	}, nil
}
