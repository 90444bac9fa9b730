package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	clilib "github.com/urfave/cli/v2"

	boostdaycli "github.com/boostday/boostday/cli"
)

func newApp() *clilib.App {
	return &clilib.App{
		Name:  "boostday",
		Usage: "AI Boost Day demo site and greeting API",
		Flags: []clilib.Flag{
			&clilib.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
		Before: func(c *clilib.Context) error {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return fmt.Errorf("failed to parse log level: %w", err)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
			return nil
		},
		Commands: []*clilib.Command{
			boostdaycli.DevCommand,
			boostdaycli.ProdCommand,
			boostdaycli.ExportCommand,
			boostdaycli.CallCommand,
			boostdaycli.CleanCommand,
			boostdaycli.CheckCommand,
			boostdaycli.InfoCommand,
		},
	}
}

func runApp(args []string) error {
	return newApp().Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal().Err(err).Msg("boostday failed")
	}
}
