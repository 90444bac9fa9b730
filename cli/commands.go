package cli

import (
	"github.com/boostday/boostday"
	"github.com/boostday/boostday/core"

	"github.com/urfave/cli/v2"
)

const defaultPort = 8080

func portFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "port to listen on",
		Value:   defaultPort,
		EnvVars: []string{"PORT"},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "path to the config file",
		Value: core.DefaultConfigFile,
	}
}

func loadConfig(c *cli.Context) *core.Config {
	path := c.String("config")
	if path == "" {
		path = core.DefaultConfigFile
	}
	return core.LoadConfig(path)
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start in dev mode (no caching, live reload)",
	Flags: []cli.Flag{portFlag(), configFlag()},
	Action: func(c *cli.Context) error {
		boostday.Start(boostday.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
			LogLevel:    c.String("log-level"),
		})
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start in production mode (page cache and minified assets)",
	Flags: []cli.Flag{portFlag(), configFlag()},
	Action: func(c *cli.Context) error {
		boostday.Start(boostday.RuntimeConfig{
			Env:         "prod",
			EnableCache: true,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
			LogLevel:    c.String("log-level"),
		})
		return nil
	},
}
