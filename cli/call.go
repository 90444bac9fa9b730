package cli

import (
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/boostday/boostday/client"
)

// newProgram is swapped out in tests.
var newProgram = func(m tea.Model) interface{ Run() (tea.Model, error) } {
	return tea.NewProgram(m)
}

var CallCommand = &cli.Command{
	Name:  "call",
	Usage: "Call the greeting endpoint the way the home page button does",
	Flags: []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:  "url",
			Usage: "origin of the running site, used when no API base URL is configured",
			Value: fmt.Sprintf("http://localhost:%d", defaultPort),
		},
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "open the interactive caller",
		},
	},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)

		caller := &client.Caller{
			BaseURL:    config.APIBaseURL,
			Origin:     c.String("url"),
			BasePath:   config.BasePath,
			HTTPClient: &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		}

		if c.Bool("tui") {
			model := client.NewModel(c.Context, caller, config.EnvLabel(""), config.CommitLabel())
			if _, err := newProgram(model).Run(); err != nil {
				return fmt.Errorf("caller UI: %w", err)
			}
			return nil
		}

		state := &client.State{}
		start := time.Now()
		caller.Run(c.Context, state)
		snap := state.Snapshot()

		fmt.Println("API response:", snap.Message)
		if snap.Details != "" {
			fmt.Println("Details:", snap.Details)
		}
		fmt.Printf("(%s in %s)\n", snap.Phase, time.Since(start).Round(time.Millisecond))

		if snap.Phase == client.Failed {
			return cli.Exit("", 1)
		}
		return nil
	},
}
