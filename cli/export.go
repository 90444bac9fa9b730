package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/boostday/boostday/core"
)

var ExportCommand = &cli.Command{
	Name:  "export",
	Usage: "Render the site to static files in the output directory",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)

		fmt.Println("📦 Exporting to:", config.OutputDir)
		if config.BasePath != "" {
			fmt.Println("📍 Base path:", config.BasePath)
		}

		report, err := core.ExportSite(config, log.Logger)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		for _, page := range report.Pages {
			fmt.Println("📄", page)
		}
		for _, skipped := range report.Skipped {
			fmt.Println("⏭️  skipped dynamic route:", skipped)
		}
		fmt.Printf("✅ Exported %d pages and %d assets.\n", len(report.Pages), len(report.Assets))
		return nil
	},
}
