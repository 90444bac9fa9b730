package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/boostday/boostday/core"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every route with its layout and components",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		router := core.NewPageRouter(config, core.RuntimeContext{Env: "dev", Logger: zerolog.Nop()})

		routes := router.Routes()
		if len(routes) == 0 {
			return cli.Exit("no routes found", 1)
		}

		var failed bool
		for _, route := range routes {
			params := map[string]string{}
			for _, key := range route.ParamKeys {
				params[key] = "example"
			}

			if _, err := router.Render(route, params); err != nil {
				failed = true
				fmt.Printf("❌ /%s → %v\n", route.Key, err)
				continue
			}
			fmt.Printf("✅ /%s\n", route.Key)
		}

		if failed {
			return cli.Exit("some templates failed to render", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
