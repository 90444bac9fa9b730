package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/boostday/boostday/client"
	"github.com/boostday/boostday/core"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print resolved configuration, site structure and cache summary",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := loadConfig(c)

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println()

		fmt.Println("🌐 Allowed Origins:", describeOrigins(core.ParseCORSPolicy(config.AllowedOrigins)))
		fmt.Println("🖥️  Hostname:", config.ResolveHostname())
		fmt.Println("🏷️  Environment:", config.EnvLabel(""))
		fmt.Println("🔖 Commit:", config.CommitLabel())
		fmt.Println("🔗 API Endpoint:", client.PageEndpoint(config.APIBaseURL, config.BasePath))
		if config.BasePath != "" {
			fmt.Println("📍 Base Path:", config.BasePath)
		}
		fmt.Println()

		site := core.SiteFS(config)
		source := "embedded starter"
		if config.SiteDir != "" {
			source = config.SiteDir
		}

		componentCount := 0
		routeCount := 0
		fs.WalkDir(site, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			switch {
			case !d.IsDir() && strings.HasPrefix(p, "components/") && strings.HasSuffix(p, ".html"):
				componentCount++
			case d.IsDir() && (p == "routes" || strings.HasPrefix(p, "routes/")):
				if _, err := fs.Stat(site, path.Join(p, "index.html")); err == nil {
					routeCount++
				}
			}
			return nil
		})

		cacheCount := 0
		filepath.Walk(config.OutputDir, func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(p, ".html") {
				cacheCount++
			}
			return nil
		})

		fmt.Println("🧩 Site:", source)
		fmt.Println("🗂️  Routes Found:", routeCount)
		fmt.Println("📦 Components Found:", componentCount)
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}

func describeOrigins(policy core.CORSPolicy) string {
	if policy.AllowsAll() {
		return "* (any origin)"
	}
	origins := policy.Origins()
	if len(origins) == 0 {
		return "(none)"
	}
	sort.Strings(origins)
	return strings.Join(origins, ", ")
}
