package core

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

type ExportReport struct {
	Pages   []string
	Assets  []string
	Skipped []string
}

// rootFiles are copied next to the exported pages as well as under static/.
var rootFiles = map[string]bool{"favicon.ico": true, "robots.txt": true}

// ExportSite renders every static route in prod mode into config.OutputDir
// and copies the public assets beside them. The greeting endpoint is not
// part of the export; pages call whatever NEXT_PUBLIC_API_BASE_URL names.
func ExportSite(config *Config, logger zerolog.Logger) (*ExportReport, error) {
	router := NewPageRouter(config, RuntimeContext{Env: "prod", Logger: logger})
	report := &ExportReport{}

	for _, route := range router.Routes() {
		if route.Dynamic() {
			report.Skipped = append(report.Skipped, route.HTMLPath)
			continue
		}

		html, err := router.Render(route, map[string]string{})
		if err != nil {
			return report, fmt.Errorf("export %s: %w", route.HTMLPath, err)
		}
		if err := SaveCachedHTML(config, route.Key, html); err != nil {
			return report, fmt.Errorf("write %s: %w", route.HTMLPath, err)
		}
		report.Pages = append(report.Pages, "/"+route.Key)
	}

	public := router.assets.Public()
	err := fs.WalkDir(public, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		content, err := fs.ReadFile(public, p)
		if err != nil {
			return err
		}

		dst := filepath.Join(config.OutputDir, "static", filepath.FromSlash(p))
		if err := writeWithGzip(dst, content); err != nil {
			return err
		}
		report.Assets = append(report.Assets, "/static/"+p)

		if rootFiles[path.Base(p)] && path.Dir(p) == "." {
			if err := writeWithGzip(filepath.Join(config.OutputDir, p), content); err != nil {
				return err
			}
		}

		if minified := router.assets.Minify("/static/" + p); minified != "/static/"+p {
			report.Assets = append(report.Assets, minified)
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("export assets: %w", err)
	}

	logger.Info().
		Int("pages", len(report.Pages)).
		Int("assets", len(report.Assets)).
		Str("outputDir", config.OutputDir).
		Msg("site exported")

	return report, nil
}
