package core

import (
	"os"
	"path/filepath"
)

func cachedPagePath(config *Config, routeKey string) string {
	return filepath.Join(config.OutputDir, filepath.FromSlash(routeKey), "index.html")
}

func GetCachedHTML(config *Config, routeKey string) ([]byte, bool) {
	content, err := os.ReadFile(cachedPagePath(config, routeKey))
	if err != nil {
		return nil, false
	}
	return content, true
}

// SaveCachedHTML stores a rendered page as index.html plus index.html.gz.
func SaveCachedHTML(config *Config, routeKey string, html []byte) error {
	return writeWithGzip(cachedPagePath(config, routeKey), html)
}
