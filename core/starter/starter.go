// Package starter embeds the default site served when no siteDir is configured.
package starter

import (
	"embed"
	"io/fs"
)

//go:embed routes layouts components public
var files embed.FS

func FS() fs.FS {
	return files
}
