package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/klauspost/compress/gzip"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

// Assets resolves /static/ URLs against the site's public directory. In prod
// CSS and JS are minified into the cache directory on first use.
type Assets struct {
	public   fs.FS
	env      string
	cacheDir string
	basePath string
}

func NewAssets(site fs.FS, env, cacheDir, basePath string) *Assets {
	public, err := fs.Sub(site, "public")
	if err != nil {
		public = site
	}
	return &Assets{public: public, env: env, cacheDir: cacheDir, basePath: basePath}
}

func (a *Assets) Public() fs.FS {
	return a.public
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	return m
}

func mediaTypeFor(ext string) string {
	switch ext {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	default:
		return ""
	}
}

// Minify returns the URL of the minified copy of a /static/ CSS or JS file,
// writing it (and its .gz) under cacheDir/static. Anything else, and every
// path outside prod, comes back unchanged.
func (a *Assets) Minify(urlPath string) string {
	if a.env != "prod" {
		return urlPath
	}

	ext := path.Ext(urlPath)
	name := strings.TrimSuffix(path.Base(urlPath), ext)
	mediaType := mediaTypeFor(ext)

	if mediaType == "" || strings.Contains(name, ".min") {
		return urlPath
	}

	original, err := fs.ReadFile(a.public, strings.TrimPrefix(urlPath, "/static/"))
	if err != nil {
		return urlPath
	}

	var buf bytes.Buffer
	if err := newMinifier().Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return urlPath
	}
	minified := buf.Bytes()

	out := filepath.Join(a.cacheDir, "static", fmt.Sprintf("%s.min%s", name, ext))
	if err := writeWithGzip(out, minified); err != nil {
		return urlPath
	}

	return fmt.Sprintf("/static/%s.min%s?v=%s", name, ext, shortHash(minified))
}

// Versioned appends a content hash to a /static/ URL so it can be cached
// forever.
func (a *Assets) Versioned(urlPath string) string {
	if !strings.HasPrefix(urlPath, "/static/") {
		return urlPath
	}

	rel := strings.TrimPrefix(urlPath, "/static/")
	if content, err := fs.ReadFile(a.public, rel); err == nil {
		return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
	}
	if content, err := os.ReadFile(filepath.Join(a.cacheDir, "static", filepath.FromSlash(rel))); err == nil {
		return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
	}
	return urlPath
}

// URL is what templates call through "asset": minified in prod, versioned
// otherwise, and prefixed with the base path.
func (a *Assets) URL(urlPath string) string {
	resolved := a.Minify(urlPath)
	if resolved == urlPath {
		resolved = a.Versioned(urlPath)
	}
	return a.basePath + resolved
}

func (a *Assets) FuncMap() template.FuncMap {
	funcs := sprig.FuncMap()

	funcs["minify"] = a.Minify
	funcs["versioned"] = a.Versioned
	funcs["asset"] = a.URL
	funcs["props"] = func(values ...interface{}) map[string]interface{} {
		if len(values)%2 != 0 {
			panic("props must be called with even number of arguments")
		}
		m := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				panic("props keys must be strings")
			}
			m[key] = values[i+1]
		}
		return m
	}
	funcs["safeHTML"] = func(s interface{}) template.HTML {
		switch val := s.(type) {
		case template.HTML:
			return val
		case string:
			return template.HTML(val)
		default:
			return ""
		}
	}

	return funcs
}

func shortHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])[:6]
}

// writeWithGzip writes content to dst and a gzip copy to dst+".gz".
func writeWithGzip(dst string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return err
	}

	f, err := os.Create(dst + ".gz")
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := gz.Write(content); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
