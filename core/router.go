package core

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/boostday/boostday/client"
	"github.com/boostday/boostday/core/starter"
)

const (
	SiteTitle       = "AI Boost Day"
	SiteDescription = "Demo Go App"
)

type RuntimeContext struct {
	Env        string
	LiveReload bool
	Logger     zerolog.Logger
}

type Route struct {
	URLPattern *regexp.Regexp
	ParamKeys  []string
	HTMLPath   string
	Key        string
}

// Dynamic reports whether the route has path parameters and therefore
// cannot be exported ahead of time.
func (r Route) Dynamic() bool {
	return len(r.ParamKeys) > 0
}

type Router struct {
	config     *Config
	env        string
	liveReload bool
	site       fs.FS
	assets     *Assets
	routes     []Route
	logger     zerolog.Logger
}

var NewRouter = func(config *Config, ctx RuntimeContext) http.Handler {
	return NewPageRouter(config, ctx)
}

// NewPageRouter is NewRouter with the concrete type, for callers that need
// Routes or Render.
func NewPageRouter(config *Config, ctx RuntimeContext) *Router {
	site := SiteFS(config)
	r := &Router{
		config:     config,
		env:        ctx.Env,
		liveReload: ctx.LiveReload,
		site:       site,
		assets:     NewAssets(site, ctx.Env, config.OutputDir, config.BasePath),
		logger:     ctx.Logger.With().Str("component", "router").Logger(),
	}
	r.loadRoutes()
	return r
}

// SiteFS is the configured site directory, or the embedded starter site.
func SiteFS(config *Config) fs.FS {
	if config.SiteDir != "" {
		return os.DirFS(config.SiteDir)
	}
	return starter.FS()
}

func (r *Router) Routes() []Route {
	return r.routes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	route, params, ok := r.match(strings.Trim(req.URL.Path, "/"))
	if !ok {
		http.NotFound(w, req)
		return
	}

	useCache := r.env == "prod" && r.config.CacheEnabled && !route.Dynamic()

	if useCache {
		if html, hit := GetCachedHTML(r.config, route.Key); hit {
			r.writePage(w, route, html, "HIT")
			return
		}
	}

	html, err := r.Render(route, params)
	if err != nil {
		r.logger.Error().Err(err).Str("route", route.HTMLPath).Msg("render failed")
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if useCache {
		if err := SaveCachedHTML(r.config, route.Key, html); err != nil {
			r.logger.Warn().Err(err).Str("route", route.Key).Msg("could not cache page")
		}
	}

	r.writePage(w, route, html, "MISS")
}

func (r *Router) writePage(w http.ResponseWriter, route Route, html []byte, cacheStatus string) {
	if r.config.DebugHeaders {
		w.Header().Set("X-Boostday-Route", route.HTMLPath)
		w.Header().Set("X-Boostday-Cache", cacheStatus)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (r *Router) match(urlPath string) (Route, map[string]string, bool) {
	for _, route := range r.routes {
		if matches := route.URLPattern.FindStringSubmatch(urlPath); matches != nil {
			params := map[string]string{}
			for i, key := range route.ParamKeys {
				params[key] = matches[i+1]
			}
			return route, params, true
		}
	}
	return Route{}, nil, false
}

func (r *Router) PageData(params map[string]string) map[string]interface{} {
	return map[string]interface{}{
		"Title":       SiteTitle,
		"Description": SiteDescription,
		"AppEnv":      r.config.EnvLabel(r.env),
		"Commit":      r.config.CommitLabel(),
		"APIEndpoint": client.PageEndpoint(r.config.APIBaseURL, r.config.BasePath),
		"BasePath":    r.config.BasePath,
		"LiveReload":  r.liveReload,
		"Params":      params,
	}
}

// Render executes a route template with its layout and every component.
func (r *Router) Render(route Route, params map[string]string) ([]byte, error) {
	content, err := fs.ReadFile(r.site, route.HTMLPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", route.HTMLPath, ErrNotFound)
	}

	files := []string{route.HTMLPath}
	if components, _ := fs.Glob(r.site, "components/*.html"); len(components) > 0 {
		files = append(files, components...)
	}

	entry := path.Base(route.HTMLPath)
	if layout := ParseLayoutDirective(content); layout != "" {
		files = append([]string{layout}, files...)
		entry = "layout"
	}

	tmpl, err := r.parse(files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", route.HTMLPath, ErrTemplate, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, r.PageData(params)); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", route.HTMLPath, ErrTemplate, err)
	}
	return buf.Bytes(), nil
}

// parse reads each file by name. ParseFS would treat "[param]" directories
// as glob character classes.
func (r *Router) parse(files []string) (*template.Template, error) {
	root := template.New(path.Base(files[0])).Funcs(r.assets.FuncMap())
	for _, name := range files {
		content, err := fs.ReadFile(r.site, name)
		if err != nil {
			return nil, err
		}

		tmpl := root
		if base := path.Base(name); base != root.Name() {
			tmpl = root.New(base)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// ParseLayoutDirective finds a "<!-- layout: path -->" line.
func ParseLayoutDirective(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "<!-- layout:") && strings.HasSuffix(line, "-->") {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "<!-- layout:"), "-->"))
		}
	}
	return ""
}

func (r *Router) loadRoutes() {
	r.routes = nil

	fs.WalkDir(r.site, "routes", func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}

		htmlPath := path.Join(p, "index.html")
		if _, err := fs.Stat(r.site, htmlPath); err != nil {
			return nil
		}

		rel := strings.Trim(strings.TrimPrefix(p, "routes"), "/")
		paramKeys := []string{}
		segments := []string{}

		if rel != "" {
			for _, part := range strings.Split(rel, "/") {
				if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
					paramKeys = append(paramKeys, part[1:len(part)-1])
					segments = append(segments, "([^/]+)")
				} else {
					segments = append(segments, regexp.QuoteMeta(part))
				}
			}
		}

		r.routes = append(r.routes, Route{
			URLPattern: regexp.MustCompile("^" + strings.Join(segments, "/") + "$"),
			ParamKeys:  paramKeys,
			HTMLPath:   htmlPath,
			Key:        rel,
		})
		return nil
	})
}
