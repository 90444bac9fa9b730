package boostday

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boostday/boostday/core"
)

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	ConfigPath  string
	LogLevel    string
}

var (
	ListenAndServe = http.ListenAndServe
	Exit           = os.Exit
)

var Start = func(cfg RuntimeConfig) {
	start(cfg)
}

type server struct {
	addr     string
	handler  http.Handler
	config   *core.Config
	reloader core.LiveReloaderInterface
	logger   zerolog.Logger
}

// BuildServer assembles the full handler for cfg without listening.
func BuildServer(cfg RuntimeConfig) (string, http.Handler) {
	s := newServer(cfg)
	return s.addr, s.handler
}

func newServer(cfg RuntimeConfig) *server {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = core.DefaultConfigFile
	}

	logger := core.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)
	config := core.LoadConfig(configPath)
	config.CacheEnabled = cfg.EnableCache

	s := &server{
		addr:   fmt.Sprintf(":%d", cfg.Port),
		config: config,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.Handle(core.GreetingPath, core.NewGreetingServiceFromConfig(config, logger))

	public := publicFS(config)
	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, public)

		s.reloader = core.NewLiveReloader()
		mux.HandleFunc(core.ReloadPath, s.reloader.Handler)
	} else {
		setupProdStaticRoutes(mux, public, config.OutputDir)
	}

	mux.Handle("/", core.NewRouter(config, core.RuntimeContext{
		Env:        cfg.Env,
		LiveReload: cfg.Env == "dev",
		Logger:     logger,
	}))

	var handler http.Handler = mux
	if config.BasePath != "" {
		outer := http.NewServeMux()
		outer.Handle(config.BasePath+"/", http.StripPrefix(config.BasePath, mux))
		outer.Handle(config.BasePath, http.RedirectHandler(config.BasePath+"/", http.StatusMovedPermanently))
		handler = outer
	}

	s.handler = core.Chain(handler,
		core.RequestIDMiddleware,
		core.LoggingMiddleware(logger),
		core.RecoveryMiddleware(logger),
	)
	return s
}

func start(cfg RuntimeConfig) {
	s := newServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.reloader != nil && s.config.SiteDir != "" {
		s.watchSite(ctx)
	}

	s.logger.Info().
		Str("addr", s.addr).
		Str("basePath", s.config.BasePath).
		Msgf("✅ boostday running at http://localhost%s%s", s.addr, s.config.BasePath)

	if err := ListenAndServe(s.addr, s.handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("❌ Server failed")
		Exit(1)
	}
}

func (s *server) watchSite(ctx context.Context) {
	w, err := core.NewWatcher(s.reloader.BroadcastReload, 100*time.Millisecond, s.logger)
	if err != nil {
		s.logger.Warn().Err(err).Msg("live reload disabled")
		return
	}
	if err := w.AddDirectory(s.config.SiteDir); err != nil {
		s.logger.Warn().Err(err).Msg("live reload disabled")
		w.Close()
		return
	}

	go func() {
		defer w.Close()
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn().Err(err).Msg("watcher stopped")
		}
	}()
}

func publicFS(config *core.Config) fs.FS {
	public, err := fs.Sub(core.SiteFS(config), "public")
	if err != nil {
		return core.SiteFS(config)
	}
	return public
}

func setupDevStaticRoutes(mux *http.ServeMux, public fs.FS) {
	fileServer := http.FileServerFS(public)
	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		fileServer.ServeHTTP(w, r)
	})))

	for _, name := range []string{"favicon.ico", "robots.txt"} {
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			serveFSWithHeaders(w, r, public, name, "no-store")
		})
	}
}

func setupProdStaticRoutes(mux *http.ServeMux, public fs.FS, outputDir string) {
	mux.Handle("/static/", makeStaticHandler(public, filepath.Join(outputDir, "static")))

	for _, name := range []string{"favicon.ico", "robots.txt"} {
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			serveFSWithHeaders(w, r, public, name, "public, max-age=31536000, immutable")
		})
	}
}

// makeStaticHandler serves /static/ from the export cache first (gzip when
// the client accepts it) and falls back to the site's public files.
func makeStaticHandler(public fs.FS, cacheDir string) http.Handler {
	const immutable = "public, max-age=31536000, immutable"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/static/")
		if trimmed == "" || strings.Contains(trimmed, "..") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		cachedFile := filepath.Join(cacheDir, filepath.FromSlash(trimmed))

		if acceptsGzip(r) {
			if _, err := os.Stat(cachedFile + ".gz"); err == nil {
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Cache-Control", immutable)
				http.ServeFile(w, r, cachedFile+".gz")
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, immutable)
			return
		}

		if _, err := fs.Stat(public, trimmed); err == nil {
			serveFSWithHeaders(w, r, public, trimmed, immutable)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, filePath, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(filePath))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, filePath)
}

func serveFSWithHeaders(w http.ResponseWriter, r *http.Request, fsys fs.FS, name, cacheControl string) {
	if _, err := fs.Stat(fsys, name); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", detectMimeType(name))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFileFS(w, r, fsys, name)
}

func detectMimeType(name string) string {
	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".html":
		return "text/html; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".ico":
		return "image/x-icon"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
