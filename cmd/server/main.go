package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"animesource/internal/anilist"
	"animesource/internal/catalog"
	"animesource/internal/episode"
	"animesource/internal/platform/config"
	"animesource/internal/platform/logger"
	"animesource/internal/platform/metrics"
	"animesource/internal/upstream"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	baseURL := config.GetEnv("UPSTREAM_BASE_URL", "https://satoru.one")
	userAgent := config.GetEnv("UPSTREAM_USER_AGENT", upstream.DefaultUserAgent)
	referer := config.GetEnv("IFRAME_REFERER", "https://cdn.buycodeonline.com/")
	timeout := config.GetEnvDuration("HTTP_TIMEOUT", upstream.DefaultTimeout)
	proxyPrefix := config.GetEnv("PROXY_PREFIX_URL", upstream.DefaultProxyPrefix)
	proxyDomains := config.GetEnvList("PROXY_DOMAINS")
	socks5Addr := config.GetEnv("SOCKS5_PROXY", "")
	lookupURL := config.GetEnv("ANILIST_LOOKUP_URL", anilist.DefaultLookupURL)
	cacheSize := config.GetEnvInt("TITLE_CACHE_SIZE", anilist.DefaultStoreSize)
	concurrency := config.GetEnvInt("LOOKUP_CONCURRENCY", catalog.DefaultLookupConcurrency)
	corsOrigins := config.GetEnvList("CORS_ORIGINS")
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	log := logger.New(logLevel, logFormat)
	met := metrics.New()

	httpClient, err := upstream.NewHTTPClient(timeout, socks5Addr)
	if err != nil {
		log.Error("http client setup failed", "error", err)
		os.Exit(1)
	}
	client := upstream.New(httpClient,
		upstream.WithUserAgent(userAgent),
		upstream.WithProxyPolicy(upstream.NewProxyPolicy(proxyPrefix, proxyDomains)),
	)

	embedHeaders := upstream.ParseHeaderList(config.GetEnv("IFRAME_HEADERS", ""))
	if referer != "" {
		embedHeaders.Set("Referer", referer)
	}
	episodes := episode.NewService(client, episode.Config{
		BaseURL:      baseURL,
		EmbedHeaders: embedHeaders,
	}, log, met)
	episodeHandler := episode.NewHandler(episodes, log)

	store, err := anilist.NewLRUStore(cacheSize)
	if err != nil {
		log.Error("title cache setup failed", "error", err)
		os.Exit(1)
	}
	titles := anilist.NewResolver(client, lookupURL, store, log, met)

	cat, err := catalog.NewService(client, titles, catalog.Config{
		BaseURL:           baseURL,
		LookupConcurrency: concurrency,
	}, log, met)
	if err != nil {
		log.Error("catalog setup failed", "error", err)
		os.Exit(1)
	}
	catalogHandler := catalog.NewHandler(cat, log)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetCacheEntries(titles.CacheLen()) }).ServeHTTP(w, r)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", catalogHandler.GetHome)
		r.Get("/info", catalogHandler.GetInfo)
		r.Get("/watch/{id}", episodeHandler.GetSource)
		r.Route("/episode/source", func(r chi.Router) {
			r.Get("/", episodeHandler.GetSource)
			r.Get("/{id}", episodeHandler.GetSource)
			r.Get("/{id}/master.m3u8", episodeHandler.GetMasterPlaylist)
		})
	})

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"upstream", baseURL,
		"proxy_domains", strings.Join(proxyDomains, ","),
		"socks5", socks5Addr != "",
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
