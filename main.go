package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KincaidYang/whoisresolver/config"
	"github.com/KincaidYang/whoisresolver/handle_resources"
	"github.com/KincaidYang/whoisresolver/logger"
	"github.com/KincaidYang/whoisresolver/mcp_tools"
	"github.com/KincaidYang/whoisresolver/resolver"
	"github.com/KincaidYang/whoisresolver/server_lists"
	"github.com/KincaidYang/whoisresolver/utils"
	"github.com/KincaidYang/whoisresolver/whois_tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight lookups may run after a signal.
const shutdownTimeout = 30 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "whoisresolver",
		Short:         "Query WHOIS servers and normalize their replies",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default config.yaml, config.yml or config.json)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve lookups over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), configPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "whoisresolver %s (commit %s, built %s)\n", config.Version, config.GitCommit, config.BuildTime)
		},
	})
	return root
}

// app holds the components shared by the serve and mcp commands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	cache    utils.Cache
	resolver *resolver.Resolver
	closers  []func()
}

func loadApp(configPath string) (*app, error) {
	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}

	log, err := logger.Init(logger.Options{
		Env:        cfg.Log.Env,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Debug:      cfg.Log.Debug,
	})
	if err != nil {
		return nil, err
	}
	return newApp(cfg, log)
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	cache, err := a.buildCache()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = cache

	servers := server_lists.Default()
	if cfg.Whois.ServerList != "" {
		if servers, err = server_lists.Load(cfg.Whois.ServerList); err != nil {
			a.Close()
			return nil, err
		}
	}

	client, err := whois_tools.NewClient(whois_tools.Options{
		Timeout: cfg.QueryTimeout(),
		Proxy: whois_tools.ProxyConfig{
			Server:   cfg.ProxyServer,
			Username: cfg.ProxyUsername,
			Password: cfg.ProxyPassword,
			Suffixes: cfg.ProxySuffixes,
		},
		RateLimit: cfg.Whois.QueriesPerSecond,
		RateBurst: cfg.Whois.Burst,
		Logger:    log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.resolver, err = resolver.New(resolver.Options{
		Transport:         client,
		Servers:           servers.WithMaxReferrals(cfg.Whois.MaxReferrals),
		Cache:             cache,
		CacheTTL:          cfg.CacheTTL(),
		RegistrableDomain: cfg.Registrable(),
		// one exchange per hop of the longest chain
		QueryTimeout: cfg.QueryTimeout() * time.Duration(cfg.Whois.MaxReferrals+1),
		Logger:       log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// redisLogger sends go-redis internal messages to zap at debug level.
type redisLogger struct {
	log *zap.SugaredLogger
}

func (l redisLogger) Printf(ctx context.Context, format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}

// buildCache sets up the cache with Redis primary and memory fallback
func (a *app) buildCache() (utils.Cache, error) {
	cfg := a.cfg
	memoryCache := utils.NewMemoryCache(cfg.Cache.MemoryMaxSize, cfg.MemoryCleanInterval())
	a.closers = append(a.closers, memoryCache.Close)

	if cfg.Redis.Addr == "" {
		if cfg.Cache.RequireRedis {
			return nil, errors.New("redis is required but no address is configured")
		}
		a.log.Sugar().Infof("Redis not configured, using memory cache (max entries=%d)", cfg.Cache.MemoryMaxSize)
		return memoryCache, nil
	}

	redis.SetLogger(redisLogger{log: a.log.Sugar().Named("go-redis")})
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Addr,
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		PoolSize:        10,
		MaxRetries:      1,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     2 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolTimeout:     2 * time.Second,
	})
	redisCache := utils.NewRedisCache(client, 10*time.Second, a.log)
	a.closers = append(a.closers, func() {
		redisCache.Close()
		_ = client.Close()
	})

	if !redisCache.IsHealthy() {
		if cfg.Cache.RequireRedis {
			return nil, errors.Errorf("redis at %s is required but unavailable, set cache.requireRedis to false to allow fallback", cfg.Redis.Addr)
		}
		a.log.Sugar().Warnf("Redis at %s unavailable, using memory cache as fallback", cfg.Redis.Addr)
	}
	a.log.Sugar().Infof("Cache configuration: Max memory entries=%d, Clean interval=%v",
		cfg.Cache.MemoryMaxSize, cfg.MemoryCleanInterval())
	return utils.NewFallbackCache(redisCache, memoryCache), nil
}

// Close releases the cache connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// mux routes every HTTP endpoint. MCP and metrics name their methods so that
// they take precedence over GET /{key}.
func (a *app) mux(h *handle_resources.Handler, server *mcp.Server) *http.ServeMux {
	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	mcpHandler := mcp_tools.HTTPHandler(server)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		mux.Handle(method+" /mcp", mcpHandler)
	}
	return mux
}

func runServe(ctx context.Context, configPath string) error {
	a, err := loadApp(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer a.Close()
	log := a.log.Sugar()

	h := handle_resources.New(handle_resources.Options{
		Resolver:     a.resolver,
		Cache:        a.cache,
		RequireRedis: a.cfg.Cache.RequireRedis,
		RateLimit:    a.cfg.RateLimit,
		Logger:       a.log,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		Handler:           a.mux(h, mcp_tools.NewServer(a.resolver, a.log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server started on port %d", a.cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
	if err := h.Wait(shutdownCtx); err != nil {
		log.Warnf("Lookups still running at exit: %v", err)
	}
	log.Info("Server stopped")
	return nil
}

func runMCP(ctx context.Context, configPath string) error {
	a, err := loadApp(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Sugar().Info("Serving MCP tools on stdio")
	return mcp_tools.RunStdio(ctx, mcp_tools.NewServer(a.resolver, a.log))
}
