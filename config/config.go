package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// Version information - read from build info (Go 1.18+)
	Version   string
	BuildTime string
	GitCommit string
)

// DefaultFiles are tried in order when Load is called without paths.
var DefaultFiles = []string{"config.yaml", "config.yml", "config.json"}

func init() {
	initVersionInfo()
}

// Load reads the first configuration file that exists, applies the .env file
// and WHOIS_* environment variables, then fills in defaults. A missing default
// file is not an error, an explicitly named one is.
func Load(paths ...string) (*Config, error) {
	var config Config

	candidates := paths
	if len(candidates) == 0 {
		candidates = DefaultFiles
	}
	if err := loadConfigFromFile(&config, candidates); err != nil {
		if len(paths) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	overrideConfigWithEnv(&config)
	applyDefaults(&config)
	return &config, nil
}

func loadConfigFromFile(config *Config, candidates []string) error {
	var lastErr error
	for _, name := range candidates {
		data, err := os.ReadFile(name)
		if err != nil {
			lastErr = err
			continue
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, config); err != nil {
				return errors.Wrapf(err, "failed to decode YAML from %s", name)
			}
		case ".json":
			if err := json.Unmarshal(data, config); err != nil {
				return errors.Wrapf(err, "failed to decode JSON from %s", name)
			}
		default:
			return errors.Errorf("unsupported configuration file format: %s", name)
		}
		return nil
	}
	return lastErr
}

// applyDefaults sets default values for everything left unset.
func applyDefaults(config *Config) {
	if config.Port == 0 {
		config.Port = 8043
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 50
	}
	if config.CacheExpiration == 0 {
		config.CacheExpiration = 3600
	}
	// Default: 10000 entries max in memory cache
	if config.Cache.MemoryMaxSize == 0 {
		config.Cache.MemoryMaxSize = 10000
	}
	// Default: clean every 5 minutes (300 seconds)
	if config.Cache.MemoryCleanInterval == 0 {
		config.Cache.MemoryCleanInterval = 300
	}
	if config.Whois.Timeout <= 0 {
		config.Whois.Timeout = 10
	}
	if config.Whois.QueriesPerSecond > 0 && config.Whois.Burst <= 0 {
		config.Whois.Burst = 1
	}
	if config.Whois.MaxReferrals <= 0 {
		config.Whois.MaxReferrals = 3
	}
	if config.Whois.RegistrableDomain == nil {
		registrable := true
		config.Whois.RegistrableDomain = &registrable
	}
	if config.Log.Env == "" {
		config.Log.Env = "production"
	}
	if config.Log.File != "" {
		if config.Log.MaxSizeMB == 0 {
			config.Log.MaxSizeMB = 100
		}
		if config.Log.MaxBackups == 0 {
			config.Log.MaxBackups = 5
		}
		if config.Log.MaxAgeDays == 0 {
			config.Log.MaxAgeDays = 30
		}
	}
}

func overrideConfigWithEnv(config *Config) {
	// Override Redis configuration
	setString(&config.Redis.Addr, "WHOIS_REDIS_ADDR")
	setString(&config.Redis.Password, "WHOIS_REDIS_PASSWORD")
	setInt(&config.Redis.DB, "WHOIS_REDIS_DB")

	// Override general configuration
	setInt(&config.CacheExpiration, "WHOIS_CACHE_EXPIRATION")
	setInt(&config.Port, "WHOIS_PORT")
	setInt(&config.RateLimit, "WHOIS_RATE_LIMIT")

	// Override cache configuration
	setBool(&config.Cache.RequireRedis, "WHOIS_REQUIRE_REDIS")
	setInt(&config.Cache.MemoryMaxSize, "WHOIS_MEMORY_MAX_SIZE")
	setInt(&config.Cache.MemoryCleanInterval, "WHOIS_MEMORY_CLEAN_INTERVAL")

	setString(&config.ProxyServer, "WHOIS_PROXY_SERVER")
	setString(&config.ProxyUsername, "WHOIS_PROXY_USERNAME")
	setString(&config.ProxyPassword, "WHOIS_PROXY_PASSWORD")
	if proxySuffixes := os.Getenv("WHOIS_PROXY_SUFFIXES"); proxySuffixes != "" {
		config.ProxySuffixes = strings.Split(proxySuffixes, ",")
	}

	setInt(&config.Whois.Timeout, "WHOIS_TIMEOUT")
	if qps := os.Getenv("WHOIS_QUERIES_PER_SECOND"); qps != "" {
		if v, err := strconv.ParseFloat(qps, 64); err == nil {
			config.Whois.QueriesPerSecond = v
		}
	}
	setInt(&config.Whois.Burst, "WHOIS_BURST")
	setInt(&config.Whois.MaxReferrals, "WHOIS_MAX_REFERRALS")
	if registrable := os.Getenv("WHOIS_REGISTRABLE_DOMAIN"); registrable != "" {
		v := registrable == "true" || registrable == "1"
		config.Whois.RegistrableDomain = &v
	}
	setString(&config.Whois.ServerList, "WHOIS_SERVER_LIST")

	setString(&config.Log.Env, "WHOIS_LOG_ENV")
	setString(&config.Log.File, "WHOIS_LOG_FILE")
	setBool(&config.Log.Debug, "WHOIS_LOG_DEBUG")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1"
	}
}

// CacheTTL is CacheExpiration as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheExpiration) * time.Second
}

// MemoryCleanInterval is Cache.MemoryCleanInterval as a duration.
func (c *Config) MemoryCleanInterval() time.Duration {
	return time.Duration(c.Cache.MemoryCleanInterval) * time.Second
}

// QueryTimeout is Whois.Timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Whois.Timeout) * time.Second
}

// Registrable reports whether host names are reduced to their registrable domain.
func (c *Config) Registrable() bool {
	return c.Whois.RegistrableDomain == nil || *c.Whois.RegistrableDomain
}

// initVersionInfo reads version information from Go build info
// This works automatically with `go build` (Go 1.18+)
func initVersionInfo() {
	Version = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				GitCommit = setting.Value[:7] // short commit hash
			} else {
				GitCommit = setting.Value
			}
		case "vcs.time":
			BuildTime = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				GitCommit += "-dirty"
			}
		}
	}
}
