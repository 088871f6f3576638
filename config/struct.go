package config

// Config represents the configuration for the application.
type Config struct {
	// Redis holds the configuration for the Redis database.
	// It includes the address, password, and database number.
	Redis struct {
		Addr     string `json:"addr" yaml:"addr"`         // Addr is the address of the Redis server.
		Password string `json:"password" yaml:"password"` // Password is the password for the Redis server.
		DB       int    `json:"db" yaml:"db"`             // DB is the database number for the Redis server.
	} `json:"redis" yaml:"redis"`
	// Cache controls the Redis requirement and the in-memory fallback.
	Cache struct {
		RequireRedis        bool `json:"requireRedis" yaml:"requireRedis"`
		MemoryMaxSize       int  `json:"memoryMaxSize" yaml:"memoryMaxSize"`
		MemoryCleanInterval int  `json:"memoryCleanInterval" yaml:"memoryCleanInterval"` // seconds
	} `json:"cache" yaml:"cache"`
	// CacheExpiration is the expiration time for the cache, in seconds.
	CacheExpiration int `json:"cacheExpiration" yaml:"cacheExpiration"`
	// Port is the port number for the server.
	Port int `json:"port" yaml:"port"`
	// RateLimit is the maximum number of lookups served concurrently.
	RateLimit int `json:"rateLimit" yaml:"rateLimit"`

	// ProxyServer is a SOCKS5 proxy used for the TLDs in ProxySuffixes.
	ProxyServer   string   `json:"proxyServer" yaml:"proxyServer"`
	ProxyUsername string   `json:"proxyUsername" yaml:"proxyUsername"`
	ProxyPassword string   `json:"proxyPassword" yaml:"proxyPassword"`
	ProxySuffixes []string `json:"proxySuffixes" yaml:"proxySuffixes"`

	Whois Whois `json:"whois" yaml:"whois"`
	Log   Log   `json:"log" yaml:"log"`
}

// Whois tunes the query side.
type Whois struct {
	Timeout           int     `json:"timeout" yaml:"timeout"` // seconds
	QueriesPerSecond  float64 `json:"queriesPerSecond" yaml:"queriesPerSecond"`
	Burst             int     `json:"burst" yaml:"burst"`
	MaxReferrals      int     `json:"maxReferrals" yaml:"maxReferrals"`
	RegistrableDomain *bool   `json:"registrableDomain" yaml:"registrableDomain"`
	// ServerList is an optional YAML file merged over the built-in server list.
	ServerList string `json:"serverList" yaml:"serverList"`
}

// Log configures the zap logger.
type Log struct {
	Env        string `json:"env" yaml:"env"` // "development" or "production"
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays"`
	Debug      bool   `json:"debug" yaml:"debug"`
}
