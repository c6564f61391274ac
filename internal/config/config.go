package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/embedding/openai"
)

// Config represents the analytics core configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Store     StoreConfig
	Sources   SourcesConfig
	Embedding openai.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// RedisConfig contains durable cache tier settings.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"       envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB"         envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"lytics:"`
}

// CacheConfig sizes the revalidation pool.
type CacheConfig struct {
	RevalidateWorkers int `env:"CACHE_REVALIDATE_WORKERS" envDefault:"4"`
	RevalidateQueue   int `env:"CACHE_REVALIDATE_QUEUE"   envDefault:"64"`
}

// StoreConfig contains the embedded database settings.
type StoreConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"lytics.db"`
}

// SourcesConfig lists the demo platforms registered at startup. Real platform
// connections are established through the OAuth flows outside this core.
type SourcesConfig struct {
	DemoPlatforms []string `env:"DEMO_PLATFORMS" envSeparator:"," envDefault:"google_ads,meta_ads"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*RedisConfig
	*CacheConfig
	*StoreConfig
	*SourcesConfig
	*openai.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Redis,
		&cfg.Cache,
		&cfg.Store,
		&cfg.Sources,
		&cfg.Embedding,
	}
}
