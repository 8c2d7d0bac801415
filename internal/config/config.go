package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/shahsearch/internal/domain"
	"github.com/davidbz/shahsearch/internal/observability"
	"github.com/davidbz/shahsearch/internal/provider/perplexity"
)

// Config represents the function configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Log        observability.Config
	Perplexity perplexity.Config
	Search     domain.SearchConfig
}

// ServerConfig contains HTTP server settings. Only the standalone server uses it.
type ServerConfig struct {
	Port         int   `env:"SERVER_PORT"           envDefault:"8080"`
	ReadTimeout  int   `env:"SERVER_READ_TIMEOUT"   envDefault:"30"`
	WriteTimeout int   `env:"SERVER_WRITE_TIMEOUT"  envDefault:"90"`
	MaxBodyBytes int64 `env:"SERVER_MAX_BODY_BYTES" envDefault:"1048576"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Log        *observability.Config
	Perplexity *perplexity.Config
	Search     *domain.SearchConfig
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
		Out:        dig.Out{},
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Log:        &cfg.Log,
		Perplexity: &cfg.Perplexity,
		Search:     &cfg.Search,
	}
}

// Credentials exposes the upstream key as a domain.CredentialSource.
func Credentials(cfg *perplexity.Config) domain.CredentialSource {
	return domain.StaticCredential(cfg.APIKey)
}
