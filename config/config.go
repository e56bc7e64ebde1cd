package config

import (
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	_ "github.com/joho/godotenv/autoload"
)

const DefaultBooksURL = "https://api.freeapi.app/api/v1/public/books"

type config struct {
	Port int    `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"APP_ENV" default:"production"`
	Log  struct {
		Level    string `envconfig:"LOG_LEVEL" default:"debug"`
		Format   string `envconfig:"LOG_FORMAT" default:"text"`
		Requests bool   `envconfig:"LOG_REQUESTS" default:"false"`
	}
	Books struct {
		URL      string        `envconfig:"BOOKS_API_URL" default:"https://api.freeapi.app/api/v1/public/books"`
		PageSize int           `envconfig:"PAGE_SIZE" default:"10"`
		Retries  int           `envconfig:"FETCH_RETRIES" default:"0"`
		Timeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
		RPS      float64       `envconfig:"FETCH_RPS" default:"5"`
	}
	Search struct {
		Debounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"500ms"`
	}
	Cache struct {
		SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`
		PageTTL    time.Duration `envconfig:"PAGE_CACHE_TTL" default:"5m"`
	}
}

var cfg config

func LoadConfig() error {
	err := envconfig.Process("", &cfg)
	if err != nil {
		return err
	}
	return nil
}

func Port() int {
	return cfg.Port
}

func IsLocal() bool {
	return strings.ToLower(cfg.Env) == "local"
}

func LogLevel() zerolog.Level {
	switch strings.ToLower(cfg.Log.Level) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.DebugLevel
	}
}

func LogFormat() string {
	allowed := []string{"text", "json"}
	format := strings.ToLower(cfg.Log.Format)
	if slices.Contains(allowed, format) {
		return format
	}
	return "json"
}

func LogRequests() bool {
	return cfg.Log.Requests
}

func BooksURL() string {
	if cfg.Books.URL == "" {
		return DefaultBooksURL
	}
	return cfg.Books.URL
}

// PageSize is never less than one; the remote API rejects a zero limit.
func PageSize() int {
	return max(cfg.Books.PageSize, 1)
}

func FetchRetries() int {
	return max(cfg.Books.Retries, 0)
}

func FetchTimeout() time.Duration {
	return cfg.Books.Timeout
}

func FetchRPS() float64 {
	return cfg.Books.RPS
}

func SearchDebounce() time.Duration {
	return cfg.Search.Debounce
}

func SessionTTL() time.Duration {
	return cfg.Cache.SessionTTL
}

func PageCacheTTL() time.Duration {
	return cfg.Cache.PageTTL
}

// SetBooksURL and SetPageSize let command line flags override the environment.
func SetBooksURL(url string) {
	cfg.Books.URL = url
}

func SetPageSize(size int) {
	cfg.Books.PageSize = size
}
