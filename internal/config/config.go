package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Rembg     RembgConfig
	Trace     TraceConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Addr string
}

// UploadConfig bounds what the form accepts. Formats are matched against
// the declared filename extension, lowercased, without the dot.
type UploadConfig struct {
	MaxFileSizeMB  int
	MaxDimensionPx int
	AllowedFormats []string
}

func (u UploadConfig) AllowsFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range u.AllowedFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}

type RembgConfig struct {
	BaseURL string
	Timeout time.Duration
}

type TraceConfig struct {
	ServiceName  string
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

// RateLimitConfig enables the Redis token bucket on the compose route
// when RedisAddr is non-empty. A single-user deployment leaves it off.
type RateLimitConfig struct {
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RequestsPerMinute int
}

func (r RateLimitConfig) Enabled() bool {
	return strings.TrimSpace(r.RedisAddr) != ""
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("MAX_FILE_SIZE_MB", 5)
	v.SetDefault("MAX_DIMENSION_PX", 1024)
	v.SetDefault("ALLOWED_FORMATS", "png,jpg,jpeg,bmp,tiff")
	v.SetDefault("REMBG_URL", "http://localhost:7000")
	v.SetDefault("REMBG_TIMEOUT", "60s")
	v.SetDefault("TRACE_SERVICE_NAME", "bgcompose")
	v.SetDefault("TRACE_EXPORTER", "none")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_RPM", 30)

	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("REMBG_TIMEOUT"))
	if err != nil {
		timeout = 60 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: v.GetString("SERVER_ADDR"),
		},
		Upload: UploadConfig{
			MaxFileSizeMB:  v.GetInt("MAX_FILE_SIZE_MB"),
			MaxDimensionPx: v.GetInt("MAX_DIMENSION_PX"),
			AllowedFormats: splitFormats(v.GetString("ALLOWED_FORMATS")),
		},
		Rembg: RembgConfig{
			BaseURL: v.GetString("REMBG_URL"),
			Timeout: timeout,
		},
		Trace: TraceConfig{
			ServiceName:  v.GetString("TRACE_SERVICE_NAME"),
			Exporter:     v.GetString("TRACE_EXPORTER"),
			OTLPEndpoint: v.GetString("OTLP_ENDPOINT"),
			OTLPInsecure: v.GetBool("OTLP_INSECURE"),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:         v.GetString("REDIS_ADDR"),
			RedisPassword:     v.GetString("REDIS_PASSWORD"),
			RedisDB:           v.GetInt("REDIS_DB"),
			RequestsPerMinute: v.GetInt("RATE_LIMIT_RPM"),
		},
	}

	return cfg, nil
}

func splitFormats(raw string) []string {
	parts := strings.Split(raw, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(p, ".")))
		if p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
