package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	LogDevelopment bool
	RequestTimeout time.Duration

	RateLimit  int
	RateWindow time.Duration

	FanOutLimit        int
	UpstreamMinLatency time.Duration
	UpstreamMaxLatency time.Duration

	QueryCollation string
	SeedData       bool
	CORSOrigins    []string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateStatsPrefix string
	RateStatsTTL    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_development", false)
	v.SetDefault("request_timeout", 5*time.Second)
	v.SetDefault("rate_limit", 10)
	v.SetDefault("rate_window", time.Minute)
	v.SetDefault("fanout_limit", 0)
	v.SetDefault("upstream_min_latency", 500*time.Millisecond)
	v.SetDefault("upstream_max_latency", 1500*time.Millisecond)
	v.SetDefault("query_collation", "")
	v.SetDefault("seed_data", true)
	v.SetDefault("cors_origins", "*")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("rate_stats_prefix", "ratelimit:stats")
	v.SetDefault("rate_stats_ttl", 24*time.Hour)
	v.SetDefault("config_file", "")
}

// Load читает конфигурацию: значения по умолчанию, затем файл CONFIG_FILE
// (если задан), затем переменные окружения.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:               v.GetString("port"),
		LogDevelopment:     v.GetBool("log_development"),
		RequestTimeout:     v.GetDuration("request_timeout"),
		RateLimit:          v.GetInt("rate_limit"),
		RateWindow:         v.GetDuration("rate_window"),
		FanOutLimit:        v.GetInt("fanout_limit"),
		UpstreamMinLatency: v.GetDuration("upstream_min_latency"),
		UpstreamMaxLatency: v.GetDuration("upstream_max_latency"),
		QueryCollation:     v.GetString("query_collation"),
		SeedData:           v.GetBool("seed_data"),
		CORSOrigins:        splitList(v.GetString("cors_origins")),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		RateStatsPrefix:    v.GetString("rate_stats_prefix"),
		RateStatsTTL:       v.GetDuration("rate_stats_ttl"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.FanOutLimit < 0 {
		return fmt.Errorf("FANOUT_LIMIT must not be negative, got %d", c.FanOutLimit)
	}
	if c.UpstreamMaxLatency < c.UpstreamMinLatency {
		return fmt.Errorf("UPSTREAM_MAX_LATENCY %s is below UPSTREAM_MIN_LATENCY %s", c.UpstreamMaxLatency, c.UpstreamMinLatency)
	}
	return nil
}

// splitList разбирает список через запятую, пустые элементы отбрасываются
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
