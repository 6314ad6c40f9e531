package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	CMCAPIKey      string
	CMCBaseURL     string
	CMCSiteURL     string
	CMCTimeoutSecs int

	HTTPAddr           string
	StaticDir          string
	StreamIntervalSecs int

	TelegramBotToken string

	SSHPort        int
	SSHHostKeyPath string

	MCPTransport string
	MCPHTTPBind  string
	MCPHTTPPort  int

	LogLevel string

	TracingEnabled bool
	OTLPEndpoint   string
}

var defaults = map[string]any{
	"CMC_BASE_URL":                "https://pro-api.coinmarketcap.com",
	"CMC_SITE_URL":                "https://coinmarketcap.com",
	"CMC_TIMEOUT_SECS":            30,
	"HTTP_ADDR":                   "127.0.0.1:8080",
	"STATIC_DIR":                  "./static",
	"STREAM_INTERVAL_SECS":        30,
	"SSH_PORT":                    2222,
	"SSH_HOST_KEY_PATH":           ".ssh/id_ed25519",
	"MCP_TRANSPORT":               "stdio",
	"MCP_HTTP_BIND":               "127.0.0.1",
	"MCP_HTTP_PORT":               8090,
	"LOG_LEVEL":                   "info",
	"TRACING_ENABLED":             true,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func Load() *Config {
	v := newViper()

	cfg := &Config{
		CMCAPIKey:        strings.TrimSpace(v.GetString("CMC_API_KEY")),
		CMCBaseURL:       stringOr(v, "CMC_BASE_URL"),
		CMCSiteURL:       stringOr(v, "CMC_SITE_URL"),
		HTTPAddr:         stringOr(v, "HTTP_ADDR"),
		StaticDir:        stringOr(v, "STATIC_DIR"),
		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		SSHHostKeyPath:   stringOr(v, "SSH_HOST_KEY_PATH"),
		MCPHTTPBind:      stringOr(v, "MCP_HTTP_BIND"),
		LogLevel:         strings.ToLower(stringOr(v, "LOG_LEVEL")),
		TracingEnabled:   v.GetBool("TRACING_ENABLED"),
		OTLPEndpoint:     stringOr(v, "OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.CMCAPIKey == "" {
		log.Println("Warning: CMC_API_KEY not set, provider requests will be rejected")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.CMCTimeoutSecs = positiveInt(v, "CMC_TIMEOUT_SECS")
	cfg.StreamIntervalSecs = positiveInt(v, "STREAM_INTERVAL_SECS")
	cfg.SSHPort = positiveInt(v, "SSH_PORT")
	cfg.MCPHTTPPort = positiveInt(v, "MCP_HTTP_PORT")

	cfg.MCPTransport = strings.ToLower(stringOr(v, "MCP_TRANSPORT"))
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	return cfg
}

// CMCTimeout is the outbound provider timeout.
func (c *Config) CMCTimeout() time.Duration {
	return time.Duration(c.CMCTimeoutSecs) * time.Second
}

// StreamInterval is the refresh period of the live news stream.
func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.StreamIntervalSecs) * time.Second
}

func stringOr(v *viper.Viper, key string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	s, _ := defaults[key].(string)
	return s
}

// positiveInt falls back to the default when the value is missing, malformed or not positive.
func positiveInt(v *viper.Viper, key string) int {
	if n := v.GetInt(key); n > 0 {
		return n
	}
	n, _ := defaults[key].(int)
	return n
}
