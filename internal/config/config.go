package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

const (
	defaultAddress             = ":3000"
	defaultReadTimeoutSeconds  = 5
	defaultWriteTimeoutSeconds = 15
	defaultRazorpayBaseURL     = "https://api.razorpay.com"
	defaultRazorpayTimeout     = 10
	defaultMaxAmount           = 50_000_000 // 5,00,000.00 INR in paise
	defaultRateWindowSeconds   = 60
	defaultReceiptPrefix       = "rcpt_"
)

var defaultCurrencies = []string{"INR", "USD", "EUR", "GBP", "SGD", "AED"}

const (
	SourceEnv = "env"
	SourceAWS = "aws"
	SourceGCP = "gcp"
)

type ServerConfig struct {
	Address             string `yaml:"address"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RazorpayConfig struct {
	BaseURL        string   `yaml:"base_url"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Currencies     []string `yaml:"currencies"`
	MaxAmount      int64    `yaml:"max_amount"`
	ReceiptPrefix  string   `yaml:"receipt_prefix"`
}

type SecretsConfig struct {
	Source             string `yaml:"source"`
	AWSRegion          string `yaml:"aws_region"`
	AWSSecretID        string `yaml:"aws_secret_id"`
	GCPSecretName      string `yaml:"gcp_secret_name"`
	GCPCredentialsFile string `yaml:"gcp_credentials_file"`
}

type RedisConfig struct {
	Addr              string `yaml:"addr"`
	Password          string `yaml:"-"`
	DB                int    `yaml:"db"`
	RateLimit         int    `yaml:"rate_limit"`
	RateWindowSeconds int    `yaml:"rate_window_seconds"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"-"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	Secrets  SecretsConfig  `yaml:"secrets"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"-"`
}

func Default() Config {
	var cfg Config
	cfg.Server.Address = defaultAddress
	cfg.Server.ReadTimeoutSeconds = defaultReadTimeoutSeconds
	cfg.Server.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	cfg.Razorpay.BaseURL = defaultRazorpayBaseURL
	cfg.Razorpay.TimeoutSeconds = defaultRazorpayTimeout
	cfg.Razorpay.Currencies = slices.Clone(defaultCurrencies)
	cfg.Razorpay.MaxAmount = defaultMaxAmount
	cfg.Razorpay.ReceiptPrefix = defaultReceiptPrefix
	cfg.Secrets.Source = SourceEnv
	cfg.Redis.RateWindowSeconds = defaultRateWindowSeconds
	return cfg
}

// LoadConfig reads the yaml file at path (optional), applies environment
// overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config data: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Address = ":" + strings.TrimPrefix(port, ":")
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("RAZORPAY_BASE_URL"); v != "" {
		cfg.Razorpay.BaseURL = v
	}
	if v, err := readIntEnv("RAZORPAY_TIMEOUT_SECONDS"); err != nil {
		return fmt.Errorf("parse RAZORPAY_TIMEOUT_SECONDS: %w", err)
	} else if v != nil {
		cfg.Razorpay.TimeoutSeconds = *v
	}
	if v := os.Getenv("RAZORPAY_CURRENCIES"); v != "" {
		cfg.Razorpay.Currencies = splitList(v)
	}
	if v := os.Getenv("RAZORPAY_MAX_AMOUNT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse RAZORPAY_MAX_AMOUNT: %w", err)
		}
		cfg.Razorpay.MaxAmount = n
	}

	if v := os.Getenv("SECRETS_SOURCE"); v != "" {
		cfg.Secrets.Source = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Secrets.AWSRegion = v
	}
	if v := os.Getenv("AWS_SECRET_ID"); v != "" {
		cfg.Secrets.AWSSecretID = v
	}
	if v := os.Getenv("GCP_SECRET_NAME"); v != "" {
		cfg.Secrets.GCPSecretName = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Secrets.GCPCredentialsFile = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}
	if v, err := readIntEnv("RATE_LIMIT_PER_WINDOW"); err != nil {
		return fmt.Errorf("parse RATE_LIMIT_PER_WINDOW: %w", err)
	} else if v != nil {
		cfg.Redis.RateLimit = *v
	}
	if v, err := readIntEnv("RATE_LIMIT_WINDOW_SECONDS"); err != nil {
		return fmt.Errorf("parse RATE_LIMIT_WINDOW_SECONDS: %w", err)
	} else if v != nil {
		cfg.Redis.RateWindowSeconds = *v
	}

	cfg.Auth.JWTSecret = os.Getenv("AUTH_JWT_SECRET")
	return nil
}

func normalize(cfg *Config) {
	cfg.Secrets.Source = strings.ToLower(strings.TrimSpace(cfg.Secrets.Source))
	currencies := make([]string, 0, len(cfg.Razorpay.Currencies))
	for _, c := range cfg.Razorpay.Currencies {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" && !slices.Contains(currencies, c) {
			currencies = append(currencies, c)
		}
	}
	cfg.Razorpay.Currencies = currencies
}

// Validate checks values that would otherwise fail at request time.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server address is required")
	}
	if c.Server.ReadTimeoutSeconds <= 0 || c.Server.WriteTimeoutSeconds <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Razorpay.TimeoutSeconds <= 0 {
		return errors.New("razorpay timeout must be positive")
	}
	if c.Razorpay.MaxAmount <= 0 {
		return errors.New("razorpay max amount must be positive")
	}
	if len(c.Razorpay.Currencies) == 0 {
		return errors.New("at least one currency is required")
	}
	for _, cur := range c.Razorpay.Currencies {
		if !isCurrencyCode(cur) {
			return fmt.Errorf("invalid currency code %q", cur)
		}
	}
	switch c.Secrets.Source {
	case SourceEnv:
	case SourceAWS:
		if c.Secrets.AWSSecretID == "" {
			return errors.New("AWS_SECRET_ID is required for aws secrets source")
		}
	case SourceGCP:
		if c.Secrets.GCPSecretName == "" {
			return errors.New("GCP_SECRET_NAME is required for gcp secrets source")
		}
	default:
		return fmt.Errorf("unknown secrets source %q", c.Secrets.Source)
	}
	if c.Redis.RateLimit > 0 && c.Redis.RateWindowSeconds <= 0 {
		return errors.New("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
