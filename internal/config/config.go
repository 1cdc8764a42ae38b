package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yml"

type AppConfig struct {
	Port     int    `yaml:"port" env:"BOOKLIB_PORT"`
	GinMode  string `yaml:"gin_mode" env:"BOOKLIB_GIN_MODE"`
	LogLevel string `yaml:"log_level" env:"BOOKLIB_LOG_LEVEL"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"BOOKLIB_DATABASE_DSN"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"BOOKLIB_REDIS_ADDR"`
	Password string `yaml:"password" env:"BOOKLIB_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"BOOKLIB_REDIS_DB"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret" env:"BOOKLIB_JWT_SECRET"`
	Issuer     string `yaml:"issuer" env:"BOOKLIB_JWT_ISSUER"`
	AccessTTL  string `yaml:"access_ttl" env:"BOOKLIB_JWT_ACCESS_TTL"`
	RefreshTTL string `yaml:"refresh_ttl" env:"BOOKLIB_JWT_REFRESH_TTL"`
}

type OTPConfig struct {
	TTL    string `yaml:"ttl" env:"BOOKLIB_OTP_TTL"`
	Length int    `yaml:"length" env:"BOOKLIB_OTP_LENGTH"`
}

type RegistrationConfig struct {
	PendingTTL string `yaml:"pending_ttl" env:"BOOKLIB_PENDING_TTL"`
	LockTTL    string `yaml:"lock_ttl" env:"BOOKLIB_VERIFY_LOCK_TTL"`
	LockWait   string `yaml:"lock_wait" env:"BOOKLIB_VERIFY_LOCK_WAIT"`
	KeyPrefix  string `yaml:"key_prefix" env:"BOOKLIB_PENDING_PREFIX"`
}

type CookieConfig struct {
	Domain string `yaml:"domain" env:"BOOKLIB_COOKIE_DOMAIN"`
	Secure *bool  `yaml:"secure" env:"BOOKLIB_COOKIE_SECURE"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" env:"BOOKLIB_SMTP_HOST"`
	Port     int    `yaml:"port" env:"BOOKLIB_SMTP_PORT"`
	Username string `yaml:"username" env:"BOOKLIB_SMTP_USERNAME"`
	Password string `yaml:"password" env:"BOOKLIB_SMTP_PASSWORD"`
	From     string `yaml:"from" env:"BOOKLIB_SMTP_FROM"`
	Timeout  string `yaml:"timeout" env:"BOOKLIB_SMTP_TIMEOUT"`
}

type StorageConfig struct {
	Bucket        string `yaml:"bucket" env:"BOOKLIB_S3_BUCKET"`
	Region        string `yaml:"region" env:"BOOKLIB_S3_REGION"`
	Endpoint      string `yaml:"endpoint" env:"BOOKLIB_S3_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"BOOKLIB_S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"BOOKLIB_S3_SECRET_KEY"`
	PublicBaseURL string `yaml:"public_base_url" env:"BOOKLIB_S3_PUBLIC_BASE_URL"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path" env:"BOOKLIB_CASBIN_MODEL"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	OTP          OTPConfig          `yaml:"otp"`
	Registration RegistrationConfig `yaml:"registration"`
	Cookies      CookieConfig       `yaml:"cookies"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Storage      StorageConfig      `yaml:"storage"`
	Casbin       CasbinConfig       `yaml:"casbin"`
}

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	OTPTTL    time.Duration
	OTPLength int

	PendingTTL    time.Duration
	PendingPrefix string
	LockTTL       time.Duration
	LockWait      time.Duration

	CookieDomain string
	CookieSecure bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTimeout  time.Duration

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	CasbinModelPath string
}

// Defaults returns a ConfigFile holding the values used when neither the file nor the environment sets them.
func Defaults() ConfigFile {
	secure := true
	return ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release", LogLevel: "info"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		JWT:      JWTConfig{Issuer: "booklib", AccessTTL: "12h", RefreshTTL: "96h"},
		OTP:      OTPConfig{TTL: "90s", Length: 6},
		Registration: RegistrationConfig{
			PendingTTL: "15m",
			LockTTL:    "10s",
			LockWait:   "3s",
			KeyPrefix:  "signup_data_",
		},
		Cookies: CookieConfig{Secure: &secure},
		SMTP:    SMTPConfig{Port: 587, Timeout: "10s"},
		Storage: StorageConfig{Bucket: "images", Region: "us-east-1"},
	}
}

// Load reads the YAML config file, then overlays BOOKLIB_* environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	path := os.Getenv("BOOKLIB_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	file := Defaults()
	if err := loadConfigFile(path, &file); err != nil {
		return nil, err
	}
	if err := env.Parse(&file); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg, err := FromFile(&file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile converts the nested file representation into a flat Config.
func FromFile(f *ConfigFile) (*Config, error) {
	cfg := &Config{
		Port:            fmt.Sprintf("%d", f.App.Port),
		GinMode:         f.App.GinMode,
		LogLevel:        f.App.LogLevel,
		DSN:             f.Database.DSN,
		RedisAddr:       f.Redis.Addr,
		RedisPassword:   f.Redis.Password,
		RedisDB:         f.Redis.DB,
		JWTSecret:       f.JWT.Secret,
		JWTIssuer:       f.JWT.Issuer,
		OTPLength:       f.OTP.Length,
		PendingPrefix:   f.Registration.KeyPrefix,
		CookieDomain:    f.Cookies.Domain,
		CookieSecure:    f.Cookies.Secure == nil || *f.Cookies.Secure,
		SMTPHost:        f.SMTP.Host,
		SMTPPort:        f.SMTP.Port,
		SMTPUsername:    f.SMTP.Username,
		SMTPPassword:    f.SMTP.Password,
		SMTPFrom:        f.SMTP.From,
		S3Bucket:        f.Storage.Bucket,
		S3Region:        f.Storage.Region,
		S3Endpoint:      f.Storage.Endpoint,
		S3AccessKey:     f.Storage.AccessKey,
		S3SecretKey:     f.Storage.SecretKey,
		S3PublicBaseURL: f.Storage.PublicBaseURL,
		CasbinModelPath: f.Casbin.ModelPath,
	}
	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"JWT access TTL", f.JWT.AccessTTL, &cfg.AccessTTL},
		{"JWT refresh TTL", f.JWT.RefreshTTL, &cfg.RefreshTTL},
		{"OTP TTL", f.OTP.TTL, &cfg.OTPTTL},
		{"pending registration TTL", f.Registration.PendingTTL, &cfg.PendingTTL},
		{"verify lock TTL", f.Registration.LockTTL, &cfg.LockTTL},
		{"verify lock wait", f.Registration.LockWait, &cfg.LockWait},
		{"SMTP timeout", f.SMTP.Timeout, &cfg.SMTPTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = v
	}
	return cfg, nil
}

// Validate rejects configurations the session and OTP flows cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("jwt secret must be set")
	case c.AccessTTL <= 0 || c.RefreshTTL <= 0:
		return errors.New("jwt TTLs must be positive")
	case c.AccessTTL > c.RefreshTTL:
		return fmt.Errorf("access TTL %s must not exceed refresh TTL %s", c.AccessTTL, c.RefreshTTL)
	case c.OTPTTL <= 0:
		return errors.New("otp TTL must be positive")
	case c.OTPLength <= 0:
		return errors.New("otp length must be positive")
	case c.PendingTTL <= 0:
		return errors.New("pending registration TTL must be positive")
	case c.PendingPrefix == "":
		return errors.New("pending registration key prefix must be set")
	}
	return nil
}

func loadConfigFile(path string, cfg *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}
