// Package config содержит логику чтения конфигурации сервиса.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress   = "localhost:5000"
	defaultCORSOrigin   = "http://localhost:5173"
	defaultSameSite     = "lax"
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// ErrEmptySecret возвращается, если не задан ключ подписи сессионных токенов.
var ErrEmptySecret = errors.New("jwt secret is empty")

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	DatabaseURI    string        `env:"DATABASE_URI"`
	JWTSecret      string        `env:"JWT_SECRET"`
	CookieSecure   bool          `env:"COOKIE_SECURE"`
	CookieSameSite string        `env:"COOKIE_SAME_SITE"`
	CORSOrigin     string        `env:"CORS_ORIGIN"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// Файл .env необязателен; уже выставленные переменные он не перезаписывает.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTSecret, "s", "", "secret for signing session tokens")
	flag.StringVar(&cfg.CORSOrigin, "o", defaultCORSOrigin, "allowed front-end origin")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.JWTSecret != "" {
		cfg.JWTSecret = envCfg.JWTSecret
	}
	if envCfg.CORSOrigin != "" {
		cfg.CORSOrigin = envCfg.CORSOrigin
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = defaultCORSOrigin
	}
	if cfg.CookieSameSite == "" {
		cfg.CookieSameSite = defaultSameSite
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	if cfg.JWTSecret == "" {
		return nil, ErrEmptySecret
	}
	if _, err := ParseSameSite(cfg.CookieSameSite); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SameSite возвращает политику SameSite для сессионного cookie.
func (c *Config) SameSite() http.SameSite {
	mode, err := ParseSameSite(c.CookieSameSite)
	if err != nil {
		return http.SameSiteLaxMode
	}
	return mode
}

// ParseSameSite преобразует строковое значение политики SameSite.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown cookie same-site mode %q", s)
	}
}
