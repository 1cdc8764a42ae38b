// Package config provides configuration for in-process end-to-end tests.
package config

import (
	"time"

	"github.com/you/booklib/internal/config"
)

// TestJWTSecret signs every token minted in tests
const TestJWTSecret = "test-jwt-secret-for-e2e"

// LoadTestConfig returns the production defaults with a fixed secret and insecure cookies,
// since httptest servers speak plain HTTP.
func LoadTestConfig() *config.Config {
	file := config.Defaults()
	file.JWT.Secret = TestJWTSecret
	file.JWT.Issuer = "booklib-test"
	insecure := false
	file.Cookies.Secure = &insecure

	cfg, err := config.FromFile(&file)
	if err != nil {
		panic(err)
	}
	cfg.GinMode = "test"
	cfg.LockWait = 500 * time.Millisecond
	return cfg
}
