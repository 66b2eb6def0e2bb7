package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects the backing store for tab-scoped session state.
type StorageBackend string

const (
	// StorageBackendMemory keeps all session state in process memory.
	// Suitable for development and single-instance deployments only.
	StorageBackendMemory StorageBackend = "memory"
	// StorageBackendRedis keeps session state in Redis so that it
	// survives restarts and is shared across instances.
	StorageBackendRedis StorageBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (s *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*s = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: memory, redis)", v)
	}
}

// SessionConfig groups session protocol configuration.
type SessionConfig struct {
	// StorageBackend selects where tab-scoped session state lives.
	StorageBackend StorageBackend `env:"SESSION_STORAGE_BACKEND" envDefault:"memory"`

	// NavigationWindow is how long an approved navigation remains
	// consumable before it expires.
	NavigationWindow time.Duration `env:"SESSION_NAVIGATION_WINDOW" envDefault:"5s"`

	// LoginPath is the path unauthenticated clients are redirected to.
	LoginPath string `env:"SESSION_LOGIN_PATH" envDefault:"/login"`

	// TabTTL bounds the lifetime of idle tab namespaces in Redis.
	// Zero means tab state never expires. Ignored by the memory backend.
	TabTTL time.Duration `env:"SESSION_TAB_TTL" envDefault:"12h"`

	// KeyPrefix namespaces all session keys in Redis.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"tabsession:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.StorageBackend == "" {
		c.StorageBackend = StorageBackendMemory
	}
	if c.NavigationWindow <= 0 {
		c.NavigationWindow = 5 * time.Second
	}
	c.LoginPath = strings.TrimSpace(c.LoginPath)
	if c.LoginPath == "" || !strings.HasPrefix(c.LoginPath, "/") {
		c.LoginPath = "/login"
	}
	if c.TabTTL < 0 {
		c.TabTTL = 0
	}
	c.KeyPrefix = strings.TrimSpace(c.KeyPrefix)
}
