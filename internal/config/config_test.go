package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "DATABASE_URL", "JWT_SECRET", "JWT_ACCESS_TTL",
		"AUTH_COOKIE_NAME", "COOKIE_SECURE", "COOKIE_SAMESITE", "COOKIE_PATH",
		"UPLOADS_DIR", "STATIC_URL_BASE", "MAX_UPLOAD_SIZE", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "hostcal.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, "auth_token", cfg.CookieName)
	assert.Equal(t, http.SameSiteLaxMode, cfg.SameSite())
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.False(t, cfg.IsProd())
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("COOKIE_SAMESITE", "Strict")
	t.Setenv("STATIC_URL_BASE", "/files/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, http.SameSiteStrictMode, cfg.SameSite())
	assert.Equal(t, "/files", cfg.StaticURLBase)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad ttl":           {"JWT_ACCESS_TTL": "soon"},
		"zero ttl":          {"JWT_ACCESS_TTL": "0s"},
		"bad samesite":      {"COOKIE_SAMESITE": "sideways"},
		"none needs secure": {"COOKIE_SAMESITE": "None"},
		"bad upload size":   {"MAX_UPLOAD_SIZE": "-1"},
		"prod default key":  {"APP_ENV": "production", "COOKIE_SECURE": "true"},
		"prod insecure":     {"APP_ENV": "prod", "JWT_SECRET": "real-secret"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Prod(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Release")
	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("COOKIE_SECURE", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.True(t, cfg.CookieSecure)
}
