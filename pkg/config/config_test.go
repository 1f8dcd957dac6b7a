package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "menu.sid", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, 10, cfg.DB.MaxConns, "el pool se limita a 10 conexiones por defecto")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.RateLimit.RedisURL)
}

func TestFromViper_ProduccionExigeJWTSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("JWT_SECRET", "s3cr3t")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Session.Secure, "en producción la cookie debe ser Secure")
}

func TestFromViper_SessionTTLInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_TTL", "una semana")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "menu", Password: "p@ss:word", DBName: "menu", SSLMode: "disable"}
	assert.Equal(t, "postgres://menu:p%40ss%3Aword@db:5432/menu?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
