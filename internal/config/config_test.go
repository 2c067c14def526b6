package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "MONGO_DB", "BCRYPT_COST", "CORS_ORIGINS", "REDIS_ADDR", "MINIO_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "gestion_taches", cfg.MongoDB)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.SessionsEnabled())
	assert.False(t, cfg.IconsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173,")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SessionsEnabled())
	assert.True(t, cfg.IconsEnabled())
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "lots")
	assert.Equal(t, 10, Load().BcryptCost)
}
