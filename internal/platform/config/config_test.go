package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/pm")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []byte("s3cret"), cfg.JWTKey)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExp)
	assert.Equal(t, "auth", cfg.AuthCookieName)
	assert.Equal(t, "token", cfg.TokenQueryParam)
	assert.True(t, cfg.RecheckRole)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTokenTTL)
	assert.Equal(t, "postgres://u:p@db:5432/pm", cfg.DBConnStr)
	assert.Equal(t, 5*time.Second, cfg.PriceFeedTimeout)
	assert.Equal(t, 0.79, cfg.USDToGBPRate)
	assert.Equal(t, 6840.50, cfg.FallbackReferencePrice)
	assert.Len(t, cfg.Materials, 5)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CLIENT_ORIGIN", "https://app.example.com/")
	t.Setenv("RESET_TOKEN_TTL", "30m")
	t.Setenv("PRICE_FEED_TIMEOUT", "3")
	t.Setenv("AUTH_RECHECK_ROLE", "false")
	t.Setenv("PRICING_MATERIALS", `[{"label":"Heavy Copper","recoveryRate":0.9,"processingDeduction":0.1}]`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://app.example.com", cfg.ClientOrigin)
	assert.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 3*time.Second, cfg.PriceFeedTimeout)
	assert.False(t, cfg.RecheckRole)
	require.Len(t, cfg.Materials, 1)
	assert.Equal(t, "heavy-copper", cfg.Materials[0].Key)
}

func TestLoad_InvalidMaterials(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PRICING_MATERIALS", `not json`)

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseURL_FromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_NAME", "metals")

	dsn := DatabaseURL()
	assert.Contains(t, dsn, "host=pg")
	assert.Contains(t, dsn, "dbname=metals")
}

func TestLoadDotEnv_FillsUnsetVariables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ADMIN_EMAIL=dotenv@x.com\nADMIN_PASSWORD=from-dotenv\n"), 0o600))
	t.Chdir(dir)

	t.Setenv("ADMIN_EMAIL", "")
	require.NoError(t, os.Unsetenv("ADMIN_EMAIL"))
	t.Setenv("ADMIN_PASSWORD", "from-env")

	LoadDotEnv()
	assert.Equal(t, "dotenv@x.com", os.Getenv("ADMIN_EMAIL"))
	assert.Equal(t, "from-env", os.Getenv("ADMIN_PASSWORD"))
}
